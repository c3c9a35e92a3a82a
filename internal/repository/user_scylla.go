package repository

import (
	"context"
	"errors"

	"gopg_back_end/internal/database"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// UserDirectory resolves identities for notifications.
type UserDirectory interface {
	EmailOf(ctx context.Context, userID string) (string, error)
}

type ScyllaUserDirectory struct{}

func NewScyllaUserDirectory() *ScyllaUserDirectory {
	return &ScyllaUserDirectory{}
}

func (d *ScyllaUserDirectory) EmailOf(ctx context.Context, userID string) (string, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return "", err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return "", ErrUserNotFound
	}

	var email string
	err = session.Query(`SELECT email FROM users WHERE user_id = ?`, gocql.UUID(uid)).
		WithContext(ctx).Scan(&email)
	if err == gocql.ErrNotFound {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return email, nil
}
