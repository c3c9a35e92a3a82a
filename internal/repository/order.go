package repository

import (
	"context"
	"errors"
	"time"

	"gopg_back_end/internal/models"

	"github.com/gocql/gocql"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository is the persistence port for the order lifecycle. Handlers
// receive it injected; nothing in the lifecycle touches a process-wide store.
type OrderRepository interface {
	// Create persists a new order. The order's ID, number, totals and
	// status are already set by the caller.
	Create(ctx context.Context, order *models.Order) error
	// FindByID returns ErrOrderNotFound for an unknown id.
	FindByID(ctx context.Context, id gocql.UUID) (*models.Order, error)
	// FindByUser returns the user's orders newest-first.
	FindByUser(ctx context.Context, userID string) ([]models.Order, error)
	// FindAll returns every order newest-first.
	FindAll(ctx context.Context) ([]models.Order, error)
	// Update rewrites the mutable fields of an existing order.
	Update(ctx context.Context, order *models.Order) error
	// CountCreatedSince counts orders created at or after the given
	// instant (local midnight for the daily order-number sequence).
	// Plain count, no fencing: concurrent checkouts can observe the same
	// count. Accepted limitation of the numbering scheme.
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// CouponRepository resolves coupon codes at checkout.
type CouponRepository interface {
	// FindByCode returns ErrCouponNotFound for an unknown code.
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

var ErrCouponNotFound = errors.New("coupon not found")
