package repository

import (
	"context"
	"strings"

	"gopg_back_end/internal/database"
	"gopg_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ScyllaCouponRepository struct{}

func NewScyllaCouponRepository() *ScyllaCouponRepository {
	return &ScyllaCouponRepository{}
}

func (r *ScyllaCouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var coupon models.Coupon
	err = session.Query(
		`SELECT coupon_id, code, amount, min_amount, starts_at, expires_at, is_active, created_at
		 FROM coupons WHERE code = ?`, strings.ToUpper(code),
	).WithContext(ctx).Scan(
		&coupon.ID, &coupon.Code, &coupon.Amount, &coupon.MinAmount,
		&coupon.StartsAt, &coupon.ExpiresAt, &coupon.IsActive, &coupon.CreatedAt,
	)
	if err == gocql.ErrNotFound {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
