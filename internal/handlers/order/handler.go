package order

import (
	"log"

	"gopg_back_end/internal/models"
	"gopg_back_end/internal/repository"
	"gopg_back_end/internal/utils"
)

// Handler carries the injected persistence ports for the order lifecycle.
// No handler in this package touches a process-wide store directly.
type Handler struct {
	orders  repository.OrderRepository
	coupons repository.CouponRepository
	users   repository.UserDirectory

	// notify is swapped out in tests.
	notify func(order models.Order, email, status string)
}

func NewHandler(orders repository.OrderRepository, coupons repository.CouponRepository, users repository.UserDirectory) *Handler {
	return &Handler{
		orders:  orders,
		coupons: coupons,
		users:   users,
		notify: func(order models.Order, email, status string) {
			if err := utils.SendOrderStatusEmail(order, email, status); err != nil {
				log.Printf("⚠️ Status e-mail failed for %s: %v", order.OrderNumber, err)
			}
		},
	}
}
