package order

import (
	"log"
	"net/http"
	"strings"
	"time"

	"gopg_back_end/internal/models"
	"gopg_back_end/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

type checkoutRequest struct {
	Method     string            `json:"method"`
	Address    string            `json:"address"`
	Cart       []models.CartItem `json:"cart"`
	CouponCode string            `json:"coupon_code"`
}

// Checkout turns the client-held cart into a persisted order in status
// pending. Not idempotent: resubmitting the same cart creates a second,
// distinct order.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. Please log in."})
		return
	}

	if !models.IsValidMethod(req.Method) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Checkout method must be pickup or delivery"})
		return
	}
	if len(req.Cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cart is empty"})
		return
	}
	if req.Method == models.MethodDelivery && strings.TrimSpace(req.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Delivery address required for delivery method"})
		return
	}
	for _, item := range req.Cart {
		if item.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Item quantity must be at least 1"})
			return
		}
		if item.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Item product id is required"})
			return
		}
	}

	now := time.Now()
	ctx := c.Request.Context()

	order := models.Order{
		ID:        gocql.TimeUUID(),
		UserID:    userID,
		Method:    req.Method,
		Status:    models.OrderStatusPending,
		CreatedAt: now,
	}
	if req.Method == models.MethodDelivery {
		order.Address = req.Address
	}

	// Line items keep the client's price snapshots; catalog prices are
	// deliberately not re-read here.
	order.Items = make([]models.OrderItem, 0, len(req.Cart))
	for _, item := range req.Cart {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
			SKU:       item.SKU,
		})
	}

	if req.CouponCode != "" {
		coupon, err := h.coupons.FindByCode(ctx, req.CouponCode)
		if err == repository.ErrCouponNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid coupon code"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not validate coupon"})
			return
		}

		cart := models.Cart{Items: req.Cart}
		validation := coupon.Validate(cart.Total(), now)
		if !validation.IsValid {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validation.ErrorMessage})
			return
		}
		order.Coupon = models.OrderCoupon{Code: validation.Code, Discount: validation.Discount}
		log.Printf("✅ Coupon applied: %s ($%.2f off)", validation.Code, validation.Discount)
	}

	order.CalculateTotals()

	// Daily sequence: count today's orders, add one. Not a concurrency-safe
	// allocator; two simultaneous checkouts can race to the same number.
	todayCount, err := h.orders.CountCreatedSince(ctx, models.StartOfDay(now))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not allocate order number"})
		return
	}
	order.OrderNumber = models.NewOrderNumber(now, todayCount)

	if err := h.orders.Create(ctx, &order); err != nil {
		log.Printf("❌ Order creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create order"})
		return
	}

	log.Printf("🛒 Order %s created for user %s ($%.2f, %d items)",
		order.OrderNumber, userID, order.TotalPrice, order.TotalItems())

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Order sent for admin approval.",
		"orderId":      order.ID.String(),
		"order_number": order.OrderNumber,
	})
}
