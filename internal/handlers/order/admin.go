package order

import (
	"context"
	"log"
	"net/http"
	"time"

	"gopg_back_end/internal/models"
	"gopg_back_end/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// GetAllOrders returns every order, newest first. Admin only.
func (h *Handler) GetAllOrders(c *gin.Context) {
	orders, err := h.orders.FindAll(c.Request.Context())
	if err != nil {
		log.Printf("❌ Could not read orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not read orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "count": len(orders)})
}

func (h *Handler) findOrder(c *gin.Context) *models.Order {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
		return nil
	}

	order, err := h.orders.FindByID(c.Request.Context(), gocql.UUID(id))
	if err == repository.ErrOrderNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return nil
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not read order"})
		return nil
	}
	return order
}

// notifyOwner sends the status e-mail off the request path.
func (h *Handler) notifyOwner(order models.Order, status string) {
	go func() {
		email, err := h.users.EmailOf(context.Background(), order.UserID)
		if err != nil || email == "" {
			return
		}
		h.notify(order, email, status)
	}()
}

// review applies a confirm or reject to a pending order, attaching the
// operator's message.
func (h *Handler) review(c *gin.Context, target, doneMessage string) {
	order := h.findOrder(c)
	if order == nil {
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	// The message is optional; an empty body is fine.
	_ = c.ShouldBindJSON(&req)

	if !models.CanTransition(order.Status, target) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Order is " + order.Status + ", it can no longer be " + target,
		})
		return
	}

	now := time.Now()
	order.Status = target
	order.AdminMessage = req.Message
	order.UpdatedAt = &now

	if err := h.orders.Update(c.Request.Context(), order); err != nil {
		log.Printf("❌ Could not update order %s: %v", order.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update order"})
		return
	}

	log.Printf("✅ Order %s %s by admin %s", order.OrderNumber, target, c.GetString("user_id"))
	h.notifyOwner(*order, target)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": doneMessage, "order": order})
}

// ConfirmOrder approves a pending order. Admin only.
func (h *Handler) ConfirmOrder(c *gin.Context) {
	h.review(c, models.OrderStatusConfirmed, "Order confirmed")
}

// RejectOrder declines a pending order. Admin only.
func (h *Handler) RejectOrder(c *gin.Context) {
	h.review(c, models.OrderStatusRejected, "Order rejected")
}

type statusUpdateRequest struct {
	Status            string     `json:"status" binding:"required"`
	TrackingNumber    string     `json:"tracking_number"`
	Carrier           string     `json:"carrier"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
}

// UpdateOrderStatus moves an order through the fuller lifecycle
// (processing, shipped, delivered, cancelled). Admin only. Shipping
// requires a tracking number and carrier.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":        false,
			"message":        "Invalid status",
			"valid_statuses": models.ValidStatuses(),
		})
		return
	}
	if req.Status == models.OrderStatusRefunded {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Use the refund endpoint to refund an order"})
		return
	}

	order := h.findOrder(c)
	if order == nil {
		return
	}

	if !models.CanTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Cannot move order from " + order.Status + " to " + req.Status,
		})
		return
	}

	now := time.Now()
	switch req.Status {
	case models.OrderStatusShipped:
		if req.TrackingNumber == "" || req.Carrier == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Tracking number and carrier are required to ship"})
			return
		}
		order.TrackingNumber = req.TrackingNumber
		order.Carrier = req.Carrier
		order.ShippedAt = &now
		order.EstimatedDelivery = req.EstimatedDelivery
	case models.OrderStatusDelivered:
		order.DeliveredAt = &now
	}

	order.Status = req.Status
	order.UpdatedAt = &now

	if err := h.orders.Update(c.Request.Context(), order); err != nil {
		log.Printf("❌ Could not update order %s: %v", order.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update order"})
		return
	}

	log.Printf("📦 Order %s moved to %s", order.OrderNumber, req.Status)
	h.notifyOwner(*order, req.Status)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order updated", "order": order})
}

// RefundOrder marks a settled order refunded, recording amount, reason and
// the admin who processed it. Admin only.
func (h *Handler) RefundOrder(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount" binding:"required"`
		Reason string  `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Refund amount and reason are required"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Refund amount must be positive"})
		return
	}

	order := h.findOrder(c)
	if order == nil {
		return
	}

	if !models.CanTransition(order.Status, models.OrderStatusRefunded) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Order is " + order.Status + ", it cannot be refunded",
		})
		return
	}

	now := time.Now()
	order.Status = models.OrderStatusRefunded
	order.RefundAmount = &req.Amount
	order.RefundReason = req.Reason
	order.RefundedBy = c.GetString("user_id")
	order.RefundedAt = &now
	order.UpdatedAt = &now

	if err := h.orders.Update(c.Request.Context(), order); err != nil {
		log.Printf("❌ Could not refund order %s: %v", order.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not refund order"})
		return
	}

	log.Printf("💰 Order %s refunded ($%.2f) by admin %s", order.OrderNumber, req.Amount, order.RefundedBy)
	h.notifyOwner(*order, models.OrderStatusRefunded)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order refunded", "order": order})
}

// GetOrderStats returns order counts per status and total revenue. Admin only.
func (h *Handler) GetOrderStats(c *gin.Context) {
	orders, err := h.orders.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not read orders"})
		return
	}

	byStatus := make(map[string]int)
	var revenue float64
	for _, o := range orders {
		byStatus[o.Status]++
		if o.Status != models.OrderStatusCancelled && o.Status != models.OrderStatusRejected &&
			o.Status != models.OrderStatusRefunded {
			revenue += o.TotalPrice
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"total_orders":  len(orders),
		"total_revenue": revenue,
		"by_status":     byStatus,
	})
}
