package order

import (
	"log"
	"net/http"
	"time"

	"gopg_back_end/internal/models"
	"gopg_back_end/internal/repository"
	"gopg_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// GetMyOrders lists the orders of the acting identity, newest first.
func (h *Handler) GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. Please log in."})
		return
	}

	orders, err := h.orders.FindByUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Could not read orders for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not read orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// findOwnOrder loads an order and enforces ownership. A foreign order reads
// as not found, so existence is never leaked to other users.
func (h *Handler) findOwnOrder(c *gin.Context) *models.Order {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. Please log in."})
		return nil
	}

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

	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return nil
	}
	return order
}

// GetMyOrder returns a single order owned by the acting identity.
func (h *Handler) GetMyOrder(c *gin.Context) {
	order := h.findOwnOrder(c)
	if order == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// CancelMyOrder lets the owner cancel their own order while it is still
// pending. Anything past pending needs an admin.
func (h *Handler) CancelMyOrder(c *gin.Context) {
	order := h.findOwnOrder(c)
	if order == nil {
		return
	}

	if order.Status != models.OrderStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Only pending orders can be cancelled"})
		return
	}

	now := time.Now()
	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = &now

	if err := h.orders.Update(c.Request.Context(), order); err != nil {
		log.Printf("❌ Cancel failed for %s: %v", order.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not cancel order"})
		return
	}

	log.Printf("🚫 Order %s cancelled by its owner", order.OrderNumber)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled", "order": order})
}

// DownloadInvoice renders the order invoice as a PDF.
func (h *Handler) DownloadInvoice(c *gin.Context) {
	order := h.findOwnOrder(c)
	if order == nil {
		return
	}

	email := c.GetString("email")
	pdf, err := utils.RenderInvoicePDF(*order, email)
	if err != nil {
		log.Printf("❌ Invoice rendering failed for %s: %v", order.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not render invoice"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice_`+order.OrderNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// PickupQR returns a PNG QR code of the order number for confirmed pickup
// orders; the pickup desk scans it.
func (h *Handler) PickupQR(c *gin.Context) {
	order := h.findOwnOrder(c)
	if order == nil {
		return
	}

	if order.Method != models.MethodPickup {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "QR codes are only issued for pickup orders"})
		return
	}
	if order.Status != models.OrderStatusConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Order is not confirmed yet"})
		return
	}

	png, err := utils.PickupQRCode(order.OrderNumber, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
