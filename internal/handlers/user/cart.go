package user

import (
	"net/http"

	"gopg_back_end/internal/database"
	"gopg_back_end/internal/models"
	"gopg_back_end/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// CartHandler mirrors the client-held cart server-side behind a pluggable
// store. The client remains authoritative: checkout takes the cart from the
// request body, not from here.
type CartHandler struct {
	store repository.CartStore
}

func NewCartHandler(store repository.CartStore) *CartHandler {
	return &CartHandler{store: store}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. Please log in."})
		return
	}

	cart, err := h.store.Load(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not read cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": cart.Items, "total": cart.Total()})
}

//
// 🟢 POST /api/cart/add
//
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. Please log in."})
		return
	}

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid quantity"})
		return
	}

	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	// Snapshot name/price/image at add-time; these are intentionally never
	// refreshed from the catalog afterward.
	var (
		name, sku string
		price     float64
		imageURLs []string
	)
	if err := session.Query(
		`SELECT name, price, sku, image_urls FROM products WHERE product_id = ?`,
		gocql.UUID(productID),
	).Scan(&name, &price, &sku, &imageURLs); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	image := ""
	if len(imageURLs) > 0 {
		image = imageURLs[0]
	}

	ctx := c.Request.Context()
	cart, err := h.store.Load(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not read cart"})
		return
	}

	cart.Add(models.CartItem{
		ProductID: input.ProductID,
		Name:      name,
		Price:     price,
		Quantity:  input.Quantity,
		Image:     image,
		SKU:       sku,
	})

	if err := h.store.Save(ctx, userID, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product added to cart", "items": cart.Items})
}

//
// 🔁 PUT /api/cart/:productId — apply a quantity delta
//
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. Please log in."})
		return
	}

	var input struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	cart, err := h.store.Load(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not read cart"})
		return
	}

	// A delta that drops the line to zero or below removes it entirely.
	cart.SetQuantity(c.Param("productId"), input.Delta)

	if err := h.store.Save(ctx, userID, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": cart.Items})
}

//
// ❌ DELETE /api/cart/:productId
//
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. Please log in."})
		return
	}

	ctx := c.Request.Context()
	cart, err := h.store.Load(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not read cart"})
		return
	}

	cart.Remove(c.Param("productId"))

	if err := h.store.Save(ctx, userID, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product removed from cart", "items": cart.Items})
}

//
// 🧹 DELETE /api/cart
//
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. Please log in."})
		return
	}

	if err := h.store.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
}
