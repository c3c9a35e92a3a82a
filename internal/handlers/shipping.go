package handlers

import (
	"net/http"
	"strconv"

	"gopg_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

//
// 🚚 GET /api/shipping/options?cartTotal=
//
func GetShippingOptions(c *gin.Context) {
	cartTotal := 0.0
	if v := c.Query("cartTotal"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid cart total"})
			return
		}
		cartTotal = f
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "shipping": models.QuoteShipping(cartTotal)})
}
