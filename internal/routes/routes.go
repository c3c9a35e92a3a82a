package routes

import (
	"net/http"

	"gopg_back_end/internal/handlers"
	"gopg_back_end/internal/handlers/order"
	"gopg_back_end/internal/handlers/product"
	"gopg_back_end/internal/handlers/user"
	"gopg_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the public storefront, the authenticated customer
// surface and the admin surface. Everything lives under /api.
func RegisterRoutes(r *gin.Engine, orders *order.Handler, carts *user.CartHandler) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 🔐 Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.GET("/me", middleware.AuthRequired(), user.Me)
		auth.GET("/:provider", user.BeginAuth)
		auth.GET("/:provider/callback", user.CallbackAuth)
	}

	// 🛍️ Catalog (public reads, admin writes)
	products := api.Group("/products")
	{
		products.GET("", product.GetProducts)
		products.GET("/featured", product.GetFeaturedProducts)
		products.GET("/search", product.SearchProducts)
		products.GET("/:id", product.GetProduct)
		products.GET("/:id/reviews", product.GetReviews)
		products.POST("/:id/reviews", middleware.AuthRequired(), product.AddReview)

		products.POST("", middleware.AuthRequired(), middleware.RequireAdmin, product.CreateProduct)
		products.PUT("/:id", middleware.AuthRequired(), middleware.RequireAdmin, product.UpdateProduct)
		products.DELETE("/:id", middleware.AuthRequired(), middleware.RequireAdmin, product.DeleteProduct)
	}

	api.GET("/shipping/options", handlers.GetShippingOptions)

	// 🛒 Cart (server-side mirror)
	cart := api.Group("/cart", middleware.AuthRequired())
	{
		cart.GET("", carts.GetCart)
		cart.POST("/add", carts.AddToCart)
		cart.PUT("/:productId", carts.UpdateQuantity)
		cart.DELETE("/:productId", carts.RemoveFromCart)
		cart.DELETE("", carts.ClearCart)
	}

	// 📦 Customer orders
	api.POST("/checkout", middleware.AuthRequired(), orders.Checkout)
	mine := api.Group("/my-orders", middleware.AuthRequired())
	{
		mine.GET("", orders.GetMyOrders)
		mine.GET("/:id", orders.GetMyOrder)
		mine.POST("/:id/cancel", orders.CancelMyOrder)
		mine.GET("/:id/invoice", orders.DownloadInvoice)
		mine.GET("/:id/qrcode", orders.PickupQR)
	}

	// 🛡️ Admin order workflow
	api.PUT("/orders/:id/status", middleware.AuthRequired(), middleware.RequireAdmin, orders.UpdateOrderStatus)
	admin := api.Group("/admin/orders", middleware.AuthRequired(), middleware.RequireAdmin)
	{
		admin.GET("", orders.GetAllOrders)
		admin.GET("/stats", orders.GetOrderStats)
		admin.POST("/:id/confirm", orders.ConfirmOrder)
		admin.POST("/:id/reject", orders.RejectOrder)
		admin.POST("/:id/refund", orders.RefundOrder)
	}
}
