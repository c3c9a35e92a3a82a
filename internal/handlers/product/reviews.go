package product

import (
	"log"
	"net/http"
	"sort"
	"time"

	"gopg_back_end/internal/database"
	"gopg_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

func loadReviews(session *gocql.Session, productID gocql.UUID) ([]models.Review, error) {
	iter := session.Query(
		`SELECT review_id, product_id, user_id, user_name, rating, comment, created_at FROM reviews WHERE product_id = ?`,
		productID,
	).Iter()

	var reviews []models.Review
	var r models.Review
	for iter.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt) {
		reviews = append(reviews, r)
		r = models.Review{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

//
// 💬 GET /api/products/:id/reviews
//
func GetReviews(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	reviews, err := loadReviews(session, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not load reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews, "count": len(reviews)})
}

//
// ✍️ POST /api/products/:id/reviews
//
func AddReview(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. Please log in."})
		return
	}

	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	var input struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Rating < 1 || input.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Rating must be between 1 and 5"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var productName string
	if err := session.Query(`SELECT name FROM products WHERE product_id = ?`, productID).Scan(&productName); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	existing, err := loadReviews(session, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not load reviews"})
		return
	}
	for _, r := range existing {
		if r.UserID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You have already reviewed this product"})
			return
		}
	}

	review := models.Review{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		UserID:    userID,
		UserName:  c.GetString("email"),
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}

	if err := session.Query(
		`INSERT INTO reviews (review_id, product_id, user_id, user_name, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ID, review.ProductID, review.UserID, review.UserName, review.Rating, review.Comment, review.CreatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Review insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not save review"})
		return
	}

	// Recompute the denormalized rating. Races here only skew the
	// aggregate until the next review lands.
	reviews, err := loadReviews(session, productID)
	if err == nil {
		if err := session.Query(
			`UPDATE products SET rating = ?, num_reviews = ? WHERE product_id = ?`,
			models.AverageRating(reviews), len(reviews), productID,
		).Exec(); err != nil {
			log.Printf("⚠️ Rating update failed for %s: %v", productID, err)
		}
		invalidateCatalogCache(c.Request.Context())
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}
