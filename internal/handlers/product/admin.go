package product

import (
	"log"
	"net/http"
	"time"

	"gopg_back_end/internal/database"
	"gopg_back_end/internal/models"
	"gopg_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

//
// ➕ POST /api/products (admin)
//
func CreateProduct(c *gin.Context) {
	var input struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Price       float64  `json:"price" binding:"required"`
		Stock       int      `json:"stock"`
		Category    string   `json:"category" binding:"required"`
		Brand       string   `json:"brand"`
		SKU         string   `json:"sku"`
		ImageURLs   []string `json:"image_urls"`
		Tags        []string `json:"tags"`
		Featured    bool     `json:"featured"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name, price and category are required"})
		return
	}
	if input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price must be positive"})
		return
	}
	if !models.IsValidCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown category"})
		return
	}
	if input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Stock cannot be negative"})
		return
	}

	if input.SKU != "" {
		catalog, err := loadCatalog(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not load products"})
			return
		}
		for _, existing := range catalog {
			if existing.SKU == input.SKU {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "SKU already exists"})
				return
			}
		}
	}

	p := models.Product{
		ID:          gocql.TimeUUID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
		Brand:       input.Brand,
		SKU:         input.SKU,
		ImageURLs:   input.ImageURLs,
		Tags:        input.Tags,
		IsActive:    true,
		Featured:    input.Featured,
		CreatedAt:   time.Now(),
	}
	now := p.CreatedAt
	p.UpdatedAt = &now

	if len(p.ImageURLs) == 0 {
		p.ImageURLs = []string{services.DefaultProductObjectURL(p.Name)}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	if err := session.Query(
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.Brand, p.SKU,
		p.ImageURLs, p.Tags, p.Rating, p.NumReviews, p.IsActive, p.Featured, p.CreatedAt, p.UpdatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Product insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create product"})
		return
	}

	go services.IndexProduct(p)
	invalidateCatalogCache(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{"success": true, "product": p})
}

//
// ✏️ PUT /api/products/:id (admin)
//
func UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	var input struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		Stock       *int      `json:"stock"`
		Category    *string   `json:"category"`
		Brand       *string   `json:"brand"`
		SKU         *string   `json:"sku"`
		ImageURLs   *[]string `json:"image_urls"`
		Tags        *[]string `json:"tags"`
		Featured    *bool     `json:"featured"`
		IsActive    *bool     `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var p models.Product
	if err := session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Brand, &p.SKU,
			&p.ImageURLs, &p.Tags, &p.Rating, &p.NumReviews, &p.IsActive, &p.Featured, &p.CreatedAt, &p.UpdatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price must be positive"})
			return
		}
		p.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Stock cannot be negative"})
			return
		}
		p.Stock = *input.Stock
	}
	if input.Category != nil {
		if !models.IsValidCategory(*input.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown category"})
			return
		}
		p.Category = *input.Category
	}
	if input.Brand != nil {
		p.Brand = *input.Brand
	}
	if input.SKU != nil {
		p.SKU = *input.SKU
	}
	if input.ImageURLs != nil {
		p.ImageURLs = *input.ImageURLs
	}
	if input.Tags != nil {
		p.Tags = *input.Tags
	}
	if input.Featured != nil {
		p.Featured = *input.Featured
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	now := time.Now()
	p.UpdatedAt = &now

	if err := session.Query(
		`UPDATE products SET name = ?, description = ?, price = ?, stock = ?, category = ?, brand = ?, sku = ?,
		 image_urls = ?, tags = ?, is_active = ?, featured = ?, updated_at = ? WHERE product_id = ?`,
		p.Name, p.Description, p.Price, p.Stock, p.Category, p.Brand, p.SKU,
		p.ImageURLs, p.Tags, p.IsActive, p.Featured, p.UpdatedAt, p.ID,
	).Exec(); err != nil {
		log.Printf("❌ Product update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update product"})
		return
	}

	if p.IsActive {
		go services.IndexProduct(p)
	} else {
		go services.RemoveProductFromIndex(p.ID.String())
	}
	invalidateCatalogCache(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

//
// 🗑️ DELETE /api/products/:id (admin) — soft delete, orders keep their
// item snapshots so history stays intact
//
func DeleteProduct(c *gin.Context) {
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

	var name string
	if err := session.Query(`SELECT name FROM products WHERE product_id = ?`, productID).Scan(&name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	now := time.Now()
	if err := session.Query(
		`UPDATE products SET is_active = ?, updated_at = ? WHERE product_id = ?`,
		false, now, productID,
	).Exec(); err != nil {
		log.Printf("❌ Product delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not delete product"})
		return
	}

	go services.RemoveProductFromIndex(productID.String())
	invalidateCatalogCache(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}
