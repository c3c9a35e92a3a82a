package product

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gopg_back_end/internal/database"
	"gopg_back_end/internal/models"
	"gopg_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

const productColumns = `product_id, name, description, price, stock, category, brand, sku, image_urls, tags, rating, num_reviews, is_active, featured, created_at, updated_at`

const catalogCacheKey = "catalog:products"
const catalogCacheTTL = 10 * time.Minute

func scanProducts(iter *gocql.Iter) ([]models.Product, error) {
	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Brand, &p.SKU,
		&p.ImageURLs, &p.Tags, &p.Rating, &p.NumReviews, &p.IsActive, &p.Featured, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

// loadCatalog returns every product row, Redis-cached. Filtering and
// sorting happen in memory: the whole catalog fits comfortably and
// Scylla has no secondary indexes on these columns. A var so tests can
// swap in fixture data.
var loadCatalog = func(ctx context.Context) ([]models.Product, error) {
	if val, err := database.Redis.Get(ctx, catalogCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()
	products, err := scanProducts(iter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, catalogCacheKey, data, catalogCacheTTL)
	}
	return products, nil
}

func invalidateCatalogCache(ctx context.Context) {
	database.Redis.Del(ctx, catalogCacheKey)
}

func parseCatalogQuery(c *gin.Context) (models.CatalogQuery, bool) {
	q := models.CatalogQuery{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}

	if v := c.Query("minPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, false
		}
		q.MinPrice = &f
	}
	if v := c.Query("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, false
		}
		q.MaxPrice = &f
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, false
		}
		q.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, false
		}
		q.Limit = n
	}
	if q.Sort != "" && !models.IsValidSortKey(q.Sort) {
		return q, false
	}
	if q.Category != "" && !models.IsValidCategory(q.Category) {
		return q, false
	}

	q.Normalize()
	return q, true
}

//
// 🛍️ GET /api/products — filter, sort, paginate
//
func GetProducts(c *gin.Context) {
	query, ok := parseCatalogQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid catalog query"})
		return
	}

	ctx := c.Request.Context()
	catalog, err := loadCatalog(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not load products"})
		return
	}

	var matched []models.Product
	for _, p := range catalog {
		if query.Matches(p) {
			matched = append(matched, p)
		}
	}

	models.SortProducts(matched, query.Sort)
	page, pagination := models.Paginate(matched, query.Page, query.Limit)

	for i := range page {
		page[i].ImageURLs = services.SignImageURLs(ctx, page[i].ImageURLs)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(page),
		"total":      len(matched),
		"pagination": pagination,
		"data":       page,
	})
}

//
// ⭐ GET /api/products/featured
//
func GetFeaturedProducts(c *gin.Context) {
	limit := 8
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > models.MaxPageLimit {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid limit"})
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	catalog, err := loadCatalog(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not load products"})
		return
	}

	var featured []models.Product
	for _, p := range catalog {
		if p.IsActive && p.Featured {
			featured = append(featured, p)
		}
	}
	models.SortProducts(featured, "-rating")
	if len(featured) > limit {
		featured = featured[:limit]
	}

	for i := range featured {
		featured[i].ImageURLs = services.SignImageURLs(ctx, featured[i].ImageURLs)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": featured})
}

//
// 🔍 GET /api/products/:id
//
func GetProduct(c *gin.Context) {
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

	var p models.Product
	if err := session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Brand, &p.SKU,
			&p.ImageURLs, &p.Tags, &p.Rating, &p.NumReviews, &p.IsActive, &p.Featured, &p.CreatedAt, &p.UpdatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}
	if !p.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	p.ImageURLs = services.SignImageURLs(c.Request.Context(), p.ImageURLs)

	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

//
// 🔎 GET /api/products/search?q= — Elasticsearch first, Scylla fallback
//
func SearchProducts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing search query"})
		return
	}

	ctx := c.Request.Context()

	results, err := services.SearchProducts(q)
	if err == nil && len(results) > 0 {
		for i := range results {
			if urls, ok := results[i]["image_urls"].([]interface{}); ok {
				raw := make([]string, 0, len(urls))
				for _, u := range urls {
					if s, ok := u.(string); ok && s != "" {
						raw = append(raw, s)
					}
				}
				results[i]["image_urls"] = services.SignImageURLs(ctx, raw)
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": results})
		return
	}

	// ES down or empty: in-memory scan over the cached catalog.
	catalog, err := loadCatalog(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not load products"})
		return
	}

	query := models.CatalogQuery{Search: q}
	var matched []models.Product
	for _, p := range catalog {
		if query.Matches(p) {
			matched = append(matched, p)
		}
	}

	for i := range matched {
		matched[i].ImageURLs = services.SignImageURLs(ctx, matched[i].ImageURLs)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": matched})
}
