package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Product categories recognized by the storefront.
var ProductCategories = []string{"phones", "tablets", "accessories", "laptops", "smartwatches", "other"}

func IsValidCategory(c string) bool {
	for _, cat := range ProductCategories {
		if cat == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Stock       int        `json:"stock" db:"stock"`
	Category    string     `json:"category" db:"category"`
	Brand       string     `json:"brand" db:"brand"`
	SKU         string     `json:"sku" db:"sku"`
	ImageURLs   []string   `json:"image_urls" db:"image_urls"`
	Tags        []string   `json:"tags" db:"tags"`
	Rating      float64    `json:"rating" db:"rating"`
	NumReviews  int        `json:"num_reviews" db:"num_reviews"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	Featured    bool       `json:"featured" db:"featured"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
