package models

import (
	"sort"
	"strings"
)

// MaxPageLimit caps the page size of catalog queries.
const MaxPageLimit = 50

// DefaultPageLimit matches the storefront grid.
const DefaultPageLimit = 12

// CatalogQuery is a composed catalog filter. All set filters apply
// conjunctively. Sort takes a key among price, name, createdAt, rating,
// with a leading '-' for descending; empty means newest first.
type CatalogQuery struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Sort     string
	Page     int
	Limit    int
}

var catalogSortKeys = map[string]bool{
	"price": true, "name": true, "createdAt": true, "rating": true,
}

// IsValidSortKey accepts a sort parameter, with or without '-' prefix.
func IsValidSortKey(s string) bool {
	return catalogSortKeys[strings.TrimPrefix(s, "-")]
}

// Normalize clamps page/limit into their valid ranges.
func (q *CatalogQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
}

// Matches reports whether p passes every set filter. Inactive products
// never match.
func (q *CatalogQuery) Matches(p Product) bool {
	if !p.IsActive {
		return false
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Brand != "" && !strings.Contains(strings.ToLower(p.Brand), strings.ToLower(q.Brand)) {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.Search != "" && !productMatchesText(p, q.Search) {
		return false
	}
	return true
}

func productMatchesText(p Product, text string) bool {
	needle := strings.ToLower(text)
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// SortProducts orders the slice in place by the query's sort key.
func SortProducts(products []Product, sortKey string) {
	desc := strings.HasPrefix(sortKey, "-")
	key := strings.TrimPrefix(sortKey, "-")

	less := func(a, b Product) bool {
		switch key {
		case "price":
			return a.Price < b.Price
		case "name":
			return a.Name < b.Name
		case "rating":
			return a.Rating < b.Rating
		default: // createdAt and the newest-first default
			if key == "" {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

// Pagination carries the offset-pagination info the front end renders.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"prev_page"`
}

// Paginate slices the (already filtered and sorted) products to the
// requested page and builds the pagination block. skip = (page-1)*limit.
func Paginate(products []Product, page, limit int) ([]Product, Pagination) {
	total := len(products)
	totalPages := (total + limit - 1) / limit

	skip := (page - 1) * limit
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}

	p := Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}

	return products[skip:end], p
}
