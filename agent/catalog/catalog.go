package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultSearchLimit    = 10
	DefaultRecommendLimit = 5
)

var ErrNotFound = errors.New("product not found")

// Product is read-only for everything outside the catalog.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// Filters narrows a search. Empty fields are ignored; all-empty filters
// return the first products of the catalog.
type Filters struct {
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
	Brand    string `json:"brand,omitempty"`
}

func (f Filters) Normalize() Filters {
	return Filters{
		Title:    strings.TrimSpace(f.Title),
		Category: strings.TrimSpace(f.Category),
		Brand:    strings.TrimSpace(f.Brand),
	}
}

func (f Filters) IsEmpty() bool {
	n := f.Normalize()
	return n.Title == "" && n.Category == "" && n.Brand == ""
}

// Reader is the read-only catalog contract. Implementations must be safe
// for concurrent use.
type Reader interface {
	Search(ctx context.Context, f Filters, limit int) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Categories(ctx context.Context) ([]string, error)
	Recommend(ctx context.Context, id int64, limit int) ([]Product, error)
}

func (f Filters) matches(p Product) bool {
	n := f.Normalize()
	if n.Title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(n.Title)) {
		return false
	}
	if n.Category != "" && !strings.EqualFold(p.Category, n.Category) {
		return false
	}
	if n.Brand != "" && !strings.EqualFold(p.Brand, n.Brand) {
		return false
	}
	return true
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 100 {
		return 100
	}
	return limit
}
