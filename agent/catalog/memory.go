package catalog

import (
	"context"
	"fmt"
	"sort"
)

// MemoryReader serves a fixed product slice in insertion order.
type MemoryReader struct {
	products []Product
	byID     map[int64]int
}

var _ Reader = (*MemoryReader)(nil)

func NewMemoryReader(products []Product) *MemoryReader {
	r := &MemoryReader{
		products: append([]Product(nil), products...),
		byID:     make(map[int64]int, len(products)),
	}
	for i, p := range r.products {
		r.byID[p.ID] = i
	}
	return r
}

func (r *MemoryReader) Search(ctx context.Context, f Filters, limit int) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampLimit(limit, DefaultSearchLimit)

	out := make([]Product, 0, limit)
	for _, p := range r.products {
		if !f.matches(p) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryReader) Get(ctx context.Context, id int64) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	idx, ok := r.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: id=%d", ErrNotFound, id)
	}
	return r.products[idx], nil
}

func (r *MemoryReader) Categories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(r.products))
	out := make([]string, 0, 8)
	for _, p := range r.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryReader) Recommend(ctx context.Context, id int64, limit int) ([]Product, error) {
	base, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit, DefaultRecommendLimit)

	out := make([]Product, 0, limit)
	for _, p := range r.products {
		if p.ID == base.ID {
			continue
		}
		if p.Category != base.Category && p.Brand != base.Brand {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
