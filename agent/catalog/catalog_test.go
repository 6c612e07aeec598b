package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func fixtureProducts() []Product {
	return []Product{
		{ID: 1, Title: "Essence Mascara Lash Princess", Category: "beauty", Brand: "Essence", Price: decimal.RequireFromString("9.99"), Stock: 99},
		{ID: 2, Title: "Eyeshadow Palette with Mirror", Category: "beauty", Brand: "Glamour Beauty", Price: decimal.RequireFromString("19.99"), Stock: 34},
		{ID: 4, Title: "Red Lipstick", Category: "beauty", Brand: "Chic Cosmetics", Price: decimal.RequireFromString("12.99"), Stock: 91},
		{ID: 6, Title: "Calvin Klein CK One", Category: "fragrances", Brand: "Calvin Klein", Price: decimal.RequireFromString("49.99"), Stock: 29},
		{ID: 7, Title: "Essence Eau de Parfum", Category: "fragrances", Brand: "Essence", Price: decimal.RequireFromString("24.50"), Stock: 3},
	}
}

// readerContract runs the same expectations against every Reader implementation.
func readerContract(t *testing.T, r Reader) {
	t.Helper()
	ctx := context.Background()

	t.Run("search by category keeps insertion order", func(t *testing.T) {
		got, err := r.Search(ctx, Filters{Category: "BEAUTY"}, 0)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		titles := productTitles(got)
		if len(titles) < 2 {
			t.Fatalf("Search() = %v, want beauty products", titles)
		}
		mascara, lipstick := indexOf(titles, "Essence Mascara Lash Princess"), indexOf(titles, "Red Lipstick")
		if mascara < 0 || lipstick < 0 {
			t.Fatalf("Search() = %v, want mascara and lipstick", titles)
		}
		if mascara > lipstick {
			t.Fatalf("Search() order = %v, want insertion order", titles)
		}
		for _, p := range got {
			if p.Title == "Red Lipstick" && !p.Price.Equal(decimal.RequireFromString("12.99")) {
				t.Fatalf("Red Lipstick price = %s, want 12.99", p.Price)
			}
		}
	})

	t.Run("title substring is case-insensitive", func(t *testing.T) {
		got, err := r.Search(ctx, Filters{Title: "mascara"}, 10)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 1 || got[0].Title != "Essence Mascara Lash Princess" {
			t.Fatalf("Search() = %v, want mascara only", productTitles(got))
		}
	})

	t.Run("brand is equality not substring", func(t *testing.T) {
		got, err := r.Search(ctx, Filters{Brand: "Calvin"}, 10)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("Search() = %v, want none", productTitles(got))
		}
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		got, err := r.Search(ctx, Filters{Title: "hovercraft"}, 10)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("Search() = %v, want empty", productTitles(got))
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		got, err := r.Search(ctx, Filters{}, 2)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len(Search()) = %d, want 2", len(got))
		}
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := r.Get(ctx, 4242)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("categories distinct and sorted", func(t *testing.T) {
		got, err := r.Categories(ctx)
		if err != nil {
			t.Fatalf("Categories() error = %v", err)
		}
		for i := 1; i < len(got); i++ {
			if got[i-1] >= got[i] {
				t.Fatalf("Categories() = %v, want strictly sorted", got)
			}
		}
		if indexOf(got, "beauty") < 0 || indexOf(got, "fragrances") < 0 {
			t.Fatalf("Categories() = %v, want beauty and fragrances", got)
		}
	})

	t.Run("recommend shares category or brand", func(t *testing.T) {
		base, err := r.Get(ctx, 1)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		got, err := r.Recommend(ctx, base.ID, 0)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(got) == 0 {
			t.Fatal("Recommend() returned nothing")
		}
		for _, p := range got {
			if p.ID == base.ID {
				t.Fatalf("Recommend() included the base product")
			}
			if p.Category != base.Category && p.Brand != base.Brand {
				t.Fatalf("Recommend() returned unrelated %q", p.Title)
			}
		}
	})
}

func TestMemoryReader(t *testing.T) {
	t.Parallel()
	readerContract(t, NewMemoryReader(fixtureProducts()))
}

func TestMemoryReaderRecommendUnknown(t *testing.T) {
	t.Parallel()

	r := NewMemoryReader(fixtureProducts())
	_, err := r.Recommend(context.Background(), 999, 5)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Recommend() error = %v, want ErrNotFound", err)
	}
}

func TestFiltersIsEmpty(t *testing.T) {
	t.Parallel()

	if !(Filters{Title: "  "}).IsEmpty() {
		t.Fatal("whitespace-only filters must be empty")
	}
	if (Filters{Brand: "Dior"}).IsEmpty() {
		t.Fatal("brand filter must not be empty")
	}
}

func productTitles(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Title)
	}
	return out
}

func indexOf(ss []string, want string) int {
	for i, s := range ss {
		if s == want {
			return i
		}
	}
	return -1
}
