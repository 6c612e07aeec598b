package interpreter

import (
	"context"
	"errors"
	"testing"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/chative-shopping-assistant/agent/tool"
)

type failingReader struct {
	catalogx.Reader
}

func (failingReader) Search(context.Context, catalogx.Filters, int) ([]catalogx.Product, error) {
	return nil, errors.New("database is locked")
}

func TestResolve(t *testing.T) {
	t.Parallel()

	cat := testCatalog()
	mascara, _ := cat.Get(context.Background(), 1)
	lipstick, _ := cat.Get(context.Background(), 4)
	polish, _ := cat.Get(context.Background(), 5)

	tests := []struct {
		name        string
		call        toolx.Call
		req         contractx.InterpretRequest
		wantID      int64
		wantUnknown bool
	}{
		{
			name:   "by id from catalog",
			call:   toolx.Call{Kind: contractx.IntentAddToCart, ProductID: 4, Quantity: 1},
			wantID: 4,
		},
		{
			name:   "colloquial reference to recent result",
			call:   toolx.Call{Kind: contractx.IntentAddToCart, ProductRef: "the mascara", Quantity: 1},
			req:    contractx.InterpretRequest{Recent: []catalogx.Product{mascara, lipstick}},
			wantID: 1,
		},
		{
			name:   "removal prefers cart products",
			call:   toolx.Call{Kind: contractx.IntentRemoveFromCart, ProductRef: "red", Quantity: 1},
			req:    contractx.InterpretRequest{Recent: []catalogx.Product{lipstick, polish}, CartProducts: []catalogx.Product{polish}},
			wantID: 5,
		},
		{
			name:        "ambiguous among recent",
			call:        toolx.Call{Kind: contractx.IntentAddToCart, ProductRef: "red", Quantity: 1},
			req:         contractx.InterpretRequest{Recent: []catalogx.Product{lipstick, polish}},
			wantUnknown: true,
		},
		{
			name:   "falls back to catalog search",
			call:   toolx.Call{Kind: contractx.IntentRecommend, ProductRef: "ck one"},
			wantID: 6,
		},
		{
			name:   "exact title wins over substring",
			call:   toolx.Call{Kind: contractx.IntentAddToCart, ProductRef: "red lipstick", Quantity: 1},
			wantID: 4,
		},
		{
			name: "unknown reference stays unresolved",
			call: toolx.Call{Kind: contractx.IntentRemoveFromCart, ProductRef: "hoverboard", Quantity: 1},
		},
		{
			name: "unknown id stays unresolved",
			call: toolx.Call{Kind: contractx.IntentAddToCart, ProductID: 999, Quantity: 1},
		},
	}

	r := NewResolver(cat)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Resolve(context.Background(), tc.call, tc.req)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if tc.wantUnknown {
				if got.Kind != contractx.IntentUnknown || len(got.Candidates) < 2 {
					t.Fatalf("Resolve() = %+v, want ambiguous unknown", got)
				}
				return
			}
			if got.Kind != tc.call.Kind {
				t.Fatalf("Resolve().Kind = %q, want %q", got.Kind, tc.call.Kind)
			}
			if tc.wantID == 0 {
				if got.Product != nil {
					t.Fatalf("Resolve().Product = %+v, want nil", got.Product)
				}
				if got.Target() == "" {
					t.Fatal("unresolved intent must keep a reference for the reply")
				}
				return
			}
			if got.Product == nil || got.Product.ID != tc.wantID {
				t.Fatalf("Resolve().Product = %+v, want id %d", got.Product, tc.wantID)
			}
		})
	}
}

func TestResolveSkipsNonProductIntents(t *testing.T) {
	t.Parallel()

	r := NewResolver(failingReader{})
	got, err := r.Resolve(context.Background(), toolx.Call{Kind: contractx.IntentViewCart}, contractx.InterpretRequest{Utterance: "cart"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Kind != contractx.IntentViewCart || got.Raw != "cart" {
		t.Fatalf("Resolve() = %+v", got)
	}
}

func TestResolveCatalogFailure(t *testing.T) {
	t.Parallel()

	r := NewResolver(failingReader{})
	_, err := r.Resolve(context.Background(), toolx.Call{Kind: contractx.IntentAddToCart, ProductRef: "mascara", Quantity: 1}, contractx.InterpretRequest{})
	if err == nil {
		t.Fatal("Resolve() expected catalog error")
	}
	if errors.Is(err, contractx.ErrServiceUnavailable) {
		t.Fatal("catalog failures must not look like an LLM outage")
	}
}
