package interpreter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/chative-shopping-assistant/agent/tool"
)

var leadingFillers = []string{"the ", "a ", "an ", "that ", "this ", "those ", "these ", "some ", "my "}

// Resolver binds the product reference of a decoded tool call to a catalog product.
type Resolver struct {
	catalog catalogx.Reader
}

func NewResolver(catalog catalogx.Reader) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve turns a validated call into an intent. Lookup order: product id,
// then exact title or unique substring among products already in the
// conversation, then a catalog title search. An unmatched reference leaves
// Product nil; an ambiguous one yields Unknown with the candidates.
func (r *Resolver) Resolve(ctx context.Context, call toolx.Call, req contractx.InterpretRequest) (contractx.Intent, error) {
	intent := call.Intent()
	intent.Raw = req.Utterance
	if !call.Kind.NeedsProduct() {
		return intent, nil
	}

	tiers := conversationTiers(call.Kind, req)

	if call.ProductID > 0 {
		p, found, err := r.byID(ctx, call.ProductID, tiers)
		if err != nil {
			return contractx.Intent{}, err
		}
		if found {
			intent.Product = &p
			return intent, nil
		}
		if intent.Ref == "" {
			intent.Ref = fmt.Sprintf("product #%d", call.ProductID)
			return intent, nil
		}
	}

	ref := normalizeRef(intent.Ref)
	if ref == "" {
		return intent, nil
	}

	for _, tier := range tiers {
		if p, ok := exactTitle(ref, tier); ok {
			intent.Product = &p
			return intent, nil
		}
		switch matches := substringMatches(ref, tier); len(matches) {
		case 0:
		case 1:
			intent.Product = &matches[0]
			return intent, nil
		default:
			return ambiguous(req.Utterance, intent.Ref, matches), nil
		}
	}

	found, err := r.catalog.Search(ctx, catalogx.Filters{Title: ref}, catalogx.DefaultSearchLimit)
	if err != nil {
		return contractx.Intent{}, fmt.Errorf("resolve product %q: %w", ref, err)
	}
	if p, ok := exactTitle(ref, found); ok {
		intent.Product = &p
		return intent, nil
	}
	switch len(found) {
	case 0:
		return intent, nil
	case 1:
		intent.Product = &found[0]
		return intent, nil
	default:
		return ambiguous(req.Utterance, intent.Ref, found), nil
	}
}

func (r *Resolver) byID(ctx context.Context, id int64, tiers [][]catalogx.Product) (catalogx.Product, bool, error) {
	for _, tier := range tiers {
		for _, p := range tier {
			if p.ID == id {
				return p, true, nil
			}
		}
	}
	p, err := r.catalog.Get(ctx, id)
	if errors.Is(err, catalogx.ErrNotFound) {
		return catalogx.Product{}, false, nil
	}
	if err != nil {
		return catalogx.Product{}, false, fmt.Errorf("resolve product id %d: %w", id, err)
	}
	return p, true, nil
}

// conversationTiers orders the products the user has already seen. Removals
// look at the cart first; everything else at the latest results first.
func conversationTiers(kind contractx.IntentKind, req contractx.InterpretRequest) [][]catalogx.Product {
	if kind == contractx.IntentRemoveFromCart {
		return [][]catalogx.Product{req.CartProducts, req.Recent}
	}
	return [][]catalogx.Product{req.Recent, req.CartProducts}
}

func normalizeRef(ref string) string {
	ref = strings.ToLower(strings.TrimSpace(ref))
	for _, filler := range leadingFillers {
		if strings.HasPrefix(ref, filler) {
			ref = strings.TrimSpace(strings.TrimPrefix(ref, filler))
			break
		}
	}
	return ref
}

func exactTitle(ref string, products []catalogx.Product) (catalogx.Product, bool) {
	for _, p := range products {
		if strings.EqualFold(p.Title, ref) {
			return p, true
		}
	}
	return catalogx.Product{}, false
}

func substringMatches(ref string, products []catalogx.Product) []catalogx.Product {
	var out []catalogx.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), ref) {
			out = append(out, p)
		}
	}
	return out
}

func ambiguous(utterance, ref string, matches []catalogx.Product) contractx.Intent {
	titles := make([]string, 0, len(matches))
	for _, p := range matches {
		titles = append(titles, p.Title)
	}
	in := contractx.Unknown(utterance, fmt.Sprintf("%q matches several products: %s", ref, strings.Join(titles, ", ")))
	in.Candidates = append([]catalogx.Product(nil), matches...)
	return in
}
