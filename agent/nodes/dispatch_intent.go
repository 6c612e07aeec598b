package orchestratornode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

// DispatchIntent answers the interpreted request. Mutations are only
// proposed here; they are applied once the user confirms.
func DispatchIntent(
	ctx context.Context,
	in *GraphState,
	deps Deps,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.Decision == "" {
		in.Decision = in.Session.Gate.Decide(in.Intent, deps.Policy)
	}

	var err error
	intent := in.Intent
	switch intent.Kind {
	case contractx.IntentSearch:
		err = dispatchSearch(ctx, in, deps, intent.Filters)
	case contractx.IntentViewCart:
		dispatchViewCart(in)
	case contractx.IntentAddToCart, contractx.IntentRemoveFromCart, contractx.IntentCheckout:
		err = propose(ctx, in, deps, intent)
	case contractx.IntentConfirm, contractx.IntentCancel:
		in.say("There is nothing waiting for confirmation.")
		in.Outcome = OutcomeNothingPending
	case contractx.IntentListCategories:
		err = dispatchCategories(ctx, in, deps)
	case contractx.IntentRecommend:
		err = dispatchRecommend(ctx, in, deps, intent)
	case contractx.IntentDeliveryEstimate:
		in.say(formatDelivery(in.Now))
	case contractx.IntentPaymentOptions:
		in.sayf("We accept %s.", joinOr(PaymentOptions, "and"))
	default:
		dispatchUnknown(in, intent)
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

func dispatchSearch(ctx context.Context, in *GraphState, deps Deps, f catalogx.Filters) error {
	found, err := deps.Catalog.Search(ctx, f, deps.SearchLimit)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		in.say("I couldn't find any products matching that.")
		in.Outcome = OutcomeNotFound
		return nil
	}
	in.Session.Remember(found)
	in.say("Here is what I found:\n" + formatProducts(found))
	return nil
}

func dispatchViewCart(in *GraphState) {
	if in.Session.Cart.IsEmpty() {
		in.say("Your cart is empty.")
		return
	}
	in.Session.Remember(in.Session.Cart.Products())
	in.say(formatSummary(in.Session.Cart.View()))
}

func dispatchCategories(ctx context.Context, in *GraphState, deps Deps) error {
	categories, err := deps.Catalog.Categories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		in.say("The catalog is empty right now.")
		return nil
	}
	in.sayf("We carry these categories: %s.", strings.Join(categories, ", "))
	return nil
}

func dispatchRecommend(ctx context.Context, in *GraphState, deps Deps, intent contractx.Intent) error {
	if intent.Product == nil {
		in.say(notFoundReply(intent))
		in.Outcome = OutcomeNotFound
		return nil
	}

	recs, err := deps.Catalog.Recommend(ctx, intent.Product.ID, 0)
	if errors.Is(err, catalogx.ErrNotFound) {
		in.say(notFoundReply(intent))
		in.Outcome = OutcomeNotFound
		return nil
	}
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		in.sayf("I don't have recommendations similar to %s right now.", intent.Product.Title)
		return nil
	}
	in.Session.Remember(recs)
	in.sayf("If you like %s, you might also like:\n%s", intent.Product.Title, formatProducts(recs))
	return nil
}

func dispatchUnknown(in *GraphState, intent contractx.Intent) {
	if len(intent.Candidates) > 0 {
		in.Session.Remember(intent.Candidates)
		in.say("Which one do you mean?\n" + formatProducts(intent.Candidates))
		in.Outcome = OutcomeRephrase
		return
	}
	in.say("Sorry, I didn't understand that. Could you rephrase? You can search for products, add or remove items, view your cart or check out.")
	in.Outcome = OutcomeRephrase
}

func joinOr(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " " + conj + " " + items[len(items)-1]
}
