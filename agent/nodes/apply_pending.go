package orchestratornode

import (
	"context"
	"errors"

	cartx "github.com/tanpawarit/chative-shopping-assistant/agent/cart"
	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	gatex "github.com/tanpawarit/chative-shopping-assistant/agent/gate"
)

// applyPending performs a confirmed action against the session cart.
// Stock is re-read from the catalog because it may have changed since the proposal.
func applyPending(ctx context.Context, in *GraphState, deps Deps, pending gatex.PendingAction) error {
	intent := pending.Intent
	cart := &in.Session.Cart
	in.Outcome = OutcomeCommitted

	switch intent.Kind {
	case contractx.IntentAddToCart:
		fresh, err := deps.Catalog.Get(ctx, intent.Product.ID)
		if errors.Is(err, catalogx.ErrNotFound) {
			in.sayf("%s is no longer available.", intent.Product.Title)
			in.Outcome = OutcomeNotFound
			return nil
		}
		if err != nil {
			return err
		}
		inCart := cart.Quantity(fresh.ID)
		item, err := cart.Add(fresh, quantityOf(intent))
		if errors.Is(err, cartx.ErrInsufficientStock) {
			in.say(insufficientReply(fresh, inCart))
			in.Outcome = OutcomeInsufficientStock
			return nil
		}
		if err != nil {
			return err
		}
		in.Mutation = string(contractx.IntentAddToCart)
		in.sayf("Added %d x %s to your cart. You now have %d.", quantityOf(intent), fresh.Title, item.Quantity)

	case contractx.IntentRemoveFromCart:
		qty := quantityOf(intent)
		if intent.All {
			qty = 0
		}
		removedAll, err := cart.Remove(intent.Product.ID, qty)
		if errors.Is(err, cartx.ErrItemNotFound) {
			in.sayf("%s is not in your cart.", intent.Product.Title)
			in.Outcome = OutcomeNotFound
			return nil
		}
		if err != nil {
			return err
		}
		in.Mutation = string(contractx.IntentRemoveFromCart)
		if removedAll {
			in.sayf("Removed %s from your cart.", intent.Product.Title)
			return nil
		}
		in.sayf("Removed %d x %s from your cart. You now have %d.", qty, intent.Product.Title, cart.Quantity(intent.Product.ID))

	case contractx.IntentCheckout:
		receipt, err := cart.Checkout(deps.NewOrderID(), in.Now)
		if errors.Is(err, cartx.ErrEmptyCart) {
			in.say(emptyCartReply)
			in.Outcome = OutcomeEmptyCart
			return nil
		}
		if err != nil {
			return err
		}
		in.Mutation = string(contractx.IntentCheckout)
		in.say(formatReceipt(receipt))

	default:
		return gatex.ErrNotMutating
	}
	return nil
}
