package orchestratornode

import (
	"context"
	"errors"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

// rejection is a proposal the user cannot confirm, with the reply explaining why.
type rejection struct {
	reply   string
	outcome Outcome
}

// checkProposal refreshes the target product and rejects a mutation that
// could not succeed on the current cart.
func checkProposal(
	ctx context.Context,
	in *GraphState,
	deps Deps,
	intent contractx.Intent,
) (contractx.Intent, *rejection, error) {
	cart := &in.Session.Cart

	switch intent.Kind {
	case contractx.IntentAddToCart:
		if intent.Product == nil {
			return intent, &rejection{notFoundReply(intent), OutcomeNotFound}, nil
		}
		fresh, err := deps.Catalog.Get(ctx, intent.Product.ID)
		if errors.Is(err, catalogx.ErrNotFound) {
			return intent, &rejection{notFoundReply(intent), OutcomeNotFound}, nil
		}
		if err != nil {
			return intent, nil, err
		}
		intent.Product = &fresh
		inCart := cart.Quantity(fresh.ID)
		if inCart+quantityOf(intent) > fresh.Stock {
			return intent, &rejection{insufficientReply(fresh, inCart), OutcomeInsufficientStock}, nil
		}
	case contractx.IntentRemoveFromCart:
		if intent.Product == nil {
			return intent, &rejection{notFoundReply(intent), OutcomeNotFound}, nil
		}
		if !cart.Contains(intent.Product.ID) {
			return intent, &rejection{sprintf("%s is not in your cart.", intent.Product.Title), OutcomeNotFound}, nil
		}
	case contractx.IntentCheckout:
		if cart.IsEmpty() {
			return intent, &rejection{emptyCartReply, OutcomeEmptyCart}, nil
		}
	}
	return intent, nil, nil
}

// propose stores a checked mutation as the pending action and asks for confirmation.
func propose(ctx context.Context, in *GraphState, deps Deps, intent contractx.Intent) error {
	checked, rejected, err := checkProposal(ctx, in, deps, intent)
	if err != nil {
		return err
	}
	if rejected != nil {
		in.say(rejected.reply)
		in.Outcome = rejected.outcome
		return nil
	}

	if err := in.Session.Gate.Propose(checked, in.Text, in.Now); err != nil {
		return err
	}
	in.say(confirmPrompt(checked, &in.Session.Cart))
	in.Outcome = OutcomeProposed
	return nil
}

const emptyCartReply = "Your cart is empty, so there is nothing to check out."

func notFoundReply(intent contractx.Intent) string {
	if ref := intent.Target(); ref != "" {
		return sprintf("I couldn't find a product matching %q.", ref)
	}
	return "I couldn't find that product. Could you tell me which one you mean?"
}

func insufficientReply(p catalogx.Product, inCart int) string {
	if inCart > 0 {
		return sprintf("Insufficient stock: only %d of %s available and you already have %d in your cart.", p.Stock, p.Title, inCart)
	}
	return sprintf("Insufficient stock: only %d of %s available.", p.Stock, p.Title)
}
