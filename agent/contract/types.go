package contract

import (
	"strings"
	"time"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
)

type IntentKind string

const (
	IntentSearch           IntentKind = "search"
	IntentAddToCart        IntentKind = "add_to_cart"
	IntentRemoveFromCart   IntentKind = "remove_from_cart"
	IntentViewCart         IntentKind = "view_cart"
	IntentCheckout         IntentKind = "checkout"
	IntentConfirm          IntentKind = "confirm"
	IntentCancel           IntentKind = "cancel"
	IntentUnknown          IntentKind = "unknown"
	IntentListCategories   IntentKind = "list_categories"
	IntentRecommend        IntentKind = "recommend"
	IntentDeliveryEstimate IntentKind = "delivery_estimate"
	IntentPaymentOptions   IntentKind = "payment_options"
)

// Mutating reports whether the kind changes the cart and must pass the confirmation gate.
func (k IntentKind) Mutating() bool {
	switch k {
	case IntentAddToCart, IntentRemoveFromCart, IntentCheckout:
		return true
	default:
		return false
	}
}

// NeedsProduct reports whether the kind targets a single product.
func (k IntentKind) NeedsProduct() bool {
	switch k {
	case IntentAddToCart, IntentRemoveFromCart, IntentRecommend:
		return true
	default:
		return false
	}
}

// Intent is the validated, structured reading of one user utterance.
// Product is nil when Ref could not be resolved to a catalog product.
// Candidates is set on an Unknown intent whose reference matched several products.
type Intent struct {
	Kind       IntentKind         `json:"kind"`
	Filters    catalogx.Filters   `json:"filters,omitempty"`
	Product    *catalogx.Product  `json:"product,omitempty"`
	Ref        string             `json:"ref,omitempty"`
	Quantity   int                `json:"quantity,omitempty"`
	All        bool               `json:"all,omitempty"`
	Raw        string             `json:"raw,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	Candidates []catalogx.Product `json:"candidates,omitempty"`
}

func (i Intent) Mutating() bool {
	return i.Kind.Mutating()
}

// SameAction reports whether two intents would apply the same cart change.
func (i Intent) SameAction(o Intent) bool {
	if i.Kind != o.Kind {
		return false
	}
	if i.Kind == IntentCheckout {
		return true
	}
	if (i.Product == nil) != (o.Product == nil) {
		return false
	}
	if i.Product != nil && i.Product.ID != o.Product.ID {
		return false
	}
	return i.Quantity == o.Quantity && i.All == o.All
}

// Target names the product an intent refers to, for replies.
func (i Intent) Target() string {
	if i.Product != nil {
		return i.Product.Title
	}
	return strings.TrimSpace(i.Ref)
}

func Unknown(raw, reason string) Intent {
	return Intent{Kind: IntentUnknown, Raw: raw, Reason: reason}
}

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

type Turn struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

type InterpretRequest struct {
	Utterance    string             `json:"utterance"`
	History      []Turn             `json:"history,omitempty"`
	Recent       []catalogx.Product `json:"recent,omitempty"`
	CartProducts []catalogx.Product `json:"cart_products,omitempty"`
	Pending      *Intent            `json:"pending,omitempty"`
}
