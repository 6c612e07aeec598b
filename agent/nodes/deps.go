package orchestratornode

import (
	"fmt"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	gatex "github.com/tanpawarit/chative-shopping-assistant/agent/gate"
)

// PaymentOptions are the payment methods offered at checkout.
var PaymentOptions = []string{"Credit Card", "Debit Card", "PayPal", "Gift Card"}

// Deps carries what the gate and dispatch nodes need beyond the graph state.
type Deps struct {
	Catalog     catalogx.Reader
	Policy      gatex.Policy
	NewOrderID  func() string
	SearchLimit int
}

// Validate reports a missing dependency.
func (d Deps) Validate() error {
	if d.Catalog == nil {
		return fmt.Errorf("%w: catalog is nil", contractx.ErrValidation)
	}
	if d.NewOrderID == nil {
		return fmt.Errorf("%w: order id generator is nil", contractx.ErrValidation)
	}
	return nil
}
