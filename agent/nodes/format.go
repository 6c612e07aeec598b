package orchestratornode

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	cartx "github.com/tanpawarit/chative-shopping-assistant/agent/cart"
	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

const dateLayout = "Monday, January 2, 2006"

func sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func formatProducts(products []catalogx.Product) string {
	var b strings.Builder
	for i, p := range products {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s (%s, %s) %s", i+1, p.Title, p.Brand, p.Category, money(p.Price))
	}
	return b.String()
}

func formatItems(items []cartx.Item) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %d x %s @ %s = %s", it.Quantity, it.Product.Title, money(it.Product.Price), money(it.Subtotal()))
	}
	return b.String()
}

func formatSummary(s cartx.Summary) string {
	return "Your cart:\n" + formatItems(s.Items) + "\nTotal: " + money(s.Total)
}

func formatReceipt(r cartx.Receipt) string {
	return fmt.Sprintf(
		"Order %s placed.\n%s\nTotal: %s\nEstimated delivery: %s.",
		r.OrderID,
		formatItems(r.Items),
		money(r.Total),
		r.DeliveryEstimate.Format(dateLayout),
	)
}

func formatDelivery(now time.Time) string {
	return fmt.Sprintf("If you order now, your delivery should arrive by %s.", now.Add(cartx.DeliveryLeadTime).Format(dateLayout))
}

// confirmPrompt describes a mutating intent as a yes/no question.
func confirmPrompt(intent contractx.Intent, cart *cartx.Cart) string {
	switch intent.Kind {
	case contractx.IntentAddToCart:
		return fmt.Sprintf("Add %d x %s (%s each) to your cart? (y/n)", quantityOf(intent), intent.Target(), money(intent.Product.Price))
	case contractx.IntentRemoveFromCart:
		if removesAll(intent, cart) {
			return fmt.Sprintf("Remove %s from your cart? (y/n)", intent.Target())
		}
		return fmt.Sprintf("Remove %d x %s from your cart? (y/n)", quantityOf(intent), intent.Target())
	case contractx.IntentCheckout:
		s := cart.View()
		units := 0
		for _, it := range s.Items {
			units += it.Quantity
		}
		return fmt.Sprintf("Check out %d item(s) for a total of %s? (y/n)", units, money(s.Total))
	default:
		return fmt.Sprintf("Go ahead with %s? (y/n)", intent.Kind)
	}
}

func quantityOf(intent contractx.Intent) int {
	if intent.Quantity < 1 {
		return 1
	}
	return intent.Quantity
}

func removesAll(intent contractx.Intent, cart *cartx.Cart) bool {
	if intent.All || intent.Product == nil {
		return true
	}
	return quantityOf(intent) >= cart.Quantity(intent.Product.ID)
}

func describe(intent contractx.Intent) string {
	switch intent.Kind {
	case contractx.IntentAddToCart:
		return fmt.Sprintf("add %d x %s", quantityOf(intent), intent.Target())
	case contractx.IntentRemoveFromCart:
		if intent.All {
			return "remove " + intent.Target()
		}
		return fmt.Sprintf("remove %d x %s", quantityOf(intent), intent.Target())
	case contractx.IntentCheckout:
		return "checkout"
	default:
		return string(intent.Kind)
	}
}

func joinReplies(parts []string, trailer string) string {
	out := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if t := strings.TrimSpace(trailer); t != "" {
		out = append(out, t)
	}
	return strings.Join(out, "\n\n")
}
