package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
)

// DeliveryLeadTime is added to the checkout time to estimate delivery.
const DeliveryLeadTime = 5 * 24 * time.Hour

var (
	ErrItemNotFound      = errors.New("item not found in cart")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

type Item struct {
	Product  catalogx.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds at most one line per product id, in the order products were first added.
type Cart struct {
	Items []Item `json:"items,omitempty"`
}

type Summary struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type Receipt struct {
	OrderID          string          `json:"order_id"`
	Items            []Item          `json:"items"`
	Total            decimal.Decimal `json:"total"`
	PlacedAt         time.Time       `json:"placed_at"`
	DeliveryEstimate time.Time       `json:"delivery_estimate"`
}

func (c *Cart) index(productID int64) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) Contains(productID int64) bool {
	return c != nil && c.index(productID) >= 0
}

// Quantity returns the quantity held for productID, or 0.
func (c *Cart) Quantity(productID int64) int {
	if c == nil {
		return 0
	}
	if i := c.index(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Add merges qty into the product's line. A negative qty decrements and
// drops the line once it reaches zero. The returned item carries the
// resulting quantity (zero when the line was dropped).
func (c *Cart) Add(p catalogx.Product, qty int) (Item, error) {
	if qty == 0 {
		return Item{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}

	idx := c.index(p.ID)
	current := 0
	if idx >= 0 {
		current = c.Items[idx].Quantity
	}
	next := current + qty

	if qty > 0 && next > p.Stock {
		return Item{}, fmt.Errorf("%w: only %d of %q available", ErrInsufficientStock, p.Stock, p.Title)
	}

	switch {
	case next <= 0 && idx >= 0:
		c.removeAt(idx)
		return Item{Product: p, Quantity: 0}, nil
	case next <= 0:
		return Item{}, fmt.Errorf("%w: %q", ErrItemNotFound, p.Title)
	case idx >= 0:
		c.Items[idx].Product = p
		c.Items[idx].Quantity = next
		return c.Items[idx], nil
	default:
		item := Item{Product: p, Quantity: next}
		c.Items = append(c.Items, item)
		return item, nil
	}
}

// Remove decrements the product's line by qty. qty <= 0 removes the whole line.
func (c *Cart) Remove(productID int64, qty int) (removedAll bool, err error) {
	idx := c.index(productID)
	if idx < 0 {
		return false, fmt.Errorf("%w: id=%d", ErrItemNotFound, productID)
	}
	if qty <= 0 || c.Items[idx].Quantity-qty <= 0 {
		c.removeAt(idx)
		return true, nil
	}
	c.Items[idx].Quantity -= qty
	return false, nil
}

func (c *Cart) View() Summary {
	items := c.snapshot()
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return Summary{Items: items, Total: total}
}

// Checkout snapshots the cart into a receipt and clears it.
func (c *Cart) Checkout(orderID string, now time.Time) (Receipt, error) {
	if c.IsEmpty() {
		return Receipt{}, ErrEmptyCart
	}
	summary := c.View()
	placed := now.UTC()
	c.Clear()
	return Receipt{
		OrderID:          orderID,
		Items:            summary.Items,
		Total:            summary.Total,
		PlacedAt:         placed,
		DeliveryEstimate: placed.Add(DeliveryLeadTime),
	}, nil
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Products lists the products currently in the cart.
func (c *Cart) Products() []catalogx.Product {
	if c == nil {
		return nil
	}
	out := make([]catalogx.Product, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, it.Product)
	}
	return out
}

// Validate reports a duplicated product line or a non-positive quantity.
func (c *Cart) Validate() error {
	if c == nil {
		return nil
	}
	seen := make(map[int64]struct{}, len(c.Items))
	for _, it := range c.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: product %d has quantity %d", ErrInvalidQuantity, it.Product.ID, it.Quantity)
		}
		if _, dup := seen[it.Product.ID]; dup {
			return fmt.Errorf("duplicate cart line for product %d", it.Product.ID)
		}
		seen[it.Product.ID] = struct{}{}
	}
	return nil
}

func (c *Cart) removeAt(idx int) {
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	if len(c.Items) == 0 {
		c.Items = nil
	}
}

func (c *Cart) snapshot() []Item {
	if c == nil || len(c.Items) == 0 {
		return []Item{}
	}
	return append([]Item(nil), c.Items...)
}
