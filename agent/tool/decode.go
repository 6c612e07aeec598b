package tool

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

// Call is a tool invocation that passed schema validation. Product
// references are still unresolved.
type Call struct {
	Name       string
	Kind       contractx.IntentKind
	Filters    catalogx.Filters
	ProductID  int64
	ProductRef string
	Quantity   int
	All        bool
}

// Intent converts the call to an intent without a resolved product.
func (c Call) Intent() contractx.Intent {
	return contractx.Intent{
		Kind:     c.Kind,
		Filters:  c.Filters,
		Ref:      c.ProductRef,
		Quantity: c.Quantity,
		All:      c.All,
	}
}

type searchArgs struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
}

type productArgs struct {
	ProductID *int64 `json:"product_id"`
	Product   string `json:"product"`
	Quantity  *int   `json:"quantity"`
	All       bool   `json:"all"`
}

type emptyArgs struct{}

// Decode validates a tool call by name and JSON arguments. Unknown tools,
// unknown fields, wrong types and out-of-range values all fail with
// contract.ErrSchemaViolation.
func Decode(name, arguments string) (Call, error) {
	name = strings.TrimSpace(name)
	kind, ok := kindByTool[name]
	if !ok {
		return Call{}, fmt.Errorf("%w: unknown tool %q", contractx.ErrSchemaViolation, name)
	}
	call := Call{Name: name, Kind: kind}

	switch name {
	case ToolSearchProducts:
		var args searchArgs
		if err := strictUnmarshal(arguments, &args); err != nil {
			return Call{}, fmt.Errorf("%w: %s: %v", contractx.ErrSchemaViolation, name, err)
		}
		call.Filters = catalogx.Filters{Title: args.Title, Category: args.Category, Brand: args.Brand}.Normalize()
		return call, nil

	case ToolAddToCart, ToolRemoveFromCart, ToolRecommend:
		var args productArgs
		if err := strictUnmarshal(arguments, &args); err != nil {
			return Call{}, fmt.Errorf("%w: %s: %v", contractx.ErrSchemaViolation, name, err)
		}
		if err := fillProduct(&call, args); err != nil {
			return Call{}, fmt.Errorf("%w: %s: %v", contractx.ErrSchemaViolation, name, err)
		}
		return call, nil

	default:
		var args emptyArgs
		if err := strictUnmarshal(arguments, &args); err != nil {
			return Call{}, fmt.Errorf("%w: %s: %v", contractx.ErrSchemaViolation, name, err)
		}
		return call, nil
	}
}

type envelope struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

// DecodeEnvelope validates a JSON object of the form
// {"tool": "<name>", "arguments": {...}} produced by a JSON-mode model.
func DecodeEnvelope(raw string) (Call, error) {
	var env envelope
	if err := strictUnmarshal(raw, &env); err != nil {
		return Call{}, fmt.Errorf("%w: envelope: %v", contractx.ErrSchemaViolation, err)
	}
	if strings.TrimSpace(env.Tool) == "" {
		return Call{}, fmt.Errorf("%w: envelope: tool is required", contractx.ErrSchemaViolation)
	}
	return Decode(env.Tool, string(env.Arguments))
}

func fillProduct(call *Call, args productArgs) error {
	call.ProductRef = strings.TrimSpace(args.Product)
	if args.ProductID != nil {
		if *args.ProductID <= 0 {
			return fmt.Errorf("product_id must be positive, got %d", *args.ProductID)
		}
		call.ProductID = *args.ProductID
	}
	if call.ProductID == 0 && call.ProductRef == "" {
		return errors.New("product_id or product is required")
	}

	if call.Kind == contractx.IntentRecommend {
		if args.Quantity != nil || args.All {
			return errors.New("recommend takes no quantity")
		}
		return nil
	}
	if args.All && call.Kind != contractx.IntentRemoveFromCart {
		return errors.New("all is only valid for removals")
	}

	call.Quantity = 1
	if args.Quantity != nil {
		q := *args.Quantity
		if q < 1 || q > MaxQuantity {
			return fmt.Errorf("quantity must be between 1 and %d, got %d", MaxQuantity, q)
		}
		call.Quantity = q
	}
	call.All = args.All
	return nil
}

func strictUnmarshal(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		raw = "{}"
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after arguments")
	}
	return nil
}
