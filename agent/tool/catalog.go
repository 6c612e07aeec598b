package tool

import (
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

const (
	ToolSearchProducts   = "search_products"
	ToolAddToCart        = "add_to_cart"
	ToolRemoveFromCart   = "remove_from_cart"
	ToolViewCart         = "view_cart"
	ToolCheckout         = "checkout"
	ToolConfirmAction    = "confirm_action"
	ToolCancelAction     = "cancel_action"
	ToolListCategories   = "list_categories"
	ToolRecommend        = "recommend_products"
	ToolDeliveryEstimate = "delivery_estimate"
	ToolPaymentOptions   = "payment_options"
)

// MaxQuantity caps a single add or remove request.
const MaxQuantity = 100

var kindByTool = map[string]contractx.IntentKind{
	ToolSearchProducts:   contractx.IntentSearch,
	ToolAddToCart:        contractx.IntentAddToCart,
	ToolRemoveFromCart:   contractx.IntentRemoveFromCart,
	ToolViewCart:         contractx.IntentViewCart,
	ToolCheckout:         contractx.IntentCheckout,
	ToolConfirmAction:    contractx.IntentConfirm,
	ToolCancelAction:     contractx.IntentCancel,
	ToolListCategories:   contractx.IntentListCategories,
	ToolRecommend:        contractx.IntentRecommend,
	ToolDeliveryEstimate: contractx.IntentDeliveryEstimate,
	ToolPaymentOptions:   contractx.IntentPaymentOptions,
}

// Names lists every tool the interpreter may call.
func Names() []string {
	out := make([]string, 0, len(kindByTool))
	for _, info := range Infos() {
		out = append(out, info.Name)
	}
	return out
}

func productParams(extra map[string]*schema.ParameterInfo) map[string]*schema.ParameterInfo {
	params := map[string]*schema.ParameterInfo{
		"product_id": {Type: schema.Integer, Desc: "Catalog id of the product when it is known from earlier results"},
		"product":    {Type: schema.String, Desc: "Product title or the words the user used to refer to it"},
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

// Infos describes one tool per intent. The interpreter model must call exactly one.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolSearchProducts,
			Desc: "Search the product catalog. All filters are optional; with no filters the first products are listed.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"title":    {Type: schema.String, Desc: "Words that appear in the product title"},
				"category": {Type: schema.String, Desc: "Exact category name, e.g. beauty"},
				"brand":    {Type: schema.String, Desc: "Exact brand name"},
			}),
		},
		{
			Name: ToolAddToCart,
			Desc: "Propose adding a product to the cart. The user is asked to confirm before anything changes.",
			ParamsOneOf: schema.NewParamsOneOfByParams(productParams(map[string]*schema.ParameterInfo{
				"quantity": {Type: schema.Integer, Desc: "How many to add, default 1"},
			})),
		},
		{
			Name: ToolRemoveFromCart,
			Desc: "Propose removing a product from the cart. The user is asked to confirm before anything changes.",
			ParamsOneOf: schema.NewParamsOneOfByParams(productParams(map[string]*schema.ParameterInfo{
				"quantity": {Type: schema.Integer, Desc: "How many to remove, default 1"},
				"all":      {Type: schema.Boolean, Desc: "Remove the product entirely regardless of quantity"},
			})),
		},
		{
			Name:        ToolViewCart,
			Desc:        "Show the items in the cart and the total price.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name:        ToolCheckout,
			Desc:        "Propose checking out the whole cart. The user is asked to confirm.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name:        ToolConfirmAction,
			Desc:        "The user agrees to the action that is waiting for confirmation.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name:        ToolCancelAction,
			Desc:        "The user declines the action that is waiting for confirmation.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name:        ToolListCategories,
			Desc:        "List the product categories.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name:        ToolRecommend,
			Desc:        "Recommend products similar to a given product.",
			ParamsOneOf: schema.NewParamsOneOfByParams(productParams(nil)),
		},
		{
			Name:        ToolDeliveryEstimate,
			Desc:        "Tell the user when an order placed now would arrive.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name:        ToolPaymentOptions,
			Desc:        "List the accepted payment methods.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
	}
}
