package interpreter

import (
	"encoding/json"
	"fmt"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

const defaultHistoryWindow = 10

type options struct {
	historyWindow int
}

type Option func(*options)

// WithHistoryWindow bounds how many past turns are sent to the model. n <= 0 sends none.
func WithHistoryWindow(n int) Option {
	return func(o *options) {
		o.historyWindow = n
	}
}

func applyOptions(opts []Option) options {
	o := options{historyWindow: defaultHistoryWindow}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

type productView struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Brand    string `json:"brand,omitempty"`
	Price    string `json:"price"`
}

type turnView struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type pendingView struct {
	Action   string `json:"action"`
	Product  string `json:"product,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	All      bool   `json:"all,omitempty"`
}

type modelInput struct {
	Utterance      string        `json:"utterance"`
	History        []turnView    `json:"history"`
	RecentProducts []productView `json:"recent_products"`
	Cart           []productView `json:"cart"`
	PendingAction  *pendingView  `json:"pending_action"`
}

func buildModelInput(req contractx.InterpretRequest, window int) (string, error) {
	in := modelInput{
		Utterance:      req.Utterance,
		History:        make([]turnView, 0, max(window, 0)),
		RecentProducts: make([]productView, 0, len(req.Recent)),
		Cart:           make([]productView, 0, len(req.CartProducts)),
	}

	history := req.History
	// the current utterance is already the last user turn in the log
	if n := len(history); n > 0 && history[n-1].Speaker == contractx.SpeakerUser && history[n-1].Text == req.Utterance {
		history = history[:n-1]
	}
	if window <= 0 {
		history = nil
	} else if len(history) > window {
		history = history[len(history)-window:]
	}
	for _, t := range history {
		in.History = append(in.History, turnView{Speaker: string(t.Speaker), Text: t.Text})
	}

	for _, p := range req.Recent {
		in.RecentProducts = append(in.RecentProducts, productView{
			ID: p.ID, Title: p.Title, Category: p.Category, Brand: p.Brand, Price: p.Price.StringFixed(2),
		})
	}
	for _, p := range req.CartProducts {
		in.Cart = append(in.Cart, productView{
			ID: p.ID, Title: p.Title, Category: p.Category, Brand: p.Brand, Price: p.Price.StringFixed(2),
		})
	}

	if pending := req.Pending; pending != nil {
		in.PendingAction = &pendingView{
			Action:   string(pending.Kind),
			Product:  pending.Target(),
			Quantity: pending.Quantity,
			All:      pending.All,
		}
	}

	raw, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("%w: marshal interpreter input: %v", contractx.ErrValidation, err)
	}
	return string(raw), nil
}
