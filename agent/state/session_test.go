package state

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	cartx "github.com/tanpawarit/chative-shopping-assistant/agent/cart"
	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	gatex "github.com/tanpawarit/chative-shopping-assistant/agent/gate"
)

var testMascara = catalogx.Product{
	ID:       1,
	Title:    "Essence Mascara Lash Princess",
	Category: "beauty",
	Brand:    "Essence",
	Price:    decimal.RequireFromString("9.99"),
	Stock:    99,
}

func sampleState(t *testing.T, sessionID string) *SessionState {
	t.Helper()

	now := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	st := NewSessionState(sessionID, now)
	if _, err := st.Cart.Add(testMascara, 2); err != nil {
		t.Fatalf("Cart.Add() error = %v", err)
	}
	p := testMascara
	if err := st.Gate.Propose(contractx.Intent{Kind: contractx.IntentRemoveFromCart, Product: &p, All: true}, "remove the mascara", now); err != nil {
		t.Fatalf("Gate.Propose() error = %v", err)
	}
	if err := st.AppendTurn(contractx.SpeakerUser, "remove the mascara", now); err != nil {
		t.Fatalf("AppendTurn() error = %v", err)
	}
	st.Remember([]catalogx.Product{testMascara})
	return st
}

func TestAppendTurnAndHistory(t *testing.T) {
	t.Parallel()

	now := time.Now()
	st := NewSessionState("s", now)
	for _, text := range []string{"a", "b", "c"} {
		if err := st.AppendTurn(contractx.SpeakerUser, text, now); err != nil {
			t.Fatalf("AppendTurn() error = %v", err)
		}
	}

	got := st.History(2)
	if len(got) != 2 || got[0].Text != "b" || got[1].Text != "c" {
		t.Fatalf("History(2) = %+v", got)
	}
	if len(st.History(0)) != 3 {
		t.Fatalf("History(0) len = %d, want 3", len(st.History(0)))
	}

	got[0].Text = "mutated"
	if st.Turns[1].Text != "b" {
		t.Fatal("History() must return a copy")
	}
}

func TestAppendTurnRejectsUnknownSpeaker(t *testing.T) {
	t.Parallel()

	st := NewSessionState("s", time.Now())
	if err := st.AppendTurn("system", "x", time.Now()); !errors.Is(err, ErrInvalidTurn) {
		t.Fatalf("AppendTurn() error = %v, want ErrInvalidTurn", err)
	}
}

func TestRememberCapsRecent(t *testing.T) {
	t.Parallel()

	st := NewSessionState("s", time.Now())
	products := make([]catalogx.Product, MaxRecentProducts+5)
	for i := range products {
		products[i] = catalogx.Product{ID: int64(i + 1)}
	}
	st.Remember(products)
	if len(st.Recent) != MaxRecentProducts {
		t.Fatalf("len(Recent) = %d, want %d", len(st.Recent), MaxRecentProducts)
	}
}

func TestPendingIntent(t *testing.T) {
	t.Parallel()

	st := sampleState(t, "s")
	in := st.PendingIntent()
	if in == nil || in.Kind != contractx.IntentRemoveFromCart {
		t.Fatalf("PendingIntent() = %+v", in)
	}
	in.Kind = contractx.IntentCheckout
	if st.Gate.Pending.Intent.Kind != contractx.IntentRemoveFromCart {
		t.Fatal("PendingIntent() must return a copy")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(st *SessionState)
		wantErr bool
	}{
		{name: "valid", mutate: func(*SessionState) {}},
		{name: "empty id", mutate: func(st *SessionState) { st.SessionID = " " }, wantErr: true},
		{name: "duplicate cart line", mutate: func(st *SessionState) {
			st.Cart.Items = append(st.Cart.Items, cartx.Item{Product: testMascara, Quantity: 1})
		}, wantErr: true},
		{name: "non-mutating pending", mutate: func(st *SessionState) {
			st.Gate = gatex.Gate{Pending: &gatex.PendingAction{Intent: contractx.Intent{Kind: contractx.IntentSearch}}}
		}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st := sampleState(t, "s")
			tc.mutate(st)
			err := st.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
