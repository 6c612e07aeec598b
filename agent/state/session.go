package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	cartx "github.com/tanpawarit/chative-shopping-assistant/agent/cart"
	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	gatex "github.com/tanpawarit/chative-shopping-assistant/agent/gate"
)

// MaxRecentProducts bounds the products remembered for reference resolution.
const MaxRecentProducts = 20

// SessionState is everything one conversation owns: its cart, its
// confirmation gate, the turn log and the products last shown to the user.
// Stores hand out independent copies, so sessions never share mutable state.
type SessionState struct {
	SessionID string `json:"session_id"`

	Cart   cartx.Cart         `json:"cart"`
	Gate   gatex.Gate         `json:"gate"`
	Turns  []contractx.Turn   `json:"turns,omitempty"`
	Recent []catalogx.Product `json:"recent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ErrInvalidTurn = errors.New("invalid turn")

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// AppendTurn adds to the append-only conversation log.
func (s *SessionState) AppendTurn(speaker contractx.Speaker, text string, now time.Time) error {
	if speaker != contractx.SpeakerUser && speaker != contractx.SpeakerAssistant {
		return fmt.Errorf("%w: speaker %q", ErrInvalidTurn, speaker)
	}
	s.Turns = append(s.Turns, contractx.Turn{Speaker: speaker, Text: text, At: now.UTC()})
	s.Touch(now)
	return nil
}

// History returns at most the last n turns. n <= 0 returns all of them.
func (s *SessionState) History(n int) []contractx.Turn {
	if n <= 0 || n >= len(s.Turns) {
		return append([]contractx.Turn(nil), s.Turns...)
	}
	return append([]contractx.Turn(nil), s.Turns[len(s.Turns)-n:]...)
}

// Remember replaces the recent products with the ones just shown to the user.
func (s *SessionState) Remember(products []catalogx.Product) {
	if len(products) > MaxRecentProducts {
		products = products[:MaxRecentProducts]
	}
	s.Recent = append([]catalogx.Product(nil), products...)
}

// PendingIntent returns the intent awaiting confirmation, or nil.
func (s *SessionState) PendingIntent() *contractx.Intent {
	if s.Gate.Pending == nil {
		return nil
	}
	in := s.Gate.Pending.Intent
	return &in
}

func (s *SessionState) Validate() error {
	if strings.TrimSpace(s.SessionID) == "" {
		return contractx.ErrInvalidSession
	}
	if err := s.Cart.Validate(); err != nil {
		return fmt.Errorf("cart: %w", err)
	}
	if p := s.Gate.Pending; p != nil && !p.Intent.Mutating() {
		return fmt.Errorf("%w: pending %s", gatex.ErrNotMutating, p.Intent.Kind)
	}
	for i, t := range s.Turns {
		if t.Speaker != contractx.SpeakerUser && t.Speaker != contractx.SpeakerAssistant {
			return fmt.Errorf("%w: turn %d speaker %q", ErrInvalidTurn, i, t.Speaker)
		}
	}
	return nil
}
