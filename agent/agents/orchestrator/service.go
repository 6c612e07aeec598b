package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	gatex "github.com/tanpawarit/chative-shopping-assistant/agent/gate"
	nodex "github.com/tanpawarit/chative-shopping-assistant/agent/nodes"
	statex "github.com/tanpawarit/chative-shopping-assistant/agent/state"
	metricsx "github.com/tanpawarit/chative-shopping-assistant/pkg/metrics"
	logx "github.com/tanpawarit/chative-shopping-assistant/pkg/logger"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

const (
	RetryReply   = "Sorry, I can't reach the assistant service right now. Please try again in a moment."
	ApologyReply = "Sorry, something went wrong on my side and nothing was changed. Please try again."
)

type Config struct {
	InterruptPolicy string `envconfig:"INTERRUPT_POLICY" split_words:"true" default:"cancel"`
}

type Option func(*Orchestrator)

func WithMetrics(r *metricsx.Recorder) Option {
	return func(o *Orchestrator) {
		o.metrics = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSearchLimit caps the number of products listed by a search reply.
func WithSearchLimit(n int) Option {
	return func(o *Orchestrator) {
		o.deps.SearchLimit = n
	}
}

func WithOrderIDs(next func() string) Option {
	return func(o *Orchestrator) {
		if next != nil {
			o.deps.NewOrderID = next
		}
	}
}

// Orchestrator runs one dialogue turn at a time per session.
type Orchestrator struct {
	store       statex.Store
	interpreter contractx.Interpreter
	deps        nodex.Deps
	metrics     *metricsx.Recorder

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	locks       *sessionLocks

	now func() time.Time
}

func New(
	store statex.Store,
	interpreter contractx.Interpreter,
	catalog catalogx.Reader,
	cfg Config,
	opts ...Option,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if interpreter == nil {
		return nil, errors.New("interpreter is required")
	}
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}

	policy, err := gatex.ParsePolicy(cfg.InterruptPolicy)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		store:       store,
		interpreter: interpreter,
		deps: nodex.Deps{
			Catalog:    catalog,
			Policy:     policy,
			NewOrderID: uuid.NewString,
		},
		locks: newSessionLocks(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.deps.Validate(); err != nil {
		return nil, err
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn answers one user utterance. Only an empty session id or an
// empty message is returned as an error; every other failure becomes a
// reply and leaves the stored session untouched.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, text string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", ErrInvalidSession
	}

	unlock := o.locks.lock(sessionID)
	defer unlock()

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidSession), errors.Is(err, ErrInvalidMessage):
		return "", err
	case errors.Is(err, contractx.ErrServiceUnavailable):
		logx.Component("orchestrator").Warn().Err(err).Str("session_id", sessionID).Str("outcome", "unavailable").Msg("turn degraded")
		o.metrics.Turn("", "unavailable")
		return RetryReply, nil
	default:
		logx.Component("orchestrator").Error().Err(err).Str("session_id", sessionID).Str("outcome", "error").Msg("turn failed")
		o.metrics.Turn("", "error")
		return ApologyReply, nil
	}

	o.metrics.Interpret(out.InterpretDuration)
	o.metrics.Turn(string(out.Intent), string(out.Outcome))
	if out.Mutation != "" {
		o.metrics.CartMutation(out.Mutation)
	}
	logx.Component("orchestrator").Debug().
		Str("session_id", sessionID).
		Str("intent", string(out.Intent)).
		Str("decision", string(out.Decision)).
		Str("outcome", string(out.Outcome)).
		Msg("turn handled")

	return out.Reply, nil
}

// EndSession forgets the session's cart, pending action and history.
func (o *Orchestrator) EndSession(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrInvalidSession
	}

	unlock := o.locks.lock(sessionID)
	defer unlock()

	if err := o.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	logx.Component("orchestrator").Debug().Str("session_id", sessionID).Msg("session ended")
	return nil
}
