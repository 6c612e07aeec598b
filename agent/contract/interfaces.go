package contract

import "context"

// Interpreter turns one utterance plus its context into a validated Intent.
// Malformed model output yields an Unknown intent, never an error; errors
// are reserved for transport failures wrapped with ErrServiceUnavailable.
type Interpreter interface {
	Interpret(ctx context.Context, req InterpretRequest) (Intent, error)
}
