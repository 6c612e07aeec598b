package contract

import "errors"

var (
	ErrModelInvoke        = errors.New("model invoke failed")
	ErrSchemaViolation    = errors.New("model response violates schema")
	ErrPromptMissing      = errors.New("required prompt is missing")
	ErrValidation         = errors.New("validation failed")
	ErrServiceUnavailable = errors.New("language model service unavailable")
	ErrInterpreterFailure = errors.New("interpreter could not produce an intent")
	ErrInvalidSession     = errors.New("session id is empty")
	ErrInvalidMessage     = errors.New("message is empty")
)
