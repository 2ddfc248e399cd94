package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInput is returned before any call when attempt 1 has neither a file nor a link.
	ErrNoInput = errors.New("analysis: attempt 1 needs a file or a link")

	// ErrAnalysisFailed is the single user-facing failure. Both TransportError
	// and SchemaError match it with errors.Is.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrMissingBody marks a response that carried no text at all.
	ErrMissingBody = errors.New("response body missing")
)

// TransportError wraps a failed call to the model service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: model call failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrAnalysisFailed, e.Err}
}

// SchemaError means the model answered but the body is missing or does not
// match the expected structure.
type SchemaError struct {
	Op     string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid response: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: invalid response: %s", e.Op, e.Reason)
}

func (e *SchemaError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAnalysisFailed}
	}
	return []error{ErrAnalysisFailed, e.Err}
}

// ErrorKind classifies an error for logging: "input", "transport", "schema"
// or "unknown". The user sees the same message for transport and schema.
func ErrorKind(err error) string {
	var transportErr *TransportError
	var schemaErr *SchemaError

	switch {
	case errors.Is(err, ErrNoInput):
		return "input"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &schemaErr):
		return "schema"
	default:
		return "unknown"
	}
}
