package api

import (
	"fmt"
	"sort"
	"strings"
)

// GenericFailureMessage is shown when the server gives no message of its own
const GenericFailureMessage = "Something went wrong. Please try again."

// AuthExpiredError means the remote API rejected the credentials (401). The
// credentials have already been cleared when this is returned.
type AuthExpiredError struct {
	Message string
}

func (e *AuthExpiredError) Error() string {
	if e.Message != "" {
		return "authentication expired: " + e.Message
	}
	return "authentication expired"
}

// ServerValidationError is a 4xx response carrying field-level messages
type ServerValidationError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *ServerValidationError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, strings.Join(e.Messages(), "; "))
}

// Messages flattens the field messages in field order, falling back to the
// top-level message
func (e *ServerValidationError) Messages() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var out []string
	for _, f := range fields {
		out = append(out, e.Fields[f]...)
	}
	if len(out) == 0 && e.Message != "" {
		out = append(out, e.Message)
	}
	return out
}

// ServerError is a 5xx response, a 4xx without field messages, or a response
// that did not acknowledge success
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.UserMessage())
}

// UserMessage returns the server's message or the generic fallback
func (e *ServerError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return GenericFailureMessage
}

// NetworkError means no response was received
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
