package tablegate

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// KindValidation indicates bad or missing caller input.
	KindValidation Kind = "validation"
	// KindNotFound indicates the requested record matched zero rows.
	KindNotFound Kind = "not_found"
	// KindRemote indicates a failure returned by the database service.
	KindRemote Kind = "remote"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func NewE(kind Kind, msg string) *E            { return &E{Kind: kind, Message: msg} }

// statusFor maps an error to the HTTP status of its failure envelope.
// Anything without a kind is an unclassified remote failure.
func statusFor(err error) int {
	var e *E
	if errors.As(err, &e) {
		switch e.Kind {
		case KindValidation:
			return http.StatusBadRequest
		case KindNotFound:
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}
