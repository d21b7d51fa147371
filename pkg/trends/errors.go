package trends

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure
type Kind int

const (
	KindInput Kind = iota + 1
	KindTransport
	KindRateLimited
	KindUnauthorized
	KindRejected
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTransport:
		return "transport"
	case KindRateLimited:
		return "rate_limited"
	case KindUnauthorized:
		return "unauthorized"
	case KindRejected:
		return "rejected"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is returned by every operation in this package and by providers
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind and operation name
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind carried by err, or 0 if err is not an *Error
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}

// IsInput reports whether err was caused by caller input
func IsInput(err error) bool {
	return KindOf(err) == KindInput
}

// IsProvider reports whether err came from the trends provider
func IsProvider(err error) bool {
	k := KindOf(err)
	return k != 0 && k != KindInput
}
