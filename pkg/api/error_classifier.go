package api

import (
	"fmt"

	"github.com/valyala/fasthttp"

	"trends-go/pkg/trends"
)

// StatusError is a non-200 answer from Google Trends
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("google trends returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("google trends returned status %d: %s", e.StatusCode, e.Body)
}

// ClassifyStatus maps an HTTP status to the failure kind it represents
func ClassifyStatus(code int) trends.Kind {
	switch {
	case code == fasthttp.StatusTooManyRequests:
		return trends.KindRateLimited
	case code == fasthttp.StatusUnauthorized || code == fasthttp.StatusForbidden:
		return trends.KindUnauthorized
	default:
		return trends.KindRejected
	}
}

func statusError(op string, code int, body []byte) error {
	return trends.NewError(ClassifyStatus(code), op, &StatusError{
		StatusCode: code,
		Body:       snippet(body),
	})
}

func transportError(op string, err error) error {
	return trends.NewError(trends.KindTransport, op, err)
}

func malformedError(op string, err error) error {
	return trends.NewError(trends.KindMalformedResponse, op, err)
}
