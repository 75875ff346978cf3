package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorKind classifies backend failures.
type ErrorKind int

const (
	// KindUnavailable covers network failures and 5xx responses.
	KindUnavailable ErrorKind = iota
	// KindRateLimited is a 429.
	KindRateLimited
	// KindRejected is a 4xx other than 429: bad key, unknown model,
	// invalid parameters. Retrying will not help.
	KindRejected
	// KindBadResponse is a 2xx reply with nothing usable in it.
	KindBadResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate_limited"
	case KindRejected:
		return "rejected"
	case KindBadResponse:
		return "bad_response"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// APIError is returned by every Provider for backend failures.
type APIError struct {
	Provider string
	Kind     ErrorKind

	// Status is the HTTP status, or 0 when the request never got a reply.
	Status int

	// RetryAfter is the server-suggested wait for rate limits, if any.
	RetryAfter time.Duration

	Err error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %v", e.Provider, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Transient reports whether the same request may succeed if sent again.
func (e *APIError) Transient() bool {
	return e.Kind != KindRejected
}

// IsTransient reports whether err is worth retrying. Context cancellation
// and rejected requests are not; unclassified errors are.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return true
}

// classifyStatus builds an APIError for an HTTP status returned by a
// vendor SDK. status 0 means a transport failure.
func classifyStatus(provider string, status int, err error) *APIError {
	e := &APIError{Provider: provider, Status: status, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case status >= 400 && status < 500:
		e.Kind = KindRejected
	default:
		e.Kind = KindUnavailable
	}
	return e
}

func badResponse(provider, format string, args ...any) *APIError {
	return &APIError{Provider: provider, Kind: KindBadResponse, Err: fmt.Errorf(format, args...)}
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
