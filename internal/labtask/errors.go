package labtask

import "fmt"

// ErrorKind classifies generation pipeline failures.
type ErrorKind string

const (
	// KindGenerationUnavailable means the backend errored or returned nothing.
	KindGenerationUnavailable ErrorKind = "generation_unavailable"

	// KindMalformedResponse means the backend output could not be decoded.
	KindMalformedResponse ErrorKind = "malformed_response"

	// KindInvalidSchema means the decoded output lacks a "questions" array.
	KindInvalidSchema ErrorKind = "invalid_schema"

	// KindFallbackFailure means the template generator could not produce a pool.
	KindFallbackFailure ErrorKind = "fallback_failure"
)

// GenerationError is returned by the generation pipeline stages.
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Recoverable reports whether the template fallback should take over.
// Only a fallback failure is fatal.
func (e *GenerationError) Recoverable() bool {
	return e.Kind != KindFallbackFailure
}

func newError(kind ErrorKind, format string, args ...any) *GenerationError {
	return &GenerationError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
