package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTemporary        = errors.New("temporary failure")

	// ErrEmptyContext is a signaled condition, not a hard failure: a
	// handler whose policy requires grounded context raises it to ask
	// the router for the fallback step.
	ErrEmptyContext = errors.New("empty retrieval context")

	// ErrCollaborator marks embedding/LLM/scrape call failures. The
	// router treats it like a handler failure.
	ErrCollaborator = errors.New("collaborator unavailable")

	// ErrFallbackFailed is terminal: both the selected handler and the
	// general fallback failed for the same query.
	ErrFallbackFailed = errors.New("fallback handler failed")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// RouteFailure is the structured error carried out of a Failed terminal
// state. Error() is user-safe; the underlying causes stay wrapped.
type RouteFailure struct {
	Domain  DomainLabel
	Handler string
	Cause   error
}

func (e *RouteFailure) Error() string {
	return fmt.Sprintf("unable to answer %s query: handler %s and fallback both failed", e.Domain, e.Handler)
}

func (e *RouteFailure) Unwrap() error {
	return e.Cause
}
