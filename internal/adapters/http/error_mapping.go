package httpadapter

import (
	"errors"
	"net/http"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrFallbackFailed):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrTemporary), domain.IsKind(err, domain.ErrCollaborator):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// userSafeMessage keeps internal failure chains out of responses. A
// RouteFailure already formats a resident-safe message; everything
// else maps to a generic one unless it is an input problem.
func userSafeMessage(err error) string {
	var failure *domain.RouteFailure
	if errors.As(err, &failure) {
		return failure.Error()
	}
	if domain.IsKind(err, domain.ErrInvalidInput) || domain.IsKind(err, domain.ErrDocumentNotFound) {
		return err.Error()
	}
	return "the assistant is temporarily unable to answer, please try again"
}
