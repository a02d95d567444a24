package httpadapter

import (
	"net/http"

	"github.com/kirillkom/fir-intake/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidQuery), domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrComplaintNotFound), domain.IsKind(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrNotReady), domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func searchErrorOutcome(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidQuery):
		return "invalid_query"
	case domain.IsKind(err, domain.ErrNotReady):
		return "not_ready"
	default:
		return "error"
	}
}
