package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/souq/internal/souq/session"
	"github.com/aussiebroadwan/souq/pkg/apiclient"
	"github.com/aussiebroadwan/souq/pkg/httpx"
)

// writeError maps controller and API errors onto a response. rejected is the
// status used when the backend refused the request with a 4xx.
func writeError(w http.ResponseWriter, err error, lang string, rejected int) {
	var (
		apiErr *apiclient.APIError
		valErr *apiclient.ValidationError
	)

	switch {
	case errors.Is(err, session.ErrAuthInFlight):
		httpx.WriteJSON(w, http.StatusConflict, ErrorResponse{Message: "A sign-in is already in progress."})
	case errors.Is(err, session.ErrNotAuthenticated):
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Sign in to continue."})
	case errors.Is(err, session.ErrNoChallenge):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Sign in again to receive a new verification request."})
	case errors.As(err, &valErr):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Message: apiclient.Message(err, lang),
			Fields:  valErr.Fields,
		})
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		code := rejected
		if apiErr.StatusCode == http.StatusTooManyRequests {
			code = http.StatusTooManyRequests
		}
		httpx.WriteJSON(w, code, ErrorResponse{
			Message: apiclient.Message(err, lang),
			Fields:  apiErr.Fields,
		})
	default:
		httpx.WriteJSON(w, http.StatusBadGateway, ErrorResponse{Message: apiclient.Message(err, lang)})
	}
}
