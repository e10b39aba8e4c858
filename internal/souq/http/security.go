package http

import (
	"net/http"

	"github.com/aussiebroadwan/souq/internal/souq/session"
	"github.com/aussiebroadwan/souq/pkg/httpx"
	"github.com/aussiebroadwan/souq/pkg/slogx"
)

// SecurityHandler serves the signed-in user's security settings.
type SecurityHandler struct {
	Controller *session.Controller
}

// HandleTwoFactorSetup godoc
//
//	@Summary		Start two-factor enrolment
//	@Description	Asks the backend for a new authenticator secret and returns it for display.
//	@Tags			Security
//	@Produce		json
//	@Success		200	{object}	TwoFactorSetupResponse
//	@Failure		303	"not signed in"
//	@Failure		401	{object}	ErrorResponse	"session rejected"
//	@Failure		502	{object}	ErrorResponse	"backend unreachable or bad otpauth url"
//	@Router			/security/2fa/setup [post]
func (h *SecurityHandler) HandleTwoFactorSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enrolment, err := h.Controller.SetupTwoFactor(ctx)
	if err != nil {
		slogx.FromContext(ctx).Warn("two-factor setup failed", "error", err)
		writeError(w, err, h.Controller.Language(), http.StatusUnauthorized)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TwoFactorSetupResponse{
		Issuer:      enrolment.Issuer,
		Account:     enrolment.Account,
		Secret:      enrolment.Secret,
		OTPAuthURL:  enrolment.URL,
		BackupCodes: enrolment.BackupCodes,
	})
}
