package http

import (
	"errors"
	"mime"
	"net/http"
	"sort"
	"strings"

	"github.com/aussiebroadwan/souq/internal/souq/session"
	"github.com/aussiebroadwan/souq/pkg/apiclient"
	"github.com/aussiebroadwan/souq/pkg/httpx"
	"github.com/aussiebroadwan/souq/pkg/slogx"
)

const (
	defaultLanding  = "/dashboard"
	maxUploadMemory = 32 << 20
)

// AuthHandler serves the sign-in, registration and recovery forms.
type AuthHandler struct {
	Controller *session.Controller
}

// HandleLogin godoc
//
//	@Summary		Sign in
//	@Description	Exchanges an identifier (phone number or email) and password for a session.
//	@Description	On success the browser is sent back to "from" when it is a local path, otherwise to /dashboard.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			identifier	formData	string				true	"Phone number (+201012345678) or email"
//	@Param			password	formData	string				true	"Password"
//	@Param			from		formData	string				false	"Path to return to"
//	@Success		303
//	@Success		202			{object}	ChallengeResponse	"second factor required"
//	@Failure		400			{object}	ErrorResponse		"invalid input"
//	@Failure		401			{object}	ErrorResponse		"rejected credentials"
//	@Failure		409			{object}	ErrorResponse		"sign-in already in progress"
//	@Failure		502			{object}	ErrorResponse		"backend unreachable"
//	@Router			/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	lang := h.Controller.Language()

	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid form data"})
		return
	}

	req := apiclient.NewLoginRequest(r.FormValue("identifier"), r.FormValue("password"))
	err := h.Controller.Login(ctx, req)

	var tfa *apiclient.TwoFactorRequiredError
	switch {
	case errors.As(err, &tfa):
		httpx.WriteJSON(w, http.StatusAccepted, ChallengeResponse{
			Message: apiclient.Message(err, lang),
			Methods: tfa.Methods,
			Next:    "/login/2fa",
		})
		return
	case err != nil:
		log.Info("login rejected", "error", err)
		writeError(w, err, lang, http.StatusUnauthorized)
		return
	}

	httpx.NoCache(w)
	http.Redirect(w, r, safeReturnPath(r.FormValue("from")), http.StatusSeeOther)
}

// HandleTwoFactor godoc
//
//	@Summary		Complete a two-factor sign-in
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			code	formData	string			true	"TOTP or backup code"
//	@Param			from	formData	string			false	"Path to return to"
//	@Success		303
//	@Failure		400		{object}	ErrorResponse	"no pending challenge or invalid code format"
//	@Failure		401		{object}	ErrorResponse	"code rejected"
//	@Router			/login/2fa [post]
func (h *AuthHandler) HandleTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid form data"})
		return
	}

	if err := h.Controller.CompleteTwoFactor(ctx, strings.TrimSpace(r.FormValue("code"))); err != nil {
		slogx.FromContext(ctx).Info("two-factor sign-in rejected", "error", err)
		writeError(w, err, h.Controller.Language(), http.StatusUnauthorized)
		return
	}

	httpx.NoCache(w)
	http.Redirect(w, r, safeReturnPath(r.FormValue("from")), http.StatusSeeOther)
}

// HandleRegister godoc
//
//	@Summary		Create an account
//	@Description	Accepts url-encoded or multipart forms; files in a multipart form are forwarded as documents.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded,mpfd
//	@Produce		json
//	@Param			full_name			formData	string			true	"Full name"
//	@Param			phone_number		formData	string			true	"Phone number in international format"
//	@Param			email				formData	string			false	"Email"
//	@Param			password			formData	string			true	"Password"
//	@Param			password_confirm	formData	string			true	"Password again"
//	@Param			role				formData	string			false	"user or provider"
//	@Success		303
//	@Success		202					{object}	PendingResponse	"account awaits OTP verification"
//	@Failure		400					{object}	ErrorResponse	"invalid input"
//	@Router			/register [post]
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := parseForm(r); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid form data"})
		return
	}

	req := apiclient.RegisterRequest{
		FullName:        strings.TrimSpace(r.FormValue("full_name")),
		PhoneNumber:     strings.TrimSpace(r.FormValue("phone_number")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
		Role:            r.FormValue("role"),
	}

	docs, closeDocs, err := formDocuments(r)
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid document upload"})
		return
	}
	defer closeDocs()
	req.Documents = docs

	created, err := h.Controller.Register(ctx, req)
	if err != nil {
		log.Info("registration rejected", "error", err)
		writeError(w, err, h.Controller.Language(), http.StatusBadRequest)
		return
	}

	if !created {
		httpx.WriteJSON(w, http.StatusAccepted, PendingResponse{
			Message: "Account created. Enter the verification code we sent you.",
			Next:    "/otp/verify",
		})
		return
	}

	httpx.NoCache(w)
	http.Redirect(w, r, defaultLanding, http.StatusSeeOther)
}

// HandleSendOTP godoc
//
//	@Summary		Send a one-time code
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			phone_number	formData	string			false	"Phone number"
//	@Param			email			formData	string			false	"Email"
//	@Param			purpose			formData	string			false	"registration, login, password_reset or email_verification"
//	@Success		200				{object}	MessageResponse
//	@Failure		400				{object}	ErrorResponse
//	@Router			/otp/send [post]
func (h *AuthHandler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid form data"})
		return
	}

	msg, err := h.Controller.SendOTP(r.Context(), apiclient.OTPSendRequest{
		PhoneNumber: strings.TrimSpace(r.FormValue("phone_number")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Purpose:     r.FormValue("purpose"),
	})
	if err != nil {
		writeError(w, err, h.Controller.Language(), http.StatusBadRequest)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// HandleVerifyOTP godoc
//
//	@Summary		Verify a one-time code
//	@Description	When the backend answers with a session the user is signed in and redirected.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			phone_number	formData	string			false	"Phone number"
//	@Param			email			formData	string			false	"Email"
//	@Param			code			formData	string			true	"Code"
//	@Param			purpose			formData	string			false	"Purpose the code was sent for"
//	@Success		303
//	@Success		200				{object}	MessageResponse	"verified without a session"
//	@Failure		400				{object}	ErrorResponse
//	@Router			/otp/verify [post]
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid form data"})
		return
	}

	created, err := h.Controller.VerifyOTP(ctx, apiclient.OTPVerifyRequest{
		PhoneNumber: strings.TrimSpace(r.FormValue("phone_number")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Code:        strings.TrimSpace(r.FormValue("code")),
		Purpose:     r.FormValue("purpose"),
	})
	if err != nil {
		slogx.FromContext(ctx).Info("otp verification rejected", "error", err)
		writeError(w, err, h.Controller.Language(), http.StatusBadRequest)
		return
	}

	if !created {
		httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Verified."})
		return
	}

	httpx.NoCache(w)
	http.Redirect(w, r, defaultLanding, http.StatusSeeOther)
}

// HandlePasswordReset godoc
//
//	@Summary		Request a password reset code
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			phone_number	formData	string			false	"Phone number"
//	@Param			email			formData	string			false	"Email"
//	@Success		200				{object}	MessageResponse
//	@Failure		400				{object}	ErrorResponse
//	@Router			/password/reset [post]
func (h *AuthHandler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid form data"})
		return
	}

	msg, err := h.Controller.RequestPasswordReset(r.Context(), apiclient.PasswordResetRequest{
		PhoneNumber: strings.TrimSpace(r.FormValue("phone_number")),
		Email:       strings.TrimSpace(r.FormValue("email")),
	})
	if err != nil {
		writeError(w, err, h.Controller.Language(), http.StatusBadRequest)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// HandlePasswordResetConfirm godoc
//
//	@Summary		Set a new password with a reset code
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			phone_number		formData	string			false	"Phone number"
//	@Param			email				formData	string			false	"Email"
//	@Param			code				formData	string			true	"Reset code"
//	@Param			new_password		formData	string			true	"New password"
//	@Param			confirm_password	formData	string			true	"New password again"
//	@Success		200					{object}	MessageResponse
//	@Failure		400					{object}	ErrorResponse
//	@Router			/password/reset/confirm [post]
func (h *AuthHandler) HandlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid form data"})
		return
	}

	msg, err := h.Controller.ConfirmPasswordReset(r.Context(), apiclient.PasswordResetConfirmRequest{
		PhoneNumber:     strings.TrimSpace(r.FormValue("phone_number")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Code:            strings.TrimSpace(r.FormValue("code")),
		NewPassword:     r.FormValue("new_password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	})
	if err != nil {
		writeError(w, err, h.Controller.Language(), http.StatusBadRequest)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// HandleLogout godoc
//
//	@Summary		Sign out
//	@Description	Always signs out locally, even when the backend cannot be reached.
//	@Tags			Auth
//	@Success		303
//	@Router			/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Controller.Logout(r.Context()); err != nil {
		slogx.FromContext(r.Context()).Error("failed to clear local session", "error", err)
	}

	httpx.NoCache(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeReturnPath only allows local absolute paths so "from" cannot send the
// browser to another site.
func safeReturnPath(from string) string {
	switch {
	case from == "",
		!strings.HasPrefix(from, "/"),
		strings.HasPrefix(from, "//"),
		strings.HasPrefix(from, "/\\"),
		strings.HasPrefix(from, "/login"):
		return defaultLanding
	default:
		return from
	}
}

func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxUploadMemory)
	}
	return r.ParseForm()
}

// formDocuments opens every uploaded file. The returned func closes them.
func formDocuments(r *http.Request) ([]apiclient.Document, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, noop, nil
	}

	fields := make([]string, 0, len(r.MultipartForm.File))
	for field := range r.MultipartForm.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var (
		docs    []apiclient.Document
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	for _, field := range fields {
		for _, fh := range r.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				closeAll()
				return nil, noop, err
			}
			closers = append(closers, f.Close)
			docs = append(docs, apiclient.Document{Field: field, Filename: fh.Filename, Content: f})
		}
	}
	return docs, closeAll, nil
}
