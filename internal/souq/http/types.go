package http

import "github.com/aussiebroadwan/souq/internal/souq/domain"

// ErrorResponse is the body of every failed form submission.
type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MessageResponse acknowledges a call that has no other result.
type MessageResponse struct {
	Message string `json:"message"`
}

// ChallengeResponse is returned by POST /login when a second factor is needed.
type ChallengeResponse struct {
	Message string   `json:"message"`
	Methods []string `json:"methods,omitempty"`
	Next    string   `json:"next"`
}

// PendingResponse is returned when an account awaits OTP verification.
type PendingResponse struct {
	Message string `json:"message"`
	Next    string `json:"next"`
}

// TwoFactorSetupResponse carries what an authenticator app needs.
type TwoFactorSetupResponse struct {
	Issuer      string   `json:"issuer"`
	Account     string   `json:"account"`
	Secret      string   `json:"secret"`
	OTPAuthURL  string   `json:"otpauth_url"`
	BackupCodes []string `json:"backup_codes,omitempty"`
}

// PageResponse stands in for a rendered page.
type PageResponse struct {
	Page     string              `json:"page"`
	Greeting string              `json:"greeting,omitempty"`
	From     string              `json:"from,omitempty"`
	User     *domain.UserProfile `json:"user,omitempty"`
}

// HealthResponse is served by /livez and /readyz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}
