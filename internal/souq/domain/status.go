package domain

import "time"

// AuthState is the coarse state of the auth state machine.
type AuthState string

const (
	StateIdle            AuthState = "idle"
	StateLoading         AuthState = "loading"
	StateAuthenticated   AuthState = "authenticated"
	StateUnauthenticated AuthState = "unauthenticated"
	StateError           AuthState = "error"
)

// AuthStatus is the read-only view of the session handed to pages and to the
// route guard. It is derived on demand and never stored.
type AuthStatus struct {
	State           AuthState    `json:"state"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
	Error           string       `json:"error,omitempty"`
	User            *UserProfile `json:"user,omitempty"`

	// ProfileLoaded is false while authenticated with no profile yet, for
	// example right after a failed profile fetch.
	ProfileLoaded bool `json:"profile_loaded"`

	// TwoFactorPending is set between a login answered with requires_2fa
	// and the matching CompleteTwoFactor call.
	TwoFactorPending bool `json:"two_factor_pending,omitempty"`

	// ExpiresAt is read from the access token when it is a JWT.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// HasRole reports whether the loaded profile holds role r.
func (s AuthStatus) HasRole(r Role) bool {
	return s.User != nil && s.User.Role == r
}
