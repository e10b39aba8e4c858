// Package guard decides whether a navigation may proceed given the current
// auth status and the requirements attached to the target route.
package guard

import (
	"github.com/aussiebroadwan/souq/internal/souq/domain"
)

// Requirements are declared per route.
type Requirements struct {
	RequireAuth         bool
	RequireRole         domain.Role // empty means any role
	RequireVerification bool
}

type Option func(*Requirements)

// Route builds requirements. Authentication is required unless Public is
// given.
func Route(opts ...Option) Requirements {
	req := Requirements{RequireAuth: true}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// Public drops the sign-in requirement. With no other options the route is
// reachable in every auth state.
func Public() Option {
	return func(r *Requirements) { r.RequireAuth = false }
}

func RequireRole(role domain.Role) Option {
	return func(r *Requirements) { r.RequireRole = role }
}

func RequireVerification() Option {
	return func(r *Requirements) { r.RequireVerification = true }
}

type Outcome int

const (
	Render Outcome = iota
	Loading
	RedirectLogin
	RedirectUnauthorized
	RedirectVerify
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case RedirectVerify:
		return "redirect_verify"
	default:
		return "unknown"
	}
}

// Decide applies the rules in order; the first match wins. It only reads st.
//
// A route with no requirements at all renders in every state. RequireAuth
// only adds the sign-in rule: role and verification are checked on public
// routes too.
func Decide(st domain.AuthStatus, req Requirements) Outcome {
	if req == (Requirements{}) {
		return Render
	}

	switch {
	case st.IsLoading:
		return Loading
	case req.RequireAuth && !st.IsAuthenticated:
		return RedirectLogin
	case req.RequireRole != "" && !st.HasRole(req.RequireRole):
		return RedirectUnauthorized
	case req.RequireVerification && st.User != nil && !st.User.IsVerified:
		return RedirectVerify
	default:
		return Render
	}
}
