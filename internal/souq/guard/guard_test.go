package guard

import (
	"testing"

	"github.com/aussiebroadwan/souq/internal/souq/domain"
	"github.com/stretchr/testify/require"
)

func authenticatedAs(role domain.Role, verified bool) domain.AuthStatus {
	return domain.AuthStatus{
		State:           domain.StateAuthenticated,
		IsAuthenticated: true,
		ProfileLoaded:   true,
		User:            &domain.UserProfile{ID: "1", Role: role, IsVerified: verified},
	}
}

func TestRouteDefaults(t *testing.T) {
	t.Parallel()

	require.Equal(t, Requirements{RequireAuth: true}, Route())
	require.Equal(t, Requirements{}, Route(Public()))
	require.Equal(t,
		Requirements{RequireAuth: true, RequireRole: domain.RoleAdmin, RequireVerification: true},
		Route(RequireRole(domain.RoleAdmin), RequireVerification()),
	)
}

func TestDecide(t *testing.T) {
	t.Parallel()

	signedOut := domain.AuthStatus{State: domain.StateUnauthenticated}
	tokenOnly := domain.AuthStatus{State: domain.StateAuthenticated, IsAuthenticated: true}

	tests := []struct {
		name   string
		status domain.AuthStatus
		req    Requirements
		want   Outcome
	}{
		{"signed out on protected route", signedOut, Route(), RedirectLogin},
		{"signed out on public route", signedOut, Route(Public()), Render},
		{"loading on public route", domain.AuthStatus{IsLoading: true}, Route(Public()), Render},
		{"authenticated", authenticatedAs(domain.RoleUser, false), Route(), Render},
		{"non-admin on admin route", authenticatedAs(domain.RoleUser, true), Route(RequireRole(domain.RoleAdmin)), RedirectUnauthorized},
		{"admin on admin route", authenticatedAs(domain.RoleAdmin, true), Route(RequireRole(domain.RoleAdmin)), Render},
		{"missing profile on admin route", tokenOnly, Route(RequireRole(domain.RoleAdmin)), RedirectUnauthorized},
		{"unverified on verified route", authenticatedAs(domain.RoleProvider, false), Route(RequireVerification()), RedirectVerify},
		{"verified on verified route", authenticatedAs(domain.RoleProvider, true), Route(RequireVerification()), Render},
		{"missing profile on verified route", tokenOnly, Route(RequireVerification()), Render},
		{"role checked before verification", authenticatedAs(domain.RoleUser, false), Route(RequireRole(domain.RoleAdmin), RequireVerification()), RedirectUnauthorized},
		{"non-admin on public admin route", authenticatedAs(domain.RoleUser, false), Route(Public(), RequireRole(domain.RoleAdmin)), RedirectUnauthorized},
		{"signed out on public admin route", signedOut, Route(Public(), RequireRole(domain.RoleAdmin)), RedirectUnauthorized},
		{"admin on public admin route", authenticatedAs(domain.RoleAdmin, false), Route(Public(), RequireRole(domain.RoleAdmin)), Render},
		{"unverified on public verified route", authenticatedAs(domain.RoleUser, false), Route(Public(), RequireVerification()), RedirectVerify},
		{"signed out on public verified route", signedOut, Route(Public(), RequireVerification()), Render},
		{"loading on public admin route", domain.AuthStatus{IsLoading: true}, Route(Public(), RequireRole(domain.RoleAdmin)), Loading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decide(tt.status, tt.req))
		})
	}
}

func TestDecideAuthenticatedNonAdminNeverGoesToLogin(t *testing.T) {
	t.Parallel()

	req := Route(RequireRole(domain.RoleAdmin))
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleProvider, "moderator"} {
		for _, verified := range []bool{true, false} {
			require.Equal(t, RedirectUnauthorized, Decide(authenticatedAs(role, verified), req))
		}
	}
}

func TestDecideLoadingNeverRedirects(t *testing.T) {
	t.Parallel()

	statuses := []domain.AuthStatus{
		{IsLoading: true},
		{IsLoading: true, State: domain.StateLoading},
		{IsLoading: true, IsAuthenticated: true},
		{IsLoading: true, IsAuthenticated: true, User: &domain.UserProfile{Role: domain.RoleUser}},
		{IsLoading: true, State: domain.StateError, Error: "boom"},
	}
	reqs := []Requirements{
		Route(),
		Route(RequireRole(domain.RoleAdmin)),
		Route(RequireVerification()),
		Route(RequireRole(domain.RoleAdmin), RequireVerification()),
	}

	for _, st := range statuses {
		for _, req := range reqs {
			require.Equal(t, Loading, Decide(st, req))
		}
	}
}

func TestDecideDoesNotMutateStatus(t *testing.T) {
	t.Parallel()

	st := authenticatedAs(domain.RoleUser, false)
	before := *st.User
	Decide(st, Route(RequireRole(domain.RoleAdmin), RequireVerification()))
	require.Equal(t, before, *st.User)
}
