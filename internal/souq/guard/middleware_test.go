package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/souq/internal/souq/domain"
	"github.com/stretchr/testify/require"
)

type staticStatus domain.AuthStatus

func (s staticStatus) Status() domain.AuthStatus { return domain.AuthStatus(s) }

func serve(t *testing.T, st domain.AuthStatus, req Requirements, target string) *httptest.ResponseRecorder {
	t.Helper()

	g := New(staticStatus(st), Paths{})
	h := g.Protect(req)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestProtectRedirectsToLoginWithFrom(t *testing.T) {
	t.Parallel()

	rec := serve(t, domain.AuthStatus{State: domain.StateUnauthenticated}, Route(), "/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login?from=%2Fdashboard", rec.Header().Get("Location"))

	rec = serve(t, domain.AuthStatus{}, Route(), "/dashboard?tab=orders")
	require.Equal(t, "/login?from=%2Fdashboard%3Ftab%3Dorders", rec.Header().Get("Location"))
}

func TestProtectRedirectsNonAdminToUnauthorized(t *testing.T) {
	t.Parallel()

	rec := serve(t, authenticatedAs(domain.RoleUser, true), Route(RequireRole(domain.RoleAdmin)), "/admin")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/unauthorized", rec.Header().Get("Location"))
}

func TestProtectRedirectsUnverified(t *testing.T) {
	t.Parallel()

	rec := serve(t, authenticatedAs(domain.RoleProvider, false), Route(RequireVerification()), "/provider/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/verify-account", rec.Header().Get("Location"))
}

func TestProtectServesLoadingPlaceholder(t *testing.T) {
	t.Parallel()

	rec := serve(t, domain.AuthStatus{IsLoading: true}, Route(RequireRole(domain.RoleAdmin)), "/admin")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Refresh"))
	require.JSONEq(t, `{"state":"loading"}`, rec.Body.String())
}

func TestProtectRendersAllowed(t *testing.T) {
	t.Parallel()

	rec := serve(t, authenticatedAs(domain.RoleAdmin, true), Route(RequireRole(domain.RoleAdmin)), "/admin")
	require.Equal(t, http.StatusTeapot, rec.Code)

	rec = serve(t, domain.AuthStatus{}, Route(Public()), "/login")
	require.Equal(t, http.StatusTeapot, rec.Code)
}
