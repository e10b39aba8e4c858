package gateway_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFreshGatewayIsSignedOut verifies a container with an empty store
// settles on unauthenticated and guards protected pages.
func TestFreshGatewayIsSignedOut(t *testing.T) {
	baseURL, cleanup := setupGatewayContainer(t, nil)
	defer cleanup()

	var status map[string]any
	resp := getJSON(t, baseURL, "/api/session", &status)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "unauthenticated", status["state"])

	resp = getJSON(t, baseURL, "/dashboard", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login?from=%2Fdashboard", resp.Header.Get("Location"))

	resp = getJSON(t, baseURL, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestLoginWithUnreachableAPI verifies transport failures surface as a bad
// gateway and leave the session signed out.
func TestLoginWithUnreachableAPI(t *testing.T) {
	baseURL, cleanup := setupGatewayContainer(t, nil)
	defer cleanup()

	resp, body := postForm(t, baseURL, "/login", url.Values{
		"identifier": {"+966500000001"},
		"password":   {"correct-horse"},
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode, body)

	var status map[string]any
	getJSON(t, baseURL, "/api/session", &status)
	require.Equal(t, false, status["is_authenticated"])
}

// TestLogoutAlwaysRedirectsHome holds even when the server call cannot be made.
func TestLogoutAlwaysRedirectsHome(t *testing.T) {
	baseURL, cleanup := setupGatewayContainer(t, nil)
	defer cleanup()

	resp, _ := postForm(t, baseURL, "/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}
