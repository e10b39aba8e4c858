package gateway_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRateLimitLoginEndpoint verifies repeated submissions for the same
// identifier are throttled before they reach the API.
func TestRateLimitLoginEndpoint(t *testing.T) {
	baseURL, cleanup := setupGatewayContainer(t, map[string]string{
		"SOUQ_LOGIN_RATE_PER_MINUTE": "10",
	})
	defer cleanup()

	form := url.Values{
		"identifier": {"+966500000001"},
		"password":   {"wrong-password"},
	}

	// Burst is 5.
	for i := range 5 {
		resp, body := postForm(t, baseURL, "/login", form)
		require.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode, "request %d: %s", i+1, body)
	}

	resp, _ := postForm(t, baseURL, "/login", form)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))

	// A different identifier has its own bucket.
	form.Set("identifier", "someone@example.com")
	resp, _ = postForm(t, baseURL, "/login", form)
	require.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode)
}
