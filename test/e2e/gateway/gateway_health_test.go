package gateway_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupGatewayContainer(t, nil)
	defer cleanup()

	var health map[string]any
	resp := getJSON(t, baseURL, "/livez", &health)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", health["status"])
}

// TestReadyzEndpoint only depends on the local session store, not the API.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupGatewayContainer(t, nil)
	defer cleanup()

	var health map[string]any
	resp := getJSON(t, baseURL, "/readyz", &health)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", health["status"])
}
