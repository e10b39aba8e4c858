package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, apiURL string) Config {
	t.Helper()

	cfg := DefaultConfig()
	cfg.APIBaseURL = apiURL
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "souq.db")
	cfg.LogLevel = "error"
	cfg.PollInterval = time.Hour
	cfg.ShutdownGracePeriod = time.Second
	return cfg
}

func TestNewWiresPersistentDeviceID(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1/api")

	first, err := New(cfg)
	require.NoError(t, err)
	id := first.client.DeviceID
	require.Len(t, id, 26)
	require.NoError(t, first.db.Close())

	second, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.db.Close() })
	require.Equal(t, id, second.client.DeviceID)
	require.Equal(t, cfg.Language, second.client.Language)
}

func TestApplicationServesBootstrappedSession(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(api.Close)

	application, err := New(testConfig(t, api.URL))
	require.NoError(t, err)

	application.bootstrapper.Bootstrap(t.Context())
	t.Cleanup(func() {
		application.bootstrapper.Shutdown()
		_ = application.db.Close()
	})

	rec := httptest.NewRecorder()
	application.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "unauthenticated", body["state"])
	require.Equal(t, false, body["is_authenticated"])
}
