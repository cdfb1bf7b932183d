package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/config"
	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/server"
)

// A two-record catalog: an adapter compatible with gateways 0.10+, and a
// notifier compatible only with the 0.9 line.
const upstreamCatalog = `[
	{
		"id": "zwave-adapter",
		"name": "Z-Wave",
		"description": "Z-Wave device support",
		"author": "WebThingsIO",
		"homepage_url": "https://example.com/zwave",
		"license_url": "%LICENSE_URL%",
		"type": "Adapter",
		"primary_type": "adapter",
		"packages": [
			{
				"architecture": "any",
				"version": "1.2.0",
				"url": "https://example.com/zwave-1.2.0.tgz",
				"checksum": "abc123",
				"language": {"name": "nodejs", "versions": ["any"]},
				"gateway": {"min": "0.10.0", "max": "*"},
				"api": {"min": 2, "max": 2}
			}
		]
	},
	{
		"id": "email-notifier",
		"name": "Email",
		"description": "Email notifications",
		"author": "WebThingsIO",
		"homepage_url": "https://example.com/email",
		"license_url": "https://example.com/email/LICENSE",
		"type": "Notifier",
		"primary_type": "notifier",
		"packages": [
			{
				"architecture": "any",
				"version": "0.3.1",
				"url": "https://example.com/email-0.3.1.tgz",
				"checksum": "def456",
				"language": {"name": "python", "versions": ["any"]},
				"gateway": {"min": "0.9.0", "max": "0.9.9"},
				"api": {"min": 2, "max": 2}
			}
		]
	}
]`

func newTestServer(t *testing.T, catalogJSON string) *server.Server {
	t.Helper()

	catalogJSON = strings.ReplaceAll(catalogJSON, "%LICENSE_URL%", "https://example.com/zwave/LICENSE")

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogJSON))
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Default()
	cfg.Source.URL = upstream.URL
	cfg.RateLimit.Enabled = false

	srv, err := server.New(cfg)
	require.NoError(t, err)
	require.NoError(t, srv.Bootstrap(context.Background()))
	t.Cleanup(func() { srv.Close() })

	return srv
}

func get(srv *server.Server, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAddonsByEra(t *testing.T) {
	srv := newTestServer(t, upstreamCatalog)

	t.Run("0.6.1 gets the legacy shape, adapters only", func(t *testing.T) {
		w := get(srv, "/addons?version=0.6.1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		out := decodeList(t, w)
		require.Len(t, out, 1)

		entry := out[0]
		assert.Equal(t, "zwave-adapter", entry["name"])
		assert.Equal(t, "Z-Wave", entry["display_name"])
		assert.Equal(t, float64(2), entry["api"])

		packages, ok := entry["packages"].(map[string]any)
		require.True(t, ok, "legacy packages keyed by architecture")
		assert.Contains(t, packages, "any")
	})

	t.Run("0.9.2 gets the mid shape including notifiers", func(t *testing.T) {
		w := get(srv, "/addons?version=0.9.2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		out := decodeList(t, w)

		var notifier map[string]any
		for _, entry := range out {
			if entry["name"] == "email-notifier" {
				notifier = entry
			}
		}
		require.NotNil(t, notifier, "notifier must be served to 0.9 gateways")
		assert.Equal(t, "Email", notifier["display_name"])
		assert.Equal(t, "notifier", notifier["type"])
		assert.Equal(t, "https://example.com/email/LICENSE", notifier["license"])
		assert.Equal(t, "0.3.1", notifier["version"])
	})

	t.Run("0.11.0 gets the current shape with renamed fields", func(t *testing.T) {
		w := get(srv, "/addons?version=0.11.0", nil)
		require.Equal(t, http.StatusOK, w.Code)

		out := decodeList(t, w)
		require.Len(t, out, 1)

		entry := out[0]
		assert.Equal(t, "zwave-adapter", entry["id"])
		assert.Equal(t, "Z-Wave", entry["name"])
		assert.Equal(t, "https://example.com/zwave", entry["homepage_url"])
		assert.Equal(t, "adapter", entry["primary_type"])
		assert.NotContains(t, entry, "display_name")
	})

	t.Run("version from gateway user agent", func(t *testing.T) {
		w := get(srv, "/addons", map[string]string{
			"User-Agent": "webthings-gateway/0.11.0",
		})
		require.Equal(t, http.StatusOK, w.Code)

		out := decodeList(t, w)
		require.Len(t, out, 1)
		assert.Equal(t, "zwave-adapter", out[0]["id"])
	})

	t.Run("invalid version is a client error", func(t *testing.T) {
		w := get(srv, "/addons?version=banana", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalytics(t *testing.T) {
	srv := newTestServer(t, upstreamCatalog)

	for i := 0; i < 3; i++ {
		get(srv, "/addons?version=0.11.0", map[string]string{
			"User-Agent": "webthings-gateway/0.11.0",
		})
	}

	w := get(srv, "/addons/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 3, out["webthings-gateway/0.11.0"])
	assert.Equal(t, 3, out["total"])
}

func TestLicenseProxy(t *testing.T) {
	licenseServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("MPL-2.0 full text"))
	}))
	defer licenseServer.Close()

	catalogJSON := strings.ReplaceAll(upstreamCatalog, "%LICENSE_URL%", licenseServer.URL)
	srv := newTestServer(t, catalogJSON)

	t.Run("proxies the license text", func(t *testing.T) {
		w := get(srv, "/addons/license/zwave-adapter", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MPL-2.0 full text", w.Body.String())
	})

	t.Run("unknown addon is 404", func(t *testing.T) {
		w := get(srv, "/addons/license/no-such-addon", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInfoPage(t *testing.T) {
	srv := newTestServer(t, upstreamCatalog)

	w := get(srv, "/addons/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Z-Wave")
	assert.Contains(t, w.Body.String(), "Email")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, upstreamCatalog)

	w := get(srv, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "healthy", out["status"])
}
