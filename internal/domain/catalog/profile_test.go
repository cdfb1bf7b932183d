package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebThingsIO/addon-proxy/internal/domain/version"
)

func TestProfileFromQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := ProfileFromQuery(url.Values{}, "")
		require.NoError(t, err)

		assert.Empty(t, p.Arch)
		assert.Equal(t, DefaultVersion, p.GatewayVersion.String())
		assert.Equal(t, []string{DefaultNodeVersion}, p.RuntimeVersions[RuntimeNode])
		assert.Equal(t, DefaultPythonVersions(), p.RuntimeVersions[RuntimePython])
		assert.False(t, p.IncludeTestOnly)
	})

	t.Run("test truthy only when exactly 1", func(t *testing.T) {
		for raw, want := range map[string]bool{"1": true, "true": false, "0": false, "yes": false} {
			p, err := ProfileFromQuery(url.Values{"test": {raw}}, "")
			require.NoError(t, err)
			assert.Equal(t, want, p.IncludeTestOnly, raw)
		}
	})

	t.Run("python is a comma-separated list", func(t *testing.T) {
		p, err := ProfileFromQuery(url.Values{"python": {"3.9,3.10"}}, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"3.9", "3.10"}, p.RuntimeVersions[RuntimePython])
	})

	t.Run("version parameter wins over user agent", func(t *testing.T) {
		p, err := ProfileFromQuery(url.Values{"version": {"1.0.0"}}, "webthings-gateway/0.10.0")
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", p.GatewayVersion.String())
	})

	t.Run("version parsed from recognized user agents", func(t *testing.T) {
		for _, ua := range []string{
			"mozilla-iot-gateway/0.10.0",
			"webthings-gateway/0.10.0 (linux; raspbian)",
		} {
			p, err := ProfileFromQuery(url.Values{}, ua)
			require.NoError(t, err)
			assert.Equal(t, "0.10.0", p.GatewayVersion.String(), ua)
		}
	})

	t.Run("unrecognized user agent falls back to default", func(t *testing.T) {
		p, err := ProfileFromQuery(url.Values{}, "curl/8.0.1")
		require.NoError(t, err)
		assert.Equal(t, DefaultVersion, p.GatewayVersion.String())
	})

	t.Run("invalid version rejected", func(t *testing.T) {
		_, err := ProfileFromQuery(url.Values{"version": {"banana"}}, "")
		assert.ErrorIs(t, err, version.ErrInvalidVersion)
	})
}

func TestProfileEra(t *testing.T) {
	cases := map[string]Era{
		"0.4.0":  EraLegacy,
		"0.6.1":  EraLegacy,
		"0.7.0":  EraMid,
		"0.9.2":  EraMid,
		"0.10.0": EraModern,
		"0.11.0": EraModern,
		"1.0.0":  EraModern,
		"2.3.4":  EraModern,
	}
	for raw, want := range cases {
		p, err := ProfileFromQuery(url.Values{"version": {raw}}, "")
		require.NoError(t, err)
		assert.Equal(t, want, p.Era(), raw)
	}
}
