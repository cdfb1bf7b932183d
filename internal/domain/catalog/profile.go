package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/WebThingsIO/addon-proxy/internal/domain/version"
)

// Era is a range of gateway versions sharing compatibility rules and a
// response shape. Each request resolves to exactly one era.
type Era int

const (
	// EraLegacy covers gateways 0.6.x and older: one response object per
	// add-on, artifacts keyed by architecture.
	EraLegacy Era = iota
	// EraMid covers gateways 0.7.x through 0.9.x: one flattened response
	// object per matching package.
	EraMid
	// EraModern covers gateways 0.10 and every later release: one response
	// object per matching package, current field names.
	EraModern
)

// Runtime names with version compatibility semantics.
const (
	RuntimeNode   = "nodejs"
	RuntimePython = "python"
)

// Defaults applied when a request omits a filter. These follow the 0.6.x
// gateway generation, the oldest clients that query this service without
// declaring themselves.
const (
	DefaultNodeVersion = "57"
	DefaultVersion     = "0.6.1"
)

// DefaultPythonVersions returns the python versions assumed for clients
// that do not declare any.
func DefaultPythonVersions() []string {
	return []string{"2.7", "3.5"}
}

// User-Agent prefixes that carry the gateway version.
var gatewayUAPrefixes = []string{
	"mozilla-iot-gateway/",
	"webthings-gateway/",
}

// Profile describes one requesting client: its architecture, gateway
// version, scripting runtime versions, and optional catalog filters.
type Profile struct {
	Arch            string
	GatewayVersion  *semver.Version
	RuntimeVersions map[string][]string
	IncludeTestOnly bool
	Query           string
	TypeFilter      string
	APILevel        int
}

// ProfileFromQuery derives a client profile from request query parameters
// and the User-Agent header. The gateway version comes from the "version"
// parameter, falling back to a recognized gateway User-Agent, then to the
// fixed legacy default. Returns version.ErrInvalidVersion if the declared
// version does not parse.
func ProfileFromQuery(values url.Values, userAgent string) (*Profile, error) {
	p := &Profile{
		Arch:            values.Get("arch"),
		IncludeTestOnly: values.Get("test") == "1",
		Query:           values.Get("query"),
		TypeFilter:      values.Get("type"),
		RuntimeVersions: map[string][]string{
			RuntimeNode:   {DefaultNodeVersion},
			RuntimePython: DefaultPythonVersions(),
		},
	}

	if node := values.Get("node"); node != "" {
		p.RuntimeVersions[RuntimeNode] = []string{node}
	}
	if python := values.Get("python"); python != "" {
		p.RuntimeVersions[RuntimePython] = strings.Split(python, ",")
	}
	if api := values.Get("api"); api != "" {
		if level, err := strconv.Atoi(api); err == nil {
			p.APILevel = level
		}
	}

	raw := values.Get("version")
	if raw == "" {
		raw = versionFromUserAgent(userAgent)
	}
	if raw == "" {
		raw = DefaultVersion
	}

	v, err := version.Parse(raw)
	if err != nil {
		return nil, err
	}
	p.GatewayVersion = v

	return p, nil
}

// versionFromUserAgent extracts the gateway version from a recognized
// User-Agent string, e.g. "webthings-gateway/1.0.0 (linux)".
func versionFromUserAgent(ua string) string {
	for _, prefix := range gatewayUAPrefixes {
		if !strings.HasPrefix(ua, prefix) {
			continue
		}
		rest := strings.TrimPrefix(ua, prefix)
		if i := strings.IndexByte(rest, ' '); i >= 0 {
			rest = rest[:i]
		}
		return rest
	}
	return ""
}

// Era returns the response era for the profile's gateway version.
func (p *Profile) Era() Era {
	v := p.GatewayVersion
	switch {
	case v.Major() == 0 && v.Minor() <= 6:
		return EraLegacy
	case v.Major() == 0 && v.Minor() <= 9:
		return EraMid
	default:
		return EraModern
	}
}
