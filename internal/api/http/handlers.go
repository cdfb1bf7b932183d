package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/WebThingsIO/addon-proxy/internal/domain/catalog"
	"github.com/WebThingsIO/addon-proxy/internal/domain/ledger"
	"github.com/WebThingsIO/addon-proxy/internal/domain/version"
	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/logging"
	"github.com/WebThingsIO/addon-proxy/internal/providers/license"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	store    *catalog.Store
	ledger   *ledger.Ledger
	licenses *license.Proxy
	logger   *logging.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(store *catalog.Store, reqLedger *ledger.Ledger, licenses *license.Proxy, logger *logging.Logger) *Handlers {
	return &Handlers{
		store:    store,
		ledger:   reqLedger,
		licenses: licenses,
		logger:   logger,
	}
}

// Root handles a basic liveness check.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "addon-proxy",
	})
}

// Health reports catalog and ledger state.
func (h *Handlers) Health(c *gin.Context) {
	count, capturedAt := h.store.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"catalog": gin.H{
			"addons":      count,
			"captured_at": capturedAt,
		},
		"analytics": gin.H{
			"entries": h.ledger.Len(),
		},
	})
}

// ListAddons serves the add-on list matching the client's filters, shaped
// for the client's gateway era.
func (h *Handlers) ListAddons(c *gin.Context) {
	ua := c.GetHeader("User-Agent")
	h.ledger.Append(time.Now(), ua)

	profile, err := catalog.ProfileFromQuery(c.Request.URL.Query(), ua)
	if err != nil {
		if errors.Is(err, version.ErrInvalidVersion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	matches := catalog.Resolve(h.store.Current(), profile)
	c.JSON(http.StatusOK, catalog.Shape(profile.Era(), matches))
}

// GetLicense proxies the license text of the named add-on.
func (h *Handlers) GetLicense(c *gin.Context) {
	addonID := c.Param("addonId")

	snap := h.store.Current()
	if snap == nil {
		c.Status(http.StatusNotFound)
		return
	}
	addon, ok := snap.Find(addonID)
	if !ok || addon.LicenseURL == "" {
		c.Status(http.StatusNotFound)
		return
	}

	text, err := h.licenses.Text(c.Request.Context(), addon.LicenseURL)
	if err != nil {
		h.logger.Error("License fetch failed",
			zap.String("addon", addonID),
			zap.String("url", addon.LicenseURL),
			zap.Error(err),
		)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.String(http.StatusOK, text)
}

// Analytics returns request counts grouped by client identifier.
func (h *Handlers) Analytics(c *gin.Context) {
	counts, total := h.ledger.Summarize()

	out := make(map[string]int, len(counts)+1)
	for client, n := range counts {
		out[client] = n
	}
	out["total"] = total

	c.JSON(http.StatusOK, out)
}
