package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/WebThingsIO/addon-proxy/internal/domain/catalog"
	"github.com/WebThingsIO/addon-proxy/internal/domain/ledger"
	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/logging"
	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/monitoring"
)

// Fetcher returns a new list of raw add-on records, or fails. How records
// are retrieved (git checkout, HTTP GET) is the implementation's concern.
type Fetcher interface {
	Fetch(ctx context.Context) ([]json.RawMessage, error)
}

// Refresher keeps the catalog store populated. Bootstrap performs the
// mandatory first cycle before the server accepts traffic; Run repeats
// forever on a fixed interval. A failed cycle after bootstrap keeps the
// previous snapshot in place.
type Refresher struct {
	fetcher  Fetcher
	store    *catalog.Store
	ledger   *ledger.Ledger
	interval time.Duration
	timeout  time.Duration
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// Config holds refresher configuration.
type Config struct {
	Interval     time.Duration
	FetchTimeout time.Duration
}

// New creates a refresher.
func New(fetcher Fetcher, store *catalog.Store, reqLedger *ledger.Ledger, cfg Config, logger *logging.Logger) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Refresher{
		fetcher:  fetcher,
		store:    store,
		ledger:   reqLedger,
		interval: cfg.Interval,
		timeout:  cfg.FetchTimeout,
		logger:   logger,
	}
}

// WithMetrics attaches a metrics collector.
func (r *Refresher) WithMetrics(m *monitoring.Metrics) *Refresher {
	r.metrics = m
	return r
}

// Bootstrap performs one synchronous fetch+build+publish cycle. A failure
// here is fatal: the service must not start serving with no catalog.
func (r *Refresher) Bootstrap(ctx context.Context) error {
	if err := r.refreshOnce(ctx); err != nil {
		return fmt.Errorf("bootstrap fetch failed: %w", err)
	}
	return nil
}

// Run refreshes the catalog on a fixed interval until ctx is cancelled.
// Fetch and parse failures are logged and retried on the next tick; there
// is deliberately no backoff, the fixed interval respects upstream rate
// limits. The request ledger is pruned after every cycle, success or not.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Refresh loop stopped")
			return
		case <-ticker.C:
			if err := r.refreshOnce(ctx); err != nil {
				r.logger.Error("Catalog refresh failed, retaining previous snapshot", zap.Error(err))
			}

			pruned := r.ledger.Prune(time.Now())
			if pruned > 0 {
				r.logger.Debug("Pruned request ledger", zap.Int("removed", pruned))
			}
			if r.metrics != nil {
				r.metrics.LedgerEntries.Set(float64(r.ledger.Len()))
			}
		}
	}
}

// refreshOnce fetches raw records, builds a snapshot, and publishes it.
// An empty result is never published over a working catalog.
func (r *Refresher) refreshOnce(ctx context.Context) error {
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.fetcher.Fetch(fetchCtx)
	if err != nil {
		r.recordCycle("failure", start)
		return fmt.Errorf("fetch: %w", err)
	}

	snap, skipped := catalog.BuildSnapshot(raw)
	for _, serr := range skipped {
		r.logger.Warn("Skipping malformed record", zap.Error(serr))
	}
	if r.metrics != nil {
		r.metrics.SkippedRecords.Add(float64(len(skipped)))
	}

	if snap.Len() == 0 {
		if current := r.store.Current(); current != nil && current.Len() > 0 {
			r.recordCycle("failure", start)
			return fmt.Errorf("refused to publish empty snapshot over %d addons", current.Len())
		}
	}

	r.store.Publish(snap)
	r.recordCycle("success", start)
	if r.metrics != nil {
		r.metrics.CatalogAddons.Set(float64(snap.Len()))
	}

	r.logger.Info("Catalog refreshed",
		zap.Int("addons", snap.Len()),
		zap.Int("skipped", len(skipped)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (r *Refresher) recordCycle(status string, start time.Time) {
	if r.metrics != nil {
		r.metrics.RecordRefresh(status, time.Since(start))
	}
}
