package provider

import (
	"context"
	"time"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/pkg/logger"
	"eurotours-service/pkg/metrics"
)

// Harness isolates one Adapter. Every call gets its own bounded timeout,
// and any failure (network, bad status, unparsable payload, timeout) is
// logged and downgraded to an empty result so a broken provider can never
// affect its siblings or fail the search.
type Harness struct {
	adapter Adapter
	timeout time.Duration
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewHarness wraps an adapter with timeout and failure isolation
func NewHarness(adapter Adapter, timeout time.Duration, log logger.Logger, m *metrics.Metrics) *Harness {
	return &Harness{
		adapter: adapter,
		timeout: timeout,
		logger:  log,
		metrics: m,
	}
}

// Name returns the wrapped adapter's name
func (h *Harness) Name() string {
	return h.adapter.Name()
}

// Search performs one isolated provider call. It never returns an error.
func (h *Harness) Search(ctx context.Context, fromCityID, toCityID int, date time.Time) []entity.RouteCandidate {
	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	started := time.Now()
	candidates, err := h.adapter.Search(callCtx, fromCityID, toCityID, date)
	elapsed := time.Since(started)
	h.metrics.ProviderLatency.WithLabelValues(h.adapter.Name()).Observe(elapsed.Seconds())

	if err != nil {
		h.metrics.ProviderFailures.WithLabelValues(h.adapter.Name()).Inc()
		h.logger.Warn("Provider search failed, returning empty results",
			"provider", h.adapter.Name(),
			"fromCityId", fromCityID,
			"toCityId", toCityID,
			"elapsedMs", elapsed.Milliseconds(),
			"error", err)
		return []entity.RouteCandidate{}
	}

	h.metrics.ProviderResults.WithLabelValues(h.adapter.Name()).Add(float64(len(candidates)))
	h.logger.Info("Provider search completed",
		"provider", h.adapter.Name(),
		"fromCityId", fromCityID,
		"toCityId", toCityID,
		"results", len(candidates),
		"elapsedMs", elapsed.Milliseconds())
	return candidates
}
