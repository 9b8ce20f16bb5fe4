package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/pkg/logger"
	"eurotours-service/pkg/metrics"

	"github.com/stretchr/testify/assert"
)

type scriptedAdapter struct {
	name       string
	candidates []entity.RouteCandidate
	err        error
	delay      time.Duration
}

func (a *scriptedAdapter) Name() string { return a.name }

func (a *scriptedAdapter) Search(ctx context.Context, _, _ int, _ time.Time) ([]entity.RouteCandidate, error) {
	if a.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.delay):
		}
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.candidates, nil
}

func TestHarnessPassesThroughResults(t *testing.T) {
	adapter := &scriptedAdapter{
		name:       "stub",
		candidates: []entity.RouteCandidate{{Provider: "stub", Price: 10}},
	}
	h := NewHarness(adapter, time.Second, logger.NewNop(), metrics.NewMetrics("test"))

	got := h.Search(context.Background(), 4, 308, time.Now())
	assert.Len(t, got, 1)
	assert.Equal(t, "stub", h.Name())
}

func TestHarnessSwallowsAdapterErrors(t *testing.T) {
	adapter := &scriptedAdapter{name: "stub", err: errors.New("upstream exploded")}
	h := NewHarness(adapter, time.Second, logger.NewNop(), metrics.NewMetrics("test"))

	got := h.Search(context.Background(), 4, 308, time.Now())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHarnessEnforcesTimeout(t *testing.T) {
	adapter := &scriptedAdapter{
		name:       "slow",
		delay:      time.Second,
		candidates: []entity.RouteCandidate{{Provider: "slow"}},
	}
	h := NewHarness(adapter, 20*time.Millisecond, logger.NewNop(), metrics.NewMetrics("test"))

	started := time.Now()
	got := h.Search(context.Background(), 4, 308, time.Now())
	assert.Empty(t, got)
	assert.Less(t, time.Since(started), 500*time.Millisecond)
}
