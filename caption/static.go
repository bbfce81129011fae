package caption

import (
	"context"
	"time"

	"github.com/krau/konacaption/config"
	"github.com/krau/konacaption/metrics"
)

// staticStrategy answers from the catalog after a fixed delay and never
// touches the network.
type staticStrategy struct {
	catalog *Catalog
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

func (s *staticStrategy) mode() config.Mode { return config.ModeStatic }

func (s *staticStrategy) predict(ctx context.Context, _ string, sel Selection) (PredictionResult, error) {
	if sel.Image != nil {
		return PredictionResult{}, invalidInput("offline mode only serves samples, got %s", sel)
	}
	res, ok := s.catalog.Lookup(sel.Sample)
	if !ok {
		return PredictionResult{}, sampleNotFound(sel.Sample)
	}
	if s.delay > 0 {
		metrics.SampleDelay.Inc()
		if err := s.sleep(ctx, s.delay); err != nil {
			return PredictionResult{}, networkFailure(err)
		}
	}
	return res, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
