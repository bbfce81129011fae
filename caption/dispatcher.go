package caption

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/krau/konacaption/config"
	"github.com/krau/konacaption/metrics"
)

const requestIDHeader = "X-Request-ID"

type strategy interface {
	mode() config.Mode
	predict(ctx context.Context, reqID string, sel Selection) (PredictionResult, error)
}

// Dispatcher runs one prediction strategy, fixed when it is built.
type Dispatcher struct {
	strategy strategy
	catalog  *Catalog
	samples  fs.FS
	logger   *slog.Logger
}

type options struct {
	catalog *Catalog
	samples fs.FS
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

type Option func(*options)

func WithCatalog(c *Catalog) Option {
	return func(o *options) { o.catalog = c }
}

func WithSamples(fsys fs.FS) Option {
	return func(o *options) { o.samples = fsys }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSleep replaces the wait used before catalog results are returned.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) { o.sleep = sleep }
}

func New(cfg config.Config, opts ...Option) (*Dispatcher, error) {
	o := options{sleep: sleepContext}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.samples == nil && cfg.SampleDir != "" {
		o.samples = os.DirFS(cfg.SampleDir)
	}
	if o.catalog == nil {
		if cfg.CatalogFile != "" {
			c, err := LoadCatalog(cfg.CatalogFile)
			if err != nil {
				return nil, err
			}
			o.catalog = c
		} else {
			o.catalog = DefaultCatalog()
		}
	}

	d := &Dispatcher{catalog: o.catalog, samples: o.samples, logger: o.logger}
	switch mode := cfg.Mode(); mode {
	case config.ModeStatic:
		d.strategy = &staticStrategy{catalog: o.catalog, delay: cfg.SampleDelay(), sleep: o.sleep}
	case config.ModeRemote:
		d.strategy = &remoteStrategy{client: newClient(cfg.RemoteURL, cfg), samples: o.samples, catalog: o.catalog}
	case config.ModeLocal:
		if cfg.LocalURL == "" {
			return nil, fmt.Errorf("local mode needs local_url")
		}
		d.strategy = &localStrategy{client: newClient(cfg.LocalURL, cfg), samples: o.samples, catalog: o.catalog}
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	return d, nil
}

func newClient(baseURL string, cfg config.Config) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout()).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
}

func (d *Dispatcher) Mode() config.Mode {
	return d.strategy.mode()
}

func (d *Dispatcher) Catalog() *Catalog {
	return d.catalog
}

func (d *Dispatcher) Samples() fs.FS {
	return d.samples
}

// Predict runs the configured strategy once. It never retries.
func (d *Dispatcher) Predict(ctx context.Context, sel Selection) (PredictionResult, error) {
	if sel.IsEmpty() {
		return PredictionResult{}, invalidInput("nothing selected")
	}
	if sel.Image != nil && sel.Sample != "" {
		return PredictionResult{}, invalidInput("selection has both an image and a sample")
	}

	reqID := uuid.NewString()
	mode := string(d.strategy.mode())
	start := time.Now()
	res, err := d.strategy.predict(ctx, reqID, sel)
	elapsed := time.Since(start)

	if err != nil {
		outcome := KindOf(err).String()
		metrics.ObservePredict(mode, outcome, elapsed)
		d.logger.Warn("Prediction failed",
			slog.String("mode", mode),
			slog.String("request_id", reqID),
			slog.String("selection", sel.String()),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
		return PredictionResult{}, err
	}
	metrics.ObservePredict(mode, "ok", elapsed)
	d.logger.Info("Prediction done",
		slog.String("mode", mode),
		slog.String("request_id", reqID),
		slog.String("selection", sel.String()),
		slog.Duration("elapsed", elapsed))
	return res, nil
}
