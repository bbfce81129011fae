package server

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/krau/konacaption/caption"
	"github.com/krau/konacaption/config"
	"github.com/krau/konacaption/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	dispatcher *caption.Dispatcher
	settings   config.Config
)

func Init(cfg config.Config, opts ...caption.Option) error {
	d, err := caption.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	dispatcher = d
	settings = cfg
	slog.Info("Dispatcher ready",
		slog.String("mode", string(d.Mode())),
		slog.Int("samples", d.Catalog().Len()))
	return nil
}

func Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = settings.MaxUploadMB << 20

	r.GET("/health", HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	r.GET("/samples", SamplesHandler)
	r.GET("/samples/preview/*id", PreviewHandler)

	predict := r.Group("/predict", authMiddleware)
	predict.POST("", PredictHandler)
	predict.POST("/sample", PredictSampleHandler)
	return r
}
