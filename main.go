package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/krau/konacaption/config"
	"github.com/krau/konacaption/logger"
	"github.com/krau/konacaption/server"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()
	config.SetPath(*configPath)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := config.C()
	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat))
	slog.Info("Starting KonaCaption", slog.String("mode", string(cfg.Mode())))

	if err := server.Init(cfg); err != nil {
		slog.Error("Failed to initialize server", slog.String("error", err.Error()))
		return
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: server.Router(),
	}

	slog.Info("Listening on", slog.String("address", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", slog.String("error", err.Error()))
	}
}
