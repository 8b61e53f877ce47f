package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"windflow/animation"
	"windflow/api"
	"windflow/cache"
	"windflow/collector"
	"windflow/config"
	"windflow/datasource"
	"windflow/render"
	"windflow/viewer"

	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "error", err)
	}

	// Parse command line arguments
	port := flag.Int("port", 8080, "Port to run the server on")
	updateInterval := flag.Duration("update", 0, "Forecast refresh interval (overrides the config file)")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable API rate limiting")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *updateInterval > 0 {
		cfg.RefreshInterval = config.Duration(*updateInterval)
	}
	displayLoc, err := cfg.DisplayLocation()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	om := cfg.OpenMeteo
	var source datasource.ForecastSource = datasource.NewOpenMeteoProvider(datasource.OpenMeteoOptions{
		BaseURL:      om.BaseURL,
		Latitude:     om.Latitude,
		Longitude:    om.Longitude,
		ForecastDays: om.ForecastDays,
		Timezone:     om.Timezone,
	})
	if *enableRateLimiting && om.RateLimit.Enabled {
		source = datasource.NewRateLimitedForecastSource(source, om.RateLimit.RPS, om.RateLimit.Burst)
		slog.Info("applied rate limiting", "source", source.Name(), "rps", om.RateLimit.RPS, "burst", om.RateLimit.Burst)
	}
	cached := cache.NewCachedForecastSource(source, cfg.CacheTTL.Std())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := animation.NewEventLoop(64)
	go loop.Run(ctx)

	opts := viewer.DefaultOptions()
	opts.Width = cfg.Surface.Width
	opts.Height = cfg.Surface.Height
	opts.Lines = cfg.Surface.Lines
	opts.Inset = cfg.Surface.Inset
	opts.Curvature = render.Curvature{Base: cfg.Surface.CurvatureBase, Bias: cfg.Surface.CurvatureBias}
	opts.Animation = animation.Options{
		SpeedFactor: cfg.Animation.SpeedFactor,
		BaseScale:   cfg.Animation.BaseScale.Std(),
		MinSpeed:    cfg.Animation.MinSpeed,
	}
	opts.Location = displayLoc

	session := viewer.NewSession(loop, cached, opts)
	hub := api.NewHub()
	session.OnUpdate(func(u viewer.Update) { hub.Broadcast(u.Kind, u) })

	server := api.NewServer(cached, session, hub, *port)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	refresher := collector.NewRefresher(session, cfg.RefreshInterval.Std())
	stopRefresher := refresher.Start(ctx)

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	stopRefresher()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := session.Stop(shutdownCtx); err != nil && !errors.Is(err, animation.ErrStopped) {
		slog.Error("failed to stop animation", "error", err)
	}
	cancel()
	<-loop.Done()

	hits, misses := cached.CacheStats()
	runs, errs := refresher.Stats()
	slog.Info("shutdown complete", "refreshes", runs, "refresh_errors", errs, "cache_hits", hits, "cache_misses", misses)
}
