package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/pricesnapshot/api/controllers"
	"github.com/angelmondragon/pricesnapshot/api/routes"
	"github.com/angelmondragon/pricesnapshot/internal/snapshot"
	"github.com/angelmondragon/pricesnapshot/internal/web"
	"github.com/angelmondragon/pricesnapshot/pkg/config"
	"github.com/angelmondragon/pricesnapshot/pkg/dataforseo"
	"github.com/angelmondragon/pricesnapshot/pkg/instance"
	"github.com/angelmondragon/pricesnapshot/pkg/logger"
	"github.com/angelmondragon/pricesnapshot/pkg/markets"
	"github.com/angelmondragon/pricesnapshot/pkg/metrics"
	"github.com/angelmondragon/pricesnapshot/pkg/redis"
	"github.com/angelmondragon/pricesnapshot/pkg/serpapi"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	upstreamMetrics := metrics.NewUpstreamMetrics(reg)

	shopping, err := serpapi.NewClient(cfg.SerpAPI.APIKey,
		serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
		serpapi.WithTimeout(cfg.Upstream.Timeout),
	)
	if err != nil {
		return err
	}

	params := snapshot.ServiceParams{
		Shopping:    shopping,
		Markets:     markets.Builtin(),
		Metrics:     upstreamMetrics,
		Logger:      logg,
		ResultLimit: cfg.Upstream.ResultLimit,
	}

	if cfg.DataForSEO.Enabled() {
		keywords, err := dataforseo.NewClient(cfg.DataForSEO.Login, cfg.DataForSEO.Password,
			dataforseo.WithBaseURL(cfg.DataForSEO.BaseURL),
			dataforseo.WithTimeout(cfg.Upstream.Timeout),
		)
		if err != nil {
			return err
		}
		params.Keywords = keywords
	} else {
		logg.Warn(ctx, "dataforseo credentials not set, keyword lookups disabled")
	}

	ready := map[string]controllers.Pinger{}
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		params.Cache = redisClient
		params.CacheTTL = cfg.Cache.TTL
		ready["redis"] = redisClient
	}

	svc, err := snapshot.NewService(params)
	if err != nil {
		return err
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:   cfg,
			Logger:   logg,
			Service:  svc,
			Markets:  params.Markets,
			Renderer: renderer,
			Gatherer: reg,
			Ready:    ready,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
