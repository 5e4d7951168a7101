// Command adminapi serves the cachewatch admin graphql API: user
// management, cache item inspection and the inconsistency ledger, plus
// a websocket feed of newly reported inconsistencies.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"go.cachewatch.io/adminapi"
	"go.cachewatch.io/adminapi/admin"
	"go.cachewatch.io/adminapi/events"
)

type config struct {
	// Address the HTTP server listens on.
	Addr string `env:"ADMIN_ADDR" envDefault:":8080"`

	// Maximum number of simultaneous connections, 0 for unlimited.
	MaxConns int `env:"ADMIN_MAX_CONNS" envDefault:"0"`

	// Log level: "debug", "info", "warn", "error".
	LogLevel string `env:"ADMIN_LOG_LEVEL" envDefault:"info"`

	// Log format: "json" or "text".
	LogFormat string `env:"ADMIN_LOG_FORMAT" envDefault:"json"`

	// Seed the in-memory store with demo data on startup.
	Seed bool `env:"ADMIN_SEED" envDefault:"true"`

	// How long to wait for in-flight requests on shutdown.
	ShutdownTimeout time.Duration `env:"ADMIN_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		bootstrap := zerolog.New(os.Stderr)
		bootstrap.Fatal().Err(err).Msg("failed to parse environment")
	}

	log := newLogger(cfg)

	store := admin.NewStore()
	if cfg.Seed {
		store.Seed()
	}

	feed := events.NewFeed()
	defer func() { _ = feed.Shutdown(context.Background()) }()

	schema, err := admin.Init(store, feed)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build schema")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	mux := http.NewServeMux()
	mux.Handle("/graphql", adminapi.HTTPHandler(schema,
		adminapi.WithMiddlewares(adminapi.MetricsMiddleware(registry)),
	))
	mux.Handle("/subscriptions", adminapi.HTTPSubscriptionHandler(schema, feed))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", adminapi.PlaygroundHandler("cachewatch admin", "/graphql"))

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr).Msg("failed to listen")
	}
	if cfg.MaxConns > 0 {
		lis = netutil.LimitListener(lis, cfg.MaxConns)
	}

	server := &http.Server{Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Msg("admin api listening")
	if err := server.Serve(lis); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("admin api stopped")
}

func loadConfig() (config, error) {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stdout)
	if strings.EqualFold(cfg.LogFormat, "text") {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return out.Level(level).With().
		Timestamp().
		Str("component", "adminapi").
		Logger()
}
