// cmd/web/main.go
//
// triomap – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Console logger for the bootstrap window.
//
//  2. Load config (.env → conf/global.yaml → TRIO_ env) and, when any
//     Vault reference is configured, resolve secrets.
//
//  3. Start the rotating file logger (tees to console when running in a
//     TTY) and open the optional GeoLite2 database.
//
//  4. Open MySQL, run the idempotent schema bootstrap when enabled, and
//     seed the carnival artist list in development.
//
//  5. Build services: artist catalogue, pin engine, stats, live hub, and
//     the optional AMQP publisher.  The hub and publisher are the pin
//     engine's notifiers.
//
//  6. Router:
//
//     • request id, real IP, panic recovery
//     • requestinfo enrichment → request log + latency histogram
//     • CORS, security headers, HTTPS redirect
//     • /metrics, modules (/healthz, /debug/request)
//     • /v1/<component> behind bearer-token auth
//
//  7. Serve until SIGINT/SIGTERM, then drain within server.ShutdownGrace.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/artist"
	"github.com/yanizio/triomap/internal/auth"
	"github.com/yanizio/triomap/internal/broker"
	"github.com/yanizio/triomap/internal/component"
	"github.com/yanizio/triomap/internal/config"
	"github.com/yanizio/triomap/internal/database"
	"github.com/yanizio/triomap/internal/live"
	"github.com/yanizio/triomap/internal/logger"
	"github.com/yanizio/triomap/internal/middleware"
	"github.com/yanizio/triomap/internal/module"
	"github.com/yanizio/triomap/internal/pin"
	"github.com/yanizio/triomap/internal/requestinfo"
	"github.com/yanizio/triomap/internal/server"
	"github.com/yanizio/triomap/internal/stats"
	"github.com/yanizio/triomap/internal/store"
	"github.com/yanizio/triomap/internal/vault"

	_ "github.com/yanizio/triomap/components/artists"
	_ "github.com/yanizio/triomap/components/live"
	_ "github.com/yanizio/triomap/components/pins"
	_ "github.com/yanizio/triomap/components/stats"
	_ "github.com/yanizio/triomap/modules/debug"
	_ "github.com/yanizio/triomap/modules/health"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	logger.Bootstrap()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		zap.L().Error("triomap exited", zap.Error(err))
		_ = zap.L().Sync()
		os.Exit(1)
	}
	_ = zap.L().Sync()
}

func run(ctx context.Context) error {
	started := time.Now()

	//
	// ── 1.  Config + secrets ────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.HasSecrets() {
		vc, err := vault.New(ctx)
		if err != nil {
			return err
		}
		if err := cfg.ResolveSecrets(ctx, vc); err != nil {
			return err
		}
	}

	//
	// ── 2.  Logger + GeoIP ──────────────────────────────────────────────
	//
	if _, err := logger.New(cfg.LogDir(), cfg.Log.Level, runningInTTY()); err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	if err := requestinfo.InitGeo(cfg.GeoIP.CityDB); err != nil {
		zap.L().Warn("geoip disabled", zap.String("path", cfg.GeoIP.CityDB), zap.Error(err))
	}
	defer requestinfo.CloseGeo()

	//
	// ── 3.  Database ────────────────────────────────────────────────────
	//
	db, err := database.OpenWithOptions(ctx, database.Options{
		DSN:      cfg.Database.DSN,
		Password: cfg.Database.Password,
		MaxOpen:  cfg.Database.MaxOpen,
		MaxIdle:  cfg.Database.MaxIdle,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}
	st := store.New(db)

	if cfg.Seed.Artists {
		if _, err := artist.Seed(ctx, st.Artists, artist.CarnivalArtists); err != nil {
			return err
		}
	}

	//
	// ── 4.  Services + notifiers ────────────────────────────────────────
	//
	hub := live.NewHub(cfg.HTTP.CORSOrigin)
	go hub.Run(ctx)

	notifiers := pin.Notifiers{hub}
	if cfg.Broker.URL != "" {
		pub, err := broker.New(cfg.Broker.URL, cfg.Broker.Exchange, cfg.Broker.RoutingKey)
		if err != nil {
			return err
		}
		defer pub.Close()
		notifiers = append(notifiers, pub)
	}

	artists := artist.NewService(st.Artists)
	deps := &component.Services{
		ArtistSvc: artists,
		PinSvc:    pin.NewService(artists, st.Pins, st.Reports, pin.WithNotifier(notifiers)),
		StatsSvc:  stats.NewService(st.Stats, nil),
		LiveHub:   hub,
	}
	if err := component.InitAll(deps); err != nil {
		return err
	}

	//
	// ── 5.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(requestinfo.Enrich, middleware.RequestLogger)
	r.Use(middleware.CORS(cfg.HTTP.CORSOrigin), middleware.Security, middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))

	r.Handle("/metrics", promhttp.Handler())
	module.Mount(r, &module.Env{DB: db, Started: started})

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(auth.Middleware(verifier))
		for _, c := range component.All() {
			v1.Mount("/"+c.Name(), c.Routes())
			zap.L().Debug("component mounted", zap.String("name", c.Name()))
		}
	})

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})
	return server.Run(ctx, srv)
}
