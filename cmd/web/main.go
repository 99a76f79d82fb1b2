// cmd/web/main.go
//
// Feedback Desk – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load configuration (defaults → conf/.env → conf/global.yaml →
//     FEEDBACK_* env, with `vault:` values resolved).
//
//  2. Start the daily rotating logger (tees to console when running in a
//     TTY or when log.tee is set).
//
//  3. Open the optional GeoLite2 database for request logging.
//
//  4. Build the feedback API client and probe it once; an unreachable API
//     is logged, not fatal, because the form still validates locally.
//
//  5. Build views, CSRF signer, and the session store, then initialise
//     every registered component.
//
//  6. Router: RequestID → Enrich → Logging → Recoverer → ForceHTTPS →
//     Security, then /metrics, /static/, and component routes.
//
//  7. Serve until SIGINT or SIGTERM; SIGHUP reloads config and applies the
//     new log level.
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
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/feedback/internal/client"
	"github.com/yanizio/feedback/internal/component"
	"github.com/yanizio/feedback/internal/config"
	"github.com/yanizio/feedback/internal/form"
	"github.com/yanizio/feedback/internal/logger"
	"github.com/yanizio/feedback/internal/middleware"
	"github.com/yanizio/feedback/internal/requestinfo"
	"github.com/yanizio/feedback/internal/server"
	"github.com/yanizio/feedback/internal/session"
	"github.com/yanizio/feedback/internal/view"

	_ "github.com/yanizio/feedback/components/debug"    // /debug, log.level=debug only
	_ "github.com/yanizio/feedback/components/feedback" // form + list pages
	_ "github.com/yanizio/feedback/components/health"   // /healthz
)

const bootProbeTimeout = 3 * time.Second

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "feedback:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	log, err := logger.New(cfg.Paths.Root, logger.Options{
		Level: cfg.Log.Level,
		Tee:   cfg.Log.Tee || runningInTTY(),
	})
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	//
	// ── 3.  Geo (optional) ──────────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
		log.Warnw("geo lookups disabled", "err", err)
	}
	defer requestinfo.CloseGeo()

	//
	// ── 4.  Feedback API client + boot probe ────────────────────────────
	//
	api, err := client.New(cfg.API.BaseURL,
		client.WithToken(cfg.API.Token),
		client.WithLogger(log.Named("client")),
	)
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}
	probeCtx, cancel := context.WithTimeout(ctx, bootProbeTimeout)
	if api.TestConnection(probeCtx) {
		log.Infow("feedback API reachable", "endpoint", api.Endpoint())
	} else {
		log.Warnw("feedback API unreachable at boot", "endpoint", api.Endpoint())
	}
	cancel()

	//
	// ── 5.  Views, CSRF, sessions, components ───────────────────────────
	//
	views, err := view.New()
	if err != nil {
		return err
	}
	csrf, err := form.NewCSRF(cfg.UI.CSRFKey)
	if err != nil {
		return fmt.Errorf("csrf: %w", err)
	}
	sessions := session.NewStore(cfg.UI.MaxSessions, cfg.UI.NoticeTTL)
	defer sessions.Close()

	comps, err := component.InitAll(component.Deps{
		API:       api,
		Sessions:  sessions,
		Views:     views,
		CSRF:      csrf,
		NoticeTTL: cfg.UI.NoticeTTL,
		Debug:     cfg.Log.Level == "debug",
	})
	if err != nil {
		return err
	}

	//
	// ── 6.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		requestinfo.Enrich,
		middleware.Logging,
		chimw.Recoverer,
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
		middleware.Security,
	)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", view.Static())
	component.Mount(r, comps)

	//
	// ── 7.  Serve ───────────────────────────────────────────────────────
	//
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(server.Run(ctx, server.New(cfg.HTTP, r), server.DefaultShutdownTimeout))
	eg.Go(func() error { reloadOnHangup(ctx, log); return nil })

	err = eg.Wait()
	log.Infow("feedback desk stopped", "err", err)
	return err
}

// reloadOnHangup re-reads configuration on SIGHUP.  Only the log level is
// applied live; listener and API settings need a restart.
func reloadOnHangup(ctx context.Context, log *zap.SugaredLogger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := config.Reload(ctx); err != nil {
				log.Errorw("config reload failed", "err", err)
				continue
			}
			if err := logger.SetLevel(config.Get().Log.Level); err != nil {
				log.Errorw("log level not applied", "err", err)
				continue
			}
			log.Infow("config reloaded", "log_level", logger.Level().String())
		}
	}
}
