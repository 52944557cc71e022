package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pathline-dev/pathline"
	"github.com/pathline-dev/pathline/internal/config"
	"github.com/pathline-dev/pathline/pkg/appstate"
	"github.com/pathline-dev/pathline/pkg/guards"
	"github.com/pathline-dev/pathline/pkg/live"
	"github.com/pathline-dev/pathline/pkg/router"
	"github.com/pathline-dev/pathline/pkg/snapshot"
	"github.com/pathline-dev/pathline/pkg/telemetry"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the demo navigation server",
		Long: `Start an HTTP server running the demo Pong application.

The server mounts:
  /live     WebSocket endpoint for browser sessions
  /metrics  Prometheus metrics (if enabled in pathline.json)
  /healthz  liveness probe

Examples:
  pathline serve
  pathline serve --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from pathline.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from pathline.json)")

	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default pathline.json to the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(config.ConfigFileName); err == nil {
				return fmt.Errorf("%s already exists", config.ConfigFileName)
			}
			if err := config.New().SaveTo(config.ConfigFileName); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", config.ConfigFileName)
			return nil
		},
	}
}

func runServe(port int, host string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	snapStore, err := buildSnapshotStore(cfg)
	if err != nil {
		return err
	}
	defer snapStore.Close()

	var observers []router.Observer
	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics(telemetry.WithNamespace(cfg.Metrics.Namespace))
		observers = append(observers, metrics)
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, telemetry.NewTracing(telemetry.WithTracerName(cfg.Tracing.TracerName)))
	}

	app, state := buildDemoApp(cfg, logger, observers)

	// Rehydrate demo state from the last run, if a snapshot survives.
	if data, err := snapStore.Load(context.Background(), demoSnapshotID); err != nil {
		logger.Warn("snapshot load failed", "error", err)
	} else if data != nil {
		if snap, err := appstate.Decode(data); err != nil {
			logger.Warn("snapshot decode failed", "error", err)
		} else {
			snap.Hydrate(state.auth, state.game, state.ui)
			logger.Info("state hydrated", "route", snap.Route)
		}
	}

	liveOpts := []live.ServerOption{
		live.WithLogger(logger),
		live.WithConfig(live.Config{
			ReadTimeout:  config.Duration(cfg.Live.ReadTimeout, 60*time.Second),
			WriteTimeout: config.Duration(cfg.Live.WriteTimeout, 10*time.Second),
			PingInterval: config.Duration(cfg.Live.PingInterval, 30*time.Second),
		}),
	}
	if metrics != nil {
		liveOpts = append(liveOpts, live.WithConnectHooks(metrics.SessionOpened, metrics.SessionClosed))
	}
	liveServer := live.NewServer(app.Blueprint(), liveOpts...)

	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Handle("/live", liveServer)
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	liveServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Persist demo state across restarts.
	snap := appstate.Take("/", state.auth, state.game, state.ui)
	if data, err := snap.Encode(); err == nil {
		ttl := config.Duration(cfg.Snapshot.TTL, 720*time.Hour)
		if err := snapStore.Save(shutdownCtx, demoSnapshotID, data, time.Now().Add(ttl)); err != nil {
			logger.Warn("snapshot save failed", "error", err)
		}
	}

	return srv.Shutdown(shutdownCtx)
}

// buildSnapshotStore constructs the backend selected in pathline.json.
// The sql and s3 backends need a driver or client the CLI does not carry;
// wire those programmatically via pkg/snapshot instead.
func buildSnapshotStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case "", config.BackendMemory:
		return snapshot.NewMemoryStore(), nil
	case config.BackendDisk:
		return snapshot.NewDiskStore(cfg.Snapshot.Dir)
	default:
		return nil, fmt.Errorf("snapshot backend %q requires programmatic setup", cfg.Snapshot.Backend)
	}
}

// demoSnapshotID keys the demo server's single persisted snapshot.
const demoSnapshotID = "demo"

// demoState bundles the shared demo stores so the server can snapshot
// them on shutdown.
type demoState struct {
	auth *appstate.AuthStore
	game *appstate.GameStore
	ui   *appstate.UIStore
}

// buildDemoApp assembles the demo Pong route map. Each connected browser
// gets its own engine; the demo shares one set of state stores.
func buildDemoApp(cfg *config.Config, logger *slog.Logger, observers []router.Observer) (*pathline.App, *demoState) {
	auth := appstate.NewAuthStore()
	game := appstate.NewGameStore()
	ui := appstate.NewUIStore()

	page := func(name string) router.Handler {
		return func(ctx context.Context, params router.Params, query router.Query) error {
			logger.Info("page", "name", name, "params", map[string]string(params))
			return nil
		}
	}

	opts := []pathline.Option{
		pathline.WithLogger(logger),
		pathline.WithNotFound(cfg.Router.NotFound),
		pathline.WithAuthGuard(guards.AuthRequired(auth, cfg.Router.LoginPath)),
	}
	if len(observers) > 0 {
		opts = append(opts, pathline.WithObservers(observers...))
	}

	app := pathline.New(opts...)
	app.Route("/", page("home")).
		Route("/login", page("login"), router.WithGuards(guards.GuestOnly(auth, "/"))).
		Route("/lobby", page("lobby"), router.RequireAuth()).
		Route("/game/:id", page("game"), router.RequireAuth(),
			router.WithGuards(guards.GameSessionRequired(game, "/lobby"))).
		Route("/profile/:user", page("profile"), router.RequireAuth()).
		Route("/admin", page("admin"), router.WithGuards(guards.AdminRequired(auth, "/")))
	if cfg.Router.NotFound != "" {
		// Unmatched paths replace-redirect here; a catch-all route would
		// shadow the redirect entirely.
		app.Route(cfg.Router.NotFound, page("not-found"))
	} else {
		app.Route(router.CatchAllPattern, page("fallback"))
	}

	return app, &demoState{auth: auth, game: game, ui: ui}
}
