package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/souq/internal/souq/http"
	"github.com/aussiebroadwan/souq/internal/souq/session"
	"github.com/aussiebroadwan/souq/internal/souq/store/drivers/sqlite"
	"github.com/aussiebroadwan/souq/pkg/apiclient"
	"github.com/aussiebroadwan/souq/pkg/httpx"
	"github.com/aussiebroadwan/souq/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application owns the gateway and everything behind it.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     *sqlite.Store
	client *apiclient.Client

	controller   *session.Controller
	notifier     *session.Notifier
	bootstrapper *session.Bootstrapper

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "souq-gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initClient(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initSession()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.bootstrapper.Bootstrap(context.Background())

	app.logger.Info("souq gateway starting",
		"port", app.cfg.Port,
		"api", app.cfg.APIBaseURL,
		"version", BuildVersion,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			app.bootstrapper.Shutdown()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down souq gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stops the notifier and waits for in-flight profile fetches so nothing
	// writes to the store after it closes.
	app.bootstrapper.Shutdown()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("souq gateway stopped")
	return nil
}

// initDatabase opens the session store and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initClient(ctx context.Context) error {
	deviceID, err := app.db.DeviceID(ctx)
	if err != nil {
		return fmt.Errorf("failed to load device id: %w", err)
	}

	app.client = apiclient.NewClient(app.cfg.APIBaseURL)
	app.client.HTTPClient.Timeout = app.cfg.APITimeout
	app.client.Language = app.cfg.Language
	app.client.DeviceID = deviceID

	app.logger.Debug("api client ready", "device_id", deviceID)
	return nil
}

func (app *Application) initSession() {
	app.controller = session.NewController(app.client, app.db, session.Config{
		Logger:               app.logger,
		Language:             app.cfg.Language,
		ProfileRetryAttempts: app.cfg.ProfileRetryAttempts,
		ProfileRetryInitial:  app.cfg.ProfileRetryInitial,
		LogoutTimeout:        app.cfg.LogoutTimeout,
	})
	app.notifier = session.NewNotifier(app.db, app.logger, app.cfg.PollInterval)
	app.bootstrapper = session.NewBootstrapper(app.controller, app.notifier, app.logger)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	loginLimit := httpx.LoginLimit
	loginLimit.RequestsPerWindow = app.cfg.LoginRatePerMinute
	loginLimit.Window = time.Minute

	router := httpapi.NewRouter(app.controller, app.db, loginLimit, BuildVersion, app.logger)
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
