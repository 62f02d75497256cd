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

	httpapi "github.com/aussiebroadwan/authstate/internal/auth/http"
	"github.com/aussiebroadwan/authstate/internal/auth/provider"
	"github.com/aussiebroadwan/authstate/internal/auth/service"
	"github.com/aussiebroadwan/authstate/internal/auth/session"
	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/aussiebroadwan/authstate/internal/auth/store/drivers/memory"
	redisstore "github.com/aussiebroadwan/authstate/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/authstate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/authstate/pkg/cryptox"
	"github.com/aussiebroadwan/authstate/pkg/jwtx"
	"github.com/aussiebroadwan/authstate/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	signer        jwtx.Signer
	users         *sqlite.Store // nil with the policy provider
	sessions      store.SessionStore
	closeSessions func() error

	// Services
	issuer              *service.TokenIssuer
	validator           *service.TokenValidator
	authService         *service.AuthenticationService
	registry            *session.Registry
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from the configuration.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "authstate",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	signer, issuer, validator, err := InitTokens(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing key: %w", err)
	}
	// The signer and verifier hold their own copies from here on.
	app.cfg.SigningKey = ""
	app.signer = signer
	app.issuer = issuer
	app.validator = validator

	if err := app.initSessionStore(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.closeSessions()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Handler is the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("authstate service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authstate service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	return app.Close()
}

// Close releases the stores without touching the HTTP server.
func (app *Application) Close() error {
	var firstErr error

	if err := app.closeSessions(); err != nil {
		app.logger.Error("error closing session store", "error", err)
		firstErr = err
	}

	if app.users != nil {
		if err := app.users.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	app.logger.Info("authstate service stopped")
	return firstErr
}

// initSessionStore connects the durable per-connection store
func (app *Application) initSessionStore() error {
	switch app.cfg.SessionStore {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		})
		s, err := redisstore.New(redisstore.Config{
			Client: client,
			TTL:    app.cfg.TokenTTL,
		})
		if err != nil {
			_ = client.Close()
			return fmt.Errorf("failed to initialize redis session store: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			app.logger.Warn("redis not reachable yet, sessions will read as anonymous until it is", "addr", app.cfg.RedisAddr, "error", err)
		}

		app.sessions = s
		app.closeSessions = s.Close
		app.logger.Info("session store ready", "driver", "redis", "addr", app.cfg.RedisAddr)

	case "memory", "":
		app.sessions = memory.New()
		app.closeSessions = func() error { return nil }
		app.logger.Info("session store ready", "driver", "memory")

	default:
		return fmt.Errorf("unknown session store %q", app.cfg.SessionStore)
	}
	return nil
}

// OpenUserStore opens the SQLite user database and applies migrations.
func OpenUserStore(cfg Config) (*sqlite.Store, string, error) {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to apply database migrations: %w", err)
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to load pepper: %w", err)
	}

	return db, pepper, nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	var (
		users  store.Users
		pepper string
	)
	if app.cfg.Provider == provider.KindSQLite {
		db, p, err := OpenUserStore(app.cfg)
		if err != nil {
			return err
		}
		app.users = db
		users = db.Users()
		pepper = p
		app.logger.Info("database migrations applied successfully")

		if empty, err := users.IsEmpty(context.Background()); err == nil && empty {
			app.logger.Warn("no accounts in user database, add one with `authstate users add`",
				"database", app.cfg.DatabaseFile)
		}
	}

	roles, err := provider.New(app.cfg.Provider, users, pepper)
	if err != nil {
		if app.users != nil {
			_ = app.users.Close()
		}
		return err
	}
	app.logger.Info("role provider ready", "provider", app.cfg.Provider)

	app.authService = &service.AuthenticationService{
		Provider: roles,
		Issuer:   app.issuer,
	}

	app.registry = session.NewRegistry(app.sessions, func() *session.Manager {
		return session.NewManager(app.authService, app.validator)
	}, app.logger)

	app.housekeepingService = service.NewHousekeepingService(
		app.registry,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.SessionIdleTimeout,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	var users store.Store
	if app.users != nil {
		users = app.users
	}

	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.sessions,
		users,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.Validator = app.validator
	router.Registry = app.registry
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
