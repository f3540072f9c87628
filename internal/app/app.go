package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"student-manager/internal/auth"
	"student-manager/internal/config"
	"student-manager/internal/db"
	"student-manager/internal/health"
	"student-manager/internal/logger"
	"student-manager/internal/middleware"
	"student-manager/internal/student"

	"github.com/go-chi/chi/v5"
)

type App struct {
	config *config.Config
	router chi.Router
	server *http.Server
	logger *slog.Logger
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	database := db.New(cfg.Database)

	// Schema creation follows the fail-closed policy: with a bad config
	// or an unreachable database the server still starts and every
	// data-access call reports failure instead.
	ctx := context.Background()
	if err := db.RunMigrations(ctx, database, (*student.Student)(nil), (*auth.User)(nil)); err != nil {
		slogLogger.Error("failed to ensure schema; data access will fail", "error", err)
	}

	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// Auth setup
	userRepo := auth.NewRepository(database)
	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(authService, slogLogger)
	authHandler.RegisterRoutes(app.router)

	// Student endpoints (auth required)
	studentRepo := student.NewRepository(database)
	studentService := student.NewService(studentRepo)
	studentHandler := student.NewHandler(studentService, slogLogger)

	app.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(slogLogger))
		studentHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  secondsOrDefault(a.config.Server.ReadTimeout, 10),
		WriteTimeout: secondsOrDefault(a.config.Server.WriteTimeout, 10),
		IdleTimeout:  secondsOrDefault(a.config.Server.IdleTimeout, 60),
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	return a.server.Shutdown(ctx)
}

func secondsOrDefault(seconds, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}
