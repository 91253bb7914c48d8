package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	database "github.com/ali-hasan-sss/syria-store-api/app/db"
	appLogger "github.com/ali-hasan-sss/syria-store-api/app/logger"
	"github.com/ali-hasan-sss/syria-store-api/app/observability/metrics"
	"github.com/ali-hasan-sss/syria-store-api/app/tracer"
	"github.com/ali-hasan-sss/syria-store-api/config"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/auth"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/blog"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/category"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/content"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/product"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/upload"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/user"
	"github.com/ali-hasan-sss/syria-store-api/internal/router"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

const serviceName = "syria-store-api"

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before initializing the main pool
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Observability ---
	metrics.InitAppMetrics()
	metricsHandler, err := tracer.InitTracingAndMetrics(serviceName)
	if err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}

	if err := seedAdmin(ctx, pool, &cfg, logger); err != nil {
		logger.Error("Failed to seed admin account", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Dependency Injection ---
	authRepo := auth.NewAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, &cfg, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	productRepo := product.NewRepository(pool, logger)
	productService := product.NewService(productRepo, logger)
	productHandler := product.NewHandler(productService, logger)

	categoryRepo := category.NewRepository(pool, logger)
	categoryHandler := category.NewHandler(categoryRepo, logger)

	userRepo := user.NewRepository(pool, logger)
	userService := user.NewService(userRepo, logger)
	userHandler := user.NewHandler(userService, logger)

	blogRepo := blog.NewRepository(pool, logger)
	blogHandler := blog.NewHandler(blogRepo, logger)

	contentRepo := content.NewRepository(pool, logger)
	contentHandler := content.NewHandler(contentRepo, logger)

	uploadService, err := upload.NewMinioService(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize object storage", slog.Any("error", err))
		os.Exit(1)
	}
	if err := uploadService.EnsureBucket(ctx); err != nil {
		logger.Warn("Object storage bucket not ready, uploads will fail until it is",
			slog.Any("error", err))
	}
	uploadHandler := upload.NewHandler(uploadService, logger)

	// --- Router Setup ---
	mainRouter := router.SetupRouter(&router.Config{
		AuthHandler:     authHandler,
		ProductHandler:  productHandler,
		CategoryHandler: categoryHandler,
		UserHandler:     userHandler,
		BlogHandler:     blogHandler,
		ContentHandler:  contentHandler,
		UploadHandler:   uploadHandler,

		Authenticate:         auth.Authenticate(logger, cfg.JWT),
		OptionalAuthenticate: auth.OptionalAuthenticate(logger, cfg.JWT),
		RequireAdmin:         auth.RequireAdmin(logger),
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(cfg.Server.Timeout))
	r.Use(middleware.Compress(5, "application/json"))
	r.Use(httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	r.Mount("/", mainRouter)

	// --- Servers ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metricsHandler)
	metricsSrv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Server.MetricsPort),
		Handler:     metricsMux,
		ReadTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting metrics server", slog.String("address", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server graceful shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

// seedAdmin inserts the bootstrap admin account when configured. The insert
// is a no-op if a user with the configured email already exists.
func seedAdmin(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, logger *slog.Logger) error {
	seed := cfg.Seed
	if seed.AdminEmail == "" || seed.AdminPassword == "" {
		logger.Info("Admin seed not configured, skipping")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	tag, err := pool.Exec(ctx,
		`INSERT INTO users (name, email, phone_num, password_hash, role)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (email) DO NOTHING`,
		"Admin", seed.AdminEmail, seed.AdminPhone, string(hashed), types.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}

	if tag.RowsAffected() > 0 {
		logger.Info("Admin account seeded", slog.String("email", seed.AdminEmail))
	}
	return nil
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
