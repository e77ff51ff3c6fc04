package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ohs/ohs/internal/config"
	"github.com/ohs/ohs/internal/domain/asset"
	"github.com/ohs/ohs/internal/domain/company"
	"github.com/ohs/ohs/internal/domain/examination"
	"github.com/ohs/ohs/internal/domain/occupational"
	"github.com/ohs/ohs/internal/domain/subject"
	"github.com/ohs/ohs/internal/platform/assetstore"
	"github.com/ohs/ohs/internal/platform/auth"
	"github.com/ohs/ohs/internal/platform/db"
	"github.com/ohs/ohs/internal/platform/middleware"
	"github.com/ohs/ohs/internal/report"
	"github.com/ohs/ohs/internal/report/render"
	"github.com/ohs/ohs/migrations"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ohs-server",
		Short: "Occupational health surveillance records and reports",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, migrations.FS).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			color.Green("Applied %d migration(s).", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrations.FS).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printMigrationStatus(statuses)
			return nil
		},
	})

	return cmd
}

func printMigrationStatus(statuses []db.MigrationStatus) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Version", "Name", "Status", "Applied At"})
	for _, s := range statuses {
		status, appliedAt := color.YellowString("pending"), ""
		if s.Applied {
			status = color.GreenString("applied")
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		table.Append([]string{fmt.Sprint(s.Version), s.Name, status, appliedAt})
	}
	table.Render()
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

// newAssetStore selects the backend holding header and signature bytes.
func newAssetStore(ctx context.Context, cfg *config.Config) (assetstore.Store, error) {
	switch cfg.AssetBackend {
	case "s3":
		return assetstore.NewS3Store(ctx, cfg.AssetS3Bucket, cfg.AssetS3Prefix)
	case "memory":
		return assetstore.NewMemoryStore(), nil
	case "fs":
		return assetstore.NewFSStore(cfg.AssetDir)
	default:
		return nil, fmt.Errorf("unknown asset backend %q", cfg.AssetBackend)
	}
}

// app holds the services shared by the HTTP server and the report command.
type app struct {
	subjects     *subject.Service
	companies    *company.Service
	history      *occupational.Service
	examinations *examination.Service
	assets       *asset.Service
	reports      *report.Generator
}

func newApp(pool *pgxpool.Pool, store assetstore.Store, cfg *config.Config, logger zerolog.Logger) *app {
	subjectRepo := subject.NewRepo(pool)
	companyRepo := company.NewRepo(pool)
	historyRepo := occupational.NewRepo(pool)
	examRepo := examination.NewRepo(pool)
	assets := asset.NewService(asset.NewRepo(pool), store, cfg.AssetMaxBytes)

	aggregator := report.NewAggregator(subjectRepo, historyRepo, companyRepo, examRepo)
	composer := report.NewComposer(assets, cfg.ClinicName, logger)

	return &app{
		subjects:     subject.NewService(subjectRepo),
		companies:    company.NewService(companyRepo),
		history:      occupational.NewService(historyRepo),
		examinations: examination.NewService(examRepo),
		assets:       assets,
		reports:      report.NewGenerator(aggregator, composer, render.DefaultRegistry()),
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	store, err := newAssetStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.AssetBackend).Msg("failed to open asset store")
	}
	a := newApp(pool, store, cfg, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Sanitize(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimitBytes, cfg.AssetMaxBytes, "/api/v1/assets/"))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": version})
	})
	e.GET("/health/db", db.HealthHandler(pool, logger))

	var authMW echo.MiddlewareFunc
	if cfg.IsDev() {
		authMW = auth.DevAuthMiddleware([]byte(cfg.AuthSigningKey))
	} else {
		authMW = auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
		})
	}
	api := e.Group("/api/v1", authMW, middleware.Audit(logger))

	subject.NewHandler(a.subjects).RegisterRoutes(api)
	company.NewHandler(a.companies).RegisterRoutes(api)
	occupational.NewHandler(a.history).RegisterRoutes(api)
	examination.NewHandler(a.examinations).RegisterRoutes(api)
	asset.NewHandler(a.assets).RegisterRoutes(api)
	report.NewHandler(a.reports, cfg.ReportRedirectURL, logger).RegisterRoutes(api,
		middleware.RateLimit(middleware.RateLimitConfig{PerMinute: cfg.ReportRateLimit, Burst: cfg.ReportRateBurst}))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("asset_backend", cfg.AssetBackend).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
