package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"transitdocs/docs"
	"transitdocs/internal/config"
	"transitdocs/internal/database"
	"transitdocs/internal/database/migration"
	"transitdocs/internal/enrich"
	handlers "transitdocs/internal/http/handler"
	"transitdocs/internal/http/middleware"
	"transitdocs/internal/otel"
	"transitdocs/internal/repository/postgres"
	"transitdocs/internal/service"
	"transitdocs/internal/session"
	"transitdocs/internal/storage"
	"transitdocs/internal/worker"
)

// @title Transit Document Portal API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	sessions, err := session.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	summarizer, err := enrich.NewGemini(cfg.Gemini)
	if err != nil {
		log.Fatalf("failed to initialize summarizer: %v", err)
	}

	// Repositories
	docRepo := postgres.NewDocumentPostgres(db)
	profileRepo := postgres.NewProfilePostgres(db)
	assignmentRepo := postgres.NewAssignmentPostgres(db)

	// Background enrichment: bounded pool, drained on shutdown
	pool := worker.NewPool(cfg.WorkerCount)
	pipeline := enrich.NewPipeline(objStore, docRepo, summarizer, pool)

	docSvc := service.NewDocumentService(objStore, docRepo, assignmentRepo, profileRepo, pipeline, cfg.Upload.MaxSizeBytes)
	authSvc := service.NewAuthService(profileRepo, sessions, []byte(cfg.Auth.JWTSecret), cfg.Auth.SessionTTL)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:         db,
		Auth:       authSvc,
		Documents:  docSvc,
		Sessions:   sessions,
		JWTSecret:  []byte(cfg.Auth.JWTSecret),
		SessionTTL: cfg.Auth.SessionTTL,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	// Let queued enrichment jobs finish before the process exits.
	pool.Shutdown()
}
