package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notaryflow/docs"
	"notaryflow/internal/catalog"
	"notaryflow/internal/config"
	"notaryflow/internal/database"
	"notaryflow/internal/database/migration"
	"notaryflow/internal/events"
	handlers "notaryflow/internal/http/handler"
	"notaryflow/internal/http/middleware"
	"notaryflow/internal/kyc"
	"notaryflow/internal/metrics"
	"notaryflow/internal/otel"
	"notaryflow/internal/repository/postgres"
	"notaryflow/internal/service"
	"notaryflow/internal/storage"
)

// @title NotaryFlow API
// @version 1.0
// @BasePath /
func main() {
	ctx := context.Background()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Tracing first so database and outbound HTTP spans are captured
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	gate, err := kyc.NewHTTPGate(cfg.KYC)
	if err != nil {
		log.Fatalf("failed to initialize kyc gate: %v", err)
	}

	svcCatalog, err := catalog.Load(cfg.ServiceCatalogJSON)
	if err != nil {
		log.Fatalf("failed to load service catalog: %v", err)
	}

	// The audit feed is optional; without a Redis address transitions are
	// only persisted, not broadcast.
	var publisher events.Publisher = events.Noop{}
	if cfg.Redis.Addr != "" {
		rp, err := events.NewRedisPublisher(cfg.Redis)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rp.Close()
		publisher = rp
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	coreMetrics, err := metrics.New(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	// Initialize repositories and services
	store := postgres.NewStore(db)
	engine := service.NewEngine(service.EngineConfig{
		Store:       store,
		Gate:        gate,
		Catalog:     svcCatalog,
		Attachments: objStore,
		Publisher:   publisher,
		Metrics:     coreMetrics,
	})
	disputes := service.NewResolver(engine)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())
	app.Use(otelfiber.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, engine, disputes, cfg.Auth.JWTSecret)

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

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
