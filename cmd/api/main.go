package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ssisapi/internal/config"
	"ssisapi/internal/database"
	"ssisapi/internal/database/migration"
	handlers "ssisapi/internal/http/handler"
	"ssisapi/internal/http/middleware"
	"ssisapi/internal/otel"
	"ssisapi/internal/repository/postgres"
	"ssisapi/internal/service"
	"ssisapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	// Tracing: OTLP exporter, degrades to noop when disabled or misconfigured
	shutdownTracing, err := otel.Init(context.Background(), loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create the schema on first boot and seed the initial admin account
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelMigrate()
	if err := migration.EnsureMigrated(migrateCtx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	if cfg.Auth.SeedAdminPassword != "" {
		if err := migration.SeedAdmin(migrateCtx, db, loc,
			cfg.Auth.SeedAdminUsername, cfg.Auth.SeedAdminEmail, cfg.Auth.SeedAdminPassword); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories
	studentRepo := postgres.NewStudentPostgres(db)
	collegeRepo := postgres.NewCollegePostgres(db)
	programRepo := postgres.NewProgramPostgres(db)
	userRepo := postgres.NewUserPostgres(db)

	// Services
	studentSvc := service.NewStudentService(studentRepo, programRepo)
	avatarSvc := service.NewAvatarService(objStore, studentRepo,
		time.Duration(cfg.Avatar.UploadURLTTLSec)*time.Second,
		time.Duration(cfg.Avatar.DisplayURLTTLSec)*time.Second)
	creationOrch := service.NewCreationOrchestrator(studentSvc, avatarSvc)
	collegeSvc := service.NewCollegeService(collegeRepo, programRepo)
	programSvc := service.NewProgramService(programRepo, collegeRepo)
	authSvc := service.NewAuthService(userRepo, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	userSvc := service.NewUserService(userRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Global middleware: request IDs, structured logs, traces, metrics
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, handlers.Deps{
		Auth:      authSvc,
		Students:  studentSvc,
		Avatars:   avatarSvc,
		Creations: creationOrch,
		Colleges:  collegeSvc,
		Programs:  programSvc,
		Users:     userSvc,
		JWTSecret: cfg.Auth.JWTSecret,
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
