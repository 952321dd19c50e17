// Package server contains the HTTP handlers and routing for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/seed"
	"inkwell/internal/service"
	"inkwell/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	avatarRepo  repository.AvatarRepository

	authService   *service.AuthService
	userService   *service.UserService
	postService   *service.PostService
	avatarService *service.AvatarService
}

// NewServer creates a new server instance, establishing its own database,
// Redis, and object storage connections.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	store, err := storage.NewS3Storage(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("object storage init failed: %w", err)
	}

	server, err := NewServerWithDeps(cfg, db, redisClient, store)
	if err != nil {
		return nil, err
	}
	server.promMiddleware = middleware.InitMetrics("inkwell-api")
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and a stub object store. The
// Prometheus middleware registers collectors in the process-global registry,
// so it is only attached on the NewServer path.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.ObjectStorage) (*Server, error) {
	server := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		avatarRepo:  repository.NewAvatarRepository(db),
	}

	server.authService = service.NewAuthService(server.userRepo, cfg.JWTSecret)
	server.userService = service.NewUserService(server.userRepo)
	server.postService = service.NewPostService(
		server.postRepo,
		server.userRepo,
		server.commentRepo,
		server.isAdminByUserID,
		cfg.EnforceOwnership,
	)
	server.avatarService = service.NewAvatarService(server.avatarRepo, store, cfg.MaxUploadSize)

	return server, nil
}

// EnsureAdminAccount provisions the configured admin user when bootstrap
// is enabled. Safe to call on every start; an existing account is reused.
func (s *Server) EnsureAdminAccount() error {
	if !s.config.BootstrapAdmin {
		return nil
	}
	if s.config.AdminEmail == "" || s.config.AdminPassword == "" {
		return fmt.Errorf("BOOTSTRAP_ADMIN requires ADMIN_EMAIL and ADMIN_PASSWORD")
	}

	username := s.config.AdminUsername
	if username == "" {
		username = "admin"
	}

	admin, err := seed.EnsureAdmin(s.db, username, s.config.AdminEmail, s.config.AdminPassword)
	if err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}
	log.Printf("Admin account ready: %s (id %d)", admin.Email, admin.ID)
	return nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Tracing spans per request
	app.Use(middleware.TracingMiddleware())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// Start starts the server.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Inkwell API",
		BodyLimit: int(s.config.MaxUploadSize) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

// HealthCheck reports liveness.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the server's dependencies are reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional; the cache layer degrades to direct reads.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("role").First(&user, userID).Error; err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}
