// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	_ "outfitted/docs" // swagger docs
	"outfitted/internal/cache"
	"outfitted/internal/config"
	"outfitted/internal/database"
	"outfitted/internal/middleware"
	"outfitted/internal/models"
	"outfitted/internal/repository"
	"outfitted/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	userRepo        repository.UserRepository
	categoryRepo    repository.CategoryRepository
	outfitRepo      repository.OutfitRepository
	favoriteRepo    repository.FavoriteRepository
	images          *service.ImageStore
	authService     *service.AuthService
	categoryService *service.CategoryService
	outfitService   *service.OutfitService
	favoriteService *service.FavoriteService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; rate limiting then fails open and logout revokes nothing.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if db == nil {
		return nil, errors.New("database is required")
	}

	opts := []repository.Option{repository.WithQueryTimeout(cfg.DBQueryTimeout)}
	userRepo := repository.NewUserRepository(db, opts...)
	categoryRepo := repository.NewCategoryRepository(db, opts...)
	outfitRepo := repository.NewOutfitRepository(db, opts...)
	favoriteRepo := repository.NewFavoriteRepository(db, opts...)

	images := service.NewImageStore(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("outfitted-api"),
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		outfitRepo:     outfitRepo,
		favoriteRepo:   favoriteRepo,
		images:         images,
	}

	server.authService = service.NewAuthService(userRepo, cache.NewTokenBlacklist(redisClient), service.AuthConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	})
	server.categoryService = service.NewCategoryService(categoryRepo)
	server.outfitService = service.NewOutfitService(outfitRepo, images)
	server.favoriteService = service.NewFavoriteService(favoriteRepo, outfitRepo)

	return server, nil
}

// NewApp builds the fiber application with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	maxUpload := s.config.UploadMaxSizeMB
	if maxUpload <= 0 {
		maxUpload = service.DefaultImageMaxUploadSizeMB
	}

	app := fiber.New(fiber.Config{
		AppName:      "Outfitted API",
		BodyLimit:    (maxUpload + 1) * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escape handlers and fiber's own errors
// (unknown route, body too large) in the standard error shape.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			return models.RespondWithError(c, fiberErr.Code, models.NewNotFoundError(fiberErr.Message))
		case fiberErr.Code < fiber.StatusInternalServerError:
			return models.RespondWithError(c, fiberErr.Code, models.NewValidationError(fiberErr.Message))
		}
	}
	return respondServiceError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers; uploaded images are served cross-origin to the web client.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := strings.TrimSpace(s.config.AllowedOrigins)
	if origins == "" {
		origins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"detail": "Too many requests, please try again later.",
				"code":   "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Static(s.images.URLPrefix(), s.images.Dir(), fiber.Static{
		Browse: false,
	})

	users := app.Group("/users")
	users.Post("/register", middleware.RateLimit(
		s.redis, s.config.Env, 5, 10*time.Minute, "register"), s.Register)
	users.Post("/login", middleware.RateLimit(
		s.redis, s.config.Env, 10, 5*time.Minute, "login"), s.Login)
	users.Post("/logout", s.AuthRequired(), s.Logout)
	users.Get("/me", s.AuthRequired(), s.GetMe)

	categories := app.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Get("/:id", s.GetCategory)
	categories.Post("/", s.AuthRequired(), s.CreateCategory)
	categories.Put("/:id", s.AuthRequired(), s.UpdateCategory)
	categories.Delete("/:id", s.AuthRequired(), s.DeleteCategory)

	outfits := app.Group("/outfits")
	outfits.Get("/", s.ListOutfits)
	outfits.Get("/:id", s.GetOutfit)
	outfits.Post("/", s.AuthRequired(), s.CreateOutfit)
	outfits.Put("/:id", s.AuthRequired(), s.UpdateOutfit)
	outfits.Delete("/:id", s.AuthRequired(), s.DeleteOutfit)

	favorites := app.Group("/favorites", s.AuthRequired())
	favorites.Get("/", s.ListFavorites)
	favorites.Post("/:outfitId", s.AddFavorite)
	favorites.Delete("/:outfitId", s.RemoveFavorite)
}

// Root handles GET /
// @Summary API banner
// @Tags meta
// @Produce json
// @Success 200 {object} object{message=string}
// @Router / [get]
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Outfitted API"})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so only
// the database decides readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Outfitted API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired resolves the bearer token into a user and stores it in locals
// ("user", "userID", "token").
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Not authenticated"))
		}

		user, err := s.authService.ResolvePrincipal(c.UserContext(), tokenString)
		if err != nil {
			return respondServiceError(c, err)
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)
		c.Locals("token", tokenString)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing sql DB", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
