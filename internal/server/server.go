package server

import (
	"fmt"
	"net/http"
	"time"

	"autoparts-store/internal/config"
	"autoparts-store/internal/database"
	custommiddleware "autoparts-store/internal/middleware"
	"autoparts-store/internal/repository"
	"autoparts-store/internal/service"
	"autoparts-store/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(custommiddleware.PeerAddress)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	// Repositories
	userRepo := repository.NewUserRepository(db.DB())
	productRepo := repository.NewProductRepository(db.DB())
	categoryRepo := repository.NewCategoryRepository(db.DB())

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.AccessExpiry)*time.Minute)
	productService := service.NewProductService(productRepo)
	categoryService := service.NewCategoryService(categoryRepo, logger)

	// Handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	productHandler := transport.NewProductHandler(productService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(authService, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	var authLimiter func(http.Handler) http.Handler
	if redisClient != nil {
		authLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.AuthRequests,
			Window:            time.Duration(cfg.RateLimit.AuthWindowSeconds) * time.Second,
			KeyPrefix:         "ratelimit:auth",
		}, logger)
	}

	authHandler.RegisterRoutes(router, authLimiter)
	productHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	categoryHandler.RegisterRoutes(router)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
