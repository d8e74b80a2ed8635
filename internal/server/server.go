package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"time"

	"github.com/OyamaKema/Hardware-Jack/internal/config"
	"github.com/OyamaKema/Hardware-Jack/internal/domain"
	"github.com/OyamaKema/Hardware-Jack/internal/fetch"
	custommiddleware "github.com/OyamaKema/Hardware-Jack/internal/middleware"
	"github.com/OyamaKema/Hardware-Jack/internal/pricing"
	"github.com/OyamaKema/Hardware-Jack/internal/scrape"
	"github.com/OyamaKema/Hardware-Jack/internal/service"
	"github.com/OyamaKema/Hardware-Jack/internal/store"
	"github.com/OyamaKema/Hardware-Jack/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// NewServer wires the document stores, the ingestion pipeline, and the HTTP
// surface. db may be nil when the file store backend is configured.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Document stores
	var (
		products store.DocumentStore[domain.Product]
		reviews  store.DocumentStore[domain.Review]
	)
	if cfg.Store.Backend == "postgres" {
		products = store.NewSQLStore[domain.Product](db, "products", logger)
		reviews = store.NewSQLStore[domain.Review](db, "reviews", logger)
	} else {
		products = store.NewFileStore[domain.Product](filepath.Join(cfg.Store.Dir, "inventory.json"), logger)
		reviews = store.NewFileStore[domain.Review](filepath.Join(cfg.Store.Dir, "reviews.json"), logger)
	}

	// Ingestion pipeline
	fetcher := fetch.New(cfg.Marketplace.UserAgent,
		time.Duration(cfg.Marketplace.FetchTimeout)*time.Second)
	extractor := scrape.NewExtractor(profileFromConfig(cfg.Marketplace, logger))
	pricer := pricing.NewEngine()

	// Services
	catalogService := service.NewCatalogService(products, fetcher, extractor, pricer, logger)
	reviewService := service.NewReviewService(reviews, logger)

	// Handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	reviewHandler := transport.NewReviewHandler(reviewService, logger)

	// Operator auth is optional: without a secret the admin surface stays
	// open, which local development against the storefront relies on.
	adminMiddleware := passthrough
	if cfg.Admin.JWTSecret != "" {
		adminMiddleware = custommiddleware.AdminAuthMiddleware(cfg.Admin.JWTSecret, logger)
	}

	importLimiter := passthrough
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		importLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.Redis.ImportLimit,
			Window:            time.Duration(cfg.Redis.ImportWindow) * time.Second,
			KeyPrefix:         "ratelimit:import",
		}, logger)
	}

	catalogHandler.RegisterRoutes(router, adminMiddleware, importLimiter)
	reviewHandler.RegisterRoutes(router, adminMiddleware)

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

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

func passthrough(next http.Handler) http.Handler { return next }

func profileFromConfig(cfg config.MarketplaceConfig, logger *zap.Logger) scrape.Profile {
	profile := scrape.DefaultProfile()
	if cfg.Brand != "" {
		profile.Brand = cfg.Brand
	}
	if cfg.ImageHost != "" {
		profile.ImageHost = cfg.ImageHost
	}
	if cfg.ImagePattern != "" {
		pattern, err := regexp.Compile(cfg.ImagePattern)
		if err != nil {
			logger.Warn("Invalid MARKETPLACE_IMAGE_PATTERN, keeping default",
				zap.String("pattern", cfg.ImagePattern),
				zap.Error(err),
			)
		} else {
			profile.ImagePattern = pattern
		}
	}
	return profile
}
