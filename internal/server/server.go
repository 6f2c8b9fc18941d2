package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/swipechef/backend/config"
	"github.com/swipechef/backend/internal/api"
	"github.com/swipechef/backend/internal/database"
	"github.com/swipechef/backend/internal/feed"
	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/middleware"
	"github.com/swipechef/backend/internal/router"
	"github.com/swipechef/backend/internal/service"
)

// Deps are the optional backends. A nil Redis disables caching and rate
// limiting; a nil Storage disables image uploads.
type Deps struct {
	Redis   *redis.Client
	Storage service.ObjectStorage
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
	tokens *service.TokenService
	cfg    *config.Config
}

// New wires services, handlers and middleware into a ready-to-start server.
func New(cfg *config.Config, db *gorm.DB, deps Deps) *Server {
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	var (
		cache       service.Cache
		globalLimit gin.HandlerFunc
		reportLimit gin.HandlerFunc
		recipeLimit gin.HandlerFunc
	)
	if deps.Redis != nil {
		cache = service.NewRedisCache(deps.Redis)
		if cfg.RateLimit.Enabled {
			globalLimit = middleware.NewGlobalRateLimiter(deps.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Window).Middleware()
			reportLimit = middleware.NewReportRateLimiter(deps.Redis, cfg.RateLimit.ReportRequests, cfg.RateLimit.ReportWindow).Middleware()
			recipeLimit = middleware.NewRecipeCreationRateLimiter(deps.Redis, cfg.RateLimit.RecipeRequests, cfg.RateLimit.RecipeWindow).Middleware()
		}
	}

	selector := service.NewFeedSelector(db, feed.Options{
		ReportThreshold: cfg.Feed.ReportThreshold,
		OverFetchFactor: cfg.Feed.OverFetchFactor,
	})

	handlers := router.Handlers{
		Feed:    api.NewFeedHandler(selector, cfg.Feed),
		Recipes: api.NewRecipeHandler(service.NewRecipeService(db, service.LetterEmbedder{}, cfg.Feed.ReportThreshold), recipeLimit),
		Saved:   api.NewSavedHandler(service.NewSavedService(db)),
		Reports: api.NewReportHandler(service.NewReportService(db), reportLimit),
		Ratings: api.NewRatingHandler(service.NewRatingService(db), service.NewReviewService(db)),
		Catalog: api.NewCatalogHandler(service.NewCatalogService(db, cache, cfg.Cache.CatalogTTL)),
		Images:  api.NewImageHandler(service.NewImageService(db, deps.Storage)),
		Profile: api.NewProfileHandler(service.NewProfileService(db)),
	}

	engine := router.SetupRouter(handlers, router.Options{
		Validator:   tokens,
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   globalLimit,
		Health: func(ctx context.Context) error {
			if err := database.HealthCheck(ctx, db); err != nil {
				return err
			}
			if deps.Redis != nil {
				return deps.Redis.Ping(ctx).Err()
			}
			return nil
		},
	})

	return &Server{
		router: engine,
		db:     db,
		redis:  deps.Redis,
		tokens: tokens,
		cfg:    cfg,
		http: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Tokens is the issuer/validator the server authenticates with.
func (s *Server) Tokens() *service.TokenService {
	return s.tokens
}

// Start listens until ctx is cancelled or the listener fails, then shuts
// down gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.http.Addr).Msg("server starting")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logging.Info().Msg("server shutting down")
	return s.http.Shutdown(ctx)
}
