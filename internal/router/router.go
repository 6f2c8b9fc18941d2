package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swipechef/backend/internal/api"
	"github.com/swipechef/backend/internal/middleware"
)

// Handlers groups the API handlers mounted under /api/v1. All are required.
type Handlers struct {
	Feed    *api.FeedHandler
	Recipes *api.RecipeHandler
	Saved   *api.SavedHandler
	Reports *api.ReportHandler
	Ratings *api.RatingHandler
	Catalog *api.CatalogHandler
	Images  *api.ImageHandler
	Profile *api.ProfileHandler
}

// Options are the cross-cutting pieces of the router.
type Options struct {
	Validator   middleware.TokenValidator
	CORSOrigins []string
	// RateLimit, when set, runs on every authenticated route.
	RateLimit gin.HandlerFunc
	// Health reports whether the backing stores answer.
	Health func(ctx context.Context) error
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.CORS(opts.CORSOrigins),
	)
	router.NoRoute(middleware.NoRoute)

	router.GET("/healthz", healthCheck(opts.Health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// catalog reads are public
	h.Catalog.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Validator))
	if opts.RateLimit != nil {
		protected.Use(opts.RateLimit)
	}
	h.Feed.RegisterRoutes(protected)
	h.Recipes.RegisterRoutes(protected)
	h.Saved.RegisterRoutes(protected)
	h.Reports.RegisterRoutes(protected)
	h.Ratings.RegisterRoutes(protected)
	h.Images.RegisterRoutes(protected)
	h.Profile.RegisterRoutes(protected)
	return router
}

func healthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
