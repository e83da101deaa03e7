// Package httpapi wires the HTTP transport (Gin) to the planner services,
// middleware and route handlers. It owns the cross-cutting concerns: tracing,
// correlation IDs, redacted logging, panic recovery, compression, metrics,
// idempotency, rate limiting, CORS and security headers.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-training-planner/internal/artifacts"
	"github.com/tbourn/go-training-planner/internal/config"
	_ "github.com/tbourn/go-training-planner/internal/docs" // registers the OpenAPI document
	"github.com/tbourn/go-training-planner/internal/domain"
	"github.com/tbourn/go-training-planner/internal/http/handlers"
	"github.com/tbourn/go-training-planner/internal/http/middleware"
	"github.com/tbourn/go-training-planner/internal/repo"
	"github.com/tbourn/go-training-planner/internal/search"
	"github.com/tbourn/go-training-planner/internal/services"
)

// maxBodyBytes caps request bodies. Profiles and feedback are small JSON
// documents.
const maxBodyBytes = 1 << 20

// Services is the wired application layer behind the routes.
type Services struct {
	Registration *services.RegistrationService
	Plans        *services.Orchestrator
	Feedback     *services.FeedbackService
	Catalog      *search.CatalogIndex
}

// NewServices builds the pipeline over db. catalog feeds both the exercise
// search endpoint and the feedback parser; store may be nil to disable plan
// exports.
func NewServices(db *gorm.DB, catalog []domain.Exercise, store artifacts.Store, cfg config.Config) *Services {
	plans := services.NewOrchestrator(db, services.DefaultPlanner{}, store)
	reg := services.NewRegistrationService(services.NewEngine(db), plans)
	return &Services{
		Registration: reg,
		Plans:        plans,
		Feedback:     services.NewFeedbackService(db, services.NewRuleParser(catalog), reg, cfg.IdempotencyTTL),
		Catalog:      search.NewCatalogIndex(catalog),
	}
}

// RegisterRoutes attaches all middleware and endpoints to r and mounts the
// public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry
//  2. RequestID
//  3. RedactingLogger (attaches the request-scoped logger)
//  4. Recovery, after the logger so panics are logged with request fields
//  5. Body size limit
//  6. gzip
//  7. Metrics
//  8. Idempotency validator, before the limiter so replays bypass it
//  9. Rate limiter (unsafe methods, per client IP)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, svc *Services, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-Api-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		idempotencyLookup(db),
	))

	if cfg.RateRPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
		r.Use(rl.Handler())
	}

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)

	apiBase := cfg.APIBasePath
	if apiBase == "/" {
		apiBase = ""
	}
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		NoStorePrefixes: []string{apiBase + "/profiles"},
		EnablePolicy:    true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc.Registration, svc.Plans, svc.Feedback, svc.Catalog)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/profiles", h.SubmitProfile)
		api.PUT("/profiles", h.ReplaceProfile)
		api.GET("/profiles/lookup", h.LookupProfile)
		api.GET("/profiles/:id", h.GetProfile)
		api.GET("/profiles/:id/plans", h.ListPlans)

		api.GET("/plans/:id", h.GetPlan)
		api.POST("/plans/:id/feedback", h.LeaveFeedback)

		api.GET("/exercises", h.SearchExercises)
	}
}

// idempotencyLookup reports whether a live record exists for (plan, key).
// A missing record is a plain miss; store errors are returned for the
// validator to log, and the feedback service re-checks inside its own flow.
func idempotencyLookup(db *gorm.DB) middleware.IdempotencyLookup {
	return func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
		_, err := repo.GetIdempotency(ctx, db, scope, key, now)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, repo.ErrNotFound):
			return false, nil
		default:
			return false, err
		}
	}
}

// corsMiddleware allows every origin when none are configured; otherwise it
// echoes allowlisted origins.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "ETag", "Retry-After", "Idempotency-Replayed", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// ACAO is set even without an Origin header, for simple health probes.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// limitBody caps the request body at maxBytes using http.MaxBytesReader.
// Reads past the cap fail, which binding reports as a bad request.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
