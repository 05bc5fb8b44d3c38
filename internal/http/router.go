// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, error translation, authentication and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Every failure rendered once, by the error translator
//   - Deterministic, minimal router setup; all dependencies injected
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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-account-api/internal/auth"
	"github.com/tbourn/go-account-api/internal/config"
	"github.com/tbourn/go-account-api/internal/domain"
	"github.com/tbourn/go-account-api/internal/failure"
	"github.com/tbourn/go-account-api/internal/http/handlers"
	"github.com/tbourn/go-account-api/internal/http/middleware"
	"github.com/tbourn/go-account-api/internal/repo"
	"github.com/tbourn/go-account-api/internal/services"
)

// userRepoShim adapts the repository free functions to the services.UserRepo
// and services.LoginRepo interfaces. This keeps services decoupled from the
// concrete repo package while reusing existing functions.
type userRepoShim struct{}

// CreateUser proxies repo.CreateUser.
func (userRepoShim) CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	return repo.CreateUser(ctx, db, u)
}

// GetUser proxies repo.GetUser.
func (userRepoShim) GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.GetUser(ctx, db, id)
}

// GetUserByEmail proxies repo.GetUserByEmail.
func (userRepoShim) GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, db, email)
}

// EmailTaken proxies repo.EmailTaken.
func (userRepoShim) EmailTaken(ctx context.Context, db *gorm.DB, email, excludeID string) (bool, error) {
	return repo.EmailTaken(ctx, db, email, excludeID)
}

// ListUsers proxies repo.ListUsers.
func (userRepoShim) ListUsers(ctx context.Context, db *gorm.DB, excludeID string, onlyActive bool) ([]domain.User, error) {
	return repo.ListUsers(ctx, db, excludeID, onlyActive)
}

// UpdateProfile proxies repo.UpdateProfile.
func (userRepoShim) UpdateProfile(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return repo.UpdateProfile(ctx, db, u)
}

// UpdateActivation proxies repo.UpdateActivation.
func (userRepoShim) UpdateActivation(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return repo.UpdateActivation(ctx, db, u)
}

// UsersStats proxies repo.UsersStats (ETag support).
func (userRepoShim) UsersStats(ctx context.Context, db *gorm.DB, excludeID string, onlyActive bool) (int64, *time.Time, error) {
	return repo.UsersStats(ctx, db, excludeID, onlyActive)
}

// GetWalletByUser proxies repo.GetWalletByUser.
func (userRepoShim) GetWalletByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.Wallet, error) {
	return repo.GetWalletByUser(ctx, db, userID)
}

// UpdateLastLogin proxies repo.UpdateLastLogin.
func (userRepoShim) UpdateLastLogin(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return repo.UpdateLastLogin(ctx, db, id, at)
}

// userLoader resolves token subjects for middleware.Authenticate.
type userLoader struct{ db *gorm.DB }

// LoadUser maps a missing row to middleware.ErrUserNotFound.
func (l userLoader) LoadUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, l.db, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, middleware.ErrUserNotFound
	}
	return u, err
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// rdb is optional; when set, the login throttle is shared through Redis.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Access log: RedactingLogger (Logger in debug mode)
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. CORS and security headers
//  8. Gzip
//  9. ErrorTranslator: renders failures of everything below
//  10. Authenticate: optional bearer token
//  11. Rate limiter (per user/IP)
func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logs
	if cfg.GinMode == gin.DebugMode {
		r.Use(middleware.Logger())
	} else {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-API-Key"},
		}))
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture and security headers
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	// 8) Compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 9) Error translation
	r.Use(middleware.ErrorTranslator())

	// Credentials and tokens
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenIssuer(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	// 10) Authentication
	r.Use(middleware.Authenticate(userLoader{db: db}, tokens))

	// 11) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(middleware.NewMemoryStore(cfg.RateRPS, cfg.RateBurst), middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(failure.NewNotFound("", ""))
	})
	r.NoMethod(func(c *gin.Context) {
		_ = c.Error(failure.NewMethodNotAllowed(c.Request.Method))
	})

	// Liveness/health
	r.GET("/health", health(db))

	// API docs
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	userSvc := services.NewUserService(db, userRepoShim{}, hasher)
	authSvc := services.NewAuthService(db, userRepoShim{}, hasher, tokens)
	h := handlers.New(userSvc, authSvc)

	loginRL := middleware.NewRateLimiter(loginStore(rdb, cfg.Login), middleware.KeyByIP())
	loginRL.OnReject = func(*gin.Context) { middleware.ObserveLogin(middleware.LoginThrottled) }

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"
	{
		api.POST("/login", middleware.NoStore(), loginRL.Handler(), h.Login)

		users := api.Group("/users", middleware.ViewModel(services.ResourceUser))
		users.POST("", h.CreateUser)
		users.GET("", middleware.RequireActiveAdmin(), h.ListUsers)
		users.GET("/:id", middleware.RequireActiveAdmin(), middleware.RequireAuthenticated(), h.GetUser)
		users.PUT("/:id", middleware.RequireActiveAdmin(), middleware.RequireOwner("id"), h.UpdateUser)
		users.PATCH("/:id", middleware.RequireActiveAdmin(), h.ToggleUserActive)
	}
}

// loginStore picks the login throttle backend.
func loginStore(rdb *redis.Client, lc config.LoginThrottleConfig) middleware.Store {
	if rdb != nil {
		return middleware.NewRedisStore(rdb, "throttle:login:", lc.Limit, lc.Window)
	}
	return middleware.NewWindowMemoryStore(lc.Limit, lc.Window)
}

// corsMiddleware returns the CORS posture: allow all origins when none are
// configured, otherwise echo allow-listed origins.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true // AllowCredentials must remain false
		return []gin.HandlerFunc{
			// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
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

// health reports liveness and database reachability.
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
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
