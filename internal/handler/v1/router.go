package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/config"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/handler/middleware"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/metrics"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	RVU       *RVUHandler
	Visit     *VisitHandler
	Favorite  *FavoriteHandler
	Analytics *AnalyticsHandler
}

// NewRouter assembles the gin engine: global middleware, health and metrics
// endpoints, the public auth routes, and the authenticated v1 API.
func NewRouter(
	cfg *config.Config,
	handlers Handlers,
	jwtManager *auth.JWTManager,
	db *gorm.DB,
	log *zap.Logger,
	mc *metrics.Collector,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(log))
	if mc != nil {
		r.Use(middleware.Metrics(mc))
	}
	r.Use(middleware.CORS(cfg.CORS))

	globalLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	r.Use(globalLimiter.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	// Login and register are throttled harder than the rest of the API.
	authLimiter := middleware.NewRateLimiter(
		float64(cfg.RateLimit.AuthRequestsPerMinute)/time.Minute.Seconds(),
		cfg.RateLimit.AuthRequestsPerMinute,
	)
	authGroup := api.Group("/auth")
	authGroup.Use(authLimiter.Middleware())
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/refresh", handlers.Auth.Refresh)
		authGroup.POST("/logout", handlers.Auth.Logout)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(jwtManager))
	{
		protected.PUT("/user/password", handlers.Auth.ChangePassword)
		protected.DELETE("/user", handlers.Auth.DeleteAccount)

		protected.GET("/rvu/search", handlers.RVU.Search)
		protected.GET("/rvu/warmup", handlers.RVU.Warmup)
		protected.GET("/rvu/stats", handlers.RVU.Stats)
		protected.POST("/rvu/refresh", handlers.RVU.Refresh)
		protected.GET("/rvu/codes/:hcpcs", handlers.RVU.Lookup)

		protected.POST("/visits", handlers.Visit.Create)
		protected.GET("/visits", handlers.Visit.List)
		protected.PUT("/visits/:id", handlers.Visit.Update)
		protected.DELETE("/visits/:id", handlers.Visit.Delete)

		protected.GET("/favorites", handlers.Favorite.List)
		protected.POST("/favorites", handlers.Favorite.Add)
		protected.PATCH("/favorites/reorder", handlers.Favorite.Reorder)
		protected.DELETE("/favorites/:hcpcs", handlers.Favorite.Remove)

		protected.GET("/analytics", handlers.Analytics.Aggregate)
	}

	return r
}
