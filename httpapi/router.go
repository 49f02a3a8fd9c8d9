package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/MrEthical07/goLogin/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configures [New].
type Options struct {
	Engine *goLogin.Engine
	Logger *slog.Logger
	// Metrics, when set, is mounted at GET /metrics.
	Metrics http.Handler
	// AllowOrigins defaults to every origin.
	AllowOrigins []string
	Debug        bool
}

// New builds the gin engine serving the login API under /api.
func New(opts Options) (*gin.Engine, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("http api requires engine")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	h := &handler{engine: opts.Engine, logger: logger}

	api := router.Group("/api")
	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.GET("/verify", h.verify)
	api.POST("/logout", h.logout)
	api.POST("/refresh", h.refresh)
	api.GET("/health", h.health)

	secured := api.Group("")
	secured.Use(middleware.GinGuard(opts.Engine))
	secured.GET("/user/info", h.userInfo)

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	return router, nil
}

func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
