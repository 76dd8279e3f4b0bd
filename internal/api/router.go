package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/new-north/platform-api/internal/config"
	"github.com/new-north/platform-api/internal/metrics"
	"github.com/new-north/platform-api/internal/repository"
	"github.com/new-north/platform-api/internal/suggest"
)

// NewRouter creates and configures the Gin router
func NewRouter(repos *repository.Repositories, suggester suggest.Suggester, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(metrics.Middleware())
	metrics.MustRegister(prometheus.DefaultRegisterer)

	// Handlers
	authHandler := NewAuthHandler(repos, log)
	userHandler := NewUserHandler(repos, log)
	articleHandler := NewArticleHandler(repos, log)
	suggestHandler := NewSuggestHandler(suggester, log)

	// Health check and metrics
	router.GET("/health", healthCheck)
	router.GET("/metrics", metrics.Handler())

	// API v1
	v1 := router.Group("/v1")
	{
		v1.GET("/stats", statsHandler(repos))
		v1.GET("/session", authHandler.Session)

		// Auth endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)

			telegram := auth.Group("/telegram")
			{
				telegram.POST("/start", authHandler.TelegramStart)
				telegram.POST("/verify", authHandler.TelegramVerify)
				telegram.POST("/change", authHandler.TelegramChange)
			}
		}

		// People directory
		users := v1.Group("/users")
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.GET("/by-handle/:handle", userHandler.GetByHandle)
			users.PUT("/:id", userHandler.Update)
		}

		// Feed and editor
		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.POST("", articleHandler.Publish)
			articles.GET("/:id", articleHandler.Get)
			articles.PUT("/:id", articleHandler.Update)
			articles.DELETE("/:id", articleHandler.Delete)
			articles.POST("/:id/comments", articleHandler.AddComment)
		}

		v1.POST("/suggest", suggestHandler.Suggest)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "platform-api",
	})
}

// statsHandler returns entity counts
func statsHandler(repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		articles := repos.Articles.ListAll()
		comments := 0
		for _, a := range articles {
			comments += a.CommentsCount
		}

		c.JSON(http.StatusOK, gin.H{
			"store": gin.H{
				"users":    len(repos.Users.ListAll()),
				"articles": len(articles),
				"comments": comments,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
