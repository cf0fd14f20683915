package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"libgen-llm/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	libraryH *LibraryHandler,
	tokenSvc *service.TokenService,
	limiter service.GenerateRateLimiter,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	libraries := r.Group("/libraries")
	libraries.GET("", libraryH.ListLibraries)
	libraries.GET("/:id", libraryH.GetLibrary)

	// Las rutas mutantes llevan auth (si hay secreto) y rate limit (si hay redis).
	mutating := libraries.Group("")
	if tokenSvc != nil && tokenSvc.Enabled() {
		mutating.Use(AuthMiddleware(tokenSvc))
	}
	mutating.POST("/generate", rateLimitMiddleware(limiter), libraryH.GenerateLibrary)
	mutating.POST("/validate", libraryH.ValidateLibrary)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// rateLimitMiddleware corta con 429 cuando el cliente agoto su cupo de
// generaciones. Sin limiter configurado, deja pasar.
func rateLimitMiddleware(limiter service.GenerateRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
