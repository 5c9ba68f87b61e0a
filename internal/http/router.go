package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindfolk/internal/domain"
)

// Handlers agrupa los handlers montados por NewRouter.
type Handlers struct {
	Auth       *AuthHandler
	Assessment *AssessmentHandler
	Therapist  *TherapistHandler
	Discover   *DiscoverHandler
}

// NewRouter configura el router de Gin con middlewares y rutas por rol.
func NewRouter(logger *zap.Logger, sessions AccessParser, h Handlers) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Publicas.
	auth := r.Group("/auth")
	auth.POST("/oauth", h.Auth.OAuth)
	auth.POST("/admin/login", h.Auth.AdminLogin)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/sign-out", h.Auth.SignOut)

	styles := r.Group("/styles")
	styles.GET("/vocabulary", h.Discover.Vocabulary)
	styles.POST("/normalize", h.Discover.NormalizeStyles)
	styles.POST("/overlay", h.Discover.Overlay)

	// Autenticadas.
	authed := r.Group("", RequireSession(sessions))
	authed.GET("/me", h.Auth.Me)
	authed.GET("/therapists/:id", h.Therapist.GetByID)

	client := authed.Group("", RequireRole(domain.RoleClient))
	client.GET("/assessment", h.Assessment.GetAssessment)
	client.PUT("/assessment", h.Assessment.PutAssessment)
	client.GET("/assessment/draft", h.Assessment.GetDraft)
	client.PUT("/assessment/draft", h.Assessment.PutDraft)
	client.DELETE("/assessment/draft", h.Assessment.DeleteDraft)
	client.GET("/discover", h.Discover.Feed)

	therapist := authed.Group("/therapists/me", RequireRole(domain.RoleTherapist))
	therapist.GET("", h.Therapist.GetMine)
	therapist.PUT("", h.Therapist.PutMine)

	admin := authed.Group("/admin", RequireRole(domain.RoleAdmin))
	admin.GET("/therapists", h.Therapist.ListForModeration)
	admin.PUT("/therapists/:id/status", h.Therapist.SetStatus)
	admin.PUT("/therapists/:id/tags", h.Therapist.SetTags)

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
