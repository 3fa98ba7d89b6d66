package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursecompare/internal/session"
)

// NewRouter configura el router de Gin con middlewares y una ruta por pantalla.
func NewRouter(
	logger *zap.Logger,
	store *session.Store,
	pages *PageHandler,
	account *AccountHandler,
	actions *ActionHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, JSON content-type y navegación.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware(), navigationMiddleware())

	r.GET("/", pages.Home)
	r.GET("/compare", pages.Compare)
	r.GET("/reviews", pages.Reviews)
	r.GET("/help", pages.Help)
	r.GET("/navbar", pages.Navbar)
	r.GET("/course/:id", pages.Course)
	r.GET("/course/:id/link", pages.CourseLink)

	r.POST("/reviews", actions.SubmitReview)
	r.POST("/contact", actions.Contact)
	r.POST("/course/:id/save", actions.SaveCourse)

	r.GET("/session", account.Session)
	r.POST("/login", account.Login)
	r.POST("/logout", account.Logout)
	r.POST("/register", account.Register)

	protected := r.Group("", RequireSession(store))
	protected.GET("/dashboard", account.Dashboard)
	protected.DELETE("/dashboard/saved/:id", actions.RemoveSaved)
	protected.GET("/update-profile", account.ProfileForm)
	protected.PUT("/update-profile", account.UpdateProfile)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if location := c.Writer.Header().Get("Location"); location != "" {
			fields = append(fields, zap.String("redirect", location))
		}
		logger.Info("request", fields...)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
