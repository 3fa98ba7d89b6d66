package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coursecompare/internal/nav"
	"coursecompare/internal/session"
	"coursecompare/internal/view"
)

const navRecorderKey = "nav_recorder"

// navigationMiddleware instala un nav.Recorder por request. Lo que las vistas
// pidan navegar se responde como 303 See Other.
func navigationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := &nav.Recorder{}
		c.Request = c.Request.WithContext(nav.WithNavigator(c.Request.Context(), rec))
		c.Set(navRecorderKey, rec)
		c.Next()
	}
}

func recorderFrom(c *gin.Context) *nav.Recorder {
	if val, ok := c.Get(navRecorderKey); ok {
		if rec, ok := val.(*nav.Recorder); ok {
			return rec
		}
	}
	return &nav.Recorder{}
}

// RequireSession deja pasar sólo con sesión vigente; si no, 303 a /login.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session not configured"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		store.CheckExpiry(ctx)
		if !view.Guard(ctx, store, c.Next) {
			respond(c, http.StatusUnauthorized, gin.H{"error": "login required"})
			c.Abort()
		}
	}
}

// respond escribe body como JSON; si la vista pidió navegar, el status pasa a
// ser 303 con Location.
func respond(c *gin.Context, status int, body any) {
	if path := recorderFrom(c).Last(); path != "" {
		c.Header("Location", path)
		status = http.StatusSeeOther
	}
	c.JSON(status, body)
}

type mountable interface {
	Mount(ctx context.Context)
	Unmount()
}

// mount ata la vista al request; el llamador difiere el Unmount devuelto.
func mount(c *gin.Context, v mountable) func() {
	v.Mount(c.Request.Context())
	return v.Unmount
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// loadStatus traduce el error de carga de una vista: sin error 200, con error 502.
func loadStatus(msg string) int {
	if msg != "" {
		return http.StatusBadGateway
	}
	return http.StatusOK
}
