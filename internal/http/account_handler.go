package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursecompare/internal/domain"
	"coursecompare/internal/ratelimit"
	"coursecompare/internal/view"
)

// AccountHandler agrupa sesión, registro, dashboard y perfil.
type AccountHandler struct {
	logger  *zap.Logger
	env     *view.Env
	limiter ratelimit.Limiter
}

// NewAccountHandler crea el handler; limiter puede ser nil (sin límite de logins).
func NewAccountHandler(logger *zap.Logger, env *view.Env, limiter ratelimit.Limiter) *AccountHandler {
	return &AccountHandler{logger: logger, env: env, limiter: limiter}
}

// Session maneja GET /session.
func (h *AccountHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.env.Session.Snapshot())
}

// Login maneja POST /login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), c.ClientIP()) {
		h.logger.Warn("login rate limited", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
		return
	}

	v := view.NewLogin(h.env)
	defer mount(c, v)()
	v.Submit(req.Username, req.Password)

	st := v.State()
	if st.Error != "" {
		c.JSON(http.StatusUnauthorized, st)
		return
	}
	respond(c, http.StatusOK, h.env.Session.Snapshot())
}

// Logout maneja POST /logout.
func (h *AccountHandler) Logout(c *gin.Context) {
	h.env.Session.Logout(c.Request.Context())
	respond(c, http.StatusOK, gin.H{"status": "logged_out"})
}

// Register maneja POST /register.
func (h *AccountHandler) Register(c *gin.Context) {
	var req domain.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v := view.NewRegister(h.env)
	defer mount(c, v)()
	v.Submit(req)

	st := v.State()
	if st.Error != "" {
		c.JSON(http.StatusBadRequest, st)
		return
	}
	respond(c, http.StatusCreated, st)
}

// Dashboard maneja GET /dashboard.
func (h *AccountHandler) Dashboard(c *gin.Context) {
	v := view.NewDashboard(h.env)
	defer mount(c, v)()
	v.Load()

	st := v.State()
	respond(c, loadStatus(st.Error), st)
}

// ProfileForm maneja GET /update-profile: el formulario precargado.
func (h *AccountHandler) ProfileForm(c *gin.Context) {
	v := view.NewUpdateProfile(h.env)
	defer mount(c, v)()
	c.JSON(http.StatusOK, v.State())
}

// UpdateProfile maneja PUT /update-profile.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req domain.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v := view.NewUpdateProfile(h.env)
	defer mount(c, v)()
	v.Submit(req)

	st := v.State()
	status := http.StatusOK
	if st.Error != "" {
		status = http.StatusBadRequest
	}
	respond(c, status, st)
}
