package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursecompare/internal/domain"
	"coursecompare/internal/view"
)

// ActionHandler maneja las escrituras autenticadas: reviews, contacto y guardados.
type ActionHandler struct {
	logger *zap.Logger
	env    *view.Env
}

func NewActionHandler(logger *zap.Logger, env *view.Env) *ActionHandler {
	return &ActionHandler{logger: logger, env: env}
}

// SubmitReview maneja POST /reviews.
func (h *ActionHandler) SubmitReview(c *gin.Context) {
	var req view.ReviewForm
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid review request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v := view.NewReviewPage(h.env)
	defer mount(c, v)()
	v.Submit(req)

	st := v.State()
	status := http.StatusCreated
	if st.Error != "" {
		status = http.StatusBadRequest
	}
	respond(c, status, st)
}

// Contact maneja POST /contact.
func (h *ActionHandler) Contact(c *gin.Context) {
	var req domain.ContactMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v := view.NewContact(h.env)
	defer mount(c, v)()
	v.Submit(req)

	st := v.State()
	status := http.StatusCreated
	if st.Error != "" {
		status = http.StatusBadRequest
	}
	respond(c, status, st)
}

// SaveCourse maneja POST /course/:id/save.
func (h *ActionHandler) SaveCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	v := view.NewCourseDetails(h.env)
	defer mount(c, v)()
	v.Load(id)
	if st := v.State(); st.NotFound || st.Error != "" {
		status := http.StatusBadGateway
		if st.NotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, st)
		return
	}
	v.SaveToDashboard()

	st := v.State()
	status := http.StatusBadGateway
	switch st.Message {
	case view.MsgCourseSaved:
		status = http.StatusCreated
	case view.MsgAlreadySaved:
		status = http.StatusConflict
	case view.MsgLoginToSave, view.MsgTokenInvalid:
		status = http.StatusUnauthorized
	}
	respond(c, status, st)
}

// RemoveSaved maneja DELETE /dashboard/saved/:id.
func (h *ActionHandler) RemoveSaved(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	v := view.NewDashboard(h.env)
	defer mount(c, v)()
	v.Load()
	if st := v.State(); st.Error != "" {
		respond(c, loadStatus(st.Error), st)
		return
	}
	v.Remove(id)

	st := v.State()
	respond(c, loadStatus(st.Error), st)
}
