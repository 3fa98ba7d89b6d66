package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursecompare/internal/view"
)

const maxHomePages = 50

// PageHandler sirve las pantallas de sólo lectura.
type PageHandler struct {
	logger *zap.Logger
	env    *view.Env
}

func NewPageHandler(logger *zap.Logger, env *view.Env) *PageHandler {
	return &PageHandler{logger: logger, env: env}
}

// Home maneja GET /?page=N.
func (h *PageHandler) Home(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 || page > maxHomePages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}

	v := view.NewHome(h.env)
	defer mount(c, v)()
	v.Load()
	for i := 1; i < page; i++ {
		v.LoadMore()
	}

	st := v.State()
	respond(c, loadStatus(st.Error), gin.H{
		"home": st,
		"nav":  view.NavLinks(h.env.Session.Snapshot()),
	})
}

// Compare maneja GET /compare?ids=1,2,3.
func (h *PageHandler) Compare(c *gin.Context) {
	ids, err := parseIDs(c.Query("ids"))
	if err != nil {
		h.logger.Debug("invalid compare ids", zap.String("ids", c.Query("ids")), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ids"})
		return
	}

	v := view.NewCompare(h.env)
	defer mount(c, v)()
	v.Load()
	if len(ids) > 0 {
		v.Select(ids...)
	}

	st := v.State()
	status := http.StatusOK
	switch st.Error {
	case "":
	case view.MsgCompareLoadFailed:
		status = http.StatusBadGateway
	default:
		status = http.StatusBadRequest
	}
	respond(c, status, st)
}

// Reviews maneja GET /reviews?course=ID.
func (h *PageHandler) Reviews(c *gin.Context) {
	filter := 0
	if raw := c.Query("course"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course"})
			return
		}
		filter = id
	}

	v := view.NewReviewPage(h.env)
	defer mount(c, v)()
	v.Load()
	v.SetFilter(filter)

	st := v.State()
	respond(c, loadStatus(st.Error), st)
}

func (h *PageHandler) Help(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": view.HelpTopics()})
}

func (h *PageHandler) Navbar(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"links": view.NavLinks(h.env.Session.Snapshot())})
}

// Course maneja GET /course/:id.
func (h *PageHandler) Course(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	v := view.NewCourseDetails(h.env)
	defer mount(c, v)()
	v.Load(id)

	st := v.State()
	if st.NotFound {
		c.JSON(http.StatusNotFound, st)
		return
	}
	respond(c, loadStatus(st.Error), st)
}

// CourseLink maneja GET /course/:id/link: 303 al sitio del curso si tiene link.
func (h *PageHandler) CourseLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	v := view.NewCourseDetails(h.env)
	defer mount(c, v)()
	v.Load(id)

	st := v.State()
	switch {
	case st.NotFound:
		c.JSON(http.StatusNotFound, st)
		return
	case st.Error != "":
		c.JSON(http.StatusBadGateway, st)
		return
	}

	link := v.OpenLink()
	if link == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": view.MsgNoLink})
		return
	}
	c.Header("Location", link)
	c.JSON(http.StatusSeeOther, gin.H{"link": link})
}

func parseIDs(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
