package view

import (
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coursecompare/internal/domain"
)

const (
	MsgHomeLoadFailed = "Failed to load data. Please try again later."

	featuredCount = 3
	topReviews    = 3
	coursePage    = 6
)

type HomeState struct {
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
	Featured []domain.Course `json:"featured"`
	Courses  []domain.Course `json:"courses"`
	Reviews  []domain.Review `json:"reviews"`
	HasMore  bool            `json:"hasMore"`
}

// Home carga cursos y reviews en paralelo; si cualquiera falla no se muestra ninguno.
type Home struct {
	lifecycle
	env *Env

	loading bool
	err     string
	courses []domain.Course
	reviews []domain.Review
	visible int
}

func NewHome(env *Env) *Home {
	return &Home{env: env, visible: coursePage}
}

func (h *Home) Load() {
	ctx := h.context()
	if ctx == nil {
		return
	}
	h.commit(func() {
		h.loading = true
		h.err = ""
	})

	var courses []domain.Course
	var reviews []domain.Review
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = h.env.Backend.Courses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = h.env.Backend.Reviews(gctx)
		return err
	})
	err := g.Wait()
	if canceled(ctx) {
		return
	}

	h.commit(func() {
		h.loading = false
		if err != nil {
			h.env.logger().Warn("home load failed", zap.Error(err))
			h.err = MsgHomeLoadFailed
			h.courses, h.reviews = nil, nil
			return
		}
		h.courses = sortCourses(courses)
		h.reviews = sortReviews(reviews, topReviews)
	})
}

// LoadMore muestra la siguiente página de cursos.
func (h *Home) LoadMore() {
	h.commit(func() {
		h.visible += coursePage
	})
}

func (h *Home) State() HomeState {
	var st HomeState
	h.read(func() {
		st = HomeState{Loading: h.loading, Error: h.err}
		if h.err != "" {
			return
		}
		st.Featured = head(h.courses, featuredCount)
		st.Courses = head(h.courses, h.visible)
		st.Reviews = append([]domain.Review(nil), h.reviews...)
		st.HasMore = len(h.courses) > h.visible
	})
	return st
}

func sortCourses(courses []domain.Course) []domain.Course {
	out := append([]domain.Course(nil), courses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out
}

func sortReviews(reviews []domain.Review, limit int) []domain.Review {
	out := append([]domain.Review(nil), reviews...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return head(out, limit)
}

func head[T any](items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	return append([]T(nil), items[:n]...)
}

