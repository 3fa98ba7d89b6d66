package view

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coursecompare/internal/domain"
)

const (
	MsgReviewLoadFailed   = "Failed to fetch data. Please try again later."
	MsgLoginToReview      = "You must be logged in to submit a review."
	MsgSelectRating       = "Please select a rating."
	MsgSelectCourse       = "Please select a course."
	MsgReviewSubmitted    = "Review submitted successfully!"
	MsgReviewSubmitFailed = "Failed to submit review. Please try again."
)

type ReviewForm struct {
	Course  int     `json:"course"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

type ReviewState struct {
	Loading bool            `json:"loading"`
	Error   string          `json:"error,omitempty"`
	Success string          `json:"success,omitempty"`
	Filter  int             `json:"filter,omitempty"`
	Reviews []domain.Review `json:"reviews"`
	Courses []domain.Course `json:"courses"`
	Form    ReviewForm      `json:"form"`
}

// ReviewPage lista reviews (filtrables por curso) y permite publicar una nueva.
type ReviewPage struct {
	lifecycle
	env *Env

	loading bool
	err     string
	success string
	filter  int
	reviews []domain.Review
	courses []domain.Course
	form    ReviewForm
}

func NewReviewPage(env *Env) *ReviewPage {
	return &ReviewPage{env: env}
}

func (p *ReviewPage) Load() {
	ctx := p.context()
	if ctx == nil {
		return
	}
	p.commit(func() {
		p.loading = true
		p.err = ""
	})

	var reviews []domain.Review
	var courses []domain.Course
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = p.env.Backend.Reviews(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = p.env.Backend.Courses(gctx)
		return err
	})
	err := g.Wait()
	if canceled(ctx) {
		return
	}
	p.commit(func() {
		p.loading = false
		if err != nil {
			p.env.logger().Warn("reviews page load failed", zap.Error(err))
			p.err = MsgReviewLoadFailed
			return
		}
		p.reviews = reviews
		p.courses = courses
	})
}

// SetFilter restringe la lista a un curso; 0 muestra todas.
func (p *ReviewPage) SetFilter(courseID int) {
	p.commit(func() { p.filter = courseID })
}

func (p *ReviewPage) Submit(form ReviewForm) {
	ctx := p.context()
	if ctx == nil {
		return
	}
	p.commit(func() {
		p.err, p.success = "", ""
		p.form = form
	})

	token, ok := p.env.authorize(ctx)
	if !ok {
		p.commit(func() { p.err = MsgLoginToReview })
		return
	}
	if form.Rating < 1 || form.Rating > maxStars {
		p.commit(func() { p.err = MsgSelectRating })
		return
	}
	if form.Course <= 0 {
		p.commit(func() { p.err = MsgSelectCourse })
		return
	}

	created, err := p.env.Backend.CreateReview(ctx, token, domain.NewReview{
		Course:  form.Course,
		Rating:  form.Rating,
		Comment: form.Comment,
	})
	if canceled(ctx) {
		return
	}
	if err != nil {
		msg := p.env.protectedFailure(ctx, err, MsgReviewSubmitFailed, "course", "rating")
		p.commit(func() { p.err = msg })
		return
	}

	reviews, err := p.env.Backend.Reviews(ctx)
	if canceled(ctx) {
		return
	}
	if err != nil {
		p.env.logger().Warn("reviews reload failed", zap.Error(err))
	}
	p.commit(func() {
		p.form = ReviewForm{}
		p.success = MsgReviewSubmitted
		if err != nil {
			p.reviews = append(p.reviews, created)
			return
		}
		p.reviews = reviews
	})
}

func (p *ReviewPage) State() ReviewState {
	var st ReviewState
	p.read(func() {
		st = ReviewState{
			Loading: p.loading,
			Error:   p.err,
			Success: p.success,
			Filter:  p.filter,
			Courses: append([]domain.Course(nil), p.courses...),
			Form:    p.form,
			Reviews: []domain.Review{},
		}
		for _, r := range p.reviews {
			if p.filter == 0 || r.Course == p.filter {
				st.Reviews = append(st.Reviews, r)
			}
		}
	})
	return st
}
