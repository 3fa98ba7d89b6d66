package view

import (
	"fmt"

	"go.uber.org/zap"

	"coursecompare/internal/domain"
)

const (
	MaxCompared          = 3
	MsgCompareLoadFailed = "Failed to load courses. Please try again later."
)

var MsgCompareLimit = fmt.Sprintf("You can compare up to %d courses.", MaxCompared)

// CompareRow es una fila de la tabla comparativa.
type CompareRow struct {
	ID            int     `json:"id"`
	Name          string  `json:"Name"`
	Institute     string  `json:"Institute"`
	Fees          float64 `json:"Fees"`
	PlacementRate float64 `json:"Placement_rate"`
	Rating        float64 `json:"Rating"`
	Stars         string  `json:"stars"`
	Duration      string  `json:"Duration,omitempty"`
}

type CompareState struct {
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
	Courses  []domain.Course `json:"courses"`
	Selected []CompareRow    `json:"selected"`
}

type Compare struct {
	lifecycle
	env *Env

	loading  bool
	err      string
	courses  []domain.Course
	selected []int
}

func NewCompare(env *Env) *Compare {
	return &Compare{env: env}
}

func (c *Compare) Load() {
	ctx := c.context()
	if ctx == nil {
		return
	}
	c.commit(func() {
		c.loading = true
		c.err = ""
	})
	courses, err := c.env.Backend.Courses(ctx)
	if canceled(ctx) {
		return
	}
	c.commit(func() {
		c.loading = false
		if err != nil {
			c.env.logger().Warn("compare load failed", zap.Error(err))
			c.err = MsgCompareLoadFailed
			return
		}
		c.courses = courses
	})
}

// Select reemplaza la selección. Ids desconocidos o repetidos se ignoran.
func (c *Compare) Select(ids ...int) {
	c.commit(func() {
		known := make(map[int]bool, len(c.courses))
		for _, course := range c.courses {
			known[course.ID] = true
		}
		seen := make(map[int]bool)
		var picked []int
		for _, id := range ids {
			if !known[id] || seen[id] {
				continue
			}
			seen[id] = true
			picked = append(picked, id)
		}
		if len(picked) > MaxCompared {
			c.err = MsgCompareLimit
			picked = picked[:MaxCompared]
		} else if c.err == MsgCompareLimit {
			c.err = ""
		}
		c.selected = picked
	})
}

func (c *Compare) State() CompareState {
	var st CompareState
	c.read(func() {
		st = CompareState{
			Loading:  c.loading,
			Error:    c.err,
			Courses:  append([]domain.Course(nil), c.courses...),
			Selected: []CompareRow{},
		}
		byID := make(map[int]domain.Course, len(c.courses))
		for _, course := range c.courses {
			byID[course.ID] = course
		}
		for _, id := range c.selected {
			course := byID[id]
			st.Selected = append(st.Selected, CompareRow{
				ID:            course.ID,
				Name:          course.Name,
				Institute:     course.Institute,
				Fees:          course.Fees.Float(),
				PlacementRate: course.PlacementRate.Float(),
				Rating:        course.Rating.Float(),
				Stars:         Stars(course.Rating.Float()),
				Duration:      course.Duration,
			})
		}
	})
	return st
}
