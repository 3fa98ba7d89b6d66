package view

import (
	"go.uber.org/zap"

	"coursecompare/internal/domain"
)

const (
	MsgDashboardLoadFailed = "Failed to load saved courses."
	MsgRemoveFailed        = "Failed to remove course. Please try again."
)

type DashboardState struct {
	Loading bool                      `json:"loading"`
	Error   string                    `json:"error,omitempty"`
	User    *domain.User              `json:"user,omitempty"`
	Courses []domain.SavedCourseEntry `json:"courses"`
}

// Dashboard lista los cursos guardados del usuario en forma aplanada.
type Dashboard struct {
	lifecycle
	env *Env

	loading bool
	err     string
	courses []domain.SavedCourseEntry
}

func NewDashboard(env *Env) *Dashboard {
	return &Dashboard{env: env}
}

func (d *Dashboard) Load() {
	ctx := d.context()
	if ctx == nil {
		return
	}
	snap := d.env.Session.Snapshot()
	if !snap.IsAuthenticated {
		d.commit(func() { d.loading = false })
		return
	}
	d.commit(func() {
		d.loading = true
		d.err = ""
	})

	items, err := d.env.Backend.SavedCourses(ctx, snap.Token)
	if canceled(ctx) {
		return
	}
	if err != nil {
		msg, isAuth := d.env.unauthorized(ctx, err)
		if !isAuth {
			d.env.logger().Warn("saved courses load failed", zap.Error(err))
			msg = MsgDashboardLoadFailed
		}
		d.commit(func() {
			d.loading = false
			d.err = msg
		})
		return
	}
	d.commit(func() {
		d.loading = false
		d.courses = domain.FlattenSaved(items)
	})
}

// Remove borra una asociación; la lista local sólo cambia si el backend confirma.
func (d *Dashboard) Remove(savedCourseID int) {
	ctx := d.context()
	if ctx == nil {
		return
	}
	token, ok := d.env.authorize(ctx)
	if !ok {
		d.commit(func() { d.err = MsgTokenInvalid })
		return
	}

	err := d.env.Backend.DeleteSavedCourse(ctx, token, savedCourseID)
	if canceled(ctx) {
		return
	}
	if err != nil {
		msg, isAuth := d.env.unauthorized(ctx, err)
		if !isAuth {
			d.env.logger().Warn("remove saved course failed", zap.Int("saved_course_id", savedCourseID), zap.Error(err))
			msg = MsgRemoveFailed
		}
		d.commit(func() { d.err = msg })
		return
	}
	d.commit(func() {
		kept := d.courses[:0:0]
		for _, c := range d.courses {
			if c.SavedCourseID != savedCourseID {
				kept = append(kept, c)
			}
		}
		d.courses = kept
		d.err = ""
	})
}

func (d *Dashboard) State() DashboardState {
	var st DashboardState
	d.read(func() {
		st = DashboardState{
			Loading: d.loading,
			Error:   d.err,
			Courses: append([]domain.SavedCourseEntry{}, d.courses...),
		}
	})
	st.User = d.env.Session.Snapshot().User
	return st
}
