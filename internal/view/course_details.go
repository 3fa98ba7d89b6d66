package view

import (
	"go.uber.org/zap"

	"coursecompare/internal/api"
	"coursecompare/internal/domain"
)

const (
	MsgCourseLoadFailed = "Failed to fetch course details or reviews. Please try again later."
	MsgCourseNotFound   = "Course not found."
	MsgLoginToSave      = "Please log in to save courses."
	MsgCourseSaved      = "Course saved to your dashboard!"
	MsgAlreadySaved     = "This course is already saved."
	MsgSaveFailed       = "Failed to save course."
	MsgNoLink           = "No link available for this course."
)

type CourseDetailsState struct {
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
	Message  string          `json:"message,omitempty"`
	NotFound bool            `json:"notFound"`
	Course   *domain.Course  `json:"course,omitempty"`
	Stars    string          `json:"stars,omitempty"`
	Reviews  []domain.Review `json:"reviews"`
	Saved    bool            `json:"saved"`
}

// CourseDetails hace tres llamadas en orden: curso, reviews y (con sesión) guardados.
type CourseDetails struct {
	lifecycle
	env *Env

	loading  bool
	err      string
	message  string
	notFound bool
	course   *domain.Course
	reviews  []domain.Review
	savedIDs map[int]bool
}

func NewCourseDetails(env *Env) *CourseDetails {
	return &CourseDetails{env: env, savedIDs: make(map[int]bool)}
}

func (v *CourseDetails) Load(id int) {
	ctx := v.context()
	if ctx == nil {
		return
	}
	v.commit(func() {
		v.loading = true
		v.err, v.message, v.notFound = "", "", false
	})

	course, err := v.env.Backend.Course(ctx, id)
	if err != nil {
		if canceled(ctx) {
			return
		}
		v.commit(func() {
			v.loading = false
			if api.Classify(err) == api.KindNotFound {
				v.notFound = true
				return
			}
			v.env.logger().Warn("course load failed", zap.Int("course_id", id), zap.Error(err))
			v.err = MsgCourseLoadFailed
		})
		return
	}

	reviews, err := v.env.Backend.ReviewsByCourse(ctx, id)
	if err != nil {
		if canceled(ctx) {
			return
		}
		v.commit(func() {
			v.loading = false
			v.env.logger().Warn("course reviews load failed", zap.Int("course_id", id), zap.Error(err))
			v.err = MsgCourseLoadFailed
		})
		return
	}

	// Si falla el chequeo de guardados el curso se muestra como no guardado;
	// un 401 sigue la convención de sesión inválida.
	saved := make(map[int]bool)
	var authMsg string
	if snap := v.env.Session.Snapshot(); snap.IsAuthenticated {
		items, err := v.env.Backend.SavedCourses(ctx, snap.Token)
		if err != nil {
			if canceled(ctx) {
				return
			}
			if msg, ok := v.env.unauthorized(ctx, err); ok {
				authMsg = msg
			} else {
				v.env.logger().Warn("saved courses check failed", zap.Int("course_id", id), zap.Error(err))
			}
		}
		for _, item := range items {
			saved[item.Course.ID] = true
		}
	}

	v.commit(func() {
		v.loading = false
		v.course = &course
		v.reviews = reviews
		v.savedIDs = saved
		v.message = authMsg
	})
}

// SaveToDashboard guarda el curso cargado en el dashboard del usuario.
func (v *CourseDetails) SaveToDashboard() {
	ctx := v.context()
	if ctx == nil {
		return
	}
	var course *domain.Course
	v.read(func() { course = v.course })
	if course == nil {
		return
	}

	token, ok := v.env.authorize(ctx)
	if !ok {
		v.commit(func() { v.message = MsgLoginToSave })
		return
	}

	err := v.env.Backend.SaveCourse(ctx, token, course.ID)
	if canceled(ctx) {
		return
	}
	if err == nil {
		v.commit(func() {
			v.savedIDs[course.ID] = true
			v.message = MsgCourseSaved
		})
		return
	}

	msg := MsgSaveFailed
	if authMsg, isAuth := v.env.unauthorized(ctx, err); isAuth {
		msg = authMsg
	} else if api.FieldError(err, "course") {
		msg = MsgAlreadySaved
	} else {
		v.env.logger().Warn("save course failed", zap.Int("course_id", course.ID), zap.Error(err))
	}
	v.commit(func() { v.message = msg })
}

// OpenLink devuelve el link externo del curso, o "" con un mensaje si no tiene.
func (v *CourseDetails) OpenLink() string {
	var link string
	v.commit(func() {
		if v.course == nil {
			return
		}
		link = v.course.Link
		if link == "" {
			v.message = MsgNoLink
		}
	})
	return link
}

func (v *CourseDetails) State() CourseDetailsState {
	var st CourseDetailsState
	v.read(func() {
		st = CourseDetailsState{
			Loading:  v.loading,
			Error:    v.err,
			Message:  v.message,
			NotFound: v.notFound,
			Reviews:  append([]domain.Review(nil), v.reviews...),
		}
		if v.notFound {
			st.Message = MsgCourseNotFound
		}
		if v.course != nil && v.err == "" {
			c := *v.course
			st.Course = &c
			st.Stars = Stars(c.Rating.Float())
			st.Saved = v.savedIDs[c.ID]
		}
	})
	return st
}

// SavedIDs devuelve los ids de cursos guardados conocidos por la vista.
func (v *CourseDetails) SavedIDs() []int {
	var ids []int
	v.read(func() {
		for id := range v.savedIDs {
			ids = append(ids, id)
		}
	})
	return ids
}

