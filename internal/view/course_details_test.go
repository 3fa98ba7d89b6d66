package view

import (
	"net/http"
	"testing"

	"coursecompare/internal/domain"
	"coursecompare/internal/nav"
)

func TestCourseDetails_LoadSequence(t *testing.T) {
	h := newHarness(t)
	h.backend.Reviews = []domain.Review{{ID: 1, Course: 1, Rating: 4, User: "bob"}, {ID: 2, Course: 2, Rating: 3}}
	h.login(t)
	before := h.callCount()

	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)
	v.Load(1)

	calls := h.backend.Calls()[before:]
	want := []string{"/courses/1/", "/reviews/by-course/1/", "/saved-courses/"}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %+v", len(want), calls)
	}
	for i, path := range want {
		if calls[i].Path != path {
			t.Fatalf("call %d: expected %s, got %s", i, path, calls[i].Path)
		}
	}

	st := v.State()
	if st.Course == nil || st.Course.Name != "Data Science" {
		t.Fatalf("expected course loaded, got %+v", st)
	}
	if st.Stars != "★★★★★ (4.6)" {
		t.Fatalf("unexpected stars %q", st.Stars)
	}
	if len(st.Reviews) != 1 || st.Saved {
		t.Fatalf("unexpected reviews or saved flag: %+v", st)
	}
}

func TestCourseDetails_AnonymousSkipsSavedLookup(t *testing.T) {
	h := newHarness(t)
	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)
	v.Load(2)

	if h.backend.CallCount(http.MethodGet, "/saved-courses/") != 0 {
		t.Fatalf("saved courses must not be fetched without session")
	}
	if v.State().Course == nil {
		t.Fatalf("expected course loaded")
	}
}

func TestCourseDetails_NotFound(t *testing.T) {
	h := newHarness(t)
	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)
	v.Load(99)

	st := v.State()
	if !st.NotFound || st.Message != MsgCourseNotFound || st.Course != nil {
		t.Fatalf("expected not found state, got %+v", st)
	}
	if h.backend.CallCount(http.MethodGet, "/reviews/by-course/99/") != 0 {
		t.Fatalf("reviews must not be requested for a missing course")
	}
}

func TestCourseDetails_ReviewsFailureFailsWholeLoad(t *testing.T) {
	h := newHarness(t)
	h.backend.Fail(http.MethodGet, "/reviews/by-course/1/", http.StatusInternalServerError, nil)

	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)
	v.Load(1)

	if st := v.State(); st.Error != MsgCourseLoadFailed || st.Course != nil {
		t.Fatalf("expected load failure, got %+v", st)
	}
}

func TestCourseDetails_SavedLookupFailureMeansNotSaved(t *testing.T) {
	h := newHarness(t)
	h.backend.Saved = []domain.SavedCourse{{ID: 9, Course: domain.Course{ID: 1}}}
	h.login(t)
	h.backend.Fail(http.MethodGet, "/saved-courses/", http.StatusInternalServerError, nil)

	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)
	v.Load(1)

	st := v.State()
	if st.Course == nil || st.Error != "" || st.Message != "" || st.Saved {
		t.Fatalf("expected course shown as not saved without error, got %+v", st)
	}
	if !h.env.Session.IsAuthenticated() {
		t.Fatalf("non auth failures must keep the session")
	}
}

func TestCourseDetails_SavedLookupUnauthorized(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.backend.Fail(http.MethodGet, "/saved-courses/", http.StatusUnauthorized, map[string]string{"detail": "Token expired"})

	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)
	v.Load(1)

	st := v.State()
	if st.Message != MsgTokenInvalid || st.Saved || st.Course == nil {
		t.Fatalf("expected token message with course loaded, got %+v", st)
	}
	if h.env.Session.IsAuthenticated() {
		t.Fatalf("expected session cleared after 401")
	}
	if got := h.nav.Last(); got != nav.Login {
		t.Fatalf("expected redirect to %s, got %q", nav.Login, got)
	}
}

func TestCourseDetails_SaveRequiresLogin(t *testing.T) {
	h := newHarness(t)
	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)
	v.Load(1)
	v.SaveToDashboard()

	if got := v.State().Message; got != MsgLoginToSave {
		t.Fatalf("expected login prompt, got %q", got)
	}
	if h.nav.Last() != nav.Login {
		t.Fatalf("expected redirect to login, got %q", h.nav.Last())
	}
	if h.backend.CallCount(http.MethodPost, "/saved-courses/") != 0 {
		t.Fatalf("save must not be attempted without session")
	}
}

func TestCourseDetails_SaveAndDuplicate(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)
	v.Load(3)
	v.SaveToDashboard()
	if st := v.State(); st.Message != MsgCourseSaved || !st.Saved {
		t.Fatalf("expected saved, got %+v", st)
	}

	v.SaveToDashboard()
	if got := v.State().Message; got != MsgAlreadySaved {
		t.Fatalf("expected duplicate message, got %q", got)
	}
	if len(h.backend.SavedCourses()) != 1 {
		t.Fatalf("expected one saved association, got %d", len(h.backend.SavedCourses()))
	}
}

func TestCourseDetails_SaveGenericFailure(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.backend.Fail(http.MethodPost, "/saved-courses/", http.StatusInternalServerError, map[string]string{"detail": "boom"})

	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)
	v.Load(1)
	v.SaveToDashboard()

	if got := v.State().Message; got != MsgSaveFailed {
		t.Fatalf("expected generic failure, got %q", got)
	}
}

func TestCourseDetails_OpenLink(t *testing.T) {
	h := newHarness(t)
	v := NewCourseDetails(h.env)
	v.Mount(h.ctx)

	v.Load(1)
	if link := v.OpenLink(); link != "https://example.edu/ds" {
		t.Fatalf("unexpected link %q", link)
	}

	v.Load(2)
	if link := v.OpenLink(); link != "" || v.State().Message != MsgNoLink {
		t.Fatalf("expected no link message, got %q / %q", link, v.State().Message)
	}
}
