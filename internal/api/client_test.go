package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"coursecompare/internal/api/apitest"
	"coursecompare/internal/domain"
)

func newTestClient(t *testing.T, backend *apitest.Backend) *Client {
	t.Helper()
	return NewClient(backend.Start(t), 2*time.Second, zap.NewNop())
}

func TestClient_AttachesBearerOnlyWhenGiven(t *testing.T) {
	backend := apitest.New()
	backend.Courses = []domain.Course{{ID: 1, Name: "Go"}}
	client := newTestClient(t, backend)
	ctx := context.Background()

	if _, err := client.Courses(ctx); err != nil {
		t.Fatalf("courses: %v", err)
	}
	if _, err := client.SavedCourses(ctx, "tok123"); err != nil {
		t.Fatalf("saved courses: %v", err)
	}

	calls := backend.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].Authorization != "" {
		t.Fatalf("public read must not carry credentials, got %q", calls[0].Authorization)
	}
	if calls[1].Authorization != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", calls[1].Authorization)
	}
	if calls[0].RequestID == "" || calls[0].RequestID == calls[1].RequestID {
		t.Fatalf("expected distinct request ids, got %q and %q", calls[0].RequestID, calls[1].RequestID)
	}
}

func TestClient_DecodesErrorBody(t *testing.T) {
	backend := apitest.New()
	backend.Courses = []domain.Course{{ID: 42}}
	backend.Saved = []domain.SavedCourse{{ID: 9, Course: domain.Course{ID: 42}}}
	client := newTestClient(t, backend)

	err := client.SaveCourse(context.Background(), "tok123", 42)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || !apiErr.Body.Has("course") {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if !FieldError(err, "course") {
		t.Fatalf("expected course field error")
	}
}

func TestClient_UnauthorizedMatchesSentinel(t *testing.T) {
	backend := apitest.New()
	client := newTestClient(t, backend)

	_, err := client.SavedCourses(context.Background(), "stale")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if Classify(err) != KindAuth {
		t.Fatalf("expected auth kind, got %v", Classify(err))
	}
}

func TestClient_RetriesIdempotentGetOnServerError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]domain.Course{{ID: 3}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/api/", time.Second, zap.NewNop(), WithGetRetries(1))
	courses, err := client.Courses(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(courses) != 1 || courses[0].ID != 3 {
		t.Fatalf("unexpected courses: %+v", courses)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected 2 attempts, got %d", hits)
	}
}

func TestClient_DoesNotRetryWrites(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zap.NewNop(), WithGetRetries(3))
	err := client.SendContactMessage(context.Background(), "tok", domain.ContactMessage{Name: "a"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected a single attempt for POST, got %d", hits)
	}
}

func TestClient_TimeoutBoundsHungRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, 50*time.Millisecond, zap.NewNop(), WithGetRetries(0))
	start := time.Now()
	if _, err := client.Reviews(context.Background()); err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("request was not bounded by timeout")
	}
}

func TestClient_LoginAndRegisterRoundTrip(t *testing.T) {
	backend := apitest.New()
	backend.UserInfo = &domain.User{Username: "alice", Email: "alice@example.com"}
	client := newTestClient(t, backend)
	ctx := context.Background()

	pair, err := client.ObtainToken(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("obtain token: %v", err)
	}
	if pair.Access != "tok123" || pair.Refresh != "ref456" || pair.User == nil || pair.User.Email != "alice@example.com" {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	err = client.Register(ctx, domain.Registration{Username: "alice", Email: "a@x.io", Password: "p", PasswordConfirm: "p"})
	if Message(err, "fallback", "username", "email", "password") != "A user with that username already exists." {
		t.Fatalf("unexpected register error: %v", err)
	}
}
