// Package apitest provee un backend REST falso en memoria para tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"coursecompare/internal/domain"
)

type Call struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          []byte
}

type failure struct {
	status int
	body   any
}

// Backend replica los endpoints de /api/ con datos en memoria.
type Backend struct {
	mu sync.Mutex

	Courses  []domain.Course
	Reviews  []domain.Review
	Saved    []domain.SavedCourse
	Users    map[string]string
	Token    string
	Refresh  string
	UserInfo *domain.User
	Messages []domain.ContactMessage

	calls    []Call
	failures map[string]failure
	nextID   int
}

func New() *Backend {
	return &Backend{
		Users:    map[string]string{"alice": "pw"},
		Token:    "tok123",
		Refresh:  "ref456",
		failures: make(map[string]failure),
		nextID:   100,
	}
}

// Start levanta un httptest.Server y lo cierra al terminar el test.
// Devuelve la base URL equivalente a http://host/api/.
func (b *Backend) Start(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return srv.URL + "/api/"
}

// Fail hace que "METHOD /path/" responda con status y body dados.
func (b *Backend) Fail(method, path string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, body: body}
}

// SetToken cambia el único access token que aceptan los endpoints protegidos.
func (b *Backend) SetToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Token = token
}

func (b *Backend) SavedCourses() []domain.SavedCourse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.SavedCourse(nil), b.Saved...)
}

func (b *Backend) ContactMessages() []domain.ContactMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.ContactMessage(nil), b.Messages...)
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b *Backend) CallCount(method, path string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token/{$}", b.token)
	mux.HandleFunc("POST /api/register/{$}", b.register)
	mux.HandleFunc("PUT /api/update-profile/{$}", b.auth(b.updateProfile))
	mux.HandleFunc("GET /api/courses/{$}", b.listCourses)
	mux.HandleFunc("GET /api/courses/{id}/{$}", b.getCourse)
	mux.HandleFunc("GET /api/reviews/{$}", b.listReviews)
	mux.HandleFunc("POST /api/reviews/{$}", b.auth(b.createReview))
	mux.HandleFunc("GET /api/reviews/by-course/{id}/{$}", b.reviewsByCourse)
	mux.HandleFunc("GET /api/saved-courses/{$}", b.auth(b.listSaved))
	mux.HandleFunc("POST /api/saved-courses/{$}", b.auth(b.saveCourse))
	mux.HandleFunc("DELETE /api/saved-courses/{id}/{$}", b.auth(b.deleteSaved))
	mux.HandleFunc("POST /api/contact-messages/{$}", b.auth(b.contact))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		path := strings.TrimPrefix(r.URL.Path, "/api")

		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method:        r.Method,
			Path:          path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		f, failing := b.failures[r.Method+" "+path]
		b.mu.Unlock()

		if failing {
			writeJSON(w, f.status, f.body)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (b *Backend) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		want := "Bearer " + b.Token
		b.mu.Unlock()
		if r.Header.Get("Authorization") != want {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if pw, ok := b.Users[req.Username]; !ok || pw != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	writeJSON(w, http.StatusOK, domain.TokenPair{Access: b.Token, Refresh: b.Refresh, User: b.UserInfo})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := decodeBody(r, &reg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.Users[reg.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}})
		return
	}
	if reg.Password != reg.PasswordConfirm {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"password": {"Passwords do not match."}})
		return
	}
	b.Users[reg.Username] = reg.Password
	writeJSON(w, http.StatusCreated, domain.User{Username: reg.Username, Email: reg.Email})
}

func (b *Backend) updateProfile(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProfileUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad request"})
		return
	}
	if !strings.Contains(upd.Email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"Enter a valid email address."}})
		return
	}
	writeJSON(w, http.StatusOK, domain.User{ID: 1, Username: upd.Username, Email: upd.Email})
}

func (b *Backend) listCourses(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(b.Courses))
}

func (b *Backend) getCourse(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.Courses {
		if c.ID == id {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (b *Backend) listReviews(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(b.Reviews))
}

func (b *Backend) reviewsByCourse(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Review{}
	for _, rv := range b.Reviews {
		if rv.Course == id {
			out = append(out, rv)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createReview(w http.ResponseWriter, r *http.Request) {
	var in domain.NewReview
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad request"})
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"rating": {"Ensure this value is between 1 and 5."}})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	rv := domain.Review{ID: b.nextID, Course: in.Course, Rating: in.Rating, Comment: in.Comment, User: "alice", CreatedAt: domain.Timestamp{Time: time.Now().UTC()}}
	b.Reviews = append(b.Reviews, rv)
	writeJSON(w, http.StatusCreated, rv)
}

func (b *Backend) listSaved(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(b.Saved))
}

func (b *Backend) saveCourse(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CourseID int `json:"course_id"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.Saved {
		if s.Course.ID == in.CourseID {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"course": {"This course is already saved."}})
			return
		}
	}
	var course domain.Course
	found := false
	for _, c := range b.Courses {
		if c.ID == in.CourseID {
			course, found = c, true
		}
	}
	if !found {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"course_id": {"Invalid course."}})
		return
	}
	b.nextID++
	saved := domain.SavedCourse{ID: b.nextID, Course: course}
	b.Saved = append(b.Saved, saved)
	writeJSON(w, http.StatusCreated, saved)
}

func (b *Backend) deleteSaved(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.Saved {
		if s.ID == id {
			b.Saved = append(b.Saved[:i], b.Saved[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (b *Backend) contact(w http.ResponseWriter, r *http.Request) {
	var msg domain.ContactMessage
	if err := decodeBody(r, &msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad request"})
		return
	}
	if !strings.Contains(msg.Email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"Enter a valid email address."}})
		return
	}
	b.mu.Lock()
	b.Messages = append(b.Messages, msg)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, msg)
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
