// Package view contiene los view models de cada pantalla. Cada vista guarda
// su propio estado (loading, error, éxito, datos) y sólo comparte la sesión.
package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"coursecompare/internal/domain"
	"coursecompare/internal/session"
)

// Backend es el subconjunto del cliente REST que usan las vistas.
type Backend interface {
	ObtainToken(ctx context.Context, username, password string) (domain.TokenPair, error)
	Register(ctx context.Context, reg domain.Registration) error
	UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (domain.User, error)
	Courses(ctx context.Context) ([]domain.Course, error)
	Course(ctx context.Context, id int) (domain.Course, error)
	Reviews(ctx context.Context) ([]domain.Review, error)
	ReviewsByCourse(ctx context.Context, courseID int) ([]domain.Review, error)
	CreateReview(ctx context.Context, token string, review domain.NewReview) (domain.Review, error)
	SavedCourses(ctx context.Context, token string) ([]domain.SavedCourse, error)
	SaveCourse(ctx context.Context, token string, courseID int) error
	DeleteSavedCourse(ctx context.Context, token string, savedCourseID int) error
	SendContactMessage(ctx context.Context, token string, msg domain.ContactMessage) error
}

// Env agrupa las dependencias compartidas por todas las vistas.
type Env struct {
	Backend Backend
	Session *session.Store
	Logger  *zap.Logger

	// ClearSessionOnUnauthorized limpia la sesión ante un 401 además de redirigir al login.
	ClearSessionOnUnauthorized bool
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// lifecycle ata una vista a un context: Unmount cancela las llamadas en vuelo
// y a partir de ahí toda escritura de estado se descarta.
type lifecycle struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func (l *lifecycle) Mount(parent context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.ctx, l.cancel = context.WithCancel(parent)
}

func (l *lifecycle) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// context devuelve el context de la vista; nil si no está montada.
func (l *lifecycle) context() context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctx == nil || l.ctx.Err() != nil {
		return nil
	}
	return l.ctx
}

// commit aplica fn sólo si la vista sigue montada.
func (l *lifecycle) commit(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctx == nil || l.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// read ejecuta fn bajo el lock de la vista, montada o no.
func (l *lifecycle) read(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}
