// Package nav transporta la navegación entre vistas a través del context.
package nav

import (
	"context"
	"sync"
)

const (
	Home          = "/"
	Compare       = "/compare"
	Reviews       = "/reviews"
	Contact       = "/contact"
	Help          = "/help"
	Login         = "/login"
	Register      = "/register"
	Dashboard     = "/dashboard"
	UpdateProfile = "/update-profile"
)

// Navigator recibe pedidos de redirección.
type Navigator interface {
	Navigate(path string)
}

// Func adapta una función a Navigator.
type Func func(path string)

func (f Func) Navigate(path string) { f(path) }

type ctxKey struct{}

func WithNavigator(ctx context.Context, n Navigator) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// Navigate redirige usando el Navigator del context; sin Navigator es un no-op.
func Navigate(ctx context.Context, path string) {
	if n, ok := ctx.Value(ctxKey{}).(Navigator); ok && n != nil {
		n.Navigate(path)
	}
}

// Recorder guarda las redirecciones pedidas. Lo usan el servidor HTTP y los tests.
type Recorder struct {
	mu      sync.Mutex
	history []string
}

func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, path)
}

// Last devuelve la última redirección, o "" si no hubo ninguna.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

func (r *Recorder) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
