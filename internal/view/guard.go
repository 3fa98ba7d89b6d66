package view

import (
	"context"

	"coursecompare/internal/nav"
	"coursecompare/internal/session"
)

// Guard renderiza la vista protegida sólo con sesión activa; si no, redirige al
// login. Se evalúa en cada navegación, nunca se cachea la decisión.
func Guard(ctx context.Context, store *session.Store, render func()) bool {
	if !store.IsAuthenticated() {
		nav.Navigate(ctx, nav.Login)
		return false
	}
	render()
	return true
}
