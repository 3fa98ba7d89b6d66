package view

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"coursecompare/internal/api"
	"coursecompare/internal/nav"
)

const MsgTokenInvalid = "Invalid or expired token. Please log in again."

// authorize es el chequeo previo a toda llamada autenticada. Sin sesión (o con
// un JWT vencido) redirige al login y no hay llamada de red.
func (e *Env) authorize(ctx context.Context) (string, bool) {
	if e.Session.CheckExpiry(ctx) {
		nav.Navigate(ctx, nav.Login)
		return "", false
	}
	snap := e.Session.Snapshot()
	if !snap.IsAuthenticated {
		nav.Navigate(ctx, nav.Login)
		return "", false
	}
	return snap.Token, true
}

// unauthorized aplica la convención para 401: mensaje explícito y redirección al
// login. Devuelve false si err no es un 401.
func (e *Env) unauthorized(ctx context.Context, err error) (string, bool) {
	if !errors.Is(err, api.ErrUnauthorized) {
		return "", false
	}
	e.logger().Info("backend rejected token", zap.Error(err))
	if e.ClearSessionOnUnauthorized {
		e.Session.Invalidate(ctx)
	}
	nav.Navigate(ctx, nav.Login)
	return MsgTokenInvalid, true
}

// protectedFailure traduce el error de una llamada autenticada a un mensaje para la vista.
func (e *Env) protectedFailure(ctx context.Context, err error, fallback string, fields ...string) string {
	if msg, ok := e.unauthorized(ctx, err); ok {
		return msg
	}
	e.logger().Warn("protected call failed", zap.Error(err))
	return api.Message(err, fallback, fields...)
}

// canceled indica que la vista se desmontó mientras la llamada estaba en vuelo.
func canceled(ctx context.Context) bool {
	return ctx.Err() != nil
}
