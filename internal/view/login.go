package view

import (
	"errors"

	"go.uber.org/zap"

	"coursecompare/internal/session"
)

const MsgInvalidLogin = "Invalid username or password."

type LoginState struct {
	Error    string `json:"error,omitempty"`
	Username string `json:"username"`
}

// Login delega en la sesión; la redirección a la home la hace Store.Login.
type Login struct {
	lifecycle
	env *Env

	err      string
	username string
}

func NewLogin(env *Env) *Login {
	return &Login{env: env}
}

func (l *Login) Submit(username, password string) {
	ctx := l.context()
	if ctx == nil {
		return
	}
	l.commit(func() {
		l.err = ""
		l.username = username
	})

	err := l.env.Session.Login(ctx, username, password)
	if canceled(ctx) || err == nil {
		return
	}
	if !errors.Is(err, session.ErrInvalidCredentials) {
		l.env.logger().Error("login failed", zap.Error(err))
	}
	l.commit(func() { l.err = MsgInvalidLogin })
}

func (l *Login) State() LoginState {
	var st LoginState
	l.read(func() {
		st = LoginState{Error: l.err, Username: l.username}
	})
	return st
}
