package view

import (
	"go.uber.org/zap"

	"coursecompare/internal/api"
	"coursecompare/internal/domain"
	"coursecompare/internal/nav"
)

const (
	MsgRegistered     = "Registration successful! Please log in."
	MsgRegisterFailed = "Registration failed. Please try again."
)

type RegisterState struct {
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
}

type Register struct {
	lifecycle
	env *Env

	err     string
	success string
}

func NewRegister(env *Env) *Register {
	return &Register{env: env}
}

func (r *Register) Submit(reg domain.Registration) {
	ctx := r.context()
	if ctx == nil {
		return
	}
	r.commit(func() { r.err, r.success = "", "" })

	err := r.env.Backend.Register(ctx, reg)
	if canceled(ctx) {
		return
	}
	if err != nil {
		r.env.logger().Info("registration rejected", zap.String("username", reg.Username), zap.Error(err))
		msg := api.FieldMessage(err, MsgRegisterFailed, "username", "email", "password")
		r.commit(func() { r.err = msg })
		return
	}
	r.commit(func() { r.success = MsgRegistered })
	nav.Navigate(ctx, nav.Login)
}

func (r *Register) State() RegisterState {
	var st RegisterState
	r.read(func() {
		st = RegisterState{Error: r.err, Success: r.success}
	})
	return st
}
