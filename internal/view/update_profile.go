package view

import (
	"context"

	"go.uber.org/zap"

	"coursecompare/internal/api"
	"coursecompare/internal/domain"
	"coursecompare/internal/nav"
)

const (
	MsgProfileUpdated      = "Profile updated successfully!"
	MsgProfileUpdateFailed = "Profile update failed. Please try again."
)

type UpdateProfileState struct {
	Error   string               `json:"error,omitempty"`
	Success string               `json:"success,omitempty"`
	Form    domain.ProfileUpdate `json:"form"`
}

// UpdateProfile se precarga con el usuario de la sesión al montarse.
type UpdateProfile struct {
	lifecycle
	env *Env

	err     string
	success string
	form    domain.ProfileUpdate
}

func NewUpdateProfile(env *Env) *UpdateProfile {
	return &UpdateProfile{env: env}
}

func (u *UpdateProfile) Mount(parent context.Context) {
	u.lifecycle.Mount(parent)
	snap := u.env.Session.Snapshot()
	u.commit(func() {
		u.form = domain.ProfileUpdate{}
		if snap.User != nil {
			u.form.Username = snap.User.Username
			u.form.Email = snap.User.Email
		}
	})
}

func (u *UpdateProfile) Submit(form domain.ProfileUpdate) {
	ctx := u.context()
	if ctx == nil {
		return
	}
	u.commit(func() {
		u.err, u.success = "", ""
		u.form = form
	})

	token, ok := u.env.authorize(ctx)
	if !ok {
		u.commit(func() { u.err = MsgTokenInvalid })
		return
	}

	user, err := u.env.Backend.UpdateProfile(ctx, token, form)
	if canceled(ctx) {
		return
	}
	if err != nil {
		msg, isAuth := u.env.unauthorized(ctx, err)
		if !isAuth {
			u.env.logger().Info("profile update rejected", zap.Error(err))
			msg = api.FieldMessage(err, MsgProfileUpdateFailed, "username", "email", "password")
		}
		u.commit(func() { u.err = msg })
		return
	}

	if err := u.env.Session.UpdateUser(ctx, user); err != nil {
		u.env.logger().Error("update session user failed", zap.Error(err))
		u.commit(func() { u.err = MsgProfileUpdateFailed })
		return
	}
	u.commit(func() {
		u.success = MsgProfileUpdated
		u.form.Password = ""
		u.form.PasswordConfirm = ""
	})
	nav.Navigate(ctx, nav.Dashboard)
}

func (u *UpdateProfile) State() UpdateProfileState {
	var st UpdateProfileState
	u.read(func() {
		st = UpdateProfileState{Error: u.err, Success: u.success, Form: u.form}
		st.Form.Password = ""
		st.Form.PasswordConfirm = ""
	})
	return st
}
