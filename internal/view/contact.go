package view

import (
	"strings"

	"coursecompare/internal/domain"
)

const (
	MsgLoginToContact     = "You must be logged in to submit the form."
	MsgContactRequired    = "Please fill in all required fields (Name, Email, Message)."
	MsgContactSubmitFail  = "Failed to submit the form. Please try again."
	MsgContactSubmittedOK = "Your message has been sent successfully!"
)

type ContactState struct {
	Error   string                `json:"error,omitempty"`
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Form    domain.ContactMessage `json:"form"`
}

type Contact struct {
	lifecycle
	env *Env

	err     string
	success bool
	form    domain.ContactMessage
}

func NewContact(env *Env) *Contact {
	return &Contact{env: env}
}

func (c *Contact) Submit(form domain.ContactMessage) {
	ctx := c.context()
	if ctx == nil {
		return
	}
	c.commit(func() {
		c.err, c.success = "", false
		c.form = form
	})

	token, ok := c.env.authorize(ctx)
	if !ok {
		c.commit(func() { c.err = MsgLoginToContact })
		return
	}
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Email) == "" || strings.TrimSpace(form.Message) == "" {
		c.commit(func() { c.err = MsgContactRequired })
		return
	}

	err := c.env.Backend.SendContactMessage(ctx, token, form)
	if canceled(ctx) {
		return
	}
	if err != nil {
		msg := c.env.protectedFailure(ctx, err, MsgContactSubmitFail, "email", "message")
		c.commit(func() {
			c.err = msg
			c.success = false
		})
		return
	}
	c.commit(func() {
		c.form = domain.ContactMessage{}
		c.success = true
	})
}

func (c *Contact) State() ContactState {
	var st ContactState
	c.read(func() {
		st = ContactState{Error: c.err, Success: c.success, Form: c.form}
		if c.success {
			st.Message = MsgContactSubmittedOK
		}
	})
	return st
}
