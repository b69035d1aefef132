package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// LoginForm is the state of the login form.
type LoginForm struct {
	Email string
	Error string
}

// SignupForm is the state of the signup form. Passwords are never echoed.
type SignupForm struct {
	FirstName   string
	LastName    string
	Email       string
	UserType    string
	Terms       bool
	Error       string
	FieldErrors map[string][]string
}

func alert(p *writer, msg string) {
	if msg == "" {
		return
	}
	p.raw(`<div class="alert" role="alert">`)
	p.text(msg)
	p.raw(`</div>`)
}

func fieldErrors(p *writer, name string, msgs []string) {
	for _, msg := range msgs {
		p.raw(`<span class="field-error" data-field="`)
		p.text(name)
		p.raw(`">`)
		p.text(msg)
		p.raw(`</span>`)
	}
}

func input(p *writer, label, name, kind, value string, errs []string) {
	p.raw(`<label>`)
	p.text(label)
	p.raw(`<input type="`)
	p.raw(kind)
	p.raw(`" name="`)
	p.raw(name)
	p.raw(`" value="`)
	p.text(value)
	p.raw(`" required>`)
	fieldErrors(p, name, errs)
	p.raw(`</label>`)
}

// LoginPage renders the login form.
func LoginPage(nav Nav, form LoginForm) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<section class="auth"><h1>Login</h1>`)
		alert(p, form.Error)
		p.raw(`<form method="post" action="/login">`)
		input(p, "Email", "email", "email", form.Email, nil)
		input(p, "Password", "password", "password", "", nil)
		p.raw(`<button type="submit" class="primary">Login</button></form>`)
		p.raw(`<p>No account? <a href="/signup">Sign up</a></p></section>`)
		return p.err
	})
	return Layout("Login", nav, body)
}

// SignupPage renders the registration form with any field errors.
func SignupPage(nav Nav, form SignupForm) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		fe := form.FieldErrors
		p.raw(`<section class="auth"><h1>Sign Up</h1>`)
		alert(p, form.Error)
		p.raw(`<form method="post" action="/signup">`)
		input(p, "First name", "firstName", "text", form.FirstName, fe["firstName"])
		input(p, "Last name", "lastName", "text", form.LastName, fe["lastName"])
		input(p, "Email", "email", "email", form.Email, fe["email"])
		input(p, "Password", "password", "password", "", fe["password"])
		input(p, "Confirm password", "confirmPassword", "password", "", fe["confirmPassword"])

		p.raw(`<fieldset><legend>Account type</legend>`)
		for _, opt := range []struct{ value, label string }{{"guest", "Guest"}, {"host", "Host"}} {
			p.raw(`<label><input type="radio" name="userType" value="`)
			p.raw(opt.value)
			p.raw(`"`)
			if form.UserType == opt.value || (form.UserType == "" && opt.value == "guest") {
				p.raw(` checked`)
			}
			p.raw(`>`)
			p.raw(opt.label)
			p.raw(`</label>`)
		}
		fieldErrors(p, "userType", fe["userType"])
		p.raw(`</fieldset>`)

		p.raw(`<label><input type="checkbox" name="terms" value="on"`)
		if form.Terms {
			p.raw(` checked`)
		}
		p.raw(`> I accept the terms and conditions</label>`)
		fieldErrors(p, "terms", fe["terms"])

		p.raw(`<button type="submit" class="primary">Sign Up</button></form>`)
		p.raw(`<p>Already registered? <a href="/login">Login</a></p></section>`)
		return p.err
	})
	return Layout("Sign Up", nav, body)
}
