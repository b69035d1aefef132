// Package view renders the HTML pages and datastar fragments.
package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

const datastarScript = `<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"></script>`

// Nav is the signed-in state shown in the header.
type Nav struct {
	LoggedIn  bool
	FirstName string
	IsHost    bool
}

// writer accumulates the first write error so components can emit markup
// without checking every call.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *writer {
	return &writer{ctx: ctx, w: w}
}

func (p *writer) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

// text writes s HTML-escaped. Safe inside attribute values too.
func (p *writer) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *writer) render(c templ.Component) {
	if p.err == nil {
		p.err = c.Render(p.ctx, p.w)
	}
}

// Layout wraps body in the shared page chrome.
func Layout(title string, nav Nav, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>`)
		p.text(title)
		p.raw(` | staybook</title>`)
		p.raw(datastarScript)
		p.raw(`</head><body>`)
		p.render(header(nav))
		p.raw(`<main id="main">`)
		p.render(body)
		p.raw(`</main><footer><p>staybook</p></footer></body></html>`)
		return p.err
	})
}

func header(nav Nav) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<header><nav><a href="/" class="brand">staybook</a>`)
		if nav.LoggedIn {
			p.raw(`<ul>`)
			p.raw(`<li><a href="/homes">Homes</a></li>`)
			p.raw(`<li><a href="/favourites">Favourites</a></li>`)
			p.raw(`<li><a href="/bookings">Bookings</a></li>`)
			p.raw(`</ul>`)

			name := nav.FirstName
			if name == "" {
				name = "User"
			}
			p.raw(`<div class="account"><span class="user-name">`)
			p.text(name)
			p.raw(`</span>`)
			if nav.IsHost {
				p.raw(`<span class="badge">Host</span>`)
			}
			p.raw(`<form method="post" action="/logout"><button type="submit">Logout</button></form></div>`)
		} else {
			p.raw(`<div class="account"><a href="/signup">Sign Up</a> <a href="/login" class="primary">Login</a></div>`)
		}
		p.raw(`</nav></header>`)
		return p.err
	})
}

// ErrorPage renders a standalone error page.
func ErrorPage(nav Nav, status int, title, message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newWriter(ctx, w)
		p.raw(`<section class="error"><h1>`)
		p.text(strconv.Itoa(status))
		p.raw(` `)
		p.text(title)
		p.raw(`</h1><p>`)
		p.text(message)
		p.raw(`</p><a href="/">Back to home</a></section>`)
		return p.err
	})
	return Layout(title, nav, body)
}
