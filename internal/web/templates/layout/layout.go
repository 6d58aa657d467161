// Package layout holds the page chrome shared by every rendered page.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/tankbattle/internal/authz"
	"github.com/mcoot/tankbattle/internal/model"
)

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // success, error or info
	Message string
}

// PageData is common to all pages
type PageData struct {
	Title string
	User  *model.User
	Flash *FlashMessage
}

// Writer accumulates the first write error so page bodies can be written
// without checking every call
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup
func (hw *Writer) Raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

// Text writes escaped text
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Component renders a nested component in place
func (hw *Writer) Component(ctx context.Context, c templ.Component) {
	if hw.err == nil {
		hw.err = c.Render(ctx, hw.w)
	}
}

// Err returns the first error seen
func (hw *Writer) Err() error {
	return hw.err
}

// Base wraps body in the document shell and navigation bar
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.Raw(`<title>`)
		hw.Text(data.Title)
		hw.Raw(` - Tank Battle</title><link rel="stylesheet" href="/static/css/style.css"></head><body>`)

		nav(hw, data.User)

		if data.Flash != nil {
			hw.Raw(`<div class="flash flash-`)
			hw.Text(data.Flash.Type)
			hw.Raw(`" role="alert">`)
			hw.Text(data.Flash.Message)
			hw.Raw(`</div>`)
		}

		hw.Raw(`<main>`)
		hw.Component(ctx, body)
		hw.Raw(`</main></body></html>`)
		return hw.Err()
	})
}

func nav(hw *Writer, user *model.User) {
	hw.Raw(`<nav class="navbar"><a class="brand" href="/">Tank Battle</a>`)
	if user == nil {
		hw.Raw(`<a href="/login">Login</a><a href="/register">Register</a></nav>`)
		return
	}
	if user.IsAdmin {
		hw.Raw(`<a href="` + authz.AdminPath + `">Admin</a>`)
	}
	hw.Raw(`<a href="` + authz.LobbyPath + `">Lobby</a><a href="/account">Account</a>`)
	hw.Raw(`<span class="username">`)
	hw.Text(user.Username)
	hw.Raw(`</span><a href="/logout">Logout</a></nav>`)
}
