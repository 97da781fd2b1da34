package ui_test

import (
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/ui"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	buf, err := ui.Buffer(context.Background(), c)
	require.NoError(t, err)
	return buf.String()
}

func TestCN(t *testing.T) {
	assert.Equal(t, "btn btn-primary wide", ui.CN("btn btn-primary", "", "wide btn"))
	assert.Equal(t, "", ui.CN("", "  "))
}

func TestButton(t *testing.T) {
	html := render(t, ui.Button("Save", ui.ButtonProps{Variant: ui.ButtonVariantPrimary, Submit: true, Class: "wide"}))
	assert.Equal(t, `<button class="btn btn-primary wide" type="submit">Save</button>`, html)

	html = render(t, ui.Button("Cancel", ui.ButtonProps{}))
	assert.Equal(t, `<button class="btn btn-default" type="button">Cancel</button>`, html)
}

func TestButton_EscapesLabel(t *testing.T) {
	html := render(t, ui.Button("<b>hi</b>", ui.ButtonProps{}))
	assert.Contains(t, html, `>&lt;b&gt;hi&lt;/b&gt;</button>`)
}

func TestLinkButton_SanitizesHref(t *testing.T) {
	html := render(t, ui.LinkButton("/x?a=1&b=2", "Go", ui.ButtonVariantLink))
	assert.Equal(t, `<a class="btn btn-link" href="/x?a=1&amp;b=2">Go</a>`, html)

	html = render(t, ui.LinkButton("javascript:alert(1)", "Go", ui.ButtonVariantLink))
	assert.NotContains(t, html, "javascript:")
}

func TestPostButton(t *testing.T) {
	html := render(t, ui.PostButton("/logout", "Sign out", ui.ButtonVariantLink))
	assert.Equal(t,
		`<form method="post" action="/logout" class="inline-form"><button class="btn btn-link" type="submit">Sign out</button></form>`,
		html)
}

func renderWith(t *testing.T, c templ.Component, children templ.Component) string {
	t.Helper()
	buf, err := ui.Buffer(templ.WithChildren(context.Background(), children), c)
	require.NoError(t, err)
	return buf.String()
}

func TestField_WrapsInput(t *testing.T) {
	input := ui.Input("email", ui.InputProps{Type: "email", Value: "a@b.co", Required: true})
	html := renderWith(t, ui.Field("Email", "email"), input)
	assert.Equal(t,
		`<div class="field"><label for="email" class="label">Email</label><input class="input" type="email" id="email" name="email" value="a@b.co" required></div>`,
		html)
}

func TestInput_DefaultsToText(t *testing.T) {
	html := render(t, ui.Input("name", ui.InputProps{Placeholder: "Acme"}))
	assert.Equal(t, `<input class="input" type="text" id="name" name="name" placeholder="Acme">`, html)
}

func TestForm(t *testing.T) {
	html := renderWith(t, ui.Form("/login"), ui.Hidden("from", "/setup"))
	assert.Equal(t,
		`<form method="post" action="/login" class="form"><input type="hidden" name="from" value="/setup"></form>`,
		html)
}

func TestSelect(t *testing.T) {
	options := []ui.SelectOption{
		{Value: "1", Label: "One"},
		{Value: "2", Label: "Two", Selected: true},
	}

	html := render(t, ui.Select("property", options, true))
	assert.Contains(t, html, `<select id="property" name="property" class="select" onchange="this.form.submit()">`)
	assert.Contains(t, html, `<option value="1">One</option>`)
	assert.Contains(t, html, `<option value="2" selected>Two</option>`)

	html = render(t, ui.Select("property", options, false))
	assert.NotContains(t, html, "onchange")
}

func TestCard(t *testing.T) {
	html := renderWith(t, ui.Card("Features"), ui.Empty("No features yet."))
	assert.Equal(t,
		`<div class="card"><div class="card-head"><h3 class="card-title">Features</h3></div><p class="empty">No features yet.</p></div>`,
		html)

	html = renderWith(t, ui.Card(""), templ.Raw("body"))
	assert.Equal(t, `<div class="card">body</div>`, html)
}

func TestAlert(t *testing.T) {
	html := render(t, ui.Alert(ui.AlertError, "Something broke"))
	assert.Equal(t, `<div class="alert alert-error" role="alert">Something broke</div>`, html)

	assert.Empty(t, render(t, ui.Alert(ui.AlertSuccess, "")))
}
