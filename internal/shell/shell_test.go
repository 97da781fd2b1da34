package shell_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/shell"
	"github.com/moufette/console/internal/ui"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	buf, err := ui.Buffer(context.Background(), c)
	require.NoError(t, err)
	return buf.String()
}

func TestToggle(t *testing.T) {
	assert.True(t, shell.Toggle(false))
	assert.False(t, shell.Toggle(true))
	assert.False(t, shell.Toggle(shell.Toggle(false)))
}

func TestTriggerIcon(t *testing.T) {
	assert.Equal(t, shell.IconMenuUnfold, shell.TriggerIcon(true))
	assert.Equal(t, shell.IconMenuFold, shell.TriggerIcon(false))
}

func TestLogo(t *testing.T) {
	assert.Equal(t, "🦨", shell.Logo(true))
	assert.Equal(t, "Moufette v0.1", shell.Logo(false))
}

func TestCollapsed(t *testing.T) {
	tests := map[string]bool{
		"":               false,
		"collapsed=1":    true,
		"collapsed=true": true,
		"collapsed=0":    false,
		"collapsed=x":    false,
	}
	for raw, want := range tests {
		q, err := url.ParseQuery(raw)
		require.NoError(t, err)
		assert.Equal(t, want, shell.Collapsed(q), "query %q", raw)
	}
}

func TestSelectedKeys(t *testing.T) {
	paths := []string{
		"/", "/widget/settings", "/widget/feedbacks", "/widget/features",
		"/properties", "/setup", "/integrations", "/account",
	}
	for _, p := range paths {
		assert.Equal(t, []string{p}, shell.SelectedKeys(p))
	}
	assert.Equal(t, []string{"/"}, shell.SelectedKeys(""))
}

func TestOpenKeys(t *testing.T) {
	assert.Equal(t, []string{shell.WidgetMenuKey}, shell.OpenKeys("/"))
	assert.Equal(t, []string{shell.WidgetMenuKey}, shell.OpenKeys("/widget/features"))
}

func TestMenuShape(t *testing.T) {
	keys := make([]string, 0, len(shell.Menu))
	for _, item := range shell.Menu {
		keys = append(keys, item.Key)
	}
	assert.Equal(t, []string{"/", "widget", "/properties", "/setup", "/integrations"}, keys)
	require.Len(t, shell.Menu[1].Children, 3)
	assert.Equal(t, "/widget/features", shell.Menu[1].Children[2].Key)
}

func testProps() shell.Props {
	a := domain.Property{ID: uuid.New(), Name: "Blog"}
	b := domain.Property{ID: uuid.New(), Name: "Shop"}
	return shell.Props{
		Path:       "/widget/features",
		User:       &domain.User{ID: uuid.New(), Email: "ada@example.com"},
		Properties: shell.PropertiesResult{Items: []domain.Property{a, b}, Selected: b.ID},
		Content:    templ.Raw("features page"),
	}
}

func TestLayout_Expanded(t *testing.T) {
	html := render(t, shell.Layout(testProps()))

	assert.Contains(t, html, `<div class="logo">Moufette v0.1</div>`)
	assert.Contains(t, html, `<a class="menu-item selected" href="/widget/features" aria-current="page">`)
	assert.Contains(t, html, `<a class="trigger" href="/widget/features?collapsed=1" aria-label="Toggle sidebar">`)
	assert.Contains(t, html, "icon-menu-fold")
	assert.Contains(t, html, `<details open>`)
	assert.Contains(t, html, "features page")
	assert.Contains(t, html, "ada@example.com")
	assert.Contains(t, html, `selected>Shop</option>`)
	assert.NotContains(t, html, `selected>Blog</option>`)
}

func TestLayout_Collapsed(t *testing.T) {
	p := testProps()
	p.Collapsed = true
	html := render(t, shell.Layout(p))

	assert.Contains(t, html, `<div class="logo">🦨</div>`)
	assert.Contains(t, html, `<a class="trigger" href="/widget/features" aria-label="Toggle sidebar">`)
	assert.Contains(t, html, "icon-menu-unfold")
	assert.Contains(t, html, `href="/properties?collapsed=1"`)
	assert.Contains(t, html, `<input type="hidden" name="back" value="/widget/features?collapsed=1">`)
}

func TestLayout_NilUserAndPropertiesError(t *testing.T) {
	p := testProps()
	p.User = nil
	p.Properties = shell.PropertiesResult{Err: errors.New("boom")}

	html := render(t, shell.Layout(p))
	assert.Contains(t, html, "Properties unavailable")
	assert.Contains(t, html, `href="/login"`)
}

func TestPropertiesResult_Current(t *testing.T) {
	assert.Nil(t, shell.PropertiesResult{}.Current())

	p := testProps().Properties
	assert.Equal(t, "Shop", p.Current().Name)

	p.Selected = uuid.New()
	assert.Equal(t, "Blog", p.Current().Name)
}

func TestIconView(t *testing.T) {
	html := render(t, shell.IconView(shell.IconHome))
	assert.Equal(t, `<span class="icon icon-home" aria-hidden="true">⌂</span>`, html)
}

func TestPropertySelector_NoProperties(t *testing.T) {
	html := render(t, shell.PropertySelector(shell.PropertiesResult{}, "/"))
	assert.Equal(t, `<a class="btn btn-link" href="/properties">Add a property</a>`, html)
}
