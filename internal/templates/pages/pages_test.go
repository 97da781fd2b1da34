package pages_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/router"
	"github.com/moufette/console/internal/templates/pages"
	"github.com/moufette/console/internal/ui"
)

func html(t *testing.T, c templ.Component) string {
	t.Helper()
	buf, err := ui.Buffer(context.Background(), c)
	require.NoError(t, err)
	return buf.String()
}

func testProperty() *domain.Property {
	return &domain.Property{ID: uuid.New(), Name: "Blog", Domain: "blog.example.com", Key: "blog-example"}
}

func TestDocument(t *testing.T) {
	out := html(t, pages.Document("Login", templ.Raw("body")))
	assert.True(t, len(out) > 0)
	assert.Contains(t, out, "<!DOCTYPE html><html lang=\"en\">")
	assert.Contains(t, out, "<title>Login | Moufette</title>")
	assert.Contains(t, out, "<body>body</body>")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", pages.Message(""))
	assert.Equal(t, "Email or password is incorrect.", pages.Message(pages.ErrCodeInvalidCredentials))
	assert.Equal(t, pages.Message(pages.ErrCodeDatabase), pages.Message("<script>"))
}

func TestLogin_CarriesFrom(t *testing.T) {
	out := html(t, pages.Login(pages.LoginView{From: "/widget/features?collapsed=1"}))
	assert.Contains(t, out, `<input type="hidden" name="from" value="/widget/features?collapsed=1">`)
	assert.Contains(t, out, `action="/login"`)

	out = html(t, pages.Login(pages.LoginView{}))
	assert.NotContains(t, out, `name="from"`)
}

func TestLogin_Flash(t *testing.T) {
	out := html(t, pages.Login(pages.LoginView{Flash: pages.Flash{Error: pages.ErrCodeInvalidCredentials}}))
	assert.Contains(t, out, "alert-error")
	assert.Contains(t, out, "Email or password is incorrect.")
}

func TestResetPassword(t *testing.T) {
	out := html(t, pages.ResetPassword("tok.en", pages.Flash{}))
	assert.Contains(t, out, `<input type="hidden" name="token" value="tok.en">`)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t,
		`<script src="https://moufette.io/widget.js" data-key="blog" async></script>`,
		pages.Snippet("https://moufette.io/", "blog"))
}

func TestSetup_EscapesSnippet(t *testing.T) {
	out := html(t, pages.Setup(pages.SetupView{Property: testProperty(), BaseURL: "https://moufette.io"}))
	assert.Contains(t, out, "&lt;script src=&#34;https://moufette.io/widget.js&#34; data-key=&#34;blog-example&#34; async&gt;&lt;/script&gt;")
}

func TestPropertyPages_NilUserAndProperty(t *testing.T) {
	components := map[string]templ.Component{
		"home":         pages.Home(pages.HomeView{}),
		"widget":       pages.WidgetSettings(pages.WidgetSettingsView{}),
		"feedbacks":    pages.Feedbacks(nil, nil),
		"features":     pages.Features(pages.FeaturesView{}),
		"setup":        pages.Setup(pages.SetupView{}),
		"integrations": pages.Integrations(pages.IntegrationsView{}),
	}
	for name, c := range components {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, html(t, c), "No property yet")
		})
	}

	assert.Contains(t, html(t, pages.Account(pages.AccountView{})), "Not signed in.")
}

func TestWidgetSettings(t *testing.T) {
	p := testProperty()
	s := domain.DefaultWidgetSettings(p.ID)
	out := html(t, pages.WidgetSettings(pages.WidgetSettingsView{Property: p, Settings: s}))
	assert.Contains(t, out, `value="#1890ff"`)
	assert.Contains(t, out, `value="1" checked>`)
}

func TestFeatures_List(t *testing.T) {
	p := testProperty()
	f := domain.Feature{ID: uuid.New(), PropertyID: p.ID, Title: "Dark mode", Votes: 3}
	out := html(t, pages.Features(pages.FeaturesView{Property: p, Items: []domain.Feature{f}}))
	assert.Contains(t, out, "Dark mode")
	assert.Contains(t, out, `<span class="votes">3</span>`)
	assert.Contains(t, out, `action="`+pages.FeatureDeletePath(f.ID)+`"`)
}

func TestFeedbacks_Anonymous(t *testing.T) {
	fb := domain.Feedback{Message: "Love it", Page: "/pricing", CreatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)}
	out := html(t, pages.Feedbacks(testProperty(), []domain.Feedback{fb}))
	assert.Contains(t, out, "Love it")
	assert.Contains(t, out, "anonymous on /pricing, Jan 2, 2026 03:04")
}

func TestNotFound(t *testing.T) {
	out := html(t, pages.NotFound("/nope"))
	assert.Contains(t, out, "<code>/nope</code>")
}

func TestHome_OnboardingSteps(t *testing.T) {
	out := html(t, pages.Home(pages.HomeView{}))
	assert.Contains(t, out, `<h1 class="page-title">Welcome to Moufette</h1>`)
	assert.Contains(t, out, `<ol class="steps">`)
	for _, href := range []string{router.WidgetSettings, router.WidgetFeatures, router.Setup, router.WidgetFeedbacks} {
		assert.Contains(t, out, `<a href="`+href+`">`, "step link %s", href)
	}
	assert.Less(t,
		strings.Index(out, `href="`+router.WidgetSettings+`"`),
		strings.Index(out, `href="`+router.WidgetFeedbacks+`"`))
}

func TestHome_Stats(t *testing.T) {
	p := testProperty()
	out := html(t, pages.Home(pages.HomeView{Property: p, Feedbacks: 4, Features: 2}))
	assert.Contains(t, out, "Welcome to Moufette")
	assert.Contains(t, out, `<span class="stat-value">4</span><span class="stat-label">Feedbacks</span>`)
	assert.Contains(t, out, "<code>blog-example</code>")
	assert.NotContains(t, out, "No property yet")
}
