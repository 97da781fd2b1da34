package router_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/router"
)

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		name string
		rule router.Rule[string]
		path string
		want bool
	}{
		{"exact root", router.ExactRule(router.Root, "home"), "/", true},
		{"exact root empty path", router.ExactRule(router.Root, "home"), "", true},
		{"exact root rejects child", router.ExactRule(router.Root, "home"), "/setup", false},
		{"prefix self", router.PrefixRule("/setup", "setup"), "/setup", true},
		{"prefix trailing slash", router.PrefixRule("/setup", "setup"), "/setup/", true},
		{"prefix child", router.PrefixRule("/setup", "setup"), "/setup/step-2", true},
		{"prefix not segment", router.PrefixRule("/setup", "setup"), "/setupx", false},
		{"prefix parent", router.PrefixRule("/widget/settings", "ws"), "/widget", false},
		{"any", router.AnyRule("shell"), "/whatever/deep", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Matches(tt.path))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rules   []router.Rule[string]
		wantErr error
	}{
		{"empty", nil, router.ErrEmptyTable},
		{"bad pattern", []router.Rule[string]{router.PrefixRule("setup", "x")}, router.ErrBadPattern},
		{
			"duplicate",
			[]router.Rule[string]{router.ExactRule("/a", "x"), router.PrefixRule("/a", "y")},
			router.ErrDuplicateRule,
		},
		{
			"prefix covers prefix",
			[]router.Rule[string]{router.PrefixRule("/widget", "x"), router.PrefixRule("/widget/settings", "y")},
			router.ErrOverlappingRule,
		},
		{
			"prefix covers later exact",
			[]router.Rule[string]{router.ExactRule("/widget/x", "x"), router.PrefixRule("/widget", "y")},
			router.ErrOverlappingRule,
		},
		{
			"catch-all not last",
			[]router.Rule[string]{router.AnyRule("x"), router.ExactRule("/a", "y")},
			router.ErrUnreachableRule,
		},
		{
			"exact root beside prefixes",
			[]router.Rule[string]{router.ExactRule("/", "home"), router.PrefixRule("/a", "a"), router.PrefixRule("/ab", "ab")},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := router.NewTable(tt.rules...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMustTablePanics(t *testing.T) {
	assert.Panics(t, func() {
		router.MustTable(router.PrefixRule("/a", 1), router.PrefixRule("/a/b", 2))
	})
}

func TestPackageTablesAreValid(t *testing.T) {
	require.NoError(t, router.RootTable.Validate())
	require.NoError(t, router.ContentTable.Validate())
}

func TestRootTable(t *testing.T) {
	tests := []struct {
		path   string
		page   router.Page
		access router.Access
	}{
		{"/login", router.PageLogin, router.Public},
		{"/signup", router.PageSignup, router.Public},
		{"/forgot-password", router.PageForgotPassword, router.Public},
		{"/", router.PageShell, router.Private},
		{"/account", router.PageShell, router.Private},
		{"/widget/features", router.PageShell, router.Private},
		{"/loginx", router.PageShell, router.Private},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rule, ok := router.RootTable.Match(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.page, rule.Target.Page)
			assert.Equal(t, tt.access, rule.Target.Access)
		})
	}
}

func TestContentTable(t *testing.T) {
	tests := map[string]router.Page{
		"/":                  router.PageHome,
		"/widget/settings":   router.PageWidgetSettings,
		"/widget/feedbacks":  router.PageWidgetFeedbacks,
		"/widget/features":   router.PageWidgetFeatures,
		"/properties":        router.PageProperties,
		"/setup":             router.PageSetup,
		"/integrations":      router.PageIntegrations,
		"/account":           router.PageAccount,
		"/account/something": router.PageAccount,
	}

	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			rule, ok := router.ContentTable.Match(path)
			require.True(t, ok)
			assert.Equal(t, want, rule.Target)
		})
	}

	_, ok := router.ContentTable.Match("/widget")
	assert.False(t, ok)
}

func TestLoginFrom(t *testing.T) {
	assert.Equal(t, "/login", router.LoginFrom(""))
	assert.Equal(t, "/login?from=%2F", router.LoginFrom("/"))
	assert.Equal(t, "/login?from=%2Faccount%3Ftab%3D1", router.LoginFrom("/account?tab=1"))
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/":                  "/",
		"/setup":             "/setup",
		"/setup/":            "/setup",
		"//evil.example":     "/evil.example",
		"///evil.example/x":  "/evil.example/x",
		"/\\evil.example":    "/evil.example",
		"/widget/../account": "/account",
		"/../../etc":         "/etc",
		"widget/features":    "/widget/features",
	}

	for in, want := range tests {
		got := router.CleanPath(in)
		assert.Equal(t, want, got, "input %q", in)
		assert.False(t, strings.HasPrefix(got, "//"), "input %q", in)
	}
}

func TestLocation(t *testing.T) {
	u, err := url.Parse("/widget/features?collapsed=1")
	require.NoError(t, err)
	assert.Equal(t, "/widget/features?collapsed=1", router.Location(u))

	assert.Equal(t, "/", router.Location(&url.URL{}))
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/account":             "/account",
		"/widget/features?x=1": "/widget/features?x=1",
		"https://evil.example": "/",
		"//evil.example/path":  "/",
		"/\\evil.example":      "/",
		"account":              "/",
		"javascript:alert(1)":  "/",
		"  /properties  ":      "/properties",
	}

	for in, want := range tests {
		assert.Equal(t, want, router.SafeRedirect(in), "input %q", in)
	}
}

func TestWithCollapsed(t *testing.T) {
	assert.Equal(t, "/setup", router.WithCollapsed("/setup", false))
	assert.Equal(t, "/setup?collapsed=1", router.WithCollapsed("/setup", true))
	assert.Equal(t, "/setup?x=1&collapsed=1", router.WithCollapsed("/setup?x=1", true))
}
