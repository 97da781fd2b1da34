// Package router holds the console's path constants and the ordered
// route tables used to pick a page for a request path.
package router

import (
	"net/url"
	"path"
	"strings"
)

const (
	Root = "/"
)

const (
	Login          = "/login"
	Signup         = "/signup"
	ForgotPassword = "/forgot-password"
	Logout         = "/logout"
)

const (
	WidgetSettings  = "/widget/settings"
	WidgetFeedbacks = "/widget/feedbacks"
	WidgetFeatures  = "/widget/features"
)

const (
	Properties       = "/properties"
	PropertiesSelect = "/properties/select"
	Setup            = "/setup"
	Integrations     = "/integrations"
	Account          = "/account"
	AccountPassword  = "/account/password"
)

const (
	Health       = "/health"
	Metrics      = "/metrics"
	StaticPrefix = "/static/"
	WidgetAPI    = "/api/widget"
)

// FromParam is the query parameter carrying the originating location of a
// request that was redirected to the login page.
const FromParam = "from"

// LoginFrom returns the login path carrying from as the originating location.
func LoginFrom(from string) string {
	if from == "" {
		return Login
	}
	return Login + "?" + url.Values{FromParam: {from}}.Encode()
}

// CleanPath normalizes a request path: backslashes become slashes, dot
// segments and repeated slashes are dropped. The result is rooted and never
// starts with "//".
func CleanPath(p string) string {
	if p == "" {
		return Root
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Location returns the path and query of u, the form stored in FromParam.
func Location(u *url.URL) string {
	loc := u.EscapedPath()
	if loc == "" {
		loc = Root
	}
	if u.RawQuery != "" {
		loc += "?" + u.RawQuery
	}
	return loc
}

// SafeRedirect returns from when it is a local absolute path and Root otherwise.
func SafeRedirect(from string) string {
	from = strings.TrimSpace(from)
	if from == "" || !strings.HasPrefix(from, "/") {
		return Root
	}
	// protocol-relative and backslash forms leave the site in some browsers
	if strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return Root
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" {
		return Root
	}
	return from
}

// WithCollapsed appends the sidebar state to a console path.
func WithCollapsed(path string, collapsed bool) string {
	if !collapsed {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&collapsed=1"
	}
	return path + "?collapsed=1"
}
