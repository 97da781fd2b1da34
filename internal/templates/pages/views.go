// Package pages holds the console's page components.
package pages

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/router"
	"github.com/moufette/console/internal/ui"
)

const dateLayout = "Jan 2, 2006 15:04"

// LoginView is the data of the login page.
type LoginView struct {
	From  string
	Email string
	Flash Flash
}

// SignupView is the data of the signup page.
type SignupView struct {
	Email string
	Flash Flash
}

// HomeView is the data of the dashboard.
type HomeView struct {
	User      *domain.User
	Property  *domain.Property
	Feedbacks int
	Features  int
}

// WidgetSettingsView is the data of the widget configuration page.
type WidgetSettingsView struct {
	User     *domain.User
	Property *domain.Property
	Settings domain.WidgetSettings
	Flash    Flash
}

// FeaturesView is the data of the feature board page.
type FeaturesView struct {
	Property *domain.Property
	Items    []domain.Feature
	Flash    Flash
}

// PropertiesView is the data of the properties page.
type PropertiesView struct {
	Items    []domain.Property
	Selected uuid.UUID
	Flash    Flash
}

// SetupView is the data of the installation page.
type SetupView struct {
	User     *domain.User
	Property *domain.Property
	BaseURL  string
}

// IntegrationRow is an integration as listed, with its target masked.
type IntegrationRow struct {
	ID      uuid.UUID
	Kind    domain.IntegrationKind
	Target  string
	Enabled bool
}

// IntegrationsView is the data of the integrations page.
type IntegrationsView struct {
	User     *domain.User
	Property *domain.Property
	Items    []IntegrationRow
	Flash    Flash
}

// AccountView is the data of the account page.
type AccountView struct {
	User  *domain.User
	Flash Flash
}

// FeatureDeletePath is the form action removing a feature.
func FeatureDeletePath(id uuid.UUID) string {
	return router.WidgetFeatures + "/" + id.String() + "/delete"
}

// IntegrationDeletePath is the form action removing an integration.
func IntegrationDeletePath(id uuid.UUID) string {
	return router.Integrations + "/" + id.String() + "/delete"
}

// Snippet is the embed code installing the widget for a property key.
func Snippet(baseURL, key string) string {
	return fmt.Sprintf(`<script src="%s/widget.js" data-key="%s" async></script>`,
		strings.TrimRight(baseURL, "/"), key)
}

func greeting(u *domain.User) string {
	if u == nil {
		return "Welcome"
	}
	return "Welcome, " + u.Email
}

func setupIntro(v SetupView) string {
	return greeting(v.User) + ". Paste this snippet before the closing body tag of " + v.Property.Domain + ":"
}

func feedbackMeta(f domain.Feedback) string {
	from := f.Email
	if from == "" {
		from = "anonymous"
	}
	return fmt.Sprintf("%s on %s, %s", from, f.Page, f.CreatedAt.Format(dateLayout))
}

func selectedClass(on bool) string {
	if on {
		return "selected"
	}
	return ""
}

var integrationKinds = []ui.SelectOption{
	{Value: string(domain.IntegrationSlack), Label: "Slack"},
	{Value: string(domain.IntegrationWebhook), Label: "Webhook"},
}
