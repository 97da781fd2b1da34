package router

// Page identifies a page component.
type Page string

const (
	PageLogin          Page = "login"
	PageSignup         Page = "signup"
	PageForgotPassword Page = "forgot-password"
	PageShell          Page = "shell"

	PageHome            Page = "home"
	PageWidgetSettings  Page = "widget-settings"
	PageWidgetFeedbacks Page = "widget-feedbacks"
	PageWidgetFeatures  Page = "widget-features"
	PageProperties      Page = "properties"
	PageSetup           Page = "setup"
	PageIntegrations    Page = "integrations"
	PageAccount         Page = "account"
)

// Access is the session requirement of a root entry.
type Access int

const (
	// Public pages are for anonymous visitors; signed-in users go to Root.
	Public Access = iota
	// Private pages need a signed-in user; others go to Login.
	Private
)

func (a Access) String() string {
	if a == Public {
		return "public"
	}
	return "private"
}

// Entry is the target of a root table rule.
type Entry struct {
	Access Access
	Page   Page
}

// RootTable decides between the anonymous pages and the console shell.
// The named public paths must precede the catch-all.
var RootTable = MustTable(
	PrefixRule(Login, Entry{Access: Public, Page: PageLogin}),
	PrefixRule(Signup, Entry{Access: Public, Page: PageSignup}),
	PrefixRule(ForgotPassword, Entry{Access: Public, Page: PageForgotPassword}),
	AnyRule(Entry{Access: Private, Page: PageShell}),
)

// ContentTable picks the page shown in the shell's content region.
var ContentTable = MustTable(
	ExactRule(Root, PageHome),
	PrefixRule(WidgetSettings, PageWidgetSettings),
	PrefixRule(WidgetFeedbacks, PageWidgetFeedbacks),
	PrefixRule(WidgetFeatures, PageWidgetFeatures),
	PrefixRule(Properties, PageProperties),
	PrefixRule(Setup, PageSetup),
	PrefixRule(Integrations, PageIntegrations),
	PrefixRule(Account, PageAccount),
)
