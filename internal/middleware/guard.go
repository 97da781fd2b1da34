package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/router"
	"github.com/moufette/console/internal/templates/pages"
)

// DecisionKind is what a guard does with a request.
type DecisionKind int

const (
	// Render lets the request through to the guarded page.
	Render DecisionKind = iota
	// Redirect sends the browser to Decision.Location.
	Redirect
	// Wait shows the loading placeholder; nothing is decided yet.
	Wait
	// Fail shows the error page.
	Fail
)

func (k DecisionKind) String() string {
	switch k {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Wait:
		return "wait"
	case Fail:
		return "fail"
	}
	return fmt.Sprintf("DecisionKind(%d)", int(k))
}

// Decision is the outcome of a guard for one request.
type Decision struct {
	Kind     DecisionKind
	Location string
	Err      error
}

// Decide applies a guard to a session state. location is the path and
// query of the request, kept in the login redirect.
//
// A pending lookup never redirects, and a failed one is reported instead of
// being treated as anonymous.
func Decide(access router.Access, state auth.State, location string) Decision {
	switch state.Status {
	case auth.StatusLoading:
		return Decision{Kind: Wait}
	case auth.StatusFailed:
		return Decision{Kind: Fail, Err: state.Err}
	}

	switch access {
	case router.Private:
		if !state.Authenticated() {
			return Decision{Kind: Redirect, Location: router.LoginFrom(location)}
		}
	case router.Public:
		if state.Authenticated() {
			return Decision{Kind: Redirect, Location: router.Root}
		}
	}
	return Decision{Kind: Render}
}

// RefreshSeconds is the Refresh header sent with the loading placeholder.
const RefreshSeconds = "1"

// WriteDecision answers the request for every decision but Render and
// reports whether it did.
func WriteDecision(w http.ResponseWriter, r *http.Request, d Decision, logger *slog.Logger) bool {
	switch d.Kind {
	case Redirect:
		http.Redirect(w, r, d.Location, http.StatusSeeOther)
	case Wait:
		w.Header().Set("Refresh", RefreshSeconds)
		w.Header().Set("Cache-Control", "no-store")
		RenderPage(w, r, http.StatusOK, pages.Document("Loading", pages.Loading()), logger)
	case Fail:
		logger.Error("session lookup failed", "error", d.Err, "path", r.URL.Path)
		w.Header().Set("Cache-Control", "no-store")
		RenderPage(w, r, http.StatusServiceUnavailable,
			pages.Document("Unavailable", pages.Error("We could not check your session. Try again in a moment.")), logger)
	default:
		return false
	}
	return true
}

// Guard returns a middleware enforcing access with the session state put in
// the context by Session. The decision is taken again on every request.
func Guard(access router.Access, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Decide(access, GetSession(r.Context()), router.Location(r.URL))
			if WriteDecision(w, r, d, logger) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrivateRoute lets only signed-in users through.
func PrivateRoute(logger *slog.Logger) func(http.Handler) http.Handler {
	return Guard(router.Private, logger)
}

// PublicRoute sends signed-in users to the console root.
func PublicRoute(logger *slog.Logger) func(http.Handler) http.Handler {
	return Guard(router.Public, logger)
}
