package middleware

import (
	"context"
	"net/http"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/domain"
)

type contextKey string

// SessionContextKey is the context key for the session state.
const SessionContextKey contextKey = "session"

// SessionObserver is told the outcome of every session query.
type SessionObserver interface {
	ObserveSession(status auth.Status)
}

// Session returns a middleware that resolves the session of each request
// and stores the state in its context. observer may be nil.
func Session(query *auth.Query, observer SessionObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := query.Resolve(r.Context(), r)
			if observer != nil {
				observer.ObserveSession(state.Status)
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), state)))
		})
	}
}

// WithSession returns a copy of ctx carrying state.
func WithSession(ctx context.Context, state auth.State) context.Context {
	return context.WithValue(ctx, SessionContextKey, state)
}

// GetSession retrieves the session state from context. Requests that did not
// pass through Session are anonymous.
func GetSession(ctx context.Context) auth.State {
	state, ok := ctx.Value(SessionContextKey).(auth.State)
	if !ok {
		return auth.Resolved(nil)
	}
	return state
}

// CurrentUser returns the resolved user, or nil.
func CurrentUser(ctx context.Context) *domain.User {
	if s := GetSession(ctx); s.Authenticated() {
		return s.User
	}
	return nil
}
