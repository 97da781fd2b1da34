package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/moufette/console/internal/domain"
)

// Status is the phase of a session lookup.
type Status int

const (
	// StatusLoading means the lookup did not finish within the wait budget.
	StatusLoading Status = iota
	// StatusFailed means the lookup returned an error.
	StatusFailed
	// StatusResolved means the lookup finished; the user may still be nil.
	StatusResolved
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	case StatusResolved:
		return "resolved"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// State is the result of the session query for one request.
type State struct {
	Status Status
	Err    error
	User   *domain.User
}

// Loading returns a State still waiting on the lookup.
func Loading() State { return State{Status: StatusLoading} }

// Failed returns a State for a lookup error.
func Failed(err error) State { return State{Status: StatusFailed, Err: err} }

// Resolved returns a finished State; u is nil for anonymous requests.
func Resolved(u *domain.User) State { return State{Status: StatusResolved, User: u} }

// Authenticated reports whether the lookup finished with a user.
func (s State) Authenticated() bool {
	return s.Status == StatusResolved && s.User != nil
}

// UserLookup loads a user by ID. store.Store satisfies it.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Query resolves the session of a request into a State.
type Query struct {
	sessions *SessionStore
	users    UserLookup
	wait     time.Duration
}

// NewQuery creates a session query that waits at most wait for the user lookup.
func NewQuery(sessions *SessionStore, users UserLookup, wait time.Duration) *Query {
	return &Query{sessions: sessions, users: users, wait: wait}
}

type lookupResult struct {
	user *domain.User
	err  error
}

// Resolve reads the session cookie and loads its user.
//
// The lookup runs on its own goroutine. If it has not finished after the wait
// budget the request gets StatusLoading and the late result is dropped: the
// result channel is buffered so the goroutine never blocks, and the lookup
// context ends with the request.
func (q *Query) Resolve(ctx context.Context, r *http.Request) State {
	data, ok := q.sessions.Read(r)
	if !ok {
		return Resolved(nil)
	}

	ctx, span := otel.Tracer("github.com/moufette/console/internal/auth").Start(ctx, "session.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", data.UserID.String()))

	done := make(chan lookupResult, 1)
	go func() {
		u, err := q.users.GetUser(ctx, data.UserID)
		done <- lookupResult{user: u, err: err}
	}()

	timer := time.NewTimer(q.wait)
	defer timer.Stop()

	select {
	case res := <-done:
		switch {
		case errors.Is(res.err, domain.ErrNotFound):
			return Resolved(nil)
		case res.err != nil:
			span.RecordError(res.err)
			span.SetStatus(codes.Error, "user lookup failed")
			return Failed(fmt.Errorf("load session user: %w", res.err))
		}
		return Resolved(res.user)
	case <-timer.C:
		span.SetAttributes(attribute.Bool("session.loading", true))
		return Loading()
	case <-ctx.Done():
		return Failed(ctx.Err())
	}
}
