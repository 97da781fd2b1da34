package auth_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/domain"
)

// lookupFunc adapts a function to auth.UserLookup.
type lookupFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)

func (f lookupFunc) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return f(ctx, id)
}

func TestQuery_Resolve(t *testing.T) {
	sessions := auth.NewSessionStore(testSecret, time.Hour, false)
	u := testUser()

	tests := []struct {
		name       string
		withCookie bool
		lookup     lookupFunc
		wantStatus auth.Status
		wantUser   bool
	}{
		{
			name:       "no cookie resolves anonymous",
			withCookie: false,
			lookup: func(context.Context, uuid.UUID) (*domain.User, error) {
				t.Fatal("lookup must not run without a session cookie")
				return nil, nil
			},
			wantStatus: auth.StatusResolved,
		},
		{
			name:       "known user",
			withCookie: true,
			lookup: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
				assert.Equal(t, u.ID, id)
				return u, nil
			},
			wantStatus: auth.StatusResolved,
			wantUser:   true,
		},
		{
			name:       "deleted user resolves anonymous",
			withCookie: true,
			lookup: func(context.Context, uuid.UUID) (*domain.User, error) {
				return nil, domain.ErrNotFound
			},
			wantStatus: auth.StatusResolved,
		},
		{
			name:       "store failure is not anonymous",
			withCookie: true,
			lookup: func(context.Context, uuid.UUID) (*domain.User, error) {
				return nil, errors.New("connection refused")
			},
			wantStatus: auth.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := auth.NewQuery(sessions, tt.lookup, time.Second)

			req := httptest.NewRequest("GET", "/account", nil)
			if tt.withCookie {
				req = requestWithSession(t, sessions, u)
			}

			state := q.Resolve(req.Context(), req)
			assert.Equal(t, tt.wantStatus, state.Status)
			assert.Equal(t, tt.wantUser, state.Authenticated())
			if tt.wantStatus == auth.StatusFailed {
				assert.Error(t, state.Err)
			}
		})
	}
}

func TestQuery_SlowLookupIsLoading(t *testing.T) {
	sessions := auth.NewSessionStore(testSecret, time.Hour, false)
	u := testUser()

	release := make(chan struct{})
	finished := make(chan struct{})
	slow := lookupFunc(func(ctx context.Context, _ uuid.UUID) (*domain.User, error) {
		defer close(finished)
		<-release
		return u, nil
	})

	q := auth.NewQuery(sessions, slow, 20*time.Millisecond)
	req := requestWithSession(t, sessions, u)

	state := q.Resolve(req.Context(), req)
	assert.Equal(t, auth.StatusLoading, state.Status)
	assert.Nil(t, state.User)
	assert.False(t, state.Authenticated())

	// the late result is dropped without blocking the lookup goroutine
	close(release)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("lookup goroutine blocked after the request gave up")
	}
	assert.Equal(t, auth.StatusLoading, state.Status)
}

func TestQuery_CancelledRequest(t *testing.T) {
	sessions := auth.NewSessionStore(testSecret, time.Hour, false)
	u := testUser()

	blocked := lookupFunc(func(ctx context.Context, _ uuid.UUID) (*domain.User, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	q := auth.NewQuery(sessions, blocked, time.Minute)
	req := requestWithSession(t, sessions, u)

	ctx, cancel := context.WithCancel(req.Context())
	cancel()

	state := q.Resolve(ctx, req)
	require.Equal(t, auth.StatusFailed, state.Status)
	assert.ErrorIs(t, state.Err, context.Canceled)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loading", auth.StatusLoading.String())
	assert.Equal(t, "failed", auth.StatusFailed.String())
	assert.Equal(t, "resolved", auth.StatusResolved.String())
}
