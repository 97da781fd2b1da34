package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/middleware"
	"github.com/moufette/console/internal/router"
)

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "ada@example.com", CreatedAt: time.Now()}
}

func TestDecide(t *testing.T) {
	u := testUser()
	boom := errors.New("boom")

	tests := []struct {
		name   string
		access router.Access
		state  auth.State
		want   middleware.Decision
	}{
		{"private loading", router.Private, auth.Loading(), middleware.Decision{Kind: middleware.Wait}},
		{"public loading", router.Public, auth.Loading(), middleware.Decision{Kind: middleware.Wait}},
		{"private failed", router.Private, auth.Failed(boom), middleware.Decision{Kind: middleware.Fail, Err: boom}},
		{"public failed", router.Public, auth.Failed(boom), middleware.Decision{Kind: middleware.Fail, Err: boom}},
		{"private user", router.Private, auth.Resolved(u), middleware.Decision{Kind: middleware.Render}},
		{
			"private anonymous",
			router.Private,
			auth.Resolved(nil),
			middleware.Decision{Kind: middleware.Redirect, Location: "/login?from=%2Fwidget%2Ffeatures%3Fcollapsed%3D1"},
		},
		{"public user", router.Public, auth.Resolved(u), middleware.Decision{Kind: middleware.Redirect, Location: "/"}},
		{"public anonymous", router.Public, auth.Resolved(nil), middleware.Decision{Kind: middleware.Render}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, middleware.Decide(tt.access, tt.state, "/widget/features?collapsed=1"))
		})
	}
}

func guarded(access router.Access, state auth.State) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("children"))
	})
	h := middleware.Guard(access, quietLogger())(ok)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), state)))
	})
}

func TestGuard_PrivateRedirectKeepsLocation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account?tab=1", nil)
	guarded(router.Private, auth.Resolved(nil)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?from=%2Faccount%3Ftab%3D1", rec.Header().Get("Location"))
}

func TestGuard_PublicRedirectsUser(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	guarded(router.Public, auth.Resolved(testUser())).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestGuard_LoadingShowsPlaceholder(t *testing.T) {
	for _, access := range []router.Access{router.Private, router.Public} {
		t.Run(access.String(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/setup", nil)
			guarded(access, auth.Loading()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.Equal(t, "1", rec.Header().Get("Refresh"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			assert.Contains(t, rec.Body.String(), "Loading")
			assert.NotContains(t, rec.Body.String(), "children")
		})
	}
}

func TestGuard_FailedIsServiceUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/setup", nil)
	guarded(router.Private, auth.Failed(errors.New("db down"))).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestGuard_RendersChildren(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/setup", nil)
	guarded(router.Private, auth.Resolved(testUser())).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "children", rec.Body.String())
}

type lookupFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)

func (f lookupFunc) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return f(ctx, id)
}

func TestSession_StoresState(t *testing.T) {
	u := testUser()
	sessions := auth.NewSessionStore(testSecret, time.Hour, false)
	query := auth.NewQuery(sessions, lookupFunc(func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		return u, nil
	}), time.Second)

	issued := httptest.NewRecorder()
	require.NoError(t, sessions.Issue(issued, u))

	var got auth.State
	h := middleware.Session(query, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.GetSession(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range issued.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, got.Authenticated())
	assert.Equal(t, u.ID, got.User.ID)
}

func TestGetSession_DefaultsToAnonymous(t *testing.T) {
	state := middleware.GetSession(context.Background())
	assert.Equal(t, auth.StatusResolved, state.Status)
	assert.Nil(t, state.User)
	assert.Nil(t, middleware.CurrentUser(context.Background()))
}

func TestCurrentUser_OnlyWhenResolved(t *testing.T) {
	u := &domain.User{ID: uuid.New(), Email: "ada@example.com"}

	ctx := middleware.WithSession(context.Background(), auth.State{Status: auth.StatusLoading, User: u})
	assert.Nil(t, middleware.CurrentUser(ctx))

	ctx = middleware.WithSession(context.Background(), auth.Resolved(u))
	require.NotNil(t, middleware.CurrentUser(ctx))
	assert.Equal(t, u.ID, middleware.CurrentUser(ctx).ID)
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	h := middleware.Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "kaboom")
}

func TestLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	h := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hi"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea", nil))

	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"size":2`)
	assert.Contains(t, logs.String(), `"path":"/tea"`)
}

func TestMetrics(t *testing.T) {
	m := middleware.NewMetrics()
	m.ObserveSession(auth.StatusLoading)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {})
	r.Handle("/metrics", m.Handler())

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/things/42")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `moufette_session_queries_total{status="loading"} 1`)
	assert.Contains(t, string(body), `moufette_http_requests_total{method="GET",route="/things/{id}",status="200"} 1`)
}
