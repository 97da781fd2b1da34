package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/config"
	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/handlers"
	"github.com/moufette/console/internal/store"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		BaseURL:        "http://localhost:8080",
		Environment:    "development",
		DatabaseURL:    "sqlite://:memory:",
		SessionSecret:  "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		SessionMaxAge:  time.Hour,
		SessionWait:    time.Second,
		ResetSecret:    "fedcba9876543210fedcba9876543210",
		ResetTTL:       time.Hour,
		IntegrationKey: "0123456789abcdef0123456789abcdef",
	}
}

type testEnv struct {
	cfg      *config.Config
	store    store.Store
	sessions *auth.SessionStore
	server   *httptest.Server
	client   *http.Client
}

// newEnv serves the console on an in-memory database. wrap may replace the
// store seen by the handlers.
func newEnv(t *testing.T, wrap func(store.Store) store.Store) *testEnv {
	t.Helper()
	return newEnvWithConfig(t, testConfig(), wrap)
}

func newEnvWithConfig(t *testing.T, cfg *config.Config, wrap func(store.Store) store.Store) *testEnv {
	t.Helper()
	return newEnvWithLogger(t, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), wrap)
}

func newEnvWithLogger(t *testing.T, cfg *config.Config, logger *slog.Logger, wrap func(store.Store) store.Store) *testEnv {
	t.Helper()

	st, err := store.Open(context.Background(), cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(st.Close)

	seen := st
	if wrap != nil {
		seen = wrap(st)
	}

	sessions := auth.NewSessionStore(cfg.SessionSecret, cfg.SessionMaxAge, false)
	h, err := handlers.New(cfg, seen, sessions, nil, logger)
	require.NoError(t, err)

	r := chi.NewRouter()
	h.Routes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		server:   server,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

const password = "correct horse"

func (e *testEnv) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := &domain.User{ID: uuid.New(), Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) seedProperty(t *testing.T, owner *domain.User, name string) *domain.Property {
	t.Helper()
	p := &domain.Property{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Name:      name,
		Domain:    name + ".example.com",
		Key:       domain.GenerateKey(name),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, e.store.CreateProperty(context.Background(), p))
	return p
}

func (e *testEnv) cookie(t *testing.T, u *domain.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, e.sessions.Issue(rec, u))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func (e *testEnv) get(t *testing.T, path string, cookies ...*http.Cookie) (*http.Response, string) {
	return e.do(t, http.MethodGet, path, nil, "", cookies...)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) (*http.Response, string) {
	return e.do(t, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", cookies...)
}

func TestPrivatePathRedirectsToLogin(t *testing.T) {
	e := newEnv(t, nil)

	tests := []struct {
		path string
		from string
	}{
		{"/", "%2F"},
		{"/widget/settings", "%2Fwidget%2Fsettings"},
		{"/widget/feedbacks", "%2Fwidget%2Ffeedbacks"},
		{"/widget/features", "%2Fwidget%2Ffeatures"},
		{"/properties", "%2Fproperties"},
		{"/setup", "%2Fsetup"},
		{"/integrations", "%2Fintegrations"},
		{"/account", "%2Faccount"},
		{"/nowhere", "%2Fnowhere"},
		{"/widget/features?collapsed=1", "%2Fwidget%2Ffeatures%3Fcollapsed%3D1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, _ := e.get(t, tt.path)
			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, "/login?from="+tt.from, resp.Header.Get("Location"))

			loc, err := url.Parse(resp.Header.Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, tt.path, loc.Query().Get("from"))
		})
	}
}

func TestPublicPathRedirectsSignedInUser(t *testing.T) {
	e := newEnv(t, nil)
	c := e.cookie(t, e.seedUser(t, "ada@example.com"))

	for _, path := range []string{"/login", "/signup", "/forgot-password"} {
		resp, _ := e.get(t, path, c)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/", resp.Header.Get("Location"), path)
	}
}

func TestLoginPageForAnonymous(t *testing.T) {
	e := newEnv(t, nil)

	resp, body := e.get(t, "/login?from=%2Fsetup")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<form method="post" action="/login"`)
	assert.Contains(t, body, `name="from" value="/setup"`)
}

// blockingStore never answers user lookups before the request ends.
type blockingStore struct {
	store.Store
}

func (s blockingStore) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLoadingSessionShowsPlaceholder(t *testing.T) {
	cfg := testConfig()
	cfg.SessionWait = 20 * time.Millisecond
	e := newEnvWithConfig(t, cfg, func(st store.Store) store.Store { return blockingStore{st} })
	c := e.cookie(t, e.seedUser(t, "ada@example.com"))

	for _, path := range []string{"/setup", "/login"} {
		resp, body := e.get(t, path, c)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Empty(t, resp.Header.Get("Location"), path)
		assert.Equal(t, "1", resp.Header.Get("Refresh"), path)
		assert.Contains(t, body, "Loading", path)
	}
}

type failingStore struct {
	store.Store
}

func (s failingStore) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, errors.New("connection refused")
}

func TestFailedSessionIsServiceUnavailable(t *testing.T) {
	e := newEnv(t, func(st store.Store) store.Store { return failingStore{st} })
	c := e.cookie(t, e.seedUser(t, "ada@example.com"))

	resp, body := e.get(t, "/setup", c)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
	assert.Contains(t, body, "Something went wrong")
}

func TestDeletedUserIsAnonymous(t *testing.T) {
	e := newEnv(t, nil)
	ghost := &domain.User{ID: uuid.New(), Email: "ghost@example.com"}

	resp, _ := e.get(t, "/account", e.cookie(t, ghost))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?from=%2Faccount", resp.Header.Get("Location"))
}

func TestShellRendersContentPage(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")
	e.seedProperty(t, u, "blog")
	c := e.cookie(t, u)

	resp, body := e.get(t, "/widget/features", c)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<div class="logo">Moufette v0.1</div>`)
	assert.Contains(t, body, `<a class="menu-item selected" href="/widget/features" aria-current="page">`)
	assert.Contains(t, body, "Propose a feature")
	assert.Contains(t, body, "ada@example.com")

	resp, body = e.get(t, "/widget/features?collapsed=1", c)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<div class="logo">🦨</div>`)
	assert.Contains(t, body, `<a class="trigger" href="/widget/features" aria-label="Toggle sidebar">`)
}

func TestShellNotFound(t *testing.T) {
	e := newEnv(t, nil)
	c := e.cookie(t, e.seedUser(t, "ada@example.com"))

	resp, body := e.get(t, "/nowhere", c)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")
	assert.Contains(t, body, `class="sider"`)
}

func TestShellCleansDoubleSlashPath(t *testing.T) {
	e := newEnv(t, nil)
	c := e.cookie(t, e.seedUser(t, "ada@example.com"))

	for _, path := range []string{"//evil.example", "//evil.example?collapsed=1", "/\\evil.example"} {
		resp, body := e.get(t, path, c)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.NotContains(t, body, `href="//`, path)
		assert.NotContains(t, body, `value="//`, path)
		assert.Contains(t, body, "<code>/evil.example</code>", path)
	}

	resp, body := e.get(t, "//evil.example", c)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `<a class="trigger" href="/evil.example?collapsed=1" aria-label="Toggle sidebar">`)
}

func TestHomeShowsOnboardingSteps(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")
	e.seedProperty(t, u, "blog")
	c := e.cookie(t, u)

	resp, body := e.get(t, "/", c)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome to Moufette")
	for _, href := range []string{"/widget/settings", "/widget/features", "/setup", "/widget/feedbacks"} {
		assert.Contains(t, body, `<a href="`+href+`">`, href)
	}
	assert.Contains(t, body, `<span class="stat-label">Feedbacks</span>`)
}

func TestShellWithoutProperty(t *testing.T) {
	e := newEnv(t, nil)
	c := e.cookie(t, e.seedUser(t, "ada@example.com"))

	for _, path := range []string{"/", "/widget/settings", "/setup", "/integrations"} {
		resp, body := e.get(t, path, c)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, body, "No property yet", path)
	}
}

func TestSignup(t *testing.T) {
	e := newEnv(t, nil)

	resp, _ := e.post(t, "/signup", url.Values{"email": {"Ada@Example.com"}, "password": {password}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	require.NotEmpty(t, resp.Cookies())

	u, err := e.store.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	props, err := e.store.ListProperties(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "example.com", props[0].Name)
	assert.Equal(t, "example-com", props[0].Key)

	// same domain, next key
	resp, _ = e.post(t, "/signup", url.Values{"email": {"bob@example.com"}, "password": {password}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	bob, err := e.store.GetUserByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	props, err = e.store.ListProperties(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "example-com-2", props[0].Key)
}

func TestSignup_Errors(t *testing.T) {
	e := newEnv(t, nil)
	e.seedUser(t, "ada@example.com")

	tests := []struct {
		name  string
		form  url.Values
		error string
	}{
		{"bad email", url.Values{"email": {"nope"}, "password": {password}}, "invalid_email"},
		{"short password", url.Values{"email": {"bob@example.com"}, "password": {"short"}}, "password_too_short"},
		{"long password", url.Values{"email": {"bob@example.com"}, "password": {strings.Repeat("p", 80)}}, "password_too_long"},
		{"taken", url.Values{"email": {"ada@example.com"}, "password": {password}}, "email_taken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := e.post(t, "/signup", tt.form)
			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			loc, err := url.Parse(resp.Header.Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/signup", loc.Path)
			assert.Equal(t, tt.error, loc.Query().Get("error"))
		})
	}
}

func TestLogin(t *testing.T) {
	e := newEnv(t, nil)
	e.seedUser(t, "ada@example.com")

	resp, _ := e.post(t, "/login", url.Values{"email": {"ada@example.com"}, "password": {password}, "from": {"/setup?collapsed=1"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/setup?collapsed=1", resp.Header.Get("Location"))
	require.NotEmpty(t, resp.Cookies())

	resp, _ = e.post(t, "/login", url.Values{"email": {"ada@example.com"}, "password": {password}, "from": {"https://evil.example"}})
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = e.post(t, "/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong password"}, "from": {"/setup"}})
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "invalid_credentials", loc.Query().Get("error"))
	assert.Equal(t, "/setup", loc.Query().Get("from"))

	resp, _ = e.post(t, "/login", url.Values{"email": {"nobody@example.com"}, "password": {password}})
	loc, err = url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "invalid_credentials", loc.Query().Get("error"))
}

func TestLogout(t *testing.T) {
	e := newEnv(t, nil)
	c := e.cookie(t, e.seedUser(t, "ada@example.com"))

	resp, _ := e.post(t, "/logout", url.Values{}, c)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	require.NotEmpty(t, resp.Cookies())
	assert.True(t, resp.Cookies()[0].MaxAge < 0)
}

func TestForgotPassword(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")

	for _, email := range []string{"ada@example.com", "nobody@example.com"} {
		resp, _ := e.post(t, "/forgot-password", url.Values{"email": {email}})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/forgot-password?notice=reset_sent", resp.Header.Get("Location"))
	}

	token, err := auth.NewResetTokens(e.cfg.ResetSecret, time.Hour).Issue(u)
	require.NoError(t, err)

	resp, body := e.get(t, "/forgot-password?token="+url.QueryEscape(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Choose a new password")

	resp, _ = e.post(t, "/forgot-password", url.Values{"token": {token}, "password": {"a new password"}})
	assert.Equal(t, "/login?notice=password_reset", resp.Header.Get("Location"))

	// the token dies with the old password
	resp, _ = e.post(t, "/forgot-password", url.Values{"token": {token}, "password": {"another password"}})
	assert.Equal(t, "/forgot-password?error=invalid_token", resp.Header.Get("Location"))

	resp, _ = e.post(t, "/login", url.Values{"email": {"ada@example.com"}, "password": {"a new password"}})
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestForgotPassword_ResetLinkLogging(t *testing.T) {
	tests := []struct {
		env      string
		wantLink bool
	}{
		{"development", true},
		{"production", false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
			cfg := testConfig()
			cfg.Environment = tt.env
			e := newEnvWithLogger(t, cfg, logger, nil)
			e.seedUser(t, "ada@example.com")

			resp, _ := e.post(t, "/forgot-password", url.Values{"email": {"ada@example.com"}})
			assert.Equal(t, "/forgot-password?notice=reset_sent", resp.Header.Get("Location"))

			assert.Contains(t, logs.String(), "password reset requested")
			assert.Equal(t, tt.wantLink, strings.Contains(logs.String(), "token="))
		})
	}
}

func TestFormPostsAreGuarded(t *testing.T) {
	e := newEnv(t, nil)

	resp, _ := e.post(t, "/widget/features", url.Values{"title": {"Dark mode"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?from=%2Fwidget%2Ffeatures", resp.Header.Get("Location"))

	c := e.cookie(t, e.seedUser(t, "ada@example.com"))
	resp, _ = e.post(t, "/login", url.Values{"email": {"ada@example.com"}, "password": {password}}, c)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestFeatures(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")
	p := e.seedProperty(t, u, "blog")
	c := e.cookie(t, u)

	resp, _ := e.post(t, "/widget/features", url.Values{"title": {"Dark mode"}, "description": {"Please"}}, c)
	assert.Equal(t, "/widget/features?notice=created", resp.Header.Get("Location"))

	resp, _ = e.post(t, "/widget/features", url.Values{"title": {"  "}}, c)
	assert.Equal(t, "/widget/features?error=title_required", resp.Header.Get("Location"))

	items, err := e.store.ListFeatures(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, body := e.get(t, "/widget/features", c)
	assert.Contains(t, body, "Dark mode")

	resp, _ = e.post(t, "/widget/features/"+items[0].ID.String()+"/delete", url.Values{}, c)
	assert.Equal(t, "/widget/features?notice=deleted", resp.Header.Get("Location"))

	resp, _ = e.post(t, "/widget/features/"+items[0].ID.String()+"/delete", url.Values{}, c)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWidgetSettings(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")
	p := e.seedProperty(t, u, "blog")
	c := e.cookie(t, u)

	_, body := e.get(t, "/widget/settings", c)
	assert.Contains(t, body, `value="#1890ff"`)

	resp, _ := e.post(t, "/widget/settings", url.Values{"app_name": {"Blog"}, "primary_color": {"red"}}, c)
	assert.Equal(t, "/widget/settings?error=invalid_color", resp.Header.Get("Location"))

	resp, _ = e.post(t, "/widget/settings", url.Values{"app_name": {"Blog"}, "primary_color": {"#ff0000"}}, c)
	assert.Equal(t, "/widget/settings?notice=saved", resp.Header.Get("Location"))

	s, err := e.store.GetWidgetSettings(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", s.PrimaryColor)
	assert.False(t, s.Enabled)
}

func TestSelectProperty(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")
	e.seedProperty(t, u, "blog")
	shop := e.seedProperty(t, u, "shop")
	c := e.cookie(t, u)

	other := e.seedProperty(t, e.seedUser(t, "eve@example.com"), "eve")
	resp, _ := e.post(t, "/properties/select", url.Values{"property": {other.ID.String()}, "back": {"/setup"}}, c)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.post(t, "/properties/select", url.Values{"property": {shop.ID.String()}, "back": {"/setup?collapsed=1"}}, c)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/setup?collapsed=1", resp.Header.Get("Location"))

	var selected *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == handlers.PropertyCookieName {
			selected = ck
		}
	}
	require.NotNil(t, selected)
	assert.Equal(t, shop.ID.String(), selected.Value)

	_, body := e.get(t, "/setup", c, selected)
	assert.Contains(t, body, "data-key=&#34;shop&#34;")
}

func TestCreateProperty(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")
	c := e.cookie(t, u)

	resp, _ := e.post(t, "/properties", url.Values{"name": {"My Blog"}, "domain": {"blog.example.com"}}, c)
	assert.Equal(t, "/properties?notice=created", resp.Header.Get("Location"))

	resp, _ = e.post(t, "/properties", url.Values{"name": {""}}, c)
	assert.Equal(t, "/properties?error=name_required", resp.Header.Get("Location"))

	props, err := e.store.ListProperties(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "my-blog", props[0].Key)
}

func TestIntegrations(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")
	p := e.seedProperty(t, u, "blog")
	c := e.cookie(t, u)

	resp, _ := e.post(t, "/integrations", url.Values{"kind": {"slack"}, "target": {"http://hooks.slack.com/x"}}, c)
	assert.Equal(t, "/integrations?error=invalid_target", resp.Header.Get("Location"))

	resp, _ = e.post(t, "/integrations", url.Values{"kind": {"slack"}, "target": {"https://hooks.slack.com/services/T000/B000/XYZ1234"}}, c)
	assert.Equal(t, "/integrations?notice=created", resp.Header.Get("Location"))

	items, err := e.store.ListIntegrations(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotContains(t, string(items[0].TargetCipher), "hooks.slack.com")

	_, body := e.get(t, "/integrations", c)
	assert.Contains(t, body, "https://hooks.slack.com/…1234")
	assert.NotContains(t, body, "T000/B000")

	resp, _ = e.post(t, "/integrations/"+items[0].ID.String()+"/delete", url.Values{}, c)
	assert.Equal(t, "/integrations?notice=deleted", resp.Header.Get("Location"))
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")
	c := e.cookie(t, u)

	resp, _ := e.post(t, "/account/password", url.Values{"current": {"nope nope"}, "password": {"a new password"}}, c)
	assert.Equal(t, "/account?error=wrong_password", resp.Header.Get("Location"))

	resp, _ = e.post(t, "/account/password", url.Values{"current": {password}, "password": {"a new password"}}, c)
	assert.Equal(t, "/account?notice=saved", resp.Header.Get("Location"))

	got, err := e.store.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(got.PasswordHash, "a new password"))
}

func TestGetOnPostOnlyPath(t *testing.T) {
	e := newEnv(t, nil)
	c := e.cookie(t, e.seedUser(t, "ada@example.com"))

	resp, body := e.get(t, "/account/password", c)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Change password")
}

func TestWidgetAPI(t *testing.T) {
	e := newEnv(t, nil)
	u := e.seedUser(t, "ada@example.com")
	p := e.seedProperty(t, u, "blog")
	base := "/api/widget/" + p.Key

	resp, body := e.get(t, base+"/config")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	var cfg handlers.WidgetConfig
	require.NoError(t, json.Unmarshal([]byte(body), &cfg))
	assert.Equal(t, handlers.WidgetConfig{Key: "blog", AppName: "Moufette", PrimaryColor: "#1890ff", Enabled: true}, cfg)

	resp, _ = e.do(t, http.MethodPost, base+"/feedbacks", strings.NewReader(`{"message":"Love it","page":"/pricing"}`), "application/json")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, base+"/feedbacks", strings.NewReader(`{"message":"  "}`), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	feedbacks, err := e.store.ListFeedbacks(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, feedbacks, 1)
	assert.Equal(t, "Love it", feedbacks[0].Message)

	f := &domain.Feature{ID: uuid.New(), PropertyID: p.ID, Title: "Dark mode", CreatedAt: time.Now().UTC()}
	require.NoError(t, e.store.CreateFeature(context.Background(), f))

	resp, body = e.do(t, http.MethodPost, base+"/features/"+f.ID.String()+"/votes", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"votes":1}`, body)

	resp, body = e.get(t, base+"/features")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var features []handlers.FeatureResponse
	require.NoError(t, json.Unmarshal([]byte(body), &features))
	require.Len(t, features, 1)
	assert.Equal(t, 1, features[0].Votes)

	resp, _ = e.do(t, http.MethodPost, base+"/features/"+uuid.NewString()+"/votes", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.get(t, "/api/widget/unknown-key/config")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWidgetAPI_Disabled(t *testing.T) {
	e := newEnv(t, nil)
	p := e.seedProperty(t, e.seedUser(t, "ada@example.com"), "blog")
	s := domain.DefaultWidgetSettings(p.ID)
	s.Enabled = false
	require.NoError(t, e.store.SaveWidgetSettings(context.Background(), &s))

	resp, _ := e.do(t, http.MethodPost, "/api/widget/blog/feedbacks", strings.NewReader(`{"message":"hi"}`), "application/json")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := e.get(t, "/api/widget/blog/config")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"enabled":false`)
}
