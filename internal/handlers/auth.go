package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/middleware"
	"github.com/moufette/console/internal/router"
	"github.com/moufette/console/internal/templates/pages"
)

// LoginPage renders the login page.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := pages.LoginView{
		From:  q.Get(router.FromParam),
		Email: q.Get("email"),
		Flash: flashFrom(r),
	}
	middleware.RenderPage(w, r, http.StatusOK, pages.Document("Log in", pages.Login(view)), h.logger)
}

// LoginSubmit checks the credentials and starts a session. On success the
// browser returns to the page that sent it to the login form.
func (h *Handlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := domain.NormalizeEmail(r.PostFormValue("email"))
	from := r.PostFormValue(router.FromParam)

	fail := func(code string) {
		values := url.Values{"error": {code}, "email": {email}}
		if from != "" {
			values.Set(router.FromParam, from)
		}
		redirectWith(w, r, router.Login, values)
	}

	user, err := h.store.GetUserByEmail(ctx, email)
	if isNotFound(err) {
		fail(pages.ErrCodeInvalidCredentials)
		return
	}
	if err != nil {
		h.logger.Error("failed to load user", "error", err)
		fail(pages.ErrCodeDatabase)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, r.PostFormValue("password")); err != nil {
		fail(pages.ErrCodeInvalidCredentials)
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		h.logger.Error("failed to create session", "error", err)
		fail(pages.ErrCodeDatabase)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, router.SafeRedirect(from), http.StatusSeeOther)
}

// SignupPage renders the signup page.
func (h *Handlers) SignupPage(w http.ResponseWriter, r *http.Request) {
	view := pages.SignupView{Email: r.URL.Query().Get("email"), Flash: flashFrom(r)}
	middleware.RenderPage(w, r, http.StatusOK, pages.Document("Sign up", pages.Signup(view)), h.logger)
}

// SignupSubmit creates an account with a first property named after the
// email domain, then logs the user in.
func (h *Handlers) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := domain.NormalizeEmail(r.PostFormValue("email"))

	fail := func(code string) {
		redirectWith(w, r, router.Signup, url.Values{"error": {code}, "email": {email}})
	}

	if err := domain.ValidateEmail(email); err != nil {
		fail(errorCode(err))
		return
	}
	hash, err := auth.HashPassword(r.PostFormValue("password"))
	if err != nil {
		fail(errorCode(err))
		return
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			h.logger.Error("failed to create user", "error", err)
		}
		fail(errorCode(err))
		return
	}

	site := email[strings.LastIndex(email, "@")+1:]
	if _, err := h.createProperty(ctx, user, site, site); err != nil {
		// the account exists; the user can add a property from the console
		h.logger.Error("failed to create first property", "error", err, "user_id", user.ID)
	}

	if err := h.sessions.Issue(w, user); err != nil {
		h.logger.Error("failed to create session", "error", err)
		redirectError(w, r, router.Login, pages.ErrCodeDatabase)
		return
	}

	h.logger.Info("user signed up", "user_id", user.ID)
	http.Redirect(w, r, router.Root, http.StatusSeeOther)
}

// ForgotPasswordPage renders the reset request form, or the new password
// form when the link carries a token.
func (h *Handlers) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	page := pages.ForgotPassword(flashFrom(r))
	if token := r.URL.Query().Get("token"); token != "" {
		page = pages.ResetPassword(token, flashFrom(r))
	}
	middleware.RenderPage(w, r, http.StatusOK, pages.Document("Reset password", page), h.logger)
}

// ForgotPasswordSubmit either sends a reset link or, with a token, sets the
// new password. Unknown emails get the same answer as known ones.
func (h *Handlers) ForgotPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	if token := r.PostFormValue("token"); token != "" {
		h.resetPassword(w, r, token)
		return
	}

	ctx := r.Context()
	email := domain.NormalizeEmail(r.PostFormValue("email"))
	user, err := h.store.GetUserByEmail(ctx, email)
	switch {
	case isNotFound(err):
	case err != nil:
		h.logger.Error("failed to load user", "error", err)
		redirectError(w, r, router.ForgotPassword, pages.ErrCodeDatabase)
		return
	default:
		token, err := h.resets.Issue(user)
		if err != nil {
			h.logger.Error("failed to issue reset token", "error", err)
			redirectError(w, r, router.ForgotPassword, pages.ErrCodeDatabase)
			return
		}
		h.logger.Info("password reset requested", "user_id", user.ID)
		if h.config.IsDevelopment() {
			link := strings.TrimRight(h.config.BaseURL, "/") + router.ForgotPassword + "?" + url.Values{"token": {token}}.Encode()
			h.logger.Debug("password reset link", "user_id", user.ID, "link", link)
		}
	}

	redirectNotice(w, r, router.ForgotPassword, pages.NoticeResetSent)
}

func (h *Handlers) resetPassword(w http.ResponseWriter, r *http.Request, token string) {
	ctx := r.Context()

	invalid := func() { redirectError(w, r, router.ForgotPassword, pages.ErrCodeInvalidToken) }

	id, err := h.resets.Subject(token)
	if err != nil {
		invalid()
		return
	}
	user, err := h.store.GetUser(ctx, id)
	if err != nil {
		if !isNotFound(err) {
			h.logger.Error("failed to load user", "error", err)
		}
		invalid()
		return
	}
	if err := h.resets.Verify(token, user); err != nil {
		invalid()
		return
	}

	hash, err := auth.HashPassword(r.PostFormValue("password"))
	if err != nil {
		redirectWith(w, r, router.ForgotPassword, url.Values{"token": {token}, "error": {errorCode(err)}})
		return
	}
	if err := h.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		h.logger.Error("failed to update password", "error", err)
		redirectError(w, r, router.ForgotPassword, pages.ErrCodeDatabase)
		return
	}

	h.logger.Info("password reset", "user_id", user.ID)
	redirectNotice(w, r, router.Login, pages.NoticePasswordReset)
}

// Logout clears the session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, router.Login, http.StatusSeeOther)
}
