package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/config"
	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/middleware"
	"github.com/moufette/console/internal/router"
	"github.com/moufette/console/internal/store"
	"github.com/moufette/console/internal/templates/pages"
)

// Handlers contains all HTTP handler dependencies.
type Handlers struct {
	config   *config.Config
	store    store.Store
	sessions *auth.SessionStore
	query    *auth.Query
	resets   *auth.ResetTokens
	crypto   *domain.TargetCrypto
	observer middleware.SessionObserver
	logger   *slog.Logger
}

// New creates a new Handlers instance with all dependencies. metrics may be
// nil when metrics are disabled.
func New(
	cfg *config.Config,
	st store.Store,
	sessions *auth.SessionStore,
	metrics *middleware.Metrics,
	logger *slog.Logger,
) (*Handlers, error) {
	crypto, err := domain.NewTargetCrypto(cfg.IntegrationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize integration crypto: %w", err)
	}

	h := &Handlers{
		config:   cfg,
		store:    st,
		sessions: sessions,
		query:    auth.NewQuery(sessions, st, cfg.SessionWait),
		resets:   auth.NewResetTokens(cfg.ResetSecret, cfg.ResetTTL),
		crypto:   crypto,
		logger:   logger,
	}
	if metrics != nil {
		h.observer = metrics
	}
	return h, nil
}

// Routes registers the console on r. Form posts sit behind the guards of
// the pages they belong to; every other GET goes to the root router.
func (h *Handlers) Routes(r chi.Router) {
	// GET on a path that only has a POST route still belongs to the root router
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodGet || req.Method == http.MethodHead {
			h.Root(w, req)
			return
		}
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	r.Route(router.WidgetAPI+"/{key}", h.widgetAPI)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(h.query, h.observer))

		r.Post(router.Logout, h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.PublicRoute(h.logger))
			r.Post(router.Login, h.LoginSubmit)
			r.Post(router.Signup, h.SignupSubmit)
			r.Post(router.ForgotPassword, h.ForgotPasswordSubmit)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.PrivateRoute(h.logger))
			r.Post(router.WidgetSettings, h.SaveWidgetSettings)
			r.Post(router.WidgetFeatures, h.CreateFeature)
			r.Post(router.WidgetFeatures+"/{id}/delete", h.DeleteFeature)
			r.Post(router.Properties, h.CreateProperty)
			r.Post(router.PropertiesSelect, h.SelectProperty)
			r.Post(router.Integrations, h.CreateIntegration)
			r.Post(router.Integrations+"/{id}/delete", h.DeleteIntegration)
			r.Post(router.AccountPassword, h.ChangePassword)
		})
	})

	r.Get("/*", h.Root)
}

// flashFrom reads the error and notice codes of a form redirect.
func flashFrom(r *http.Request) pages.Flash {
	q := r.URL.Query()
	return pages.Flash{Error: q.Get("error"), Notice: q.Get("notice")}
}

// redirectWith redirects to path with extra query values.
func redirectWith(w http.ResponseWriter, r *http.Request, path string, values url.Values) {
	if len(values) > 0 {
		path += "?" + values.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func redirectError(w http.ResponseWriter, r *http.Request, path, code string) {
	redirectWith(w, r, path, url.Values{"error": {code}})
}

func redirectNotice(w http.ResponseWriter, r *http.Request, path, code string) {
	redirectWith(w, r, path, url.Values{"notice": {code}})
}

// errorCode maps domain errors to the codes shown on form pages.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return pages.ErrCodeInvalidEmail
	case errors.Is(err, domain.ErrPasswordTooShort):
		return pages.ErrCodePasswordTooShort
	case errors.Is(err, domain.ErrPasswordTooLong):
		return pages.ErrCodePasswordTooLong
	case errors.Is(err, domain.ErrEmailTaken):
		return pages.ErrCodeEmailTaken
	case errors.Is(err, domain.ErrNameRequired):
		return pages.ErrCodeNameRequired
	case errors.Is(err, domain.ErrInvalidColor):
		return pages.ErrCodeInvalidColor
	case errors.Is(err, domain.ErrTitleRequired):
		return pages.ErrCodeTitleRequired
	case errors.Is(err, domain.ErrInvalidKind):
		return pages.ErrCodeInvalidKind
	case errors.Is(err, domain.ErrInvalidTargetURL):
		return pages.ErrCodeInvalidTarget
	case errors.Is(err, domain.ErrWrongPassword):
		return pages.ErrCodeWrongPassword
	case errors.Is(err, domain.ErrInvalidResetToken):
		return pages.ErrCodeInvalidToken
	}
	return pages.ErrCodeDatabase
}
