package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/middleware"
	"github.com/moufette/console/internal/router"
	"github.com/moufette/console/internal/shell"
	"github.com/moufette/console/internal/templates/pages"
	"github.com/moufette/console/internal/ui"
)

// PropertyCookieName holds the ID of the property picked in the selector.
const PropertyCookieName = "moufette_property"

// Root is the root router. The first rule of router.RootTable matching the
// path picks the page and its guard.
//
// For the shell, the properties of the cookie's user are listed while the
// session query runs; the list is only used once the guard lets the request
// through.
//
// Paths are cleaned first so the links built from them stay on the site.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if clean := router.CleanPath(r.URL.Path); clean != r.URL.Path {
		r = r.Clone(ctx)
		r.URL.Path, r.URL.RawPath = clean, ""
	}

	rule, ok := router.RootTable.Match(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	entry := rule.Target

	var (
		state auth.State
		props shell.PropertiesResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state = h.query.Resolve(gctx, r)
		return nil
	})
	if entry.Page == router.PageShell {
		if data, ok := h.sessions.Read(r); ok {
			g.Go(func() error {
				props = h.properties(gctx, r, data.UserID)
				return nil
			})
		}
	}
	_ = g.Wait()

	if h.observer != nil {
		h.observer.ObserveSession(state.Status)
	}

	r = r.WithContext(middleware.WithSession(ctx, state))
	d := middleware.Decide(entry.Access, state, router.Location(r.URL))
	if middleware.WriteDecision(w, r, d, h.logger) {
		return
	}

	switch entry.Page {
	case router.PageLogin:
		h.LoginPage(w, r)
	case router.PageSignup:
		h.SignupPage(w, r)
	case router.PageForgotPassword:
		h.ForgotPasswordPage(w, r)
	default:
		h.App(w, r, props)
	}
}

// properties runs the properties query for ownerID. Errors are kept in the
// result for the selector to show.
func (h *Handlers) properties(ctx context.Context, r *http.Request, ownerID uuid.UUID) shell.PropertiesResult {
	ctx, span := otel.Tracer("github.com/moufette/console/internal/handlers").Start(ctx, "properties.list",
		trace.WithAttributes(attribute.String("owner.id", ownerID.String())))
	defer span.End()

	items, err := h.store.ListProperties(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("failed to list properties", "error", err, "owner_id", ownerID)
		return shell.PropertiesResult{Err: err}
	}
	span.SetAttributes(attribute.Int("properties.count", len(items)))

	res := shell.PropertiesResult{Items: items}
	if c, err := r.Cookie(PropertyCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			res.Selected = id
		}
	}
	if cur := res.Current(); cur != nil {
		res.Selected = cur.ID
	}
	return res
}

// currentProperty returns the selected property of u, or nil when the
// account has none.
func (h *Handlers) currentProperty(ctx context.Context, r *http.Request, u *domain.User) (*domain.Property, error) {
	res := h.properties(ctx, r, u.ID)
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Current(), nil
}

// contentPage loads the data of one shell page.
type contentPage struct {
	title string
	load  func(h *Handlers, r *http.Request, u *domain.User, p *domain.Property) (templ.Component, error)
}

var contentPages = map[router.Page]contentPage{
	router.PageHome:            {"Home", (*Handlers).homePage},
	router.PageWidgetSettings:  {"Widget settings", (*Handlers).widgetSettingsPage},
	router.PageWidgetFeedbacks: {"Feedbacks", (*Handlers).feedbacksPage},
	router.PageWidgetFeatures:  {"Features", (*Handlers).featuresPage},
	router.PageProperties:      {"Properties", (*Handlers).propertiesPage},
	router.PageSetup:           {"Setup", (*Handlers).setupPage},
	router.PageIntegrations:    {"Integrations", (*Handlers).integrationsPage},
	router.PageAccount:         {"Account", (*Handlers).accountPage},
}

// App renders the shell layout around the page router.ContentTable picks
// for the path. Unmatched paths get a 404 inside the shell.
func (h *Handlers) App(w http.ResponseWriter, r *http.Request, props shell.PropertiesResult) {
	user := middleware.CurrentUser(r.Context())

	status := http.StatusOK
	title := "Not found"
	var content templ.Component

	rule, ok := router.ContentTable.Match(r.URL.Path)
	page, known := contentPages[rule.Target]
	switch {
	case !ok || !known:
		status = http.StatusNotFound
		content = pages.NotFound(r.URL.Path)
	default:
		title = page.title
		c, err := page.load(h, r, user, props.Current())
		if err != nil {
			h.logger.Error("failed to load page", "error", err, "page", rule.Target)
			status = http.StatusInternalServerError
			c = ui.Alert(ui.AlertError, pages.Message(pages.ErrCodeDatabase))
		}
		content = c
	}

	layout := shell.Layout(shell.Props{
		Path:       r.URL.Path,
		Collapsed:  shell.Collapsed(r.URL.Query()),
		User:       user,
		Properties: props,
		Content:    content,
	})
	middleware.RenderPage(w, r, status, pages.Document(title, layout), h.logger)
}

// ownedProperty checks that a property posted by the user is one of theirs.
func (h *Handlers) ownedProperty(ctx context.Context, u *domain.User, id uuid.UUID) (*domain.Property, error) {
	p, err := h.store.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != u.ID {
		return nil, domain.ErrPropertyNotOwned
	}
	return p, nil
}

// requireProperty resolves the selected property for a form post and answers
// the request itself when there is none.
func (h *Handlers) requireProperty(w http.ResponseWriter, r *http.Request, back string) (*domain.Property, bool) {
	u := middleware.CurrentUser(r.Context())
	p, err := h.currentProperty(r.Context(), r, u)
	switch {
	case err != nil:
		h.logger.Error("failed to load selected property", "error", err)
		redirectError(w, r, back, pages.ErrCodeDatabase)
		return nil, false
	case p == nil:
		redirectError(w, r, back, pages.ErrCodeNoProperty)
		return nil, false
	}
	return p, true
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	return id, nil
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
