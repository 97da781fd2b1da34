package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/middleware"
	"github.com/moufette/console/internal/router"
	"github.com/moufette/console/internal/templates/pages"
)

// maxKeyAttempts bounds the suffixes tried for a taken property key.
const maxKeyAttempts = 20

// createProperty stores a property with a key generated from name, adding
// a numeric suffix while the key is taken.
func (h *Handlers) createProperty(ctx context.Context, owner *domain.User, name, site string) (*domain.Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	base := domain.GenerateKey(name)
	if domain.ValidateKey(base) != nil {
		base = domain.GenerateKey("property " + name)
	}
	if err := domain.ValidateKey(base); err != nil {
		base = "property"
	}

	for n := 1; n <= maxKeyAttempts; n++ {
		p := &domain.Property{
			ID:        uuid.New(),
			OwnerID:   owner.ID,
			Name:      name,
			Domain:    strings.TrimSpace(site),
			Key:       domain.KeyWithSuffix(base, n),
			CreatedAt: time.Now().UTC(),
		}
		err := h.store.CreateProperty(ctx, p)
		if errors.Is(err, domain.ErrKeyTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("no free key for %q: %w", base, domain.ErrKeyTaken)
}

func (h *Handlers) propertiesPage(r *http.Request, u *domain.User, _ *domain.Property) (templ.Component, error) {
	if u == nil {
		return pages.Properties(pages.PropertiesView{Flash: flashFrom(r)}), nil
	}
	res := h.properties(r.Context(), r, u.ID)
	if res.Err != nil {
		return nil, res.Err
	}
	return pages.Properties(pages.PropertiesView{Items: res.Items, Selected: res.Selected, Flash: flashFrom(r)}), nil
}

// CreateProperty adds a property and selects it.
func (h *Handlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	p, err := h.createProperty(r.Context(), u, r.PostFormValue("name"), r.PostFormValue("domain"))
	if err != nil {
		if !errors.Is(err, domain.ErrNameRequired) {
			h.logger.Error("failed to create property", "error", err)
		}
		redirectError(w, r, router.Properties, errorCode(err))
		return
	}

	h.setSelectedProperty(w, p.ID)
	h.logger.Info("property created", "property_id", p.ID, "key", p.Key)
	redirectNotice(w, r, router.Properties, pages.NoticeCreated)
}

// SelectProperty stores the property picked in the header selector and
// returns to the page it was picked on.
func (h *Handlers) SelectProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u := middleware.CurrentUser(ctx)
	back := router.SafeRedirect(r.PostFormValue("back"))

	id, err := parseID(r.PostFormValue("property"))
	if err != nil {
		http.Error(w, "Property not found", http.StatusNotFound)
		return
	}
	p, err := h.ownedProperty(ctx, u, id)
	switch {
	case isNotFound(err), errors.Is(err, domain.ErrPropertyNotOwned):
		http.Error(w, "Property not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("failed to load property", "error", err)
		http.Error(w, "Failed to select property", http.StatusInternalServerError)
		return
	}

	h.setSelectedProperty(w, p.ID)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handlers) setSelectedProperty(w http.ResponseWriter, id uuid.UUID) {
	http.SetCookie(w, &http.Cookie{
		Name:     PropertyCookieName,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) homePage(r *http.Request, u *domain.User, p *domain.Property) (templ.Component, error) {
	view := pages.HomeView{User: u, Property: p}
	if p == nil {
		return pages.Home(view), nil
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		items, err := h.store.ListFeedbacks(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("list feedbacks: %w", err)
		}
		view.Feedbacks = len(items)
		return nil
	})
	g.Go(func() error {
		items, err := h.store.ListFeatures(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("list features: %w", err)
		}
		view.Features = len(items)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages.Home(view), nil
}

func (h *Handlers) setupPage(r *http.Request, u *domain.User, p *domain.Property) (templ.Component, error) {
	return pages.Setup(pages.SetupView{User: u, Property: p, BaseURL: h.config.BaseURL}), nil
}
