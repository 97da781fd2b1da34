package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/router"
	"github.com/moufette/console/internal/templates/pages"
)

func (h *Handlers) integrationsPage(r *http.Request, u *domain.User, p *domain.Property) (templ.Component, error) {
	view := pages.IntegrationsView{User: u, Property: p, Flash: flashFrom(r)}
	if p == nil {
		return pages.Integrations(view), nil
	}

	items, err := h.store.ListIntegrations(r.Context(), p.ID)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}
	for i := range items {
		in := &items[i]
		target := "(unreadable)"
		if err := h.crypto.Open(in); err != nil {
			h.logger.Error("failed to decrypt integration target", "error", err, "integration_id", in.ID)
		} else {
			target = domain.MaskTarget(in.Target)
		}
		view.Items = append(view.Items, pages.IntegrationRow{
			ID:      in.ID,
			Kind:    in.Kind,
			Target:  target,
			Enabled: in.Enabled,
		})
	}
	return pages.Integrations(view), nil
}

// CreateIntegration stores a feedback forwarding target, encrypted.
func (h *Handlers) CreateIntegration(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireProperty(w, r, router.Integrations)
	if !ok {
		return
	}

	kind, err := domain.ParseIntegrationKind(r.PostFormValue("kind"))
	if err != nil {
		redirectError(w, r, router.Integrations, errorCode(err))
		return
	}
	target := strings.TrimSpace(r.PostFormValue("target"))
	if err := domain.ValidateTarget(target); err != nil {
		redirectError(w, r, router.Integrations, errorCode(err))
		return
	}

	in := &domain.Integration{
		ID:         uuid.New(),
		PropertyID: p.ID,
		Kind:       kind,
		Target:     target,
		Enabled:    true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.crypto.Seal(in); err != nil {
		h.logger.Error("failed to encrypt integration target", "error", err)
		redirectError(w, r, router.Integrations, pages.ErrCodeDatabase)
		return
	}
	if err := h.store.CreateIntegration(r.Context(), in); err != nil {
		h.logger.Error("failed to create integration", "error", err, "property_id", p.ID)
		redirectError(w, r, router.Integrations, pages.ErrCodeDatabase)
		return
	}
	redirectNotice(w, r, router.Integrations, pages.NoticeCreated)
}

// DeleteIntegration removes an integration of the selected property.
func (h *Handlers) DeleteIntegration(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireProperty(w, r, router.Integrations)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err == nil {
		err = h.store.DeleteIntegration(r.Context(), p.ID, id)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Integration not found", http.StatusNotFound)
	case err != nil:
		h.logger.Error("failed to delete integration", "error", err, "property_id", p.ID)
		redirectError(w, r, router.Integrations, pages.ErrCodeDatabase)
	default:
		redirectNotice(w, r, router.Integrations, pages.NoticeDeleted)
	}
}
