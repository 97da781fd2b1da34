package handlers

import (
	"context"
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

// widgetSettings loads the settings of a property, falling back to the
// defaults when none were saved.
func (h *Handlers) widgetSettings(ctx context.Context, propertyID uuid.UUID) (domain.WidgetSettings, error) {
	s, err := h.store.GetWidgetSettings(ctx, propertyID)
	if isNotFound(err) {
		return domain.DefaultWidgetSettings(propertyID), nil
	}
	if err != nil {
		return domain.WidgetSettings{}, fmt.Errorf("get widget settings: %w", err)
	}
	return *s, nil
}

func (h *Handlers) widgetSettingsPage(r *http.Request, u *domain.User, p *domain.Property) (templ.Component, error) {
	view := pages.WidgetSettingsView{User: u, Property: p, Flash: flashFrom(r)}
	if p != nil {
		s, err := h.widgetSettings(r.Context(), p.ID)
		if err != nil {
			return nil, err
		}
		view.Settings = s
	}
	return pages.WidgetSettings(view), nil
}

// SaveWidgetSettings updates the widget of the selected property.
func (h *Handlers) SaveWidgetSettings(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireProperty(w, r, router.WidgetSettings)
	if !ok {
		return
	}

	s := domain.WidgetSettings{
		PropertyID:   p.ID,
		AppName:      strings.TrimSpace(r.PostFormValue("app_name")),
		PrimaryColor: strings.TrimSpace(r.PostFormValue("primary_color")),
		Enabled:      r.PostFormValue("enabled") != "",
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		redirectError(w, r, router.WidgetSettings, errorCode(err))
		return
	}
	if err := h.store.SaveWidgetSettings(r.Context(), &s); err != nil {
		h.logger.Error("failed to save widget settings", "error", err, "property_id", p.ID)
		redirectError(w, r, router.WidgetSettings, pages.ErrCodeDatabase)
		return
	}
	redirectNotice(w, r, router.WidgetSettings, pages.NoticeSaved)
}

func (h *Handlers) feedbacksPage(r *http.Request, _ *domain.User, p *domain.Property) (templ.Component, error) {
	if p == nil {
		return pages.Feedbacks(nil, nil), nil
	}
	items, err := h.store.ListFeedbacks(r.Context(), p.ID)
	if err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}
	return pages.Feedbacks(p, items), nil
}

func (h *Handlers) featuresPage(r *http.Request, _ *domain.User, p *domain.Property) (templ.Component, error) {
	view := pages.FeaturesView{Property: p, Flash: flashFrom(r)}
	if p != nil {
		items, err := h.store.ListFeatures(r.Context(), p.ID)
		if err != nil {
			return nil, fmt.Errorf("list features: %w", err)
		}
		view.Items = items
	}
	return pages.Features(view), nil
}

// CreateFeature adds a feature to the board of the selected property.
func (h *Handlers) CreateFeature(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireProperty(w, r, router.WidgetFeatures)
	if !ok {
		return
	}

	f := &domain.Feature{
		ID:          uuid.New(),
		PropertyID:  p.ID,
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		CreatedAt:   time.Now().UTC(),
	}
	if f.Title == "" {
		redirectError(w, r, router.WidgetFeatures, pages.ErrCodeTitleRequired)
		return
	}
	if err := h.store.CreateFeature(r.Context(), f); err != nil {
		h.logger.Error("failed to create feature", "error", err, "property_id", p.ID)
		redirectError(w, r, router.WidgetFeatures, pages.ErrCodeDatabase)
		return
	}
	redirectNotice(w, r, router.WidgetFeatures, pages.NoticeCreated)
}

// DeleteFeature removes a feature of the selected property.
func (h *Handlers) DeleteFeature(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireProperty(w, r, router.WidgetFeatures)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err == nil {
		err = h.store.DeleteFeature(r.Context(), p.ID, id)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Feature not found", http.StatusNotFound)
	case err != nil:
		h.logger.Error("failed to delete feature", "error", err, "property_id", p.ID)
		redirectError(w, r, router.WidgetFeatures, pages.ErrCodeDatabase)
	default:
		redirectNotice(w, r, router.WidgetFeatures, pages.NoticeDeleted)
	}
}
