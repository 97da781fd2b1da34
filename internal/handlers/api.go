package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moufette/console/internal/domain"
)

// maxFeedbackBody bounds the JSON body of a widget post.
const maxFeedbackBody = 16 << 10

// WidgetConfig is the public widget configuration.
type WidgetConfig struct {
	Key          string `json:"key"`
	AppName      string `json:"appName"`
	PrimaryColor string `json:"primaryColor"`
	Enabled      bool   `json:"enabled"`
}

// FeedbackRequest is the body of a feedback posted by the widget.
type FeedbackRequest struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
	Page    string `json:"page,omitempty"`
}

// FeatureResponse is a feature as listed to widget visitors.
type FeatureResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Votes       int       `json:"votes"`
}

// VoteResponse is the vote count after a vote.
type VoteResponse struct {
	Votes int `json:"votes"`
}

type apiError struct {
	Error string `json:"error"`
}

// widgetAPI is the JSON API the embedded widget calls with its property key.
// It is anonymous and allows any origin.
func (h *Handlers) widgetAPI(r chi.Router) {
	r.Use(allowAnyOrigin)
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "not found"})
	})

	r.Options("/*", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/config", h.apiConfig)
	r.Post("/feedbacks", h.apiCreateFeedback)
	r.Get("/features", h.apiFeatures)
	r.Post("/features/{id}/votes", h.apiVote)
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// apiProperty resolves the key of the URL and answers 404 itself when it is
// unknown.
func (h *Handlers) apiProperty(w http.ResponseWriter, r *http.Request) (*domain.Property, bool) {
	key := chi.URLParam(r, "key")
	if domain.ValidateKey(key) != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "unknown property"})
		return nil, false
	}
	p, err := h.store.GetPropertyByKey(r.Context(), key)
	if isNotFound(err) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "unknown property"})
		return nil, false
	}
	if err != nil {
		h.logger.Error("failed to load property by key", "error", err, "key", key)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
		return nil, false
	}
	return p, true
}

// apiEnabledProperty is apiProperty for calls a disabled widget may not make.
func (h *Handlers) apiEnabledProperty(w http.ResponseWriter, r *http.Request) (*domain.Property, bool) {
	p, ok := h.apiProperty(w, r)
	if !ok {
		return nil, false
	}
	s, err := h.widgetSettings(r.Context(), p.ID)
	if err != nil {
		h.logger.Error("failed to load widget settings", "error", err, "property_id", p.ID)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
		return nil, false
	}
	if !s.Enabled {
		writeJSON(w, http.StatusForbidden, apiError{Error: "widget disabled"})
		return nil, false
	}
	return p, true
}

func (h *Handlers) apiConfig(w http.ResponseWriter, r *http.Request) {
	p, ok := h.apiProperty(w, r)
	if !ok {
		return
	}
	s, err := h.widgetSettings(r.Context(), p.ID)
	if err != nil {
		h.logger.Error("failed to load widget settings", "error", err, "property_id", p.ID)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, WidgetConfig{
		Key:          p.Key,
		AppName:      s.AppName,
		PrimaryColor: s.PrimaryColor,
		Enabled:      s.Enabled,
	})
}

func (h *Handlers) apiCreateFeedback(w http.ResponseWriter, r *http.Request) {
	p, ok := h.apiEnabledProperty(w, r)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFeedbackBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	req.Email = domain.NormalizeEmail(req.Email)
	if req.Message == "" {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: domain.ErrMessageRequired.Error()})
		return
	}
	if req.Email != "" {
		if err := domain.ValidateEmail(req.Email); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: err.Error()})
			return
		}
	}

	f := &domain.Feedback{
		ID:         uuid.New(),
		PropertyID: p.ID,
		Message:    req.Message,
		Email:      req.Email,
		Page:       req.Page,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.store.CreateFeedback(r.Context(), f); err != nil {
		h.logger.Error("failed to store feedback", "error", err, "property_id", p.ID)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) apiFeatures(w http.ResponseWriter, r *http.Request) {
	p, ok := h.apiEnabledProperty(w, r)
	if !ok {
		return
	}
	items, err := h.store.ListFeatures(r.Context(), p.ID)
	if err != nil {
		h.logger.Error("failed to list features", "error", err, "property_id", p.ID)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
		return
	}
	out := make([]FeatureResponse, 0, len(items))
	for _, f := range items {
		out = append(out, FeatureResponse{ID: f.ID, Title: f.Title, Description: f.Description, Votes: f.Votes})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) apiVote(w http.ResponseWriter, r *http.Request) {
	p, ok := h.apiEnabledProperty(w, r)
	if !ok {
		return
	}
	id, err := parseID(chi.URLParam(r, "id"))
	if err == nil {
		var votes int
		votes, err = h.store.VoteFeature(r.Context(), p.ID, id)
		if err == nil {
			writeJSON(w, http.StatusOK, VoteResponse{Votes: votes})
			return
		}
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "unknown feature"})
		return
	}
	h.logger.Error("failed to vote", "error", err, "property_id", p.ID)
	writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
}
