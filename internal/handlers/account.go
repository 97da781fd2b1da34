package handlers

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/middleware"
	"github.com/moufette/console/internal/router"
	"github.com/moufette/console/internal/templates/pages"
)

func (h *Handlers) accountPage(r *http.Request, u *domain.User, _ *domain.Property) (templ.Component, error) {
	return pages.Account(pages.AccountView{User: u, Flash: flashFrom(r)}), nil
}

// ChangePassword sets a new password after checking the current one.
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u := middleware.CurrentUser(ctx)

	if err := auth.CheckPassword(u.PasswordHash, r.PostFormValue("current")); err != nil {
		redirectError(w, r, router.Account, pages.ErrCodeWrongPassword)
		return
	}
	hash, err := auth.HashPassword(r.PostFormValue("password"))
	if err != nil {
		redirectError(w, r, router.Account, errorCode(err))
		return
	}
	if err := h.store.UpdatePassword(ctx, u.ID, hash); err != nil {
		h.logger.Error("failed to update password", "error", err, "user_id", u.ID)
		redirectError(w, r, router.Account, pages.ErrCodeDatabase)
		return
	}

	h.logger.Info("password changed", "user_id", u.ID)
	redirectNotice(w, r, router.Account, pages.NoticeSaved)
}
