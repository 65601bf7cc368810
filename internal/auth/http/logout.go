package http

import (
	"net/http"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/service"
	"github.com/Damatnic/astral-planner-sub006/pkg/httpx"
	"github.com/Damatnic/astral-planner-sub006/pkg/slogx"
)

// LogoutHandler serves POST /auth/logout. Idempotent: the cookie is
// cleared and 200 returned whether or not a live session existed.
type LogoutHandler struct {
	AuthService *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// A missing or bad token still logs out, there is just no session
	// to invalidate.
	if token := extractAccessToken(r); token != "" {
		if account, err := h.AuthService.Whoami(ctx, token); err == nil {
			if err := h.AuthService.Logout(ctx, account.ID); err != nil {
				log.Error("logout failed", "account_id", account.ID, "err", err)
				httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
				return
			}
		}
	}

	clearAuthCookie(w)
	httpx.WriteJSON(w, http.StatusOK, logoutResponse{Success: true})
}
