package http

import (
	"errors"
	"net/http"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/service"
	"github.com/Damatnic/astral-planner-sub006/pkg/httpx"
)

// MeHandler serves GET /auth/me, resolving a bearer token or the auth
// cookie to the caller's profile.
type MeHandler struct {
	AuthService *service.AuthService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := extractAccessToken(r)
	if token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
		return
	}

	account, err := h.AuthService.Whoami(r.Context(), token)
	if err != nil {
		// Both map to 401, but the message tells an expired token
		// ("log in again") apart from a corrupted or forged one.
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Access token expired"})
		default:
			httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid access token"})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, meResponse{
		User: userPayload{
			ID:          account.ID,
			DisplayName: account.DisplayName,
			IsDemo:      account.Demo,
			IsPremium:   account.Premium,
		},
	})
}
