package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/service"
	"github.com/Damatnic/astral-planner-sub006/pkg/httpx"
	"github.com/Damatnic/astral-planner-sub006/pkg/slogx"
)

// RefreshHandler serves POST /auth/refresh.
//
// Unlike login, refresh failures use HTTP status codes: 400 for a missing
// token, 401 for an expired or invalid one.
type RefreshHandler struct {
	AuthService *service.AuthService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if req.RefreshToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Refresh token is required"})
		return
	}

	pair, err := h.AuthService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Refresh token expired"})
		case errors.Is(err, service.ErrTokenMalformed):
			httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid refresh token"})
		default:
			log.Error("refresh failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		}
		return
	}

	setAuthCookie(w, pair.AccessToken)
	httpx.WriteJSON(w, http.StatusOK, refreshResponse{
		Success: true,
		Tokens: &tokensPayload{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
	})
}
