package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/service"
	"github.com/Damatnic/astral-planner-sub006/pkg/httpx"
	"github.com/Damatnic/astral-planner-sub006/pkg/slogx"
)

// invalidCredentialsMessage is the one message used for both unknown
// accounts and wrong PINs so account ids cannot be enumerated.
const invalidCredentialsMessage = "Invalid account ID or PIN"

// LoginHandler serves POST /auth/login.
//
// Declined logins are well-formed business outcomes and answer 200 with
// success:false in the body. Only malformed requests get a 4xx.
type LoginHandler struct {
	AuthService *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if req.AccountID == "" || !service.ValidPINFormat(req.Pin) {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Account ID and a 4-digit PIN are required"})
		return
	}

	result, err := h.AuthService.Login(ctx, req.AccountID, req.Pin, req.DeviceInfo.Fingerprint)
	if err != nil {
		var locked *service.LockedError
		var invalid *service.InvalidCredentialsError

		switch {
		case errors.Is(err, service.ErrMalformedPIN):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Account ID and a 4-digit PIN are required"})
		case errors.As(err, &locked):
			zero := uint(0)
			httpx.WriteJSON(w, http.StatusOK, loginResponse{
				Error:             "Account locked. Try again later.",
				AttemptsRemaining: &zero,
				LockoutUntil:      &locked.Until,
			})
		case errors.As(err, &invalid):
			remaining := invalid.AttemptsRemaining
			httpx.WriteJSON(w, http.StatusOK, loginResponse{
				Error:             invalidCredentialsMessage,
				AttemptsRemaining: &remaining,
			})
		default:
			log.Error("login failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		}
		return
	}

	setAuthCookie(w, result.Tokens.AccessToken)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		User: &userPayload{
			ID:          result.Account.ID,
			DisplayName: result.Account.DisplayName,
			IsDemo:      result.Account.Demo,
			IsPremium:   result.Account.Premium,
		},
		Tokens: &tokensPayload{
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
		},
	})
}
