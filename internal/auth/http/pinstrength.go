package http

import (
	"encoding/json"
	"net/http"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/service"
	"github.com/Damatnic/astral-planner-sub006/pkg/httpx"
)

// PinStrengthHandler serves POST /auth/pin-strength. Advisory scoring
// for signup/settings UIs, it never touches authentication state.
type PinStrengthHandler struct{}

func (h *PinStrengthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req pinStrengthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	score := service.ScorePIN(req.Pin)
	httpx.WriteJSON(w, http.StatusOK, pinStrengthResponse{
		Score:    score,
		Strength: service.StrengthLabel(score),
	})
}
