package http

import (
	"net/http"
	"time"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/store"
	"github.com/Damatnic/astral-planner-sub006/pkg/httpx"
	"github.com/Damatnic/astral-planner-sub006/pkg/jwtx"
)

// ReadyzHandler checks the session store and the signing keys, answering
// 503 until both are serviceable.
func ReadyzHandler(startTime time.Time, version string, st store.Store, keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
