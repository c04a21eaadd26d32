package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// HealthController serves liveness and readiness checks
type HealthController struct {
	Checks  map[string]Check
	Timeout time.Duration
	Log     *slog.Logger
}

func NewHealthController(checks map[string]Check, log *slog.Logger) *HealthController {
	return &HealthController{Checks: checks, Timeout: 2 * time.Second, Log: log}
}

func (hc *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz runs every dependency check and reports 503 if any fails.
func (hc *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), hc.Timeout)
	defer cancel()

	names := make([]string, 0, len(hc.Checks))
	for name := range hc.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	for _, name := range names {
		if err := hc.Checks[name](ctx); err != nil {
			hc.Log.Warn("readiness check failed", "dependency", name, "error", err)
			body[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		body[name] = "connected"
	}
	if status != http.StatusOK {
		body["status"] = "error"
	}
	writeJSON(w, status, body)
}
