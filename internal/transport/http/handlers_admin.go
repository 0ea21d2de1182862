package httptransport

import (
	"context"
	"net/http"

	domainerrors "samadhan/pkg/domain-errors"
)

// HealthCheck probes one backing dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	components := make(map[string]string, len(h.health))
	for _, check := range h.health {
		if err := check.Check(r.Context()); err != nil {
			components[check.Name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		components[check.Name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	writeJSON(w, status, map[string]any{"status": state, "components": components})
}

// handleReconcile triggers an on-demand repair sweep for one-sided
// member/family references.
func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	repaired, err := h.reconciler.Sweep(r.Context())
	if err != nil {
		writeError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "reconciliation sweep"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"repaired": repaired})
}
