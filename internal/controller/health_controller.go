package controller

import (
	"net/http"
)

// HealthController serves liveness and readiness probes. The service holds
// no persistent connections, so readiness only asserts that the provider
// credentials were configured.
type HealthController struct {
	stripeConfigured bool
	payrixConfigured bool
}

func NewHealthController(stripeConfigured, payrixConfigured bool) *HealthController {
	return &HealthController{
		stripeConfigured: stripeConfigured,
		payrixConfigured: payrixConfigured,
	}
}

func (h *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthController) Readiness(w http.ResponseWriter, r *http.Request) {
	if !h.stripeConfigured {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "stripe credentials missing",
		})
		return
	}
	if !h.payrixConfigured {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "payrix credentials missing",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
