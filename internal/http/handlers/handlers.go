package handlers

import (
	"net/http"
	"time"

	"corporate-checkout/internal/logx"
)

// Handlers serves the liveness endpoints and the JSON 404.
type Handlers struct {
	Logger  logx.Logger
	started time.Time
	now     func() time.Time
}

// New builds base handlers; a nil logger discards output.
func New(logger logx.Logger) *Handlers {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Handlers{Logger: logger, started: time.Now(), now: time.Now}
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// HealthcheckHead answers load balancer health checks with an empty 204.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Healthcheck reports process uptime, rounded to the second.
func (h *Handlers) Healthcheck(w http.ResponseWriter, r *http.Request) {
	up := h.now().Sub(h.started).Round(time.Second)
	writeJSON(h.Logger, w, r, http.StatusOK, healthResponse{Status: "ok", Uptime: up.String()})
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(h.Logger, w, r, http.StatusNotFound, "route not found")
}
