package controllers

import (
	"io"
	"net/http"
)

// HealthController answers liveness probes.
type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// HealthCheck reports that the process is up. It deliberately checks no
// dependencies: database or provider trouble surfaces through the chat
// endpoints, not here.
func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, `{"status":"ok"}`)
}
