package controllers

import (
	"net/http"
)

// HealthController answers liveness probes without touching any dependency.
type HealthController struct{}

func (hc *HealthController) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func NewHealthController() *HealthController {
	return &HealthController{}
}
