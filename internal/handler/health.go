package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// readinessTimeout bounds the store ping of /readyz
const readinessTimeout = 2 * time.Second

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Pinger is anything that can report whether its backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthStatusOK})
	}
}

// HandleReadyz reports whether the character store is reachable
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.FromContext(ctx).Error(LogMsgReadinessFailed, "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  HealthStatusUnavailable,
				Message: HealthMsgStoreFailed,
			})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthStatusOK})
	}
}

// HandleVersion returns the running build
func HandleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionInfo{Version: version, GoVersion: runtime.Version()})
	}
}
