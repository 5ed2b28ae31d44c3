package api

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/tiles"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse represents a comprehensive health check response
type HealthCheckResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   VersionInfo            `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]HealthCheck `json:"checks"`
	System    SystemInfo             `json:"system"`
	RequestID string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked string       `json:"last_checked"`
	Duration    string       `json:"duration,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	GOMAXPROCS    int    `json:"gomaxprocs"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
}

// handleHealthCheck provides comprehensive health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]HealthCheck{
		"tiles":    s.checkTiles(),
		"database": s.checkDatabase(),
	}

	overall := HealthStatusHealthy
	for _, c := range checks {
		switch c.Status {
		case HealthStatusUnhealthy:
			overall = HealthStatusUnhealthy
		case HealthStatusDegraded:
			if overall == HealthStatusHealthy {
				overall = HealthStatusDegraded
			}
		}
	}

	status := http.StatusOK
	if overall == HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, HealthCheckResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   GetVersionInfo(),
		Uptime:    time.Since(s.startTime).String(),
		Checks:    checks,
		System:    systemInfo(),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// handleLiveness responds whenever the server is running
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"alive":      true,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"uptime":     time.Since(s.startTime).String(),
		"request_id": middleware.GetReqID(r.Context()),
	})
}

// checkTiles verifies every non-fork tile kind has a registered effect.
func (s *Server) checkTiles() HealthCheck {
	start := time.Now()
	missing := 0
	for _, k := range board.Kinds {
		if k == board.Fork {
			continue
		}
		if _, ok := tiles.GetEffect(k); !ok {
			missing++
		}
	}
	hc := HealthCheck{
		Status:  HealthStatusHealthy,
		Message: fmt.Sprintf("%d tile effects, %d modes", len(tiles.ListEffects()), len(game.Modes)),
	}
	if missing > 0 {
		hc.Status = HealthStatusUnhealthy
		hc.Message = fmt.Sprintf("%d tile kinds have no effect", missing)
	}
	return finishCheck(hc, start)
}

// checkDatabase probes the history database. A server without one is
// degraded, not unhealthy.
func (s *Server) checkDatabase() HealthCheck {
	start := time.Now()
	if s.db == nil {
		return finishCheck(HealthCheck{Status: HealthStatusDegraded, Message: "Database not configured"}, start)
	}
	if _, err := s.db.ListGames(store.GamesQuery{Page: 1, PerPage: 1}); err != nil {
		return finishCheck(HealthCheck{Status: HealthStatusUnhealthy, Message: err.Error()}, start)
	}
	return finishCheck(HealthCheck{Status: HealthStatusHealthy, Message: "Database connection healthy"}, start)
}

func finishCheck(hc HealthCheck, start time.Time) HealthCheck {
	hc.LastChecked = time.Now().UTC().Format(time.RFC3339)
	hc.Duration = time.Since(start).String()
	return hc
}

func systemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		MemoryAlloc:   m.Alloc,
	}
}
