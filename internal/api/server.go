// Package api exposes board generation, bot simulations and the game
// history over HTTP.
package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/simulate"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
)

const requestTimeout = 60 * time.Second

// Server handles HTTP requests
type Server struct {
	db           store.DB
	runner       *simulate.Runner
	errorHandler *ErrorHandler
	logger       *log.Logger
	startTime    time.Time
}

// NewServer creates a new API server. db may be nil, in which case the
// history endpoints answer 503.
func NewServer(db store.DB, runner *simulate.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if runner == nil {
		runner = simulate.NewRunner(nil, 0, logger)
	}
	s := &Server{
		db:           db,
		runner:       runner,
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
		startTime:    time.Now(),
	}
	logger.Printf("server_created database_enabled=%t version=%s", db != nil, Version)
	return s
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.errorHandler.RecoveryHandler)

	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/live", s.handleLiveness)

	r.Route("/api/v1", func(r chi.Router) {
		// The websocket stream outlives the request timeout.
		r.Get("/simulations/stream", s.handleSimulationStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/modes", s.handleModes)
			r.Post("/boards", s.handleBoard)
			r.Post("/simulations", s.handleSimulate)
			r.Get("/games", s.handleListGames)
			r.Get("/games/{id}", s.handleGetGame)
			r.Get("/games/{id}/turns.csv", s.handleExportTurns)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Printf("request method=%s path=%s status=%d duration=%s request_id=%s",
			r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Trivia-Version", Version)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("response_encode_failed error=%v", err)
	}
}
