package api

import (
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/simulate"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/tiles"
)

// APIError represents a structured error response with context
type APIError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e APIError) Error() string {
	return e.Message
}

// Error types
const (
	ErrTypeInvalidParams      = "invalid_params"
	ErrTypeValidation         = "validation_error"
	ErrTypeGameNotFound       = "game_not_found"
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGame       ErrorCategory = "game"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeInvalidParams, ErrTypeValidation:
		return CategoryValidation
	case ErrTypeGameNotFound:
		return CategoryGame
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains build version information
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

// ModesResponse lists the difficulty modes and tile kinds.
type ModesResponse struct {
	Modes   []game.ModeSpec    `json:"modes"`
	Tiles   []tiles.EffectSpec `json:"tiles"`
	Version string             `json:"version"`
}

// BoardRequest asks for a generated board. A seed pair makes the board
// reproducible; without one the board is drawn from entropy.
type BoardRequest struct {
	Mode       game.Mode `json:"mode"`
	ServerSeed string    `json:"serverSeed,omitempty"`
	ClientSeed string    `json:"clientSeed,omitempty"`
	Nonce      uint64    `json:"nonce,omitempty"`
}

// BoardResponse is a generated board with its text rendering.
type BoardResponse struct {
	Mode         game.Mode    `json:"mode"`
	Size         int          `json:"size"`
	Branching    bool         `json:"branching"`
	Forks        []int        `json:"forks"`
	Board        *board.Board `json:"board"`
	Text         string       `json:"text"`
	Reproducible bool         `json:"reproducible"`
}

// SimulationResponse wraps a simulation summary.
type SimulationResponse struct {
	Request simulate.Request  `json:"request"`
	Summary *simulate.Summary `json:"summary"`
	Version string            `json:"version"`
}

// StreamMessage is one websocket frame of a streamed simulation.
type StreamMessage struct {
	Type    string            `json:"type"` // "game", "summary" or "error"
	Game    *simulate.Outcome `json:"game,omitempty"`
	Summary *simulate.Summary `json:"summary,omitempty"`
	Error   *APIError         `json:"error,omitempty"`
}

// GameDetail is a stored game with its turns.
type GameDetail struct {
	Game  *store.Game  `json:"game"`
	Turns []store.Turn `json:"turns"`
}
