// Package store keeps the question bank and an append-only history of
// finished games in SQLite.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

// ErrNotFound indicates a missing game.
var ErrNotFound = errors.New("not found")

// Game sources.
const (
	SourceConsole    = "console"
	SourceSimulation = "simulation"
)

// DB represents the database interface
type DB interface {
	Close() error
	Migrate() error

	ImportQuestions(pool trivia.Pool, questions []trivia.Question) (int, error)
	Questions(ctx context.Context, pool trivia.Pool) ([]trivia.Question, error)

	CreateGame(g *Game) error
	FinishGame(id string, res game.Result) error
	InsertTurns(gameID string, turns []game.TurnRecord) error
	GetGame(id string) (*Game, error)
	GetTurns(gameID string) ([]Turn, error)
	ListGames(query GamesQuery) (*GamesList, error)
}

// Game is one played or simulated game.
type Game struct {
	ID           string     `json:"id"`
	Mode         game.Mode  `json:"mode"`
	Players      int        `json:"players"`
	Source       string     `json:"source"`
	WinnerID     *int       `json:"winnerId,omitempty"`
	Rounds       int        `json:"rounds"`
	Turns        int        `json:"turns"`
	RoundLimited bool       `json:"roundLimited"`
	BoardJSON    string     `json:"board"`
	CreatedAt    time.Time  `json:"createdAt"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
}

// Turn is a stored turn record.
type Turn struct {
	ID     int64  `json:"id"`
	GameID string `json:"gameId"`
	game.TurnRecord
}

// GamesQuery represents query parameters for listing games
type GamesQuery struct {
	Mode    game.Mode `json:"mode,omitempty"`
	Page    int       `json:"page"`
	PerPage int       `json:"perPage"`
}

// GamesList represents paginated games response
type GamesList struct {
	Games      []Game `json:"games"`
	TotalCount int    `json:"totalCount"`
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	TotalPages int    `json:"totalPages"`
}
