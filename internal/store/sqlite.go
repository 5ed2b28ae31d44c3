package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

const defaultPerPage = 50

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens the database at path (":memory:" included). Pragmas go
// in the DSN so every pooled connection gets them.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pool TEXT NOT NULL,
			prompt TEXT NOT NULL,
			answer TEXT NOT NULL,
			UNIQUE (pool, prompt)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_pool ON questions(pool)`,
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			mode INTEGER NOT NULL,
			players INTEGER NOT NULL,
			source TEXT NOT NULL DEFAULT 'console',
			winner_id INTEGER,
			rounds INTEGER NOT NULL DEFAULT 0,
			turns INTEGER NOT NULL DEFAULT 0,
			round_limited INTEGER NOT NULL DEFAULT 0,
			board_json TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			skipped INTEGER NOT NULL DEFAULT 0,
			roll INTEGER NOT NULL DEFAULT 0,
			pool TEXT NOT NULL DEFAULT '',
			correct INTEGER NOT NULL DEFAULT 0,
			tile TEXT NOT NULL DEFAULT '',
			delta INTEGER NOT NULL DEFAULT 0,
			position_before INTEGER NOT NULL,
			position_after INTEGER NOT NULL,
			FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_game ON turns(game_id, id)`,
		`CREATE INDEX IF NOT EXISTS idx_games_created_at ON games(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_games_mode_created ON games(mode, created_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// ImportQuestions adds questions to pool, skipping prompts already stored
// for that pool. It returns how many rows were inserted.
func (s *SQLiteDB) ImportQuestions(pool trivia.Pool, questions []trivia.Question) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO questions (pool, prompt, answer) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, q := range questions {
		res, err := stmt.Exec(string(pool), q.Prompt, q.Answer)
		if err != nil {
			return 0, fmt.Errorf("insert question %q: %w", q.Prompt, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return inserted, nil
}

// Questions returns every stored question for pool.
func (s *SQLiteDB) Questions(ctx context.Context, pool trivia.Pool) ([]trivia.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt, answer FROM questions WHERE pool = ? ORDER BY id`, string(pool))
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var out []trivia.Question
	for rows.Next() {
		var q trivia.Question
		if err := rows.Scan(&q.Prompt, &q.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// CreateGame inserts a game row, assigning an id when empty.
func (s *SQLiteDB) CreateGame(g *Game) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Source == "" {
		g.Source = SourceConsole
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO games (id, mode, players, source, board_json, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, int(g.Mode), g.Players, g.Source, g.BoardJSON, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// FinishGame stores the outcome of a game.
func (s *SQLiteDB) FinishGame(id string, res game.Result) error {
	var winner any
	if res.WinnerID > 0 {
		winner = res.WinnerID
	}
	result, err := s.db.Exec(
		`UPDATE games SET winner_id = ?, rounds = ?, turns = ?, round_limited = ?, ended_at = ? WHERE id = ?`,
		winner, res.Rounds, res.Turns, res.RoundLimited, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finish game: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("finish game %s: %w", id, ErrNotFound)
	}
	return nil
}

// InsertTurns records turns for a game in a single transaction.
func (s *SQLiteDB) InsertTurns(gameID string, turns []game.TurnRecord) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO turns (
		game_id, round, player_id, skipped, roll, pool, correct, tile, delta, position_before, position_after
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range turns {
		_, err := stmt.Exec(gameID, t.Round, t.PlayerID, t.Skipped, t.Roll, string(t.Pool),
			t.Correct, string(t.Tile), t.Delta, t.PositionBefore, t.PositionAfter)
		if err != nil {
			return fmt.Errorf("insert turn round %d player %d: %w", t.Round, t.PlayerID, err)
		}
	}
	return tx.Commit()
}

const gameColumns = `id, mode, players, source, winner_id, rounds, turns, round_limited, board_json, created_at, ended_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*Game, error) {
	var g Game
	var mode int
	var winner sql.NullInt64
	var ended sql.NullTime
	if err := row.Scan(&g.ID, &mode, &g.Players, &g.Source, &winner, &g.Rounds, &g.Turns,
		&g.RoundLimited, &g.BoardJSON, &g.CreatedAt, &ended); err != nil {
		return nil, err
	}
	g.Mode = game.Mode(mode)
	if winner.Valid {
		w := int(winner.Int64)
		g.WinnerID = &w
	}
	if ended.Valid {
		g.EndedAt = &ended.Time
	}
	return &g, nil
}

// GetGame retrieves a game by ID
func (s *SQLiteDB) GetGame(id string) (*Game, error) {
	g, err := scanGame(s.db.QueryRow(`SELECT `+gameColumns+` FROM games WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

// GetTurns returns every turn of a game in play order.
func (s *SQLiteDB) GetTurns(gameID string) ([]Turn, error) {
	rows, err := s.db.Query(`SELECT id, game_id, round, player_id, skipped, roll, pool, correct,
		tile, delta, position_before, position_after FROM turns WHERE game_id = ? ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var pool, tile string
		if err := rows.Scan(&t.ID, &t.GameID, &t.Round, &t.PlayerID, &t.Skipped, &t.Roll, &pool,
			&t.Correct, &tile, &t.Delta, &t.PositionBefore, &t.PositionAfter); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if pool != "" {
			p, err := trivia.ParsePool(pool)
			if err != nil {
				return nil, fmt.Errorf("turn %d: %w", t.ID, err)
			}
			t.Pool = p
		}
		t.Tile = board.Kind(tile)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ListGames retrieves games with pagination and filtering
func (s *SQLiteDB) ListGames(query GamesQuery) (*GamesList, error) {
	whereClause := ""
	args := []any{}
	if query.Mode != 0 {
		whereClause = "WHERE mode = ?"
		args = append(args, int(query.Mode))
	}

	var totalCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM games "+whereClause, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if query.PerPage <= 0 {
		query.PerPage = defaultPerPage
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	totalPages := (totalCount + query.PerPage - 1) / query.PerPage
	offset := (query.Page - 1) * query.PerPage

	args = append(args, query.PerPage, offset)
	rows, err := s.db.Query(`SELECT `+gameColumns+` FROM games `+whereClause+`
		ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return &GamesList{
		Games:      games,
		TotalCount: totalCount,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}

// BoardJSON serialises a board for the games table.
func BoardJSON(b *board.Board) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal board: %w", err)
	}
	return string(data), nil
}
