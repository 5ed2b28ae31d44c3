package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/tiles"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

var (
	// ErrGameOver is returned by Step once the game has ended.
	ErrGameOver = errors.New("game is over")
	// ErrRoundLimit ends a game that reached Options.MaxRounds without a winner.
	ErrRoundLimit = errors.New("round limit reached")
	// ErrNoQuestions indicates a missing question source.
	ErrNoQuestions = errors.New("question source required")
	// ErrNoPrompter indicates a missing prompter.
	ErrNoPrompter = errors.New("prompter required")
	// ErrBoardSize rejects a supplied board whose length is not the mode's
	// win distance.
	ErrBoardSize = errors.New("board size does not match mode")
)

// State is a node of the turn state machine.
type State string

const (
	StateIdle             State = "idle"
	StatePlayerTurnStart  State = "player_turn_start"
	StateQuestionGate     State = "question_gate"
	StateEffectResolution State = "effect_resolution"
	StatePostMoveCheck    State = "post_move_check"
	StateRoundAdvance     State = "round_advance"
	StateGameOver         State = "game_over"
)

// Prompter supplies every player decision: answers to questions plus the
// fork and target choices tile effects ask for.
type Prompter interface {
	tiles.Chooser
	Answer(ctx context.Context, p *player.Player, q trivia.Question) (string, error)
}

// Renderer draws the board before each round. Optional.
type Renderer interface {
	Render(b *board.Board, players []*player.Player)
}

// TurnRecorder receives one record per finished turn for history storage.
// Optional; Flush is called when the game ends.
type TurnRecorder interface {
	RecordTurn(rec TurnRecord)
	Flush() error
}

// TurnRecord summarises one player's turn.
type TurnRecord struct {
	Round          int         `json:"round"`
	PlayerID       int         `json:"playerId"`
	Skipped        bool        `json:"skipped"`
	Roll           int         `json:"roll"`
	Pool           trivia.Pool `json:"pool,omitempty"`
	Correct        bool        `json:"correct"`
	Tile           board.Kind  `json:"tile,omitempty"`
	Delta          int         `json:"delta"`
	PositionBefore int         `json:"positionBefore"`
	PositionAfter  int         `json:"positionAfter"`
}

// Options configures a new Engine. Mode, Players, Questions and Prompter are
// required.
type Options struct {
	Mode      Mode
	Players   int
	Questions trivia.Source
	Prompter  Prompter

	// Board overrides the generated board.
	Board *board.Board
	// RNG defaults to an entropy-seeded source.
	RNG      engine.RNG
	Renderer Renderer
	Events   event.Emitter
	Recorder TurnRecorder
	Logger   *log.Logger
	// MaxRounds stops the game with ErrRoundLimit after that many rounds.
	// Zero means no limit.
	MaxRounds int
}

// Result is the outcome of a finished game.
type Result struct {
	Mode         Mode `json:"mode"`
	Players      int  `json:"players"`
	WinnerID     int  `json:"winnerId,omitempty"`
	Rounds       int  `json:"rounds"`
	Turns        int  `json:"turns"`
	RoundLimited bool `json:"roundLimited"`
}

// Engine is the turn state machine for one game. It is not safe for
// concurrent use; every game owns its own Engine.
type Engine struct {
	mode      Mode
	board     *board.Board
	players   []*player.Player
	rng       engine.RNG
	questions trivia.Source
	prompter  Prompter
	renderer  Renderer
	events    event.Emitter
	recorder  TurnRecorder
	logger    *log.Logger
	maxRounds int

	state   State
	round   int
	current int
	turns   int
	turn    TurnRecord
	winner  *player.Player
	limited bool
}

// NewEngine validates opts, generates the board when none is given and
// seats the players at position 0.
func NewEngine(opts Options) (*Engine, error) {
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(opts.Mode))
	}
	if err := ValidatePlayers(opts.Players); err != nil {
		return nil, err
	}
	if opts.Questions == nil {
		return nil, ErrNoQuestions
	}
	if opts.Prompter == nil {
		return nil, ErrNoPrompter
	}

	rng := opts.RNG
	if rng == nil {
		var err error
		if rng, err = engine.NewEntropyRNG(); err != nil {
			return nil, err
		}
	}

	b := opts.Board
	if b != nil && b.Size() != opts.Mode.WinDistance() {
		return nil, fmt.Errorf("%w: %s needs %d tiles, got %d", ErrBoardSize, opts.Mode, opts.Mode.WinDistance(), b.Size())
	}
	if b == nil {
		var err error
		b, err = board.Generate(rng, opts.Mode.WinDistance(), opts.Mode.Branching())
		if err != nil {
			return nil, fmt.Errorf("generate board: %w", err)
		}
	}

	events := opts.Events
	if events == nil {
		events = event.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Engine{
		mode:      opts.Mode,
		board:     b,
		players:   player.NewRoster(opts.Players, opts.Mode.WinDistance()),
		rng:       rng,
		questions: opts.Questions,
		prompter:  opts.Prompter,
		renderer:  opts.Renderer,
		events:    events,
		recorder:  opts.Recorder,
		logger:    logger,
		maxRounds: opts.MaxRounds,
		state:     StateIdle,
	}, nil
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Round returns the 1-based round number, 0 before the game starts.
func (e *Engine) Round() int { return e.round }

// Board returns the game board.
func (e *Engine) Board() *board.Board { return e.board }

// Players returns the seated players in id order.
func (e *Engine) Players() []*player.Player { return e.players }

// Mode returns the difficulty mode.
func (e *Engine) Mode() Mode { return e.mode }

// Current returns the player whose turn it is.
func (e *Engine) Current() *player.Player { return e.players[e.current] }

// Winner returns the winning player, or nil.
func (e *Engine) Winner() *player.Player { return e.winner }

// Result summarises the game so far.
func (e *Engine) Result() Result {
	r := Result{
		Mode:         e.mode,
		Players:      len(e.players),
		Rounds:       e.round,
		Turns:        e.turns,
		RoundLimited: e.limited,
	}
	if e.winner != nil {
		r.WinnerID = e.winner.ID
	}
	return r
}

// Run steps the machine until the game ends and returns the winner. A game
// stopped by MaxRounds returns ErrRoundLimit and no winner.
func (e *Engine) Run(ctx context.Context) (*player.Player, error) {
	for e.state != StateGameOver {
		if err := e.Step(ctx); err != nil {
			return nil, err
		}
	}
	return e.winner, nil
}

// Step performs exactly one state transition. Prompts block inside Step;
// ctx is checked before each transition.
func (e *Engine) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch e.state {
	case StateIdle:
		return e.start()
	case StatePlayerTurnStart:
		return e.turnStart()
	case StateQuestionGate:
		return e.questionGate(ctx)
	case StateEffectResolution:
		return e.effectResolution(ctx)
	case StatePostMoveCheck:
		return e.postMoveCheck()
	case StateRoundAdvance:
		return e.roundAdvance()
	case StateGameOver:
		return ErrGameOver
	}
	return fmt.Errorf("unknown state %q", e.state)
}

func (e *Engine) start() error {
	e.logger.Printf("game_started mode=%s players=%d board_size=%d forks=%d",
		e.mode, len(e.players), e.board.Size(), len(e.board.ForkIndices()))
	e.emit(event.GameStarted, 0, "Starting game with %d player(s).", len(e.players))
	e.emit(event.GameStarted, 0, "Difficulty: %s. Win at %d tiles.", e.mode, e.mode.WinDistance())
	e.round = 1
	e.current = 0
	e.beginRound()
	e.state = StatePlayerTurnStart
	return nil
}

func (e *Engine) beginRound() {
	if e.renderer != nil {
		e.renderer.Render(e.board, e.players)
	}
	e.emit(event.RoundStarted, 0, "Round %d", e.round)
}

func (e *Engine) turnStart() error {
	p := e.Current()
	e.turn = TurnRecord{Round: e.round, PlayerID: p.ID, PositionBefore: p.Position}

	if p.SkipNext {
		p.SkipNext = false
		e.turn.Skipped = true
		e.emit(event.TurnSkipped, p.ID, "Player %d skips this turn.", p.ID)
		return e.endTurn(StateRoundAdvance)
	}

	roll := engine.IntRange(e.rng, 1, DiceSides)
	p.LastRoll = roll
	e.turn.Roll = roll
	e.emit(event.Rolled, p.ID, "Player %d rolled: %d", p.ID, roll)
	e.emit(event.Rolled, p.ID, "Answer correctly to move!")
	e.state = StateQuestionGate
	return nil
}

func (e *Engine) questionGate(ctx context.Context) error {
	p := e.Current()
	pool := SelectPool(e.mode, p.Position)
	e.turn.Pool = pool

	q, err := e.questions.Question(ctx, pool)
	if err != nil {
		return fmt.Errorf("question for pool %s: %w", pool, err)
	}
	answer, err := e.prompter.Answer(ctx, p, q)
	if err != nil {
		return fmt.Errorf("answer from player %d: %w", p.ID, err)
	}

	if !trivia.Check(q, answer) {
		e.emit(event.AnswerIncorrect, p.ID, "Incorrect. Player %d stays at %d.", p.ID, p.Position)
		return e.endTurn(StateRoundAdvance)
	}
	e.turn.Correct = true
	e.state = StateEffectResolution
	return nil
}

func (e *Engine) effectResolution(ctx context.Context) error {
	p := e.Current()
	if tile, ok := e.board.At(p.Position); ok {
		e.turn.Tile = tile.Kind
	}

	delta, err := tiles.Resolve(ctx, &tiles.Turn{
		Board:   e.board,
		Player:  p,
		Roll:    e.turn.Roll,
		Players: e.players,
		RNG:     e.rng,
		Chooser: e.prompter,
		Events:  e.events,
		Round:   e.round,
	})
	if err != nil {
		return fmt.Errorf("resolve tile for player %d: %w", p.ID, err)
	}
	if delta != 0 {
		p.Move(delta)
	}
	e.turn.Delta = delta

	if tile, ok := e.board.At(p.Position); ok {
		e.emit(event.Landed, p.ID, "Tile: %s → Player %d at position %d.",
			strings.ToUpper(string(tile.Kind)), p.ID, p.Position)
	} else {
		e.emit(event.Landed, p.ID, "Player %d at position %d.", p.ID, p.Position)
	}
	e.state = StatePostMoveCheck
	return nil
}

// postMoveCheck ends the game on the first player at or past the win
// distance. The acting player is checked first; a player carried over the
// line by the acting player's effect wins next, lowest id first.
func (e *Engine) postMoveCheck() error {
	p := e.Current()
	var winner *player.Player
	if p.HasWon() {
		winner = p
	} else {
		for _, other := range e.players {
			if other.HasWon() {
				winner = other
				break
			}
		}
	}
	if winner == nil {
		return e.endTurn(StateRoundAdvance)
	}

	e.winner = winner
	e.emit(event.Won, winner.ID, "🏆 Player %d wins at position %d!", winner.ID, winner.Position)
	e.logger.Printf("game_over winner=%d rounds=%d turns=%d", winner.ID, e.round, e.turns+1)
	return e.endTurn(StateGameOver)
}

func (e *Engine) roundAdvance() error {
	e.current++
	if e.current < len(e.players) {
		e.state = StatePlayerTurnStart
		return nil
	}

	e.current = 0
	if e.maxRounds > 0 && e.round >= e.maxRounds {
		e.limited = true
		e.state = StateGameOver
		e.logger.Printf("game_round_limit rounds=%d turns=%d", e.round, e.turns)
		if err := e.flush(); err != nil {
			return err
		}
		return ErrRoundLimit
	}
	e.round++
	e.beginRound()
	e.state = StatePlayerTurnStart
	return nil
}

// endTurn closes the current turn record and moves to next.
func (e *Engine) endTurn(next State) error {
	e.turn.PositionAfter = e.Current().Position
	e.turns++
	if e.recorder != nil {
		e.recorder.RecordTurn(e.turn)
	}
	e.state = next
	if next == StateGameOver {
		return e.flush()
	}
	return nil
}

func (e *Engine) flush() error {
	if e.recorder == nil {
		return nil
	}
	if err := e.recorder.Flush(); err != nil {
		return fmt.Errorf("flush turn history: %w", err)
	}
	return nil
}

func (e *Engine) emit(kind event.Kind, playerID int, format string, args ...any) {
	e.events.Emit(event.Event{
		Kind:     kind,
		PlayerID: playerID,
		Round:    e.round,
		Message:  fmt.Sprintf(format, args...),
	})
}
