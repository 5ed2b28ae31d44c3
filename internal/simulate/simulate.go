// Package simulate plays many independent bot games in parallel and
// summarises the outcomes.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"
	"github.com/shopspring/decimal"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/bot"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

const (
	MaxGames          = 100000
	DefaultMaxRounds  = 500
	DefaultAccuracy   = 0.75
	rateDecimalPlaces = 4
	recordFlushSize   = 64
)

// Request describes a simulation batch.
type Request struct {
	Mode    game.Mode `json:"mode"`
	Players int       `json:"players"`
	Games   int       `json:"games"`
	// Accuracy is the random bot's chance of answering correctly.
	// Nil means DefaultAccuracy. Ignored when Script is set.
	Accuracy *float64 `json:"accuracy,omitempty"`
	// Script is JavaScript source for a scripted bot seated in every chair.
	Script string `json:"script,omitempty"`
	// ServerSeed and ClientSeed make the batch reproducible: game i draws
	// from the stream at nonce i. Both empty means entropy.
	ServerSeed string `json:"serverSeed,omitempty"`
	ClientSeed string `json:"clientSeed,omitempty"`
	MaxRounds  int    `json:"maxRounds,omitempty"`
	TimeoutMs  int    `json:"timeoutMs,omitempty"`
	// Record stores every game and its turns when the runner has a history
	// database.
	Record bool `json:"record,omitempty"`
}

// Outcome is the result of one simulated game.
type Outcome struct {
	Index  int    `json:"index"`
	GameID string `json:"gameId,omitempty"`
	game.Result
	Error string `json:"error,omitempty"`
	// ScriptLogs holds the bot script's log() output for a failed game.
	ScriptLogs []bot.LogEntry `json:"scriptLogs,omitempty"`
}

// Summary contains aggregate statistics
type Summary struct {
	Games        int                     `json:"games"`
	Completed    int                     `json:"completed"`
	RoundLimited int                     `json:"roundLimited"`
	Failed       int                     `json:"failed"`
	WinsBySeat   map[int]int             `json:"winsBySeat"`
	WinRates     map[int]decimal.Decimal `json:"winRates"`
	MinRounds    int                     `json:"minRounds"`
	MaxRounds    int                     `json:"maxRounds"`
	RoundLimit   int                     `json:"roundLimit"`
	MeanRounds   decimal.Decimal         `json:"meanRounds"`
	MeanTurns    decimal.Decimal         `json:"meanTurns"`
	TimedOut     bool                    `json:"timedOut,omitempty"`
	ElapsedMs    int64                   `json:"elapsedMs"`
}

// Runner plays simulation batches across a pool of workers.
type Runner struct {
	workerCount int
	questions   map[trivia.Pool][]trivia.Question
	history     store.DB
	maxRounds   int
	logger      *log.Logger
}

// NewRunner creates a runner. Pools missing from questions use the
// built-in fallback questions. workers <= 0 means GOMAXPROCS.
func NewRunner(questions map[trivia.Pool][]trivia.Question, workers int, logger *log.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	pools := make(map[trivia.Pool][]trivia.Question, len(trivia.Pools))
	for _, p := range trivia.Pools {
		if qs := questions[p]; len(qs) > 0 {
			pools[p] = qs
		} else {
			pools[p] = trivia.Fallback()
		}
	}
	return &Runner{workerCount: workers, questions: pools, logger: logger}
}

// WithHistory makes the runner store games of requests that set Record.
func (r *Runner) WithHistory(db store.DB) *Runner {
	r.history = db
	return r
}

// WithMaxRounds sets the round limit used by requests that leave MaxRounds
// unset. Without it DefaultMaxRounds applies.
func (r *Runner) WithMaxRounds(n int) *Runner {
	r.maxRounds = n
	return r
}

// Validate checks req and fills defaults.
func (req *Request) Validate() error {
	if !req.Mode.Valid() {
		return fmt.Errorf("%w: %d", game.ErrInvalidMode, int(req.Mode))
	}
	if err := game.ValidatePlayers(req.Players); err != nil {
		return err
	}
	if req.Games < 1 || req.Games > MaxGames {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidGames, req.Games, MaxGames)
	}
	if req.Accuracy != nil && (*req.Accuracy < 0 || *req.Accuracy > 1) {
		return fmt.Errorf("%w: %v", ErrInvalidAccuracy, *req.Accuracy)
	}
	if req.MaxRounds <= 0 {
		req.MaxRounds = DefaultMaxRounds
	}
	return nil
}

func (req *Request) accuracy() float64 {
	if req.Accuracy == nil {
		return DefaultAccuracy
	}
	return *req.Accuracy
}

// Run plays req.Games games and returns the summary. onGame, when non-nil,
// is called from a single goroutine for every finished game.
func (r *Runner) Run(ctx context.Context, req Request, onGame func(Outcome)) (*Summary, error) {
	if req.MaxRounds <= 0 {
		req.MaxRounds = r.maxRounds
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Record && r.history == nil {
		return nil, ErrNoHistory
	}

	var prog *goja.Program
	if req.Script != "" {
		var err error
		if prog, err = bot.Compile("bot.js", req.Script); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
		}
		// Fail fast on scripts that compile but do not define answer().
		if _, err := bot.NewScript(prog); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
		}
	}

	runCtx := ctx
	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	workers := min(r.workerCount, req.Games)
	start := time.Now()
	r.logger.Printf("simulation_started mode=%s players=%d games=%d workers=%d scripted=%t",
		req.Mode, req.Players, req.Games, workers, prog != nil)

	jobs := make(chan int, workers*2)
	results := make(chan Outcome, workers*2)
	var played uint64
	var wg sync.WaitGroup

	var history store.DB
	if req.Record {
		history = r.history
	}
	for i := 0; i < workers; i++ {
		w := &worker{
			history: history,
			jobs:    jobs,
			results: results,
			req:     req,
			prog:    prog,
			pools:   r.questions,
			played:  &played,
			logger:  r.logger,
		}
		wg.Add(1)
		go w.run(runCtx, &wg)
	}
	go generateJobs(runCtx, jobs, req.Games)
	go func() {
		wg.Wait()
		close(results)
	}()

	c := newCollector(req.Games, req.Players)
	for out := range results {
		c.add(out)
		if onGame != nil {
			onGame(out)
		}
	}

	summary := c.summary()
	summary.RoundLimit = req.MaxRounds
	summary.ElapsedMs = time.Since(start).Milliseconds()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	summary.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)

	r.logger.Printf("simulation_finished played=%d completed=%d round_limited=%d failed=%d timed_out=%t elapsed_ms=%d",
		atomic.LoadUint64(&played), summary.Completed, summary.RoundLimited, summary.Failed,
		summary.TimedOut, summary.ElapsedMs)
	return summary, nil
}

func generateJobs(ctx context.Context, jobs chan<- int, n int) {
	defer close(jobs)
	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			return
		}
	}
}

type worker struct {
	jobs    <-chan int
	results chan<- Outcome
	req     Request
	prog    *goja.Program
	pools   map[trivia.Pool][]trivia.Question
	history store.DB
	played  *uint64
	logger  *log.Logger
}

func (w *worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case idx, ok := <-w.jobs:
			if !ok {
				return
			}
			out := w.play(ctx, idx)
			if ctx.Err() != nil {
				return
			}
			atomic.AddUint64(w.played, 1)
			select {
			case w.results <- out:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *worker) rng(idx int) (engine.RNG, error) {
	if w.req.ServerSeed != "" || w.req.ClientSeed != "" {
		return engine.NewStreamRNG(w.req.ServerSeed, w.req.ClientSeed, uint64(idx)), nil
	}
	return engine.NewEntropyRNG()
}

func (w *worker) prompter(rng engine.RNG) (game.Prompter, error) {
	if w.prog != nil {
		return bot.NewScript(w.prog)
	}
	return bot.NewRandom(w.req.accuracy(), rng), nil
}

func (w *worker) play(ctx context.Context, idx int) Outcome {
	out := Outcome{Index: idx}
	rng, err := w.rng(idx)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	prompter, err := w.prompter(rng)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	opts := game.Options{
		Mode:      w.req.Mode,
		Players:   w.req.Players,
		RNG:       rng,
		Questions: trivia.NewBank(w.pools, rng),
		Prompter:  prompter,
		MaxRounds: w.req.MaxRounds,
	}
	if w.history != nil {
		if err := w.beginRecord(rng, &opts, &out); err != nil {
			out.Error = err.Error()
			return out
		}
	}

	e, err := game.NewEngine(opts)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	_, err = e.Run(ctx)
	out.Result = e.Result()
	if err != nil && !errors.Is(err, game.ErrRoundLimit) {
		out.Error = err.Error()
		if script, ok := prompter.(*bot.Script); ok {
			out.ScriptLogs = script.Logs()
		}
		return out
	}

	if out.GameID != "" {
		if err := w.history.FinishGame(out.GameID, out.Result); err != nil {
			w.logger.Printf("simulation_record_failed game_id=%s error=%v", out.GameID, err)
			out.Error = err.Error()
		}
	}
	return out
}

// beginRecord generates the board up front so it can be stored with the
// game row, then attaches a turn recorder to opts.
func (w *worker) beginRecord(rng engine.RNG, opts *game.Options, out *Outcome) error {
	b, err := board.Generate(rng, opts.Mode.WinDistance(), opts.Mode.Branching())
	if err != nil {
		return err
	}
	boardJSON, err := store.BoardJSON(b)
	if err != nil {
		return err
	}
	g := &store.Game{Mode: opts.Mode, Players: opts.Players, Source: store.SourceSimulation, BoardJSON: boardJSON}
	if err := w.history.CreateGame(g); err != nil {
		return err
	}
	opts.Board = b
	opts.Recorder = store.NewTurnRecorder(w.history, g.ID, recordFlushSize, w.logger)
	out.GameID = g.ID
	return nil
}

type collector struct {
	games      int
	players    int
	completed  int
	limited    int
	failed     int
	wins       map[int]int
	minRounds  int
	maxRounds  int
	sumRounds  int64
	sumTurns   int64
	roundCount int64
}

func newCollector(games, players int) *collector {
	return &collector{games: games, players: players, wins: make(map[int]int)}
}

func (c *collector) add(out Outcome) {
	if out.Error != "" {
		c.failed++
		return
	}
	if out.RoundLimited {
		c.limited++
	} else {
		c.completed++
		c.wins[out.WinnerID]++
	}
	if c.roundCount == 0 || out.Rounds < c.minRounds {
		c.minRounds = out.Rounds
	}
	if out.Rounds > c.maxRounds {
		c.maxRounds = out.Rounds
	}
	c.sumRounds += int64(out.Rounds)
	c.sumTurns += int64(out.Turns)
	c.roundCount++
}

func (c *collector) summary() *Summary {
	s := &Summary{
		Games:        c.games,
		Completed:    c.completed,
		RoundLimited: c.limited,
		Failed:       c.failed,
		WinsBySeat:   make(map[int]int, c.players),
		WinRates:     make(map[int]decimal.Decimal, c.players),
		MinRounds:    c.minRounds,
		MaxRounds:    c.maxRounds,
		MeanRounds:   decimal.Zero,
		MeanTurns:    decimal.Zero,
	}
	finished := decimal.NewFromInt(int64(c.completed + c.limited))
	for seat := 1; seat <= c.players; seat++ {
		s.WinsBySeat[seat] = c.wins[seat]
		rate := decimal.Zero
		if !finished.IsZero() {
			rate = decimal.NewFromInt(int64(c.wins[seat])).DivRound(finished, rateDecimalPlaces)
		}
		s.WinRates[seat] = rate
	}
	if c.roundCount > 0 {
		n := decimal.NewFromInt(c.roundCount)
		s.MeanRounds = decimal.NewFromInt(c.sumRounds).DivRound(n, 2)
		s.MeanTurns = decimal.NewFromInt(c.sumTurns).DivRound(n, 2)
	}
	return s
}
