// Command trivia-adventure runs the interactive console game.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/cli"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/config"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/render"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("trivia-adventure: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, nil); err != nil {
		config.Exitf("trivia-adventure: %v", err)
	}
}

// consoleFlushSize writes each turn as it is played, so an interrupted game
// loses nothing.
const consoleFlushSize = 1

// run plays one game on in/out. rng may be nil for entropy. Cancelling ctx
// ends the game like end of input.
func run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer, rng engine.RNG) error {
	quiet := !cfg.Verbose
	console := cli.NewConsole(in, out)

	setup, ok, err := console.Menu(ctx)
	if err != nil || !ok {
		return err
	}

	if rng == nil {
		if rng, err = engine.NewEntropyRNG(); err != nil {
			return err
		}
	}

	gameLog := config.Logger("[GAME] ", quiet)
	opts := game.Options{
		Mode:     setup.Mode,
		Players:  setup.Players,
		RNG:      rng,
		Prompter: console,
		Renderer: render.NewConsole(out, rng),
		Events:   event.Multi(console, event.Log(gameLog)),
		Logger:   gameLog,
	}

	var h *history
	if cfg.DBPath == "" {
		opts.Questions = trivia.LoadBank(cfg.QuestionsDir, setup.Mode.Pools(), rng, config.Logger("[TRIVIA] ", quiet))
	} else {
		if h, err = openHistory(cfg, config.Logger("[STORE] ", quiet)); err != nil {
			return err
		}
		defer h.db.Close()
		if err := h.begin(&opts); err != nil {
			return err
		}
	}

	e, err := game.NewEngine(opts)
	if err != nil {
		return err
	}
	_, err = e.Run(ctx)
	if h != nil {
		h.finish(e, err)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "Goodbye!")
		return nil
	}
	return err
}

// history records a console game in the SQLite database.
type history struct {
	db     *store.SQLiteDB
	logger *log.Logger
	gameID string
	rec    *store.TurnRecorder
}

func openHistory(cfg config.Config, logger *log.Logger) (*history, error) {
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := store.ImportDir(db, cfg.QuestionsDir, trivia.Pools, logger); err != nil {
		db.Close()
		return nil, err
	}
	return &history{db: db, logger: logger}, nil
}

// begin generates the board, creates the game row and wires the question
// source and turn recorder into opts.
func (h *history) begin(opts *game.Options) error {
	b, err := board.Generate(opts.RNG, opts.Mode.WinDistance(), opts.Mode.Branching())
	if err != nil {
		return err
	}
	boardJSON, err := store.BoardJSON(b)
	if err != nil {
		return err
	}
	g := &store.Game{Mode: opts.Mode, Players: opts.Players, Source: store.SourceConsole, BoardJSON: boardJSON}
	if err := h.db.CreateGame(g); err != nil {
		return err
	}
	h.gameID = g.ID
	h.rec = store.NewTurnRecorder(h.db, g.ID, consoleFlushSize, h.logger)

	opts.Board = b
	opts.Questions = store.NewQuestionSource(h.db, opts.RNG, h.logger)
	opts.Recorder = h.rec
	return nil
}

// finish stores the result of a completed game. An abandoned game keeps
// the turns played so far and no end time.
func (h *history) finish(e *game.Engine, runErr error) {
	if runErr != nil {
		if err := h.rec.Flush(); err != nil {
			h.logger.Printf("history_flush_failed game_id=%s error=%v", h.gameID, err)
		}
		return
	}
	if err := h.db.FinishGame(h.gameID, e.Result()); err != nil {
		h.logger.Printf("history_finish_failed game_id=%s error=%v", h.gameID, err)
	}
}
