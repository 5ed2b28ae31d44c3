// Command simulate plays a batch of bot games and prints the summary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/config"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/simulate"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

type options struct {
	mode       int
	players    int
	games      int
	accuracy   float64
	serverSeed string
	clientSeed string
	timeoutMs  int
	record     bool
	jsonOut    bool
}

func main() {
	var opts options
	fs := flag.CommandLine
	fs.IntVar(&opts.mode, "mode", int(game.Easy), "difficulty 1-4 (4 = campaign)")
	fs.IntVar(&opts.players, "players", 2, "players per game")
	fs.IntVar(&opts.games, "games", 1000, "number of games")
	fs.Float64Var(&opts.accuracy, "accuracy", simulate.DefaultAccuracy, "random bot answer accuracy")
	fs.StringVar(&opts.serverSeed, "server-seed", "", "server seed for a reproducible batch")
	fs.StringVar(&opts.clientSeed, "client-seed", "", "client seed for a reproducible batch")
	fs.IntVar(&opts.timeoutMs, "timeout-ms", 0, "stop the batch after this many milliseconds")
	fs.BoolVar(&opts.record, "record", false, "store every game in the history database")
	fs.BoolVar(&opts.jsonOut, "json", false, "print the summary as JSON")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		config.Exitf("simulate: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdout); err != nil {
		config.Exitf("simulate: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, out io.Writer) error {
	req := simulate.Request{
		Mode:       game.Mode(opts.mode),
		Players:    opts.players,
		Games:      opts.games,
		Accuracy:   &opts.accuracy,
		ServerSeed: opts.serverSeed,
		ClientSeed: opts.clientSeed,
		MaxRounds:  cfg.SimMaxRounds,
		TimeoutMs:  opts.timeoutMs,
		Record:     opts.record,
	}
	if cfg.BotScript != "" {
		src, err := os.ReadFile(cfg.BotScript)
		if err != nil {
			return fmt.Errorf("read bot script: %w", err)
		}
		req.Script = string(src)
	}

	quiet := !cfg.Verbose
	questions := trivia.LoadPools(cfg.QuestionsDir, trivia.Pools, config.Logger("[TRIVIA] ", quiet))
	runner := simulate.NewRunner(questions, cfg.SimWorkers, config.Logger("[SIM] ", quiet))

	if opts.record {
		if cfg.DBPath == "" {
			return simulate.ErrNoHistory
		}
		db, err := store.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return err
		}
		runner.WithHistory(db)
	}

	summary, err := runner.Run(ctx, req, nil)
	if err != nil {
		return err
	}
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	return printSummary(out, req, summary)
}

func printSummary(out io.Writer, req simulate.Request, s *simulate.Summary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Mode:\t%s\n", req.Mode)
	fmt.Fprintf(tw, "Players:\t%d\n", req.Players)
	fmt.Fprintf(tw, "Games:\t%d\n", s.Games)
	fmt.Fprintf(tw, "Completed:\t%d\n", s.Completed)
	fmt.Fprintf(tw, "Round limited:\t%d (limit %d)\n", s.RoundLimited, s.RoundLimit)
	if s.Failed > 0 {
		fmt.Fprintf(tw, "Failed:\t%d\n", s.Failed)
	}
	if s.TimedOut {
		fmt.Fprintf(tw, "Timed out:\tyes\n")
	}
	fmt.Fprintf(tw, "Rounds:\tmin %d, max %d, mean %s\n", s.MinRounds, s.MaxRounds, s.MeanRounds)
	fmt.Fprintf(tw, "Mean turns:\t%s\n", s.MeanTurns)
	for seat := 1; seat <= req.Players; seat++ {
		fmt.Fprintf(tw, "Player %d wins:\t%d (%s)\n", seat, s.WinsBySeat[seat], s.WinRates[seat].Shift(2).StringFixed(2)+"%")
	}
	fmt.Fprintf(tw, "Elapsed:\t%dms\n", s.ElapsedMs)
	return tw.Flush()
}
