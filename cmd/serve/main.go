// Command serve runs the HTTP API: board previews, bot simulations and
// the game history.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/api"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/config"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/simulate"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("serve: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		config.Exitf("serve: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	apiLog := config.Logger("[API] ", false)
	storeLog := config.Logger("[STORE] ", !cfg.Verbose)

	questions := trivia.LoadPools(cfg.QuestionsDir, trivia.Pools, config.Logger("[TRIVIA] ", !cfg.Verbose))
	runner := simulate.NewRunner(questions, cfg.SimWorkers, config.Logger("[SIM] ", false)).
		WithMaxRounds(cfg.SimMaxRounds)

	var db store.DB
	if cfg.DBPath != "" {
		sqlite, err := store.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer sqlite.Close()
		if err := sqlite.Migrate(); err != nil {
			return err
		}
		if _, err := store.ImportDir(sqlite, cfg.QuestionsDir, trivia.Pools, storeLog); err != nil {
			return err
		}
		db = sqlite
		runner.WithHistory(sqlite)
	}

	l := api.NewListener(api.NewServer(db, runner, apiLog))
	if err := l.Start(cfg.HTTPAddr); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case err, ok := <-l.Err():
		if ok {
			return err
		}
	}

	apiLog.Printf("server_shutdown reason=%v", ctx.Err())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return l.Shutdown(shutdownCtx)
}
