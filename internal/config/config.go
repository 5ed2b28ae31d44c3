// Package config loads process configuration from the environment and
// command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the console game, the API server and
// the simulation command.
type Config struct {
	QuestionsDir string `env:"TRIVIA_QUESTIONS_DIR" envDefault:"."`
	DBPath       string `env:"TRIVIA_DB_PATH"`
	HTTPAddr     string `env:"TRIVIA_HTTP_ADDR" envDefault:"127.0.0.1:17890"`
	BotScript    string `env:"TRIVIA_BOT_SCRIPT"`
	SimWorkers   int    `env:"TRIVIA_SIM_WORKERS" envDefault:"0"`
	SimMaxRounds int    `env:"TRIVIA_SIM_MAX_ROUNDS" envDefault:"500"`
	Verbose      bool   `env:"TRIVIA_VERBOSE" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RegisterFlags binds the common flags to cfg. Flag defaults are taken
// from cfg, so call it after the environment has been parsed or use Load.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.QuestionsDir, "questions", c.QuestionsDir, "directory holding <pool>_questions.json files (env TRIVIA_QUESTIONS_DIR)")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "sqlite database for questions and game history (env TRIVIA_DB_PATH)")
	fs.StringVar(&c.HTTPAddr, "addr", c.HTTPAddr, "HTTP listen address (env TRIVIA_HTTP_ADDR)")
	fs.StringVar(&c.BotScript, "bot-script", c.BotScript, "JavaScript bot file (env TRIVIA_BOT_SCRIPT)")
	fs.IntVar(&c.SimWorkers, "workers", c.SimWorkers, "simulation workers, 0 for GOMAXPROCS (env TRIVIA_SIM_WORKERS)")
	fs.IntVar(&c.SimMaxRounds, "max-rounds", c.SimMaxRounds, "round limit for simulated games (env TRIVIA_SIM_MAX_ROUNDS)")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "write diagnostic logs to stderr (env TRIVIA_VERBOSE)")
}

// Load reads the environment, registers the common flags on fs and parses
// args.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.RegisterFlags(fs)
	if err := ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.SimMaxRounds < 0 {
		return Config{}, fmt.Errorf("max-rounds must not be negative, got %d", cfg.SimMaxRounds)
	}
	return cfg, nil
}

// Logger returns a logger with the given bracketed prefix, e.g. "[SIM] ".
// Logs are discarded unless quiet is false.
func Logger(prefix string, quiet bool) *log.Logger {
	if quiet {
		return log.New(io.Discard, prefix, 0)
	}
	return log.New(os.Stderr, prefix, log.LstdFlags|log.Lshortfile)
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
