package config

import (
	"flag"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QuestionsDir != "." {
		t.Errorf("QuestionsDir = %q, want .", cfg.QuestionsDir)
	}
	if cfg.HTTPAddr != "127.0.0.1:17890" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.SimMaxRounds != 500 || cfg.SimWorkers != 0 || cfg.DBPath != "" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadEnvThenFlags(t *testing.T) {
	t.Setenv("TRIVIA_DB_PATH", "env.db")
	t.Setenv("TRIVIA_SIM_WORKERS", "3")
	t.Setenv("TRIVIA_HTTP_ADDR", "env:1")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-addr", "flag:2"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != "flag:2" {
		t.Fatalf("expected flag value for addr, got %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != "env.db" || cfg.SimWorkers != 3 {
		t.Fatalf("expected env values, got %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TRIVIA_SIM_WORKERS", "many")
	if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestLoadRejectsNegativeRounds(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if _, err := Load(fs, []string{"-max-rounds", "-1"}); err == nil {
		t.Fatal("expected error for negative max-rounds")
	}
}

func TestLoadFlagOverridesEnv(t *testing.T) {
	t.Setenv("TRIVIA_QUESTIONS_DIR", "env-dir")
	t.Setenv("TRIVIA_BOT_SCRIPT", "env.js")

	fs := flag.NewFlagSet("args", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-bot-script", "flag.js"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotScript != "flag.js" {
		t.Fatalf("expected flag bot script, got %q", cfg.BotScript)
	}
	if cfg.QuestionsDir != "env-dir" {
		t.Fatalf("expected env questions dir, got %q", cfg.QuestionsDir)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected nil parser error")
	}
}
