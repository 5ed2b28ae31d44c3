package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/config"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/simulate"
)

func TestRunPrintsSummary(t *testing.T) {
	var out bytes.Buffer
	opts := options{mode: 1, players: 2, games: 8, accuracy: 1, serverSeed: "cli", clientSeed: "sim"}
	if err := run(context.Background(), config.Config{SimMaxRounds: 200}, opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"Mode:", "Easy", "Games:", "Player 1 wins:", "Player 2 wins:", "limit 200"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	opts := options{mode: 2, players: 1, games: 3, accuracy: 1, jsonOut: true}
	if err := run(context.Background(), config.Config{}, opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var s simulate.Summary
	if err := json.Unmarshal(out.Bytes(), &s); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if s.Games != 3 || s.WinsBySeat[1] != s.Completed {
		t.Fatalf("summary = %+v", s)
	}
}

func TestRunWithScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.js")
	src := `function answer(q) { return q.answer; }`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	opts := options{mode: 4, players: 2, games: 2, jsonOut: true}
	if err := run(context.Background(), config.Config{BotScript: path}, opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunRecordNeedsDatabase(t *testing.T) {
	opts := options{mode: 1, players: 1, games: 1, record: true}
	err := run(context.Background(), config.Config{}, opts, &bytes.Buffer{})
	if !errors.Is(err, simulate.ErrNoHistory) {
		t.Fatalf("run() error = %v, want ErrNoHistory", err)
	}
}
