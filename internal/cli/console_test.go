package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

func TestReadChoice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     int
		wantQuit bool
		wantOut  []string
	}{
		{"valid", "3\n", 3, false, nil},
		{"reprompt non numeric", "abc\n2\n", 2, false, []string{"Please enter a number."}},
		{"reprompt out of range", "0\n9\n4\n", 4, false, []string{"Please enter a value between 1 and 4."}},
		{"negative is not a number", "-1\n1\n", 1, false, []string{"Please enter a number."}},
		{"quit", "q\n", 0, true, nil},
		{"quit upper", " EXIT \n", 0, true, nil},
		{"eof", "", 0, true, nil},
		{"eof after garbage", "x\n", 0, true, []string{"Please enter a number."}},
		{"last line without newline", "2", 2, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewConsole(strings.NewReader(tt.input), &out)
			got, quit, err := c.ReadChoice(context.Background(), "> ", 1, 4)
			if err != nil {
				t.Fatalf("ReadChoice: %v", err)
			}
			if got != tt.want || quit != tt.wantQuit {
				t.Fatalf("ReadChoice = %d, %v; want %d, %v", got, quit, tt.want, tt.wantQuit)
			}
			for _, w := range tt.wantOut {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestMenu(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("2\n4\n"), &out)
	setup, ok, err := c.Menu(context.Background())
	if err != nil || !ok {
		t.Fatalf("Menu = %v, %v", ok, err)
	}
	if setup.Players != 2 || setup.Mode != game.Campaign {
		t.Fatalf("setup = %+v", setup)
	}
	if !strings.Contains(out.String(), "[4] Campaign") {
		t.Errorf("menu missing campaign option:\n%s", out.String())
	}
}

func TestMenuQuit(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("1\nquit\n"), &out)
	_, ok, err := c.Menu(context.Background())
	if err != nil || ok {
		t.Fatalf("Menu = %v, %v", ok, err)
	}
	if !strings.HasSuffix(out.String(), "Goodbye!\n") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestPrompts(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("Blue\nb\n3\n"), &out)
	p := player.New(1, 36)
	ctx := context.Background()

	ans, err := c.Answer(ctx, p, trivia.Question{Prompt: "Sky colour?", Answer: "blue"})
	if err != nil || ans != "Blue" {
		t.Fatalf("Answer = %q, %v", ans, err)
	}
	choice, err := c.ChooseFork(ctx, p, board.Paths{})
	if err != nil || choice != "b" {
		t.Fatalf("ChooseFork = %q, %v", choice, err)
	}
	target, err := c.ChooseTarget(ctx, p, []*player.Player{{ID: 3, Position: 7}})
	if err != nil || target != "3" {
		t.Fatalf("ChooseTarget = %q, %v", target, err)
	}
	if !strings.Contains(out.String(), "[3] Player 3 (Position 7)") {
		t.Errorf("target list missing:\n%s", out.String())
	}

	if _, err := c.Answer(ctx, p, trivia.Question{Prompt: "More?"}); err != io.EOF {
		t.Fatalf("Answer at EOF = %v, want io.EOF", err)
	}
}

func TestEmit(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out)
	c.Emit(event.Event{Kind: event.RoundStarted, Message: "Round 1"})
	c.Emit(event.Event{Kind: event.Rolled, Message: "Player 1 rolled: 4"})
	c.Emit(event.Event{Kind: event.Landed, Message: "Tile: NORMAL → Player 1 at position 4."})
	want := "Player 1 rolled: 4\nTile: NORMAL → Player 1 at position 4.\n\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestAnswerStopsOnCancel(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()
	c := NewConsole(in, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := player.NewRoster(1, 36)[0]
	if _, err := c.Answer(ctx, p, trivia.Question{Prompt: "2+2?", Answer: "4"}); err != context.Canceled {
		t.Fatalf("Answer on a cancelled context = %v, want context.Canceled", err)
	}
}
