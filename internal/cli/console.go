// Package cli is the terminal front end: menus, the human prompter and the
// narration printer.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

// QuitWords end the menus before a game starts.
var QuitWords = map[string]bool{"q": true, "quit": true, "exit": true}

// Console reads player input from in and writes prompts and narration to out.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole wraps the given streams.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readLineContext is readLine that gives up when ctx is done. The pending
// read is abandoned; the game is over by then.
func (c *Console) readLineContext(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := c.readLine()
		done <- result{line, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.line, r.err
	}
}

// ReadChoice prompts until the user enters an integer in [lo, hi]. Quit
// words, end of input and a cancelled ctx report quit instead.
func (c *Console) ReadChoice(ctx context.Context, prompt string, lo, hi int) (value int, quit bool, err error) {
	for {
		fmt.Fprint(c.out, prompt)
		line, err := c.readLineContext(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return 0, true, nil
		}
		if err != nil {
			return 0, false, err
		}
		s := strings.ToLower(line)
		if QuitWords[s] {
			return 0, true, nil
		}
		if !isDigits(s) {
			fmt.Fprintln(c.out, "Please enter a number.")
			continue
		}
		v, err := strconv.Atoi(s)
		if err == nil && v >= lo && v <= hi {
			return v, false, nil
		}
		fmt.Fprintf(c.out, "Please enter a value between %d and %d.\n", lo, hi)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Setup is what the menus collect before a game exists.
type Setup struct {
	Players int
	Mode    game.Mode
}

// Menu asks for the player count and difficulty. ok is false when the user
// quit, in which case "Goodbye!" has been printed.
func (c *Console) Menu(ctx context.Context) (setup Setup, ok bool, err error) {
	fmt.Fprintln(c.out, "🧭 Trivia Adventure")
	fmt.Fprintln(c.out)

	players, quit, err := c.ReadChoice(ctx,
		fmt.Sprintf("Number of players [%d-%d] or 'q' to quit:\n> ", game.MinPlayers, game.MaxPlayers),
		game.MinPlayers, game.MaxPlayers)
	if err != nil || quit {
		return Setup{}, false, c.goodbye(err)
	}

	fmt.Fprintln(c.out, "\nDifficulty:")
	for _, m := range game.Modes {
		fmt.Fprintf(c.out, "[%d] %s\n", int(m), m)
	}
	mode, quit, err := c.ReadChoice(ctx, "Choose difficulty or 'q' to quit:\n> ", int(game.Easy), int(game.Campaign))
	if err != nil || quit {
		return Setup{}, false, c.goodbye(err)
	}

	return Setup{Players: players, Mode: game.Mode(mode)}, true, nil
}

func (c *Console) goodbye(err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Goodbye!")
	return nil
}

// Answer shows the question and returns the typed answer.
func (c *Console) Answer(ctx context.Context, p *player.Player, q trivia.Question) (string, error) {
	fmt.Fprintln(c.out, q.Prompt)
	fmt.Fprint(c.out, "> ")
	return c.readLineContext(ctx)
}

// ChooseFork returns the typed path choice.
func (c *Console) ChooseFork(ctx context.Context, p *player.Player, paths board.Paths) (string, error) {
	fmt.Fprint(c.out, "Choose path A or B:\n> ")
	return c.readLineContext(ctx)
}

// ChooseTarget lists the candidates and returns the typed id.
func (c *Console) ChooseTarget(ctx context.Context, p *player.Player, candidates []*player.Player) (string, error) {
	fmt.Fprintln(c.out, "Choose a player to target:")
	for _, cand := range candidates {
		fmt.Fprintf(c.out, "[%d] Player %d (Position %d)\n", cand.ID, cand.ID, cand.Position)
	}
	fmt.Fprint(c.out, "> ")
	return c.readLineContext(ctx)
}

// Emit prints narration. Turn-ending events are followed by a blank line.
func (c *Console) Emit(e event.Event) {
	if e.Kind == event.RoundStarted {
		return
	}
	fmt.Fprintln(c.out, e.Message)
	switch e.Kind {
	case event.Landed, event.AnswerIncorrect, event.TurnSkipped, event.Won:
		fmt.Fprintln(c.out)
	}
}
