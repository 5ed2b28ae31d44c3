package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

// ErrScriptTimeout indicates a script call that ran past its deadline.
var ErrScriptTimeout = errors.New("script timed out")

const (
	scriptInitTimeout = 2 * time.Second
	scriptCallTimeout = 1 * time.Second
	maxLogs           = 500
)

// LogEntry represents a single log message from the script.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// Compile parses a bot script once so many games can share it.
func Compile(name, source string) (*goja.Program, error) {
	prog, err := goja.Compile(name, source, true)
	if err != nil {
		return nil, fmt.Errorf("compile bot script: %w", err)
	}
	return prog, nil
}

// Script is a player driven by a sandboxed JavaScript program. The program
// must define answer(question, player) and may define
// chooseFork(pathA, pathB, player) and chooseTarget(candidates, player).
// A Script owns its runtime and must not be shared between games.
type Script struct {
	runtime *goja.Runtime
	mu      sync.Mutex

	logs   []LogEntry
	logsMu sync.Mutex
}

// NewScript runs prog in a fresh runtime and checks that answer() exists.
func NewScript(prog *goja.Program) (*Script, error) {
	s := &Script{runtime: goja.New()}
	s.injectGlobals()

	err := s.runWithTimeout(context.Background(), scriptInitTimeout, func() error {
		_, err := s.runtime.RunProgram(prog)
		if err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if _, ok := s.function("answer"); !ok {
		return nil, fmt.Errorf("script must define an answer() function")
	}
	return s, nil
}

func (s *Script) injectGlobals() {
	s.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		s.logsMu.Lock()
		if len(s.logs) >= maxLogs {
			s.logs = s.logs[1:]
		}
		s.logs = append(s.logs, LogEntry{Time: time.Now(), Message: strings.Join(parts, " ")})
		s.logsMu.Unlock()
		return goja.Undefined()
	})
	console := s.runtime.NewObject()
	console.Set("log", s.runtime.Get("log"))
	s.runtime.Set("console", console)

	s.runtime.Set("require", goja.Undefined())
	s.runtime.Set("fetch", goja.Undefined())
	s.runtime.Set("eval", goja.Undefined())
	s.runtime.Set("Function", goja.Undefined())
}

func (s *Script) function(name string) (goja.Callable, bool) {
	fn := s.runtime.Get(name)
	if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
		return nil, false
	}
	return goja.AssertFunction(fn)
}

func playerObject(p *player.Player) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"position":    p.Position,
		"lastRoll":    p.LastRoll,
		"winDistance": p.WinDistance,
	}
}

func kindNames(kinds []board.Kind) []any {
	out := make([]any, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// call invokes an optional function and returns its result as a string. A
// missing function, undefined or null result yields "".
func (s *Script) call(ctx context.Context, name string, args ...any) (string, error) {
	var out string
	err := s.runWithTimeout(ctx, scriptCallTimeout, func() error {
		fn, ok := s.function(name)
		if !ok {
			return nil
		}
		vals := make([]goja.Value, len(args))
		for i, a := range args {
			vals[i] = s.runtime.ToValue(a)
		}
		res, err := fn(goja.Undefined(), vals...)
		if err != nil {
			return fmt.Errorf("%s() error: %w", name, err)
		}
		if res != nil && !goja.IsUndefined(res) && !goja.IsNull(res) {
			out = res.String()
		}
		return nil
	})
	return out, err
}

// Answer calls answer(question, player). The question object has prompt and
// answer fields so scripts can model their own accuracy.
func (s *Script) Answer(ctx context.Context, p *player.Player, q trivia.Question) (string, error) {
	return s.call(ctx, "answer", map[string]any{"prompt": q.Prompt, "answer": q.Answer}, playerObject(p))
}

// ChooseFork calls chooseFork(pathA, pathB, player) with tile kind names.
func (s *Script) ChooseFork(ctx context.Context, p *player.Player, paths board.Paths) (string, error) {
	return s.call(ctx, "chooseFork", kindNames(paths.A), kindNames(paths.B), playerObject(p))
}

// ChooseTarget calls chooseTarget(candidates, player) and returns the id it
// picks as text.
func (s *Script) ChooseTarget(ctx context.Context, p *player.Player, candidates []*player.Player) (string, error) {
	list := make([]any, len(candidates))
	for i, c := range candidates {
		list[i] = playerObject(c)
	}
	return s.call(ctx, "chooseTarget", list, playerObject(p))
}

// Logs returns a copy of the current log buffer.
func (s *Script) Logs() []LogEntry {
	s.logsMu.Lock()
	defer s.logsMu.Unlock()
	out := make([]LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

func (s *Script) runWithTimeout(ctx context.Context, timeout time.Duration, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		s.runtime.Interrupt("context cancelled")
		<-done
		s.runtime.ClearInterrupt()
		return ctx.Err()
	case <-timer.C:
		s.runtime.Interrupt("script execution timeout")
		<-done
		s.runtime.ClearInterrupt()
		return ErrScriptTimeout
	}
}
