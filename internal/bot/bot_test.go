package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine/enginetest"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

const greedyBot = `
function answer(q, me) {
	log("asked", q.prompt, "at", me.position);
	return q.answer.toUpperCase();
}
function chooseFork(a, b, me) {
	return b.length > a.length ? "b" : "a";
}
function chooseTarget(candidates, me) {
	var best = candidates[0];
	for (var i = 1; i < candidates.length; i++) {
		if (candidates[i].position > best.position) best = candidates[i];
	}
	return best.id;
}
`

func newScript(t *testing.T, src string) *Script {
	t.Helper()
	prog, err := Compile("bot.js", src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	s, err := NewScript(prog)
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	return s
}

func TestScriptCallbacks(t *testing.T) {
	s := newScript(t, greedyBot)
	ctx := context.Background()
	me := &player.Player{ID: 1, Position: 7, WinDistance: 36}

	ans, err := s.Answer(ctx, me, trivia.Question{Prompt: "Sky?", Answer: "blue"})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans != "BLUE" || !trivia.Check(trivia.Question{Answer: "blue"}, ans) {
		t.Fatalf("Answer = %q", ans)
	}

	fork, err := s.ChooseFork(ctx, me, board.Paths{
		A: []board.Kind{board.Bonus, board.Normal, board.Normal},
		B: []board.Kind{board.Trap, board.Trap, board.Trap, board.Swap},
	})
	if err != nil || fork != "b" {
		t.Fatalf("ChooseFork = %q, %v", fork, err)
	}

	target, err := s.ChooseTarget(ctx, me, []*player.Player{
		{ID: 2, Position: 3},
		{ID: 4, Position: 20},
		{ID: 3, Position: 11},
	})
	if err != nil || target != "4" {
		t.Fatalf("ChooseTarget = %q, %v", target, err)
	}

	logs := s.Logs()
	if len(logs) != 1 || logs[0].Message != "asked Sky? at 7" {
		t.Fatalf("logs = %+v", logs)
	}
}

func TestScriptOptionalCallbacks(t *testing.T) {
	s := newScript(t, `function answer(q) { return null; }`)
	ctx := context.Background()
	me := player.New(1, 36)

	if ans, err := s.Answer(ctx, me, trivia.Question{Answer: "x"}); err != nil || ans != "" {
		t.Fatalf("Answer = %q, %v", ans, err)
	}
	if fork, err := s.ChooseFork(ctx, me, board.Paths{}); err != nil || fork != "" {
		t.Fatalf("ChooseFork = %q, %v", fork, err)
	}
}

func TestScriptRequiresAnswer(t *testing.T) {
	prog, err := Compile("bot.js", `function chooseFork() { return "a"; }`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewScript(prog); err == nil || !strings.Contains(err.Error(), "answer()") {
		t.Fatalf("NewScript = %v", err)
	}
}

func TestScriptSandbox(t *testing.T) {
	s := newScript(t, `function answer() { return typeof require + "," + typeof eval; }`)
	ans, err := s.Answer(context.Background(), player.New(1, 36), trivia.Question{})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans != "undefined,undefined" {
		t.Fatalf("sandbox globals = %q", ans)
	}
}

func TestScriptRuntimeError(t *testing.T) {
	s := newScript(t, `function answer() { throw new Error("boom"); }`)
	_, err := s.Answer(context.Background(), player.New(1, 36), trivia.Question{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Answer = %v", err)
	}
}

func TestScriptTimeout(t *testing.T) {
	s := newScript(t, `function answer() { while (true) {} }`)
	start := time.Now()
	_, err := s.Answer(context.Background(), player.New(1, 36), trivia.Question{})
	if !errors.Is(err, ErrScriptTimeout) {
		t.Fatalf("Answer = %v, want ErrScriptTimeout", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatalf("timeout took %s", time.Since(start))
	}

	// The runtime stays usable after an interrupt.
	if _, err := s.ChooseFork(context.Background(), player.New(1, 36), board.Paths{}); err != nil {
		t.Fatalf("ChooseFork after timeout: %v", err)
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile("bad.js", "function answer( {"); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestRandomAccuracy(t *testing.T) {
	q := trivia.Question{Answer: "4"}
	ctx := context.Background()
	p := player.New(1, 36)

	always := NewRandom(1, &enginetest.Sequence{Floats: []float64{0.99}})
	if ans, _ := always.Answer(ctx, p, q); ans != "4" {
		t.Fatalf("accuracy 1 answered %q", ans)
	}
	never := NewRandom(0, &enginetest.Sequence{Floats: []float64{0}})
	if ans, _ := never.Answer(ctx, p, q); ans != "" {
		t.Fatalf("accuracy 0 answered %q", ans)
	}
	half := NewRandom(0.5, &enginetest.Sequence{Floats: []float64{0.2, 0.7}})
	first, _ := half.Answer(ctx, p, q)
	second, _ := half.Answer(ctx, p, q)
	if first != "4" || second != "" {
		t.Fatalf("accuracy 0.5 answered %q then %q", first, second)
	}
	if fork, _ := half.ChooseFork(ctx, p, board.Paths{}); fork != "" {
		t.Fatalf("ChooseFork = %q", fork)
	}
}
