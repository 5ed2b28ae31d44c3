package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine/enginetest"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

type fixedSource struct {
	pools []trivia.Pool
}

func (s *fixedSource) Question(ctx context.Context, pool trivia.Pool) (trivia.Question, error) {
	s.pools = append(s.pools, pool)
	return trivia.Question{Prompt: fmt.Sprintf("%s question?", pool), Answer: "Yes"}, nil
}

type scriptedPrompter struct {
	wrong  bool
	target string
	fork   string
	err    error

	answered map[int]int
}

func (p *scriptedPrompter) Answer(ctx context.Context, pl *player.Player, q trivia.Question) (string, error) {
	if p.answered == nil {
		p.answered = make(map[int]int)
	}
	p.answered[pl.ID]++
	if p.err != nil {
		return "", p.err
	}
	if p.wrong {
		return "no", nil
	}
	return "  yes ", nil
}

func (p *scriptedPrompter) ChooseFork(ctx context.Context, pl *player.Player, paths board.Paths) (string, error) {
	return p.fork, nil
}

func (p *scriptedPrompter) ChooseTarget(ctx context.Context, pl *player.Player, candidates []*player.Player) (string, error) {
	return p.target, nil
}

type countingRenderer struct{ calls int }

func (r *countingRenderer) Render(b *board.Board, players []*player.Player) { r.calls++ }

type memoryRecorder struct {
	records []TurnRecord
	flushes int
}

func (r *memoryRecorder) RecordTurn(rec TurnRecord) { r.records = append(r.records, rec) }
func (r *memoryRecorder) Flush() error {
	r.flushes++
	return nil
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Questions == nil {
		opts.Questions = &fixedSource{}
	}
	if opts.Prompter == nil {
		opts.Prompter = &scriptedPrompter{}
	}
	e, err := NewEngine(opts)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestEasySinglePlayerReachesWinDistance(t *testing.T) {
	rec := &memoryRecorder{}
	events := &event.Recorder{}
	e := newTestEngine(t, Options{
		Mode:     Easy,
		Players:  1,
		Board:    board.Uniform(36, board.Normal),
		RNG:      enginetest.Ints(5),
		Events:   events,
		Recorder: rec,
	})

	winner, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if winner == nil || winner.ID != 1 || winner.Position != 36 {
		t.Fatalf("winner = %+v, want player 1 at 36", winner)
	}
	if e.State() != StateGameOver || e.Round() != 6 {
		t.Fatalf("state %s round %d, want game_over after 6 rounds", e.State(), e.Round())
	}

	want := []int{6, 12, 18, 24, 30, 36}
	if len(rec.records) != len(want) {
		t.Fatalf("recorded %d turns, want %d", len(rec.records), len(want))
	}
	for i, r := range rec.records {
		if r.Roll != 6 || !r.Correct || r.Delta != 6 || r.PositionAfter != want[i] {
			t.Errorf("turn %d = %+v", i, r)
		}
	}
	if rec.flushes != 1 {
		t.Errorf("recorder flushed %d times, want 1", rec.flushes)
	}

	landed := events.Messages(event.Landed)
	if landed[0] != "Tile: NORMAL → Player 1 at position 6." {
		t.Errorf("first landing = %q", landed[0])
	}
	if won := events.Messages(event.Won); len(won) != 1 || won[0] != "🏆 Player 1 wins at position 36!" {
		t.Errorf("won = %v", won)
	}

	if err := e.Step(context.Background()); !errors.Is(err, ErrGameOver) {
		t.Fatalf("Step after game over = %v, want ErrGameOver", err)
	}
}

func TestStateSequence(t *testing.T) {
	e := newTestEngine(t, Options{
		Mode:    Easy,
		Players: 2,
		Board:   board.Uniform(36, board.Normal),
		RNG:     enginetest.Ints(0),
	})
	want := []State{
		StatePlayerTurnStart,
		StateQuestionGate,
		StateEffectResolution,
		StatePostMoveCheck,
		StateRoundAdvance,
		StatePlayerTurnStart,
		StateQuestionGate,
	}
	for i, s := range want {
		if err := e.Step(context.Background()); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if e.State() != s {
			t.Fatalf("after step %d state = %s, want %s", i, e.State(), s)
		}
	}
	if e.Current().ID != 2 {
		t.Fatalf("current player = %d, want 2", e.Current().ID)
	}
}

func TestWinEndsGameImmediately(t *testing.T) {
	prompter := &scriptedPrompter{}
	e := newTestEngine(t, Options{
		Mode:     Easy,
		Players:  2,
		Board:    board.Uniform(36, board.Normal),
		RNG:      enginetest.Ints(5),
		Prompter: prompter,
	})
	e.Players()[0].Position = 33

	winner, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if winner.ID != 1 {
		t.Fatalf("winner = %d, want 1", winner.ID)
	}
	if prompter.answered[2] != 0 {
		t.Fatalf("player 2 acted %d times after the win", prompter.answered[2])
	}
	if res := e.Result(); res.Turns != 1 || res.WinnerID != 1 || res.Rounds != 1 {
		t.Fatalf("Result = %+v", res)
	}
}

func TestLiftUpCarriesOtherPlayerToWin(t *testing.T) {
	// roll 1, then lift of 3+3.
	e := newTestEngine(t, Options{
		Mode:     Easy,
		Players:  2,
		Board:    board.Uniform(36, board.LiftUp),
		RNG:      enginetest.Ints(0, 3),
		Prompter: &scriptedPrompter{target: "2"},
	})
	e.Players()[1].Position = 33

	winner, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if winner.ID != 2 || winner.Position != 39 {
		t.Fatalf("winner = %+v, want player 2 at 39", winner)
	}
	if e.Players()[0].Position != 1 {
		t.Fatalf("player 1 at %d, want 1", e.Players()[0].Position)
	}
}

func TestActingPlayerWinsBeforeLiftedPlayer(t *testing.T) {
	e := newTestEngine(t, Options{
		Mode:     Easy,
		Players:  2,
		Board:    board.Uniform(36, board.LiftUp),
		RNG:      enginetest.Ints(0, 3),
		Prompter: &scriptedPrompter{target: "2"},
	})
	e.Players()[0].Position = 35
	e.Players()[1].Position = 33

	winner, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if winner.ID != 1 {
		t.Fatalf("winner = %d, want acting player 1", winner.ID)
	}
}

func TestSkipTurn(t *testing.T) {
	prompter := &scriptedPrompter{}
	rec := &memoryRecorder{}
	e := newTestEngine(t, Options{
		Mode:      Easy,
		Players:   2,
		Board:     board.Uniform(36, board.Normal),
		RNG:       enginetest.Ints(5),
		Prompter:  prompter,
		Recorder:  rec,
		MaxRounds: 1,
	})
	p1 := e.Players()[0]
	p1.SkipNext = true

	if _, err := e.Run(context.Background()); !errors.Is(err, ErrRoundLimit) {
		t.Fatalf("Run = %v, want ErrRoundLimit", err)
	}
	if p1.SkipNext || p1.LastRoll != 0 || p1.Position != 0 {
		t.Fatalf("skipped player = %+v", p1)
	}
	if prompter.answered[1] != 0 || prompter.answered[2] != 1 {
		t.Fatalf("answers = %v", prompter.answered)
	}
	if e.Players()[1].Position != 6 {
		t.Fatalf("player 2 at %d, want 6", e.Players()[1].Position)
	}
	if !rec.records[0].Skipped || rec.records[1].Skipped {
		t.Fatalf("records = %+v", rec.records)
	}
	if !e.Result().RoundLimited {
		t.Fatal("result should be round limited")
	}
}

func TestSkipTileCostsNextTurn(t *testing.T) {
	prompter := &scriptedPrompter{}
	e := newTestEngine(t, Options{
		Mode:      Easy,
		Players:   1,
		Board:     board.Uniform(36, board.Skip),
		RNG:       enginetest.Ints(1),
		Prompter:  prompter,
		MaxRounds: 3,
	})
	if _, err := e.Run(context.Background()); !errors.Is(err, ErrRoundLimit) {
		t.Fatalf("Run = %v", err)
	}
	// Rounds: move 2, skip, move 2.
	if prompter.answered[1] != 2 || e.Players()[0].Position != 4 {
		t.Fatalf("answered %d, position %d", prompter.answered[1], e.Players()[0].Position)
	}
}

func TestWrongAnswerStaysPut(t *testing.T) {
	events := &event.Recorder{}
	renderer := &countingRenderer{}
	e := newTestEngine(t, Options{
		Mode:      Medium,
		Players:   1,
		Board:     board.Uniform(46, board.Bonus),
		RNG:       enginetest.Ints(5),
		Prompter:  &scriptedPrompter{wrong: true},
		Events:    events,
		Renderer:  renderer,
		MaxRounds: 3,
	})
	if _, err := e.Run(context.Background()); !errors.Is(err, ErrRoundLimit) {
		t.Fatalf("Run = %v", err)
	}
	if e.Players()[0].Position != 0 || e.Players()[0].LastRoll != 6 {
		t.Fatalf("player = %+v", e.Players()[0])
	}
	msgs := events.Messages(event.AnswerIncorrect)
	if len(msgs) != 3 || msgs[0] != "Incorrect. Player 1 stays at 0." {
		t.Fatalf("incorrect messages = %v", msgs)
	}
	if renderer.calls != 3 {
		t.Fatalf("renderer called %d times, want once per round", renderer.calls)
	}
}

func TestCampaignPoolFollowsPosition(t *testing.T) {
	tests := []struct {
		position int
		want     trivia.Pool
	}{
		{0, trivia.Easy},
		{40, trivia.Easy},
		{41, trivia.Medium},
		{82, trivia.Medium},
		{83, trivia.Hard},
		{122, trivia.Hard},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.position), func(t *testing.T) {
			src := &fixedSource{}
			e := newTestEngine(t, Options{
				Mode:      Campaign,
				Players:   1,
				Board:     board.Uniform(123, board.Normal),
				RNG:       enginetest.Ints(0),
				Questions: src,
			})
			e.Players()[0].Position = tt.position
			for i := 0; i < 3; i++ {
				if err := e.Step(context.Background()); err != nil {
					t.Fatalf("Step: %v", err)
				}
			}
			if len(src.pools) != 1 || src.pools[0] != tt.want {
				t.Fatalf("pools asked = %v, want [%s]", src.pools, tt.want)
			}
		})
	}
}

func TestSelectPool(t *testing.T) {
	tests := []struct {
		mode     Mode
		position int
		want     trivia.Pool
	}{
		{Easy, 100, trivia.Easy},
		{Medium, 0, trivia.Medium},
		{Hard, 0, trivia.Hard},
		{Campaign, 40, trivia.Easy},
		{Campaign, 41, trivia.Medium},
		{Campaign, 82, trivia.Medium},
		{Campaign, 83, trivia.Hard},
	}
	for _, tt := range tests {
		if got := SelectPool(tt.mode, tt.position); got != tt.want {
			t.Errorf("SelectPool(%s, %d) = %s, want %s", tt.mode, tt.position, got, tt.want)
		}
	}
}

func TestModes(t *testing.T) {
	wants := map[Mode]int{Easy: 36, Medium: 46, Hard: 56, Campaign: 123}
	for m, want := range wants {
		if m.WinDistance() != want {
			t.Errorf("%s win distance = %d, want %d", m, m.WinDistance(), want)
		}
		if m.Branching() != (m == Campaign) {
			t.Errorf("%s branching = %v", m, m.Branching())
		}
	}
	if _, err := ParseMode(5); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("ParseMode(5) = %v", err)
	}
	if m, err := ParseMode(4); err != nil || m != Campaign {
		t.Fatalf("ParseMode(4) = %v, %v", m, err)
	}
}

func TestNewEngineGeneratesBoard(t *testing.T) {
	e := newTestEngine(t, Options{Mode: Campaign, Players: 4, RNG: enginetest.Ints(1, 0, 3, 2)})
	if e.Board().Size() != 123 {
		t.Fatalf("board size = %d, want 123", e.Board().Size())
	}
	for _, p := range e.Players() {
		if p.WinDistance != 123 || p.Position != 0 {
			t.Fatalf("player = %+v", p)
		}
	}
}

func TestNewEngineValidation(t *testing.T) {
	src, prompter := &fixedSource{}, &scriptedPrompter{}
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"mode", Options{Mode: 0, Players: 1, Questions: src, Prompter: prompter}, ErrInvalidMode},
		{"zero players", Options{Mode: Easy, Players: 0, Questions: src, Prompter: prompter}, ErrInvalidPlayers},
		{"five players", Options{Mode: Easy, Players: 5, Questions: src, Prompter: prompter}, ErrInvalidPlayers},
		{"questions", Options{Mode: Easy, Players: 1, Prompter: prompter}, ErrNoQuestions},
		{"prompter", Options{Mode: Easy, Players: 1, Questions: src}, ErrNoPrompter},
		{"short board", Options{Mode: Easy, Players: 1, Questions: src, Prompter: prompter, Board: board.Uniform(20, board.Normal)}, ErrBoardSize},
		{"campaign board in easy", Options{Mode: Easy, Players: 1, Questions: src, Prompter: prompter, Board: board.Uniform(123, board.Normal)}, ErrBoardSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(tt.opts); !errors.Is(err, tt.want) {
				t.Fatalf("NewEngine = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPrompterErrorStopsRun(t *testing.T) {
	closed := errors.New("stdin closed")
	e := newTestEngine(t, Options{
		Mode:     Easy,
		Players:  1,
		Board:    board.Uniform(36, board.Normal),
		RNG:      enginetest.Ints(0),
		Prompter: &scriptedPrompter{err: closed},
	})
	if _, err := e.Run(context.Background()); !errors.Is(err, closed) {
		t.Fatalf("Run = %v, want %v", err, closed)
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	e := newTestEngine(t, Options{Mode: Easy, Players: 1, Board: board.Uniform(36, board.Normal), RNG: enginetest.Ints(0)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if e.State() != StateIdle {
		t.Fatalf("state = %s, want idle", e.State())
	}
}
