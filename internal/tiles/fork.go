package tiles

import (
	"context"
	"strings"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
)

var forkPaths = []board.Path{board.PathA, board.PathB}

// ChoosePath maps raw input to a fork path. "a" and "b" match in any case;
// anything else picks one of the two uniformly and reports random as true.
func ChoosePath(input string, rng engine.RNG) (path board.Path, random bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "a":
		return board.PathA, false
	case "b":
		return board.PathB, false
	}
	return engine.Pick(rng, forkPaths), true
}

// ResolveFork previews both paths, takes one decision and advances the
// acting player by the chosen path's length. Path tiles are not applied.
func ResolveFork(ctx context.Context, t *Turn, paths board.Paths) error {
	t.emit(event.ForkPreview, "⚡ You've reached a fork in the road!")
	t.emit(event.ForkPreview, "Path A (safer): %s", board.Preview(paths.A))
	t.emit(event.ForkPreview, "Path B (riskier): %s", board.Preview(paths.B))

	var input string
	if t.Chooser != nil {
		var err error
		input, err = t.Chooser.ChooseFork(ctx, t.Player, paths)
		if err != nil {
			return err
		}
	}
	path, random := ChoosePath(input, t.RNG)
	if random {
		t.emit(event.Notice, "(Invalid choice, taking Path %s at random.)", path)
	}

	length := paths.Len(path)
	t.Player.Move(length)
	t.emit(event.Effect, "You advance %d tiles via Path %s!", length, path)
	return nil
}
