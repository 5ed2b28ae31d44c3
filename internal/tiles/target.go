package tiles

import (
	"context"
	"strconv"
	"strings"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
)

// SelectTarget maps raw input to the player an interaction effect targets.
// With no other players the acting player targets itself. An input made only
// of digits that names another player's id selects that player; anything else
// picks a uniformly random other player and reports random as true.
func SelectTarget(acting *player.Player, players []*player.Player, input string, rng engine.RNG) (target *player.Player, random bool) {
	candidates := player.Others(acting, players)
	if len(candidates) == 0 {
		return acting, false
	}
	if id, ok := parseID(input); ok {
		if p, found := player.Find(candidates, id); found {
			return p, false
		}
	}
	return engine.Pick(rng, candidates), true
}

func parseID(input string) (int, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return id, true
}

// chooseTarget asks the chooser only when there is someone other than the
// acting player to pick.
func (t *Turn) chooseTarget(ctx context.Context) (*player.Player, error) {
	candidates := player.Others(t.Player, t.Players)
	if len(candidates) == 0 {
		return t.Player, nil
	}
	var input string
	if t.Chooser != nil {
		var err error
		input, err = t.Chooser.ChooseTarget(ctx, t.Player, candidates)
		if err != nil {
			return nil, err
		}
	}
	target, random := SelectTarget(t.Player, t.Players, input, t.RNG)
	if random {
		t.emit(event.Notice, "(Randomly targeting Player %d)", target.ID)
	}
	return target, nil
}
