package event

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestMultiFansOutInOrder(t *testing.T) {
	var order []string
	first := EmitterFunc(func(e Event) { order = append(order, "first:"+e.Message) })
	second := &Recorder{}

	m := Multi(first, nil, second)
	m.Emit(Event{Kind: Rolled, PlayerID: 1, Message: "Player 1 rolled: 4"})
	m.Emit(Event{Kind: Won, PlayerID: 1, Message: "done"})

	if len(order) != 2 || order[0] != "first:Player 1 rolled: 4" {
		t.Fatalf("first emitter saw %v", order)
	}
	if got := second.Messages(Won); len(got) != 1 || got[0] != "done" {
		t.Fatalf("recorder Won messages = %v", got)
	}
	if got := second.Messages(Notice); got != nil {
		t.Fatalf("recorder Notice messages = %v, want none", got)
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	Log(log.New(&buf, "", 0)).Emit(Event{Kind: Landed, PlayerID: 2, Round: 3, Message: "Player 2 at position 9."})
	want := `event kind=landed player=2 round=3 message="Player 2 at position 9."`
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Fatalf("log line = %q, want %q", got, want)
	}
}
