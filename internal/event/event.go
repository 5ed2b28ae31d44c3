// Package event carries player-facing narration from the game engine to
// whatever front end is attached (console, websocket, test recorder).
package event

import "log"

// Kind classifies a narration event.
type Kind string

const (
	GameStarted     Kind = "game_started"
	RoundStarted    Kind = "round_started"
	TurnSkipped     Kind = "turn_skipped"
	Rolled          Kind = "rolled"
	AnswerIncorrect Kind = "answer_incorrect"
	Effect          Kind = "effect"
	Notice          Kind = "notice"
	ForkPreview     Kind = "fork_preview"
	Landed          Kind = "landed"
	Won             Kind = "won"
)

// Event is one line of narration.
type Event struct {
	Kind     Kind   `json:"kind"`
	PlayerID int    `json:"playerId,omitempty"`
	Round    int    `json:"round,omitempty"`
	Message  string `json:"message"`
}

// Emitter receives narration events.
type Emitter interface {
	Emit(e Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(e Event)

// Emit calls f(e).
func (f EmitterFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Emitter = EmitterFunc(func(Event) {})

// Multi fans an event out to several emitters in order.
func Multi(emitters ...Emitter) Emitter {
	return EmitterFunc(func(e Event) {
		for _, em := range emitters {
			if em != nil {
				em.Emit(e)
			}
		}
	})
}

// Log writes every event to logger as a key=value line.
func Log(logger *log.Logger) Emitter {
	return EmitterFunc(func(e Event) {
		logger.Printf("event kind=%s player=%d round=%d message=%q", e.Kind, e.PlayerID, e.Round, e.Message)
	})
}

// Recorder collects events in memory.
type Recorder struct {
	Events []Event
}

// Emit appends e.
func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Messages returns the messages of every recorded event of kind k.
func (r *Recorder) Messages(k Kind) []string {
	var out []string
	for _, e := range r.Events {
		if e.Kind == k {
			out = append(out, e.Message)
		}
	}
	return out
}
