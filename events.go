package farkle

import (
	"fmt"

	"github.com/golang/glog"
)

type EventKind int

const (
	EventTurnStarted EventKind = iota
	EventRolled
	EventFarkle
	EventKept
	EventHotDice
	EventDiceExhausted
	EventBanked
	EventBankFailed
	EventTurnForfeited
	EventGameWon
)

var eventKindNames = map[EventKind]string{
	EventTurnStarted:   "turn-started",
	EventRolled:        "rolled",
	EventFarkle:        "farkle",
	EventKept:          "kept",
	EventHotDice:       "hot-dice",
	EventDiceExhausted: "dice-exhausted",
	EventBanked:        "banked",
	EventBankFailed:    "bank-failed",
	EventTurnForfeited: "turn-forfeited",
	EventGameWon:       "game-won",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is an advisory notification of something that happened in a game.
// Events explain outcomes; the game state does not retain why a turn ended.
type Event struct {
	Kind   EventKind
	Player Player
	// Rolled faces for EventRolled; kept faces for EventKept.
	Faces []uint8
	// Score of the kept dice, or the points banked, failed or lost.
	Points int
	// Unbanked points after the event.
	TurnPoints int
	// Player's banked total after the event.
	Total int
	// Entry minimum that a failed bank missed.
	Required int
	// Set on the first successful bank.
	OnBoard bool
}

func (e Event) String() string {
	who, you := "CPU", e.Player == Human
	if you {
		who = "You"
	}

	switch e.Kind {
	case EventTurnStarted:
		if you {
			return "Your turn"
		}
		return "CPU turn start"
	case EventRolled:
		return fmt.Sprintf("%s rolled: %s", who, FormatFaces(e.Faces))
	case EventFarkle:
		if you {
			return "FARKLE - lost turn points"
		}
		return "CPU FARKLE - scored 0"
	case EventKept:
		return fmt.Sprintf("%s kept %s (+%d), turn=%d", who, FormatFaces(e.Faces), e.Points, e.TurnPoints)
	case EventHotDice:
		if you {
			return fmt.Sprintf("Hot dice! (+%d) Roll all 6 again", e.Points)
		}
		return "CPU hot dice!"
	case EventDiceExhausted:
		return "No dice left - turn ends"
	case EventBanked:
		if e.OnBoard {
			return fmt.Sprintf("%s banked %d (on board)", who, e.Points)
		}
		return fmt.Sprintf("%s banked %d", who, e.Points)
	case EventBankFailed:
		return fmt.Sprintf("%s bank failed (<%d) - scored 0", who, e.Required)
	case EventTurnForfeited:
		return fmt.Sprintf("%s ended the turn, lost %d", who, e.Points)
	case EventGameWon:
		if you {
			return fmt.Sprintf("You win! (%d)", e.Total)
		}
		return fmt.Sprintf("CPU wins! (%d)", e.Total)
	}
	return fmt.Sprintf("%s %s", who, e.Kind)
}

// EventSink receives events in the order they occur. Sinks must not call back
// into the game that emitted the event.
type EventSink interface {
	Emit(e Event)
}

type EventSinkFunc func(e Event)

func (f EventSinkFunc) Emit(e Event) {
	f(e)
}

// MultiSink fans each event out to every sink in order.
type MultiSink []EventSink

func (m MultiSink) Emit(e Event) {
	for _, sink := range m {
		sink.Emit(e)
	}
}

type nopSink struct{}

func (nopSink) Emit(Event) {}

// LogSink writes every event to the glog INFO log.
type LogSink struct{}

func (LogSink) Emit(e Event) {
	glog.Infof("[%s] %s", e.Player, e)
}
