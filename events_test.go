package farkle

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEventString(t *testing.T) {
	for _, tt := range []struct {
		event Event
		want  string
	}{
		{Event{Kind: EventRolled, Player: Human, Faces: []uint8{1, 5, 3}}, "You rolled: 1, 5, 3"},
		{Event{Kind: EventRolled, Player: CPU, Faces: []uint8{2}}, "CPU rolled: 2"},
		{Event{Kind: EventFarkle, Player: Human}, "FARKLE - lost turn points"},
		{Event{Kind: EventKept, Player: CPU, Faces: []uint8{1, 1, 1}, Points: 1000, TurnPoints: 1050}, "CPU kept 1, 1, 1 (+1000), turn=1050"},
		{Event{Kind: EventBanked, Player: Human, Points: 550, OnBoard: true}, "You banked 550 (on board)"},
		{Event{Kind: EventBankFailed, Player: Human, Points: 450, Required: 500}, "You bank failed (<500) - scored 0"},
		{Event{Kind: EventGameWon, Player: CPU, Total: 10050}, "CPU wins! (10050)"},
		{Event{Kind: EventTurnStarted, Player: CPU}, "CPU turn start"},
	} {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.event.Kind, got, tt.want)
		}
	}
}

func TestHistorySink(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := NewHistorySink(3, nil)
	h.now = func() time.Time { return now }

	for i := 1; i <= 5; i++ {
		h.Emit(Event{Kind: EventRolled, Player: Human, Faces: []uint8{uint8(i)}})
	}
	h.Emit(Event{Kind: EventFarkle, Player: CPU})

	want := []LogEntry{
		{Time: now, Who: "warn", Text: "CPU FARKLE - scored 0"},
		{Time: now, Who: "you", Text: "You rolled: 5"},
		{Time: now, Who: "you", Text: "You rolled: 4"},
	}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	h.Clear()
	if got := h.Entries(); len(got) != 0 {
		t.Errorf("entries after Clear = %v", got)
	}
}

func TestHistorySinkDefaultLimit(t *testing.T) {
	saved := make([]LogEntry, 100)
	for i := range saved {
		saved[i] = LogEntry{Text: fmt.Sprint(i)}
	}
	h := NewHistorySink(0, saved)
	if got := len(h.Entries()); got != DefaultHistoryLimit {
		t.Errorf("kept %d entries, want %d", got, DefaultHistoryLimit)
	}
}

func TestMetricsSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetricsSink(reg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewMetricsSink(reg); err == nil {
		t.Error("expected error registering metrics twice")
	}

	g := NewGame(testConfig(), script(t, []uint8{1, 1, 1, 2, 2, 2}, []uint8{2, 3, 4, 6, 2, 3}), m)
	mustRoll(t, g, Human)
	mustKeep(t, g, Human, 1, 1, 1)
	if _, err := g.Bank(Human); err != nil {
		t.Fatal(err)
	}
	if err := g.Acknowledge(Human); err != nil {
		t.Fatal(err)
	}
	passTurn(t, g, CPU)
	mustRoll(t, g, Human)

	for _, tt := range []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"rolls", m.rolls.WithLabelValues("you"), 2},
		{"farkles", m.farkles.WithLabelValues("you"), 1},
		{"keeps", m.keeps.WithLabelValues("you"), 1},
		{"banks", m.banks.WithLabelValues("you", "ok"), 1},
		{"points", m.points.WithLabelValues("you"), 1000},
		{"cpu rolls", m.rolls.WithLabelValues("cpu"), 0},
	} {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMultiSink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	var count int
	sink := MultiSink{a, b, EventSinkFunc(func(Event) { count++ })}
	sink.Emit(Event{Kind: EventHotDice})
	if len(a.events) != 1 || len(b.events) != 1 || count != 1 {
		t.Errorf("events delivered: %d, %d, %d", len(a.events), len(b.events), count)
	}
}

func TestLogSink(t *testing.T) {
	// Writes through glog; only checks that every kind renders.
	for kind := range eventKindNames {
		LogSink{}.Emit(Event{Kind: kind, Player: CPU})
	}
}

func TestUnknownNames(t *testing.T) {
	if got := EventKind(42).String(); got != "EventKind(42)" {
		t.Errorf("EventKind(42).String() = %q", got)
	}
	if got := Phase(9).String(); got != "Phase(9)" {
		t.Errorf("Phase(9).String() = %q", got)
	}
	if got := PhaseAwaitingAck.String(); got != "awaiting-acknowledgement" {
		t.Errorf("PhaseAwaitingAck.String() = %q", got)
	}
}
