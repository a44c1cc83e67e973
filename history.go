package farkle

import (
	"sync"
	"time"
)

const DefaultHistoryLimit = 70

// LogEntry is one line of the turn log.
type LogEntry struct {
	Time time.Time `json:"t"`
	Who  string    `json:"who"`
	Text string    `json:"text"`
}

// HistorySink keeps the most recent events as log lines, newest first.
type HistorySink struct {
	mu      sync.Mutex
	limit   int
	entries []LogEntry
	now     func() time.Time
}

// NewHistorySink starts from previously saved entries, which are expected
// newest first.
func NewHistorySink(limit int, entries []LogEntry) *HistorySink {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return &HistorySink{
		limit:   limit,
		entries: append([]LogEntry(nil), entries...),
		now:     time.Now,
	}
}

func (h *HistorySink) Emit(e Event) {
	who := e.Player.String()
	switch e.Kind {
	case EventFarkle, EventBankFailed:
		who = "warn"
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]LogEntry{{Time: h.now(), Who: who, Text: e.String()}}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}

// Entries returns a copy of the log, newest first.
func (h *HistorySink) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]LogEntry(nil), h.entries...)
}

func (h *HistorySink) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
