package farkle

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

const snapshotVersion = 2

// Snapshot is the serializable form of a game, sufficient to resume it.
type Snapshot struct {
	Version int    `json:"version"`
	State   State  `json:"state"`
	Undo    *State `json:"undo,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Version: snapshotVersion,
		State:   g.state.clone(),
	}
	if g.undo != nil {
		undo := g.undo.clone()
		snap.Undo = &undo
	}
	return snap
}

func (s Snapshot) Validate() error {
	if s.Version != snapshotVersion {
		return errors.Mark(errors.Newf("snapshot version %d, want %d", s.Version, snapshotVersion), ErrBadSnapshot)
	}
	if err := s.State.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, "state"), ErrBadSnapshot)
	}
	if s.Undo != nil {
		if err := s.Undo.Validate(); err != nil {
			return errors.Mark(errors.Wrap(err, "undo"), ErrBadSnapshot)
		}
	}
	return nil
}

// Restore resumes a game from a snapshot. A malformed snapshot yields an
// error matching ErrBadSnapshot and no game.
func Restore(cfg Config, snap Snapshot, src Source, sink EventSink) (*Game, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	g := newGame(cfg, src, sink, snap.State.clone())
	if snap.Undo != nil {
		undo := snap.Undo.clone()
		g.undo = &undo
	}
	return g, nil
}

func (s Snapshot) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *Snapshot) UnmarshalBinary(data []byte) error {
	if err := json.Unmarshal(data, s); err != nil {
		return errors.Mark(errors.Wrap(err, "decode snapshot"), ErrBadSnapshot)
	}
	return nil
}
