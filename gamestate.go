package farkle

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

const numPlayers = 2

// Player identifies a seat. Human is driven directly by the host, CPU by an
// Opponent.
type Player int

const (
	Human Player = iota
	CPU
)

func (p Player) Other() Player {
	return 1 - p
}

func (p Player) Valid() bool {
	return p == Human || p == CPU
}

func (p Player) String() string {
	switch p {
	case Human:
		return "you"
	case CPU:
		return "cpu"
	}
	return fmt.Sprintf("Player(%d)", int(p))
}

func (p Player) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.Newf("unknown player %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	switch string(text) {
	case "you":
		*p = Human
	case "cpu":
		*p = CPU
	default:
		return errors.Newf("unknown player %q", text)
	}
	return nil
}

// Phase is derived from State; it is never stored.
type Phase int

const (
	PhaseReadyToRoll Phase = iota
	PhaseDiceShown
	PhaseAwaitingAck
	PhaseFinished
)

var phaseNames = map[Phase]string{
	PhaseReadyToRoll: "ready-to-roll",
	PhaseDiceShown:   "dice-shown",
	PhaseAwaitingAck: "awaiting-acknowledgement",
	PhaseFinished:    "finished",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

type PlayerState struct {
	Score   int  `json:"score"`
	OnBoard bool `json:"onBoard"`
}

// TrayDie is one die of the pending roll.
type TrayDie struct {
	Value uint8 `json:"value"`
	Held  bool  `json:"selected"`
}

// State of one game.
type State struct {
	Roller  Player                  `json:"currentPlayer"`
	Players [numPlayers]PlayerState `json:"players"`
	// Unbanked points of the active turn.
	TurnPoints int `json:"turnPoints"`
	// Number of dice the next roll draws.
	DiceLeft int `json:"diceLeft"`
	// The pending roll; empty unless dice are shown.
	Tray []TrayDie `json:"tray"`
	// Dice kept during the current cycle of the turn.
	Kept        []uint8 `json:"kept"`
	AwaitingAck bool    `json:"awaitingDone"`
	GameOver    bool    `json:"gameOver"`
}

func newState() State {
	return State{
		Roller:   Human,
		DiceLeft: maxNumDice,
	}
}

func (s State) Phase() Phase {
	switch {
	case s.GameOver:
		return PhaseFinished
	case s.AwaitingAck:
		return PhaseAwaitingAck
	case len(s.Tray) > 0:
		return PhaseDiceShown
	}
	return PhaseReadyToRoll
}

func (s State) String() string {
	return fmt.Sprintf(
		"Phase=%s, Roller=%s, TurnPoints=%d, DiceLeft=%d, Scores: you=%d cpu=%d",
		s.Phase(), s.Roller, s.TurnPoints, s.DiceLeft,
		s.Players[Human].Score, s.Players[CPU].Score)
}

func (s State) clone() State {
	c := s
	if s.Tray != nil {
		c.Tray = append([]TrayDie(nil), s.Tray...)
	}
	if s.Kept != nil {
		c.Kept = append([]uint8(nil), s.Kept...)
	}
	return c
}

// Faces of the pending roll, in tray order.
func (s State) TrayFaces() []uint8 {
	result := make([]uint8, len(s.Tray))
	for i, d := range s.Tray {
		result[i] = d.Value
	}
	return result
}

// HeldFaces are the faces of the pending roll marked for keeping.
func (s State) HeldFaces() []uint8 {
	var result []uint8
	for _, d := range s.Tray {
		if d.Held {
			result = append(result, d.Value)
		}
	}
	return result
}

func (s *State) resetTurn() {
	s.TurnPoints = 0
	s.DiceLeft = maxNumDice
	s.Tray = nil
	s.Kept = nil
}

// Validate checks that a state could have been produced by play.
func (s State) Validate() error {
	if !s.Roller.Valid() {
		return errors.Newf("roller %d is not a player", int(s.Roller))
	}
	for i, p := range s.Players {
		if p.Score < 0 {
			return errors.Newf("player %s has negative score %d", Player(i), p.Score)
		}
		if p.Score > 0 && !p.OnBoard {
			return errors.Newf("player %s has score %d but is not on board", Player(i), p.Score)
		}
	}
	if s.TurnPoints < 0 {
		return errors.Newf("negative turn points %d", s.TurnPoints)
	}
	if s.DiceLeft < 1 || s.DiceLeft > maxNumDice {
		return errors.Newf("dice left %d out of range", s.DiceLeft)
	}
	if len(s.Tray) > 0 {
		if len(s.Tray) != s.DiceLeft {
			return errors.Newf("tray holds %d dice but %d are in play", len(s.Tray), s.DiceLeft)
		}
		if s.AwaitingAck || s.GameOver {
			return errors.New("dice shown after the turn ended")
		}
	}
	if len(s.Kept) > maxNumDice {
		return errors.Newf("%d kept dice > max %d", len(s.Kept), maxNumDice)
	}
	for _, d := range s.Tray {
		if d.Value < 1 || d.Value > numSides {
			return errors.Newf("tray die = %d", d.Value)
		}
	}
	for _, face := range s.Kept {
		if face < 1 || face > numSides {
			return errors.Newf("kept die = %d", face)
		}
	}
	return nil
}
