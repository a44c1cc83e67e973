package farkle

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
)

const defaultBankAfterCycles = 4

// Policy decides when the automated opponent stops rolling. It has no
// knowledge of timing or of the game beyond its arguments.
type Policy struct {
	// Bank once the unbanked points reach this.
	Threshold int
	// Bank on or after this many roll cycles regardless of points.
	BankAfterCycles int
	// Give up the turn after this many roll cycles.
	MaxCycles int
}

func NewPolicy(cfg Config) Policy {
	cfg = cfg.Normalize()
	return Policy{
		Threshold:       cfg.Style.Threshold(),
		BankAfterCycles: defaultBankAfterCycles,
		MaxCycles:       cfg.MaxCycles,
	}
}

// ShouldBank reports whether to bank after the given cycle (starting at 1).
// canBank is false while a bank would not credit anything.
func (p Policy) ShouldBank(turnPoints, cycle int, canBank bool) bool {
	return canBank && (turnPoints >= p.Threshold || cycle >= p.BankAfterCycles)
}

// Opponent plays whole turns for one seat of a Game.
type Opponent struct {
	Player Player
	Policy Policy
	// Pause, if set, is called after each roll and each keep so that a host
	// can show the steps one at a time.
	Pause func()
}

func NewOpponent(cfg Config) *Opponent {
	return &Opponent{
		Player: CPU,
		Policy: NewPolicy(cfg),
	}
}

// SleepPause returns a Pause that sleeps for d.
func SleepPause(d time.Duration) func() {
	return func() {
		time.Sleep(d)
	}
}

func (o *Opponent) pause() {
	if o.Pause != nil {
		o.Pause()
	}
}

// PlayTurn drives g until o's turn is over and the dice have passed to the
// other player, or the game is finished. It may be called partway through a
// turn, for instance after restoring a snapshot.
func (o *Opponent) PlayTurn(g *Game) error {
	if g.Phase() == PhaseFinished {
		return nil
	}
	if g.Roller() != o.Player {
		return illegal(ErrNotYourTurn, "%s opponent", o.Player)
	}

	cycle := 0
	for {
		switch g.Phase() {
		case PhaseFinished:
			return nil

		case PhaseAwaitingAck:
			return g.Acknowledge(o.Player)

		case PhaseReadyToRoll:
			if cycle >= o.Policy.MaxCycles {
				glog.V(1).Infof("%s: stalled after %d cycles with %d unbanked",
					o.Player, cycle, g.TurnPoints())
				if err := g.EndTurn(o.Player); err != nil {
					return err
				}
				continue
			}
			cycle++
			if _, err := g.Roll(o.Player); err != nil {
				return err
			}
			o.pause()

		case PhaseDiceShown:
			faces := g.state.TrayFaces()
			m, score := bestKeepMask(faces)
			if m == 0 {
				return errors.Wrapf(ErrInvalidSelection, "nothing to keep in [%s]", FormatFaces(faces))
			}
			g.holdMask(m)
			if _, err := g.Keep(o.Player); err != nil {
				return err
			}
			o.pause()

			if g.Phase() != PhaseReadyToRoll {
				continue
			}
			canBank := g.CanBank(o.Player)
			if o.Policy.ShouldBank(g.TurnPoints(), cycle, canBank) {
				glog.V(1).Infof("%s: banking %d after cycle %d (kept %d)",
					o.Player, g.TurnPoints(), cycle, score)
				if _, err := g.Bank(o.Player); err != nil {
					return err
				}
			}
		}
	}
}
