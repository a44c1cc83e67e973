package farkle

import (
	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
)

// Game owns the state of one game between Human and CPU. It is not safe for
// concurrent use; each transition fully applies before it returns, and a
// transition that returns an error leaves the state untouched.
type Game struct {
	cfg   Config
	src   Source
	sink  EventSink
	state State
	// State before the Human's last transition, if it may be undone.
	undo *State
}

// NewGame starts a game with Human to roll. A nil sink discards events.
func NewGame(cfg Config, src Source, sink EventSink) *Game {
	return newGame(cfg, src, sink, newState())
}

func newGame(cfg Config, src Source, sink EventSink, state State) *Game {
	if sink == nil {
		sink = nopSink{}
	}
	return &Game{
		cfg:   cfg.Normalize(),
		src:   src,
		sink:  sink,
		state: state,
	}
}

func (g *Game) Config() Config {
	return g.cfg
}

// State returns a copy of the current state.
func (g *Game) State() State {
	return g.state.clone()
}

func (g *Game) Phase() Phase {
	return g.state.Phase()
}

func (g *Game) Roller() Player {
	return g.state.Roller
}

func (g *Game) TurnPoints() int {
	return g.state.TurnPoints
}

func (g *Game) Player(p Player) PlayerState {
	return g.state.Players[p]
}

// Winner returns the player whose bank ended the game.
func (g *Game) Winner() (Player, bool) {
	return g.state.Roller, g.state.GameOver
}

// CanBank reports whether a bank by p right now would credit points.
func (g *Game) CanBank(p Player) bool {
	if g.check(p, PhaseReadyToRoll, "bank") != nil || g.state.TurnPoints <= 0 {
		return false
	}
	return g.state.Players[p].OnBoard || g.state.TurnPoints >= g.cfg.MinEntry
}

// HeldScore is the score of the dice currently marked held, 0 if they do
// not form a valid selection.
func (g *Game) HeldScore() int {
	return ScoreFaces(g.state.HeldFaces())
}

func (g *Game) check(p Player, want Phase, op string) error {
	if g.state.GameOver {
		return illegal(ErrGameOver, "%s", op)
	}
	if p != g.state.Roller {
		return illegal(ErrNotYourTurn, "%s by %s while %s rolls", op, p, g.state.Roller)
	}
	if phase := g.state.Phase(); phase != want {
		return errors.Wrapf(ErrIllegalTransition, "%s in phase %s", op, phase)
	}
	return nil
}

func (g *Game) emit(e Event) {
	e.Player = g.state.Roller
	e.TurnPoints = g.state.TurnPoints
	e.Total = g.state.Players[g.state.Roller].Score
	g.sink.Emit(e)
}

// Called after p successfully applied a transition from prev.
func (g *Game) commit(p Player, prev State) {
	if p == Human {
		g.undo = &prev
	} else {
		g.undo = nil
	}
	glog.V(2).Infof("%s: %v", p, g.state)
}

// Roll draws DiceLeft dice for p. A roll whose dice cannot all be scored is a farkle:
// the turn's unbanked points are lost and the game waits for acknowledgement.
func (g *Game) Roll(p Player) ([]uint8, error) {
	if err := g.check(p, PhaseReadyToRoll, "roll"); err != nil {
		return nil, err
	}

	prev := g.state.clone()
	faces := RollN(g.src, g.state.DiceLeft)
	g.state.Tray = make([]TrayDie, len(faces))
	for i, face := range faces {
		g.state.Tray[i] = TrayDie{Value: face}
	}
	g.emit(Event{Kind: EventRolled, Faces: faces})

	if IsFarkle(faces) {
		lost := g.state.TurnPoints
		g.state.resetTurn()
		g.state.AwaitingAck = true
		g.emit(Event{Kind: EventFarkle, Points: lost})
	}

	g.commit(p, prev)
	return faces, nil
}

// ToggleHeld flips whether the i'th shown die is marked for keeping.
func (g *Game) ToggleHeld(p Player, i int) error {
	if err := g.check(p, PhaseDiceShown, "toggle"); err != nil {
		return err
	}
	if i < 0 || i >= len(g.state.Tray) {
		return errors.Wrapf(ErrInvalidSelection, "no die at position %d", i)
	}
	g.state.Tray[i].Held = !g.state.Tray[i].Held
	return nil
}

// HoldFaces marks exactly the given faces as held, matching each against a
// distinct shown die. On error no die changes.
func (g *Game) HoldFaces(p Player, faces []uint8) error {
	if err := g.check(p, PhaseDiceShown, "hold"); err != nil {
		return err
	}

	var m diceMask
	for _, face := range faces {
		found := false
		for i, d := range g.state.Tray {
			if d.Value == face && !m.IsSet(i) {
				m.Set(i)
				found = true
				break
			}
		}
		if !found {
			return errors.Wrapf(ErrInvalidSelection, "no shown die %d to hold", face)
		}
	}
	g.holdMask(m)
	return nil
}

func (g *Game) holdMask(m diceMask) {
	for i := range g.state.Tray {
		g.state.Tray[i].Held = m.IsSet(i)
	}
}

// Keep sets aside the held dice and adds their score to the turn. The held
// dice must all score; otherwise ErrInvalidSelection is returned.
func (g *Game) Keep(p Player) (int, error) {
	if err := g.check(p, PhaseDiceShown, "keep"); err != nil {
		return 0, err
	}
	held := g.state.HeldFaces()
	score := ScoreFaces(held)
	if len(held) == 0 || score <= 0 {
		return 0, errors.Wrapf(ErrInvalidSelection, "dice [%s] do not score", FormatFaces(held))
	}

	prev := g.state.clone()
	g.state.TurnPoints += score
	g.state.Kept = append(g.state.Kept, held...)
	g.state.DiceLeft = len(g.state.Tray) - len(held)
	g.state.Tray = nil
	g.emit(Event{Kind: EventKept, Faces: held, Points: score})

	if g.state.DiceLeft == 0 {
		g.state.DiceLeft = maxNumDice
		if g.cfg.HotDice {
			g.state.Kept = nil
			g.emit(Event{Kind: EventHotDice, Points: score})
		} else {
			g.state.AwaitingAck = true
			g.emit(Event{Kind: EventDiceExhausted})
		}
	}

	g.commit(p, prev)
	return score, nil
}

// Bank ends p's turn, crediting the unbanked points unless p is not yet on
// the board and the points fall short of the entry minimum. It reports
// whether anything was credited.
func (g *Game) Bank(p Player) (bool, error) {
	if err := g.check(p, PhaseReadyToRoll, "bank"); err != nil {
		return false, err
	}
	if g.state.TurnPoints <= 0 {
		return false, errors.Wrap(ErrIllegalTransition, "bank with no points")
	}

	prev := g.state.clone()
	points := g.state.TurnPoints
	player := &g.state.Players[p]
	credited := player.OnBoard || points >= g.cfg.MinEntry
	firstBank := credited && !player.OnBoard
	if credited {
		player.OnBoard = true
		player.Score += points
	}
	g.state.resetTurn()
	g.state.AwaitingAck = true

	if credited {
		g.emit(Event{Kind: EventBanked, Points: points, OnBoard: firstBank})
	} else {
		g.emit(Event{Kind: EventBankFailed, Points: points, Required: g.cfg.MinEntry})
	}
	if player.Score >= g.cfg.WinScore {
		g.state.GameOver = true
		g.emit(Event{Kind: EventGameWon})
	}

	g.commit(p, prev)
	return credited, nil
}

// EndTurn gives up the turn without banking; unbanked points are lost.
func (g *Game) EndTurn(p Player) error {
	if err := g.check(p, PhaseReadyToRoll, "end turn"); err != nil {
		return err
	}

	prev := g.state.clone()
	lost := g.state.TurnPoints
	g.state.resetTurn()
	g.state.AwaitingAck = true
	g.emit(Event{Kind: EventTurnForfeited, Points: lost})

	g.commit(p, prev)
	return nil
}

// Acknowledge passes the dice to the other player once a turn has ended. It
// does nothing after the game is over.
func (g *Game) Acknowledge(p Player) error {
	if g.state.GameOver {
		return nil
	}
	if err := g.check(p, PhaseAwaitingAck, "acknowledge"); err != nil {
		return err
	}

	prev := g.state.clone()
	g.state.resetTurn()
	g.state.AwaitingAck = false
	g.state.Roller = p.Other()
	g.emit(Event{Kind: EventTurnStarted})

	g.commit(p, prev)
	return nil
}

// Undo reverts Human's last roll, keep, bank or end-turn. Only one step is
// held, and any transition by CPU discards it. Nothing can be undone once the
// game is over or the dice have passed to CPU.
func (g *Game) Undo(p Player) error {
	if p != Human {
		return illegal(ErrNotYourTurn, "undo by %s", p)
	}
	if g.state.GameOver {
		return illegal(ErrGameOver, "undo")
	}
	if g.state.Roller != Human {
		return illegal(ErrNotYourTurn, "undo while %s rolls", g.state.Roller)
	}
	if g.undo == nil {
		return errors.Wrap(ErrIllegalTransition, "nothing to undo")
	}
	g.state = *g.undo
	g.undo = nil
	return nil
}
