package farkle

import "github.com/cockroachdb/errors"

var (
	// ErrIllegalTransition is returned when an operation is invoked outside
	// the phase in which it is legal. The game state is left untouched.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrNotYourTurn is returned when a player acts while the other player
	// holds the dice. It is also an ErrIllegalTransition.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrGameOver is returned by every transition once a player has won,
	// except Acknowledge. It is also an ErrIllegalTransition.
	ErrGameOver = errors.New("game over")
	// ErrInvalidSelection is returned by Keep when the held dice do not score.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrBadSnapshot is returned when a restored snapshot is malformed. Hosts
	// should discard it and start a new game.
	ErrBadSnapshot = errors.New("bad snapshot")
	// ErrNotFound is returned by a Store when no record has been saved.
	ErrNotFound = errors.New("not found")
)

func illegal(cause error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(cause, format, args...), ErrIllegalTransition)
}
