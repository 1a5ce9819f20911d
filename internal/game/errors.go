package game

import "errors"

var (
	// ErrInvalidSelection: the user designated zero or several target cells, or one
	// that cannot be fired at. Recoverable, re-prompt.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrConfiguration: fleet or layout catalogue cannot start a game.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvariantViolation signals a targeting bug, never user error.
	ErrInvariantViolation = errors.New("invariant violation")

	ErrGameOver = errors.New("game is over")
)
