package game

import "errors"

// Precondition violations. Reaching one of these during play is a bookkeeping bug.
var (
	ErrInvalidSeat           = errors.New("invalid seat")
	ErrSeatFolded            = errors.New("seat has folded or is not in the hand")
	ErrSeatAllIn             = errors.New("seat is all-in")
	ErrPlayersStillOwe       = errors.New("players still owe chips to the pot")
	ErrInsufficientDeadMoney = errors.New("not enough dead money in pot")
	ErrMalformedPot          = errors.New("malformed pot")
	ErrNoActiveSeat          = errors.New("no active seat")
	ErrNotEnoughPlayers      = errors.New("at least 2 players required")
	ErrHandInProgress        = errors.New("hand in progress")
	ErrSeatOccupied          = errors.New("seat occupied")
	ErrNoProvider            = errors.New("seat has no action provider")
)

// Game rule violations.
var (
	ErrIllegalAction  = errors.New("illegal action")
	ErrNotImplemented = errors.New("not implemented")
)
