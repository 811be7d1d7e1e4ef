package board

import "errors"

var (
	// ErrInvalidMove is returned for a move that is not in the legal set of
	// the position it is applied to.
	ErrInvalidMove = errors.New("invalid move")

	// ErrMalformedBoard is returned for positions that violate board
	// invariants, such as a missing king.
	ErrMalformedBoard = errors.New("malformed board")
)
