package board

// Status describes whether the side to move can continue.
type Status uint8

const (
	InPlay Status = iota
	Check
	Checkmate
	Stalemate
)

var statusNames = [...]string{"in-play", "check", "checkmate", "stalemate"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// IsTerminal reports whether no further moves exist.
func (s Status) IsTerminal() bool {
	return s == Checkmate || s == Stalemate
}

// Status classifies the position for the side to move.
func (p *Position) Status() Status {
	hasMoves := p.HasLegalMoves()
	switch {
	case !hasMoves && p.InCheck():
		return Checkmate
	case !hasMoves:
		return Stalemate
	case p.InCheck():
		return Check
	}
	return InPlay
}

// IsCheckmate reports whether the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no legal move and is
// not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
