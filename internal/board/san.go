package board

import (
	"fmt"
	"strings"
)

// ToSAN renders m in standard algebraic notation for pos, with a check or
// mate suffix.
func (m Move) ToSAN(pos *Position) string {
	piece := pos.PieceAt(m.From())
	if m == NoMove || piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder
	switch {
	case m.IsCastling() && m.To() > m.From():
		sb.WriteString("O-O")
	case m.IsCastling():
		sb.WriteString("O-O-O")
	default:
		pt := piece.Type()
		capture := m.IsCapture(pos)
		if pt == Pawn {
			if capture {
				sb.WriteByte(byte('a' + m.From().File()))
			}
		} else {
			sb.WriteByte(pt.Letter())
			sb.WriteString(disambiguate(pos, m, pt))
		}
		if capture {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To().String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(m.Promotion().Letter())
		}
	}

	next := pos.Copy()
	next.MakeMove(m)
	switch next.Status() {
	case Checkmate:
		sb.WriteByte('#')
	case Check:
		sb.WriteByte('+')
	}
	return sb.String()
}

// disambiguate returns the origin file, rank or square needed when another
// piece of the same kind can reach the same destination.
func disambiguate(pos *Position, m Move, pt PieceType) string {
	from := m.From()
	var rivals []Square
	for _, other := range pos.GenerateLegalMoves().Slice() {
		if other.To() == m.To() && other.From() != from && pos.PieceAt(other.From()).Type() == pt {
			rivals = append(rivals, other.From())
		}
	}
	if len(rivals) == 0 {
		return ""
	}
	fileShared, rankShared := false, false
	for _, sq := range rivals {
		fileShared = fileShared || sq.File() == from.File()
		rankShared = rankShared || sq.Rank() == from.Rank()
	}
	switch {
	case !fileShared:
		return from.String()[:1]
	case !rankShared:
		return from.String()[1:]
	}
	return from.String()
}

// ParseSAN finds the legal move of pos written as s in algebraic notation.
func ParseSAN(s string, pos *Position) (Move, error) {
	text := strings.TrimRight(strings.TrimSpace(s), "+#!?")
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if strings.TrimRight(m.ToSAN(pos), "+#") == text {
			return m, nil
		}
	}
	if text == "0-0" || text == "0-0-0" {
		return ParseSAN(strings.ReplaceAll(text, "0", "O"), pos)
	}
	return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
}

// MovesToSAN renders a line of moves starting from pos.
func MovesToSAN(pos *Position, moves []Move) []string {
	out := make([]string, len(moves))
	p := pos.Copy()
	for i, m := range moves {
		out[i] = m.ToSAN(p)
		p.MakeMove(m)
	}
	return out
}
