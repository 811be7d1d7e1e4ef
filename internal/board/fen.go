package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN reads a FEN record. The clocks are optional. Syntax errors wrap
// ErrMalformedBoard; semantic checks are left to Validate.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: FEN needs 4 to 6 fields, got %d", ErrMalformedBoard, len(fields))
	}

	pos := &Position{EnPassant: NoSquare, FullMoveNumber: 1}

	rows := strings.Split(fields[0], "/")
	if len(rows) != 8 {
		return nil, fmt.Errorf("%w: FEN placement has %d ranks", ErrMalformedBoard, len(rows))
	}
	for i, row := range rows {
		rank, file := 7-i, 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece := PieceFromChar(ch)
			if piece == NoPiece || file > 7 {
				return nil, fmt.Errorf("%w: bad placement %q on rank %d", ErrMalformedBoard, row, rank+1)
			}
			pos.setPiece(piece, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d covers %d files", ErrMalformedBoard, rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrMalformedBoard, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			i := strings.IndexRune("KQkq", ch)
			if i < 0 {
				return nil, fmt.Errorf("%w: castling field %q", ErrMalformedBoard, fields[2])
			}
			pos.CastlingRights |= 1 << i
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant field: %v", ErrMalformedBoard, err)
		}
		pos.EnPassant = sq
	}

	clocks := []*int{&pos.HalfMoveClock, &pos.FullMoveNumber}
	for i, f := range fields[4:] {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: move counter %q", ErrMalformedBoard, f)
		}
		*clocks[i] = n
	}

	pos.refresh()
	return pos, nil
}

// ToFEN writes the position as a six-field FEN record.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		gap := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				gap++
				continue
			}
			if gap > 0 {
				sb.WriteString(strconv.Itoa(gap))
				gap = 0
			}
			sb.WriteString(piece.String())
		}
		if gap > 0 {
			sb.WriteString(strconv.Itoa(gap))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.CastlingRights, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
