package board

import (
	"fmt"
	"strings"
)

// Move packs a move into 16 bits:
//
//	bits 0-5   origin
//	bits 6-11  destination
//	bits 12-13 kind (normal, promotion, en passant, castle)
//	bits 14-15 promotion piece, knight..queen
type Move uint16

type moveKind uint16

const (
	kindNormal moveKind = iota
	kindPromotion
	kindEnPassant
	kindCastle
)

// NoMove is the zero move.
const NoMove Move = 0

func packMove(from, to Square, kind moveKind, promo PieceType) Move {
	var p Move
	if kind == kindPromotion {
		p = Move(promo-Knight) << 14
	}
	return Move(from) | Move(to)<<6 | Move(kind)<<12 | p
}

// NewMove creates a plain move or capture.
func NewMove(from, to Square) Move { return packMove(from, to, kindNormal, 0) }

// NewPromotion creates a pawn move that promotes to promo.
func NewPromotion(from, to Square, promo PieceType) Move {
	return packMove(from, to, kindPromotion, promo)
}

// NewEnPassant creates an en passant capture landing on to.
func NewEnPassant(from, to Square) Move { return packMove(from, to, kindEnPassant, 0) }

// NewCastling creates a castle described by the king's travel.
func NewCastling(from, to Square) Move { return packMove(from, to, kindCastle, 0) }

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> 6 & 0x3F) }

func (m Move) kind() moveKind { return moveKind(m >> 12 & 3) }

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.kind() == kindPromotion }

// IsEnPassant reports whether the move is an en passant capture.
func (m Move) IsEnPassant() bool { return m.kind() == kindEnPassant }

// IsCastling reports whether the move is a castle.
func (m Move) IsCastling() bool { return m.kind() == kindCastle }

// Promotion returns the promoted kind, or NoPieceType for other moves.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return PieceType(m>>14) + Knight
}

// CaptureSquare returns the square whose occupant the move would remove.
// It differs from To only for en passant.
func (m Move) CaptureSquare() Square {
	if m.IsEnPassant() {
		return NewSquare(m.To().File(), m.From().Rank())
	}
	return m.To()
}

// Captured returns the enemy piece the move removes in pos, or NoPiece.
func (m Move) Captured(pos *Position) Piece {
	if m.IsCastling() {
		return NoPiece
	}
	victim := pos.PieceAt(m.CaptureSquare())
	mover := pos.PieceAt(m.From())
	if victim == NoPiece || victim.Color() == mover.Color() {
		return NoPiece
	}
	return victim
}

// IsCapture reports whether the move takes a piece in pos.
func (m Move) IsCapture(pos *Position) bool {
	return m.Captured(pos) != NoPiece
}

// String renders the move in coordinate notation such as "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += strings.ToLower(string(m.Promotion().Letter()))
	}
	return s
}

// ParseMove resolves coordinate notation against the legal moves of pos.
// A promotion without a suffix is read as a queen promotion.
func ParseMove(s string, pos *Position) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	promo := NoPieceType
	if len(s) == 5 {
		promo = promotionFromLetter(s[4])
		if promo == NoPieceType {
			return NoMove, fmt.Errorf("%w: bad promotion in %q", ErrInvalidMove, s)
		}
	}
	if m, ok := pos.FindMove(from, to, promo); ok {
		return m, nil
	}
	return NoMove, fmt.Errorf("%w: %s is not legal", ErrInvalidMove, s)
}

func promotionFromLetter(ch byte) PieceType {
	switch ch {
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	}
	return NoPieceType
}

// MoveList is a fixed-capacity move buffer.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList returns an empty list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends m.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves.
func (ml *MoveList) Len() int { return ml.count }

// Get returns the i-th move.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves[:ml.count] {
		if x == m {
			return true
		}
	}
	return false
}

// Slice exposes the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Undo records what MakeMove overwrote so UnmakeMove can restore it.
type Undo struct {
	Captured       Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	Checkers       Bitboard
}
