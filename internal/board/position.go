package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a bit set of the four castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle CastlingRights = 1 << iota
	WhiteQueenSideCastle
	BlackKingSideCastle
	BlackQueenSideCastle

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// castleKeep[sq] is the set of rights that survive a move touching sq.
var castleKeep [64]CastlingRights

func init() {
	for sq := range castleKeep {
		castleKeep[sq] = AllCastling
	}
	castleKeep[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	castleKeep[H1] &^= WhiteKingSideCastle
	castleKeep[A1] &^= WhiteQueenSideCastle
	castleKeep[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
	castleKeep[H8] &^= BlackKingSideCastle
	castleKeep[A8] &^= BlackQueenSideCastle
}

// Position is a full board state: placement, side to move, castling
// rights, en passant target and the move clocks.
type Position struct {
	Pieces      [2][6]Bitboard
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int

	Hash       uint64
	KingSquare [2]Square
	Checkers   Bitboard
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Copy returns an independent copy.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}
	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// IsEmpty reports whether sq holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return !p.AllOccupied.Has(sq)
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers != 0
}

func (p *Position) setPiece(piece Piece, sq Square) {
	c, pt := piece.Color(), piece.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	if pt == King {
		p.KingSquare[c] = sq
	}
}

func (p *Position) removePiece(sq Square) Piece {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return NoPiece
	}
	bb := SquareBB(sq)
	p.Pieces[piece.Color()][piece.Type()] &^= bb
	p.Occupied[piece.Color()] &^= bb
	p.AllOccupied &^= bb
	return piece
}

func (p *Position) movePiece(from, to Square) {
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return
	}
	c, pt := piece.Color(), piece.Type()
	flip := SquareBB(from) | SquareBB(to)
	p.Pieces[c][pt] ^= flip
	p.Occupied[c] ^= flip
	p.AllOccupied ^= flip
	if pt == King {
		p.KingSquare[c] = to
	}
}

// Place puts piece on sq, replacing any occupant, and refreshes the
// derived state. NoPiece empties the square.
func (p *Position) Place(piece Piece, sq Square) {
	p.removePiece(sq)
	if piece != NoPiece {
		p.setPiece(piece, sq)
	}
	p.refresh()
}

// refresh recomputes king squares, hash and checkers from the bitboards.
func (p *Position) refresh() {
	p.KingSquare[White] = p.Pieces[White][King].LSB()
	p.KingSquare[Black] = p.Pieces[Black][King].LSB()
	p.Hash = p.ComputeHash()
	p.UpdateCheckers()
}

// Validate reports ErrMalformedBoard for positions that cannot arise in a
// game and that move generation cannot reason about.
func (p *Position) Validate() error {
	for c := White; c <= Black; c++ {
		if n := p.Pieces[c][King].PopCount(); n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrMalformedBoard, c, n)
		}
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("%w: pawn on a back rank", ErrMalformedBoard)
	}
	if p.IsSquareAttacked(p.KingSquare[p.SideToMove.Other()], p.SideToMove) {
		return fmt.Errorf("%w: %s to move can capture the king", ErrMalformedBoard, p.SideToMove)
	}
	for _, r := range castleRules {
		if p.CastlingRights&r.right == 0 {
			continue
		}
		if p.PieceAt(r.kingFrom) != NewPiece(King, r.color) || p.PieceAt(r.rookFrom) != NewPiece(Rook, r.color) {
			return fmt.Errorf("%w: castling right %s without king and rook at home", ErrMalformedBoard, r.right)
		}
	}
	if ep := p.EnPassant; ep != NoSquare {
		them := p.SideToMove.Other()
		if ep.RelativeRank(them) != 2 {
			return fmt.Errorf("%w: en passant target %s on the wrong rank", ErrMalformedBoard, ep)
		}
		pushed := NewSquare(ep.File(), ep.Rank()+1)
		if them == Black {
			pushed = NewSquare(ep.File(), ep.Rank()-1)
		}
		if !p.IsEmpty(ep) || p.PieceAt(pushed) != NewPiece(Pawn, them) {
			return fmt.Errorf("%w: en passant target %s does not follow a double push", ErrMalformedBoard, ep)
		}
	}
	return nil
}

// NullUndo restores a position after MakeNullMove.
type NullUndo struct {
	EnPassant Square
	Hash      uint64
	Checkers  Bitboard
}

// MakeNullMove hands the turn to the opponent without moving a piece.
func (p *Position) MakeNullMove() NullUndo {
	u := NullUndo{EnPassant: p.EnPassant, Hash: p.Hash, Checkers: p.Checkers}
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}
	p.SideToMove = p.SideToMove.Other()
	p.Hash ^= zobristSideToMove
	p.UpdateCheckers()
	return u
}

// UnmakeNullMove reverts MakeNullMove.
func (p *Position) UnmakeNullMove(u NullUndo) {
	p.SideToMove = p.SideToMove.Other()
	p.EnPassant = u.EnPassant
	p.Hash = u.Hash
	p.Checkers = u.Checkers
}

// String draws the board with rank 8 on top followed by the FEN.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteString(p.PieceAt(NewSquare(file, rank)).String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	sb.WriteString(p.ToFEN())
	sb.WriteByte('\n')
	return sb.String()
}
