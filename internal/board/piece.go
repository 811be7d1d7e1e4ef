package board

import "strings"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns "white", "black" or "none".
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// PieceType is the kind of a piece regardless of color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeNames = [...]string{"pawn", "knight", "bishop", "rook", "queen", "king", "none"}

// exchangeValue is the material scale used for trades. The king is never
// traded, so it is worth nothing in an exchange.
var exchangeValue = [...]int{1, 3, 3, 5, 9, 0, 0}

// String returns the lowercase name of the piece kind.
func (pt PieceType) String() string {
	if pt > NoPieceType {
		pt = NoPieceType
	}
	return pieceTypeNames[pt]
}

// Value returns the exchange value in pawns.
func (pt PieceType) Value() int {
	if pt > NoPieceType {
		return 0
	}
	return exchangeValue[pt]
}

// Letter returns the uppercase SAN letter for the kind ('P' for pawns).
func (pt PieceType) Letter() byte {
	if pt >= NoPieceType {
		return '?'
	}
	return "PNBRQK"[pt]
}

// Piece is a colored piece, encoded as kind + 6*color.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

const pieceLetters = "PNBRQKpnbrqk"

var pieceGlyphs = [...]rune{'♙', '♘', '♗', '♖', '♕', '♔', '♟', '♞', '♝', '♜', '♛', '♚'}

// NewPiece builds a Piece, or NoPiece when either part is out of range.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(c)*6 + Piece(pt)
}

// PieceFromChar converts a FEN letter to a Piece.
func PieceFromChar(ch byte) Piece {
	i := strings.IndexByte(pieceLetters, ch)
	if i < 0 {
		return NoPiece
	}
	return Piece(i)
}

// Type returns the kind of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the owner of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// Value returns the exchange value of the piece in pawns.
func (p Piece) Value() int {
	return p.Type().Value()
}

// String returns the FEN letter, uppercase for white.
func (p Piece) String() string {
	if p >= NoPiece {
		return "."
	}
	return pieceLetters[p : p+1]
}

// Glyph returns the Unicode chess symbol for the piece.
func (p Piece) Glyph() rune {
	if p >= NoPiece {
		return ' '
	}
	return pieceGlyphs[p]
}
