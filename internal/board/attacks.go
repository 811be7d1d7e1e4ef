package board

// Ray directions in clockwise order starting north. Index d and d+4 are
// opposite each other.
const (
	north = iota
	northEast
	east
	southEast
	south
	southWest
	west
	northWest
)

var dirDelta = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

var (
	rookDirs   = [4]int{north, east, south, west}
	bishopDirs = [4]int{northEast, southEast, southWest, northWest}
)

var (
	rays          [8][64]Bitboard
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard
)

func init() {
	for sq := A1; sq < NoSquare; sq++ {
		f, r := sq.File(), sq.Rank()

		for d, delta := range dirDelta {
			for nf, nr := f+delta[0], r+delta[1]; onBoard(nf, nr); nf, nr = nf+delta[0], nr+delta[1] {
				rays[d][sq] |= SquareBB(NewSquare(nf, nr))
			}
			if onBoard(f+delta[0], r+delta[1]) {
				kingAttacks[sq] |= SquareBB(NewSquare(f+delta[0], r+delta[1]))
			}
		}

		for _, j := range [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}} {
			if onBoard(f+j[0], r+j[1]) {
				knightAttacks[sq] |= SquareBB(NewSquare(f+j[0], r+j[1]))
			}
		}

		for _, df := range [2]int{-1, 1} {
			if onBoard(f+df, r+1) {
				pawnAttacks[White][sq] |= SquareBB(NewSquare(f+df, r+1))
			}
			if onBoard(f+df, r-1) {
				pawnAttacks[Black][sq] |= SquareBB(NewSquare(f+df, r-1))
			}
		}
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// slide walks each ray until the first occupied square, which is included.
func slide(sq Square, occupied Bitboard, dirs [4]int) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		ray := rays[d][sq]
		attacks |= ray
		blockers := ray & occupied
		if blockers == 0 {
			continue
		}
		var first Square
		if d == north || d == northEast || d == east || d == northWest {
			first = blockers.LSB()
		} else {
			first = blockers.MSB()
		}
		attacks &^= rays[d][first]
	}
	return attacks
}

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the diagonal squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttacks[c][sq] }

// BishopAttacks returns diagonal attacks from sq given the occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return slide(sq, occupied, bishopDirs)
}

// RookAttacks returns orthogonal attacks from sq given the occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return slide(sq, occupied, rookDirs)
}

// QueenAttacks is the union of rook and bishop attacks.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}

// PieceAttacks returns the attack set of a non-pawn piece kind.
func PieceAttacks(pt PieceType, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

// AttackersByColor returns the pieces of color c that attack sq under the
// given occupancy. Pinned pieces still count: this is raw geometry.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	own := &p.Pieces[c]
	diagonal := own[Bishop] | own[Queen]
	straight := own[Rook] | own[Queen]
	return pawnAttacks[c.Other()][sq]&own[Pawn] |
		knightAttacks[sq]&own[Knight] |
		kingAttacks[sq]&own[King] |
		BishopAttacks(sq, occupied)&diagonal |
		RookAttacks(sq, occupied)&straight
}

// AttackersTo returns attackers of both colors.
func (p *Position) AttackersTo(sq Square, occupied Bitboard) Bitboard {
	return p.AttackersByColor(sq, White, occupied) | p.AttackersByColor(sq, Black, occupied)
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.AttackersByColor(sq, by, p.AllOccupied) != 0
}

// UpdateCheckers recomputes the pieces giving check to the side to move.
func (p *Position) UpdateCheckers() {
	ksq := p.Pieces[p.SideToMove][King].LSB()
	if ksq == NoSquare {
		p.Checkers = 0
		return
	}
	p.Checkers = p.AttackersByColor(ksq, p.SideToMove.Other(), p.AllOccupied)
}
