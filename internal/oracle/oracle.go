// Package oracle answers attack and defense questions about a position:
// who attacks a square, who can legally capture on it, and what a full
// exchange there is worth.
package oracle

import "github.com/hailam/chesslens/internal/board"

// Attackers returns side's pieces attacking sq by raw geometry. Pinned
// pieces are included and the side to move is irrelevant.
func Attackers(pos *board.Position, sq board.Square, side board.Color) board.Bitboard {
	return pos.AttackersByColor(sq, side, pos.AllOccupied)
}

// IsAttacked reports whether side attacks sq by raw geometry.
func IsAttacked(pos *board.Position, sq board.Square, side board.Color) bool {
	return Attackers(pos, sq, side) != 0
}

// LegalCapturers returns the legal moves of the side to move that remove
// the piece standing on sq, en passant included.
func LegalCapturers(pos *board.Position, sq board.Square) []board.Move {
	list := pos.GenerateCapturesOn(sq)
	if list.Len() == 0 {
		return nil
	}
	return append([]board.Move(nil), list.Slice()...)
}

// IsDefended reports whether the owner of the piece on sq could legally
// recapture on sq if an enemy piece of the same kind took it. Kings and
// empty squares are never defended.
func IsDefended(pos *board.Position, sq board.Square) bool {
	piece := pos.PieceAt(sq)
	if piece == board.NoPiece || piece.Type() == board.King {
		return false
	}
	owner := piece.Color()
	scratch := pos.Copy()
	scratch.Place(board.NewPiece(piece.Type(), owner.Other()), sq)
	if scratch.SideToMove != owner {
		scratch.MakeNullMove()
	}
	return scratch.GenerateCapturesOn(sq).Len() > 0
}

// Exchange returns the material side nets by capturing on sq first and then
// trading off with least valuable pieces for as long as each recapture
// pays. Discovered sliders join as pieces leave the line. The result is
// zero when sq holds no enemy piece or side has no attacker.
func Exchange(pos *board.Position, sq board.Square, side board.Color) int {
	target := pos.PieceAt(sq)
	if target == board.NoPiece || target.Color() == side {
		return 0
	}

	occ := pos.AllOccupied
	from, pt := leastValuable(pos, pos.AttackersByColor(sq, side, occ), side)
	if from == board.NoSquare {
		return 0
	}

	var gain [32]int
	gain[0] = target.Value()
	d := 0
	stm := side
	for from != board.NoSquare && d < len(gain)-1 {
		d++
		gain[d] = pt.Value() - gain[d-1]
		occ &^= board.SquareBB(from)
		stm = stm.Other()
		attackers := pos.AttackersTo(sq, occ) & occ
		from, pt = leastValuable(pos, attackers, stm)
		if pt == board.King && attackers&pos.Occupied[stm.Other()] != 0 {
			break
		}
	}
	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}

func leastValuable(pos *board.Position, attackers board.Bitboard, c board.Color) (board.Square, board.PieceType) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		if bb := attackers & pos.Pieces[c][pt]; bb != 0 {
			return bb.LSB(), pt
		}
	}
	return board.NoSquare, board.NoPieceType
}
