package board

import "fmt"

type castleRule struct {
	color    Color
	right    CastlingRights
	kingFrom Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
	path     Bitboard // must be empty
	transit  [3]Square // must not be attacked, king square included
}

var castleRules = [4]castleRule{
	{White, WhiteKingSideCastle, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), [3]Square{E1, F1, G1}},
	{White, WhiteQueenSideCastle, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), [3]Square{E1, D1, C1}},
	{Black, BlackKingSideCastle, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), [3]Square{E8, F8, G8}},
	{Black, BlackQueenSideCastle, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), [3]Square{E8, D8, C8}},
}

// castleRookMove returns the rook's travel for a castle landing the king on kingTo.
func castleRookMove(kingTo Square) (from, to Square) {
	for _, r := range castleRules {
		if r.kingTo == kingTo {
			return r.rookFrom, r.rookTo
		}
	}
	return NoSquare, NoSquare
}

// GenerateLegalMoves returns every legal move for the side to move.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generate(ml, p.Occupied[p.SideToMove], false)
	return p.filterLegal(ml)
}

// GenerateLegalMovesFrom returns the legal moves of the piece on sq. The
// list is empty when sq is empty or holds a piece of the side not to move.
func (p *Position) GenerateLegalMovesFrom(sq Square) *MoveList {
	ml := NewMoveList()
	if !sq.IsValid() || !p.Occupied[p.SideToMove].Has(sq) {
		return ml
	}
	p.generate(ml, SquareBB(sq), false)
	return p.filterLegal(ml)
}

// GenerateCaptures returns the legal captures, en passant included.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generate(ml, p.Occupied[p.SideToMove], true)
	return p.filterLegal(ml)
}

// GenerateCapturesOn returns the legal moves that remove the piece
// standing on sq.
func (p *Position) GenerateCapturesOn(sq Square) *MoveList {
	all := p.GenerateCaptures()
	ml := NewMoveList()
	for _, m := range all.Slice() {
		if m.CaptureSquare() == sq {
			ml.Add(m)
		}
	}
	return ml
}

// FindMove looks up the legal move matching the given squares. promo is
// ignored for non-promotions and defaults to a queen for promotions.
func (p *Position) FindMove(from, to Square, promo PieceType) (Move, bool) {
	if promo == NoPieceType {
		promo = Queen
	}
	moves := p.GenerateLegalMovesFrom(from)
	for _, m := range moves.Slice() {
		if m.To() != to {
			continue
		}
		if m.IsPromotion() && m.Promotion() != promo {
			continue
		}
		return m, true
	}
	return NoMove, false
}

// IsLegal reports whether m is one of the legal moves of the position.
func (p *Position) IsLegal(m Move) bool {
	return p.GenerateLegalMovesFrom(m.From()).Contains(m)
}

// Apply returns the position after m, leaving p untouched. Moves outside
// the legal set are rejected with ErrInvalidMove.
func (p *Position) Apply(m Move) (*Position, error) {
	if !p.IsLegal(m) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}
	next := p.Copy()
	next.MakeMove(m)
	return next, nil
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	ml := NewMoveList()
	p.generate(ml, p.Occupied[p.SideToMove], false)
	for _, m := range ml.Slice() {
		if p.leavesKingSafe(m) {
			return true
		}
	}
	return false
}

// generate appends pseudo-legal moves for the side to move's pieces in from.
func (p *Position) generate(ml *MoveList, from Bitboard, capturesOnly bool) {
	us := p.SideToMove
	own := p.Occupied[us]
	enemies := p.Occupied[us.Other()]

	for pieces := from & own; pieces != 0; {
		sq := pieces.PopLSB()
		pt := p.PieceAt(sq).Type()
		if pt == Pawn {
			p.pawnMoves(ml, sq, capturesOnly)
			continue
		}
		targets := PieceAttacks(pt, sq, p.AllOccupied) &^ own
		if capturesOnly {
			targets &= enemies
		}
		for targets != 0 {
			ml.Add(NewMove(sq, targets.PopLSB()))
		}
		if pt == King && !capturesOnly {
			p.castles(ml, sq)
		}
	}
}

func (p *Position) pawnMoves(ml *MoveList, from Square, capturesOnly bool) {
	us := p.SideToMove
	step := 8
	if us == Black {
		step = -8
	}
	promoting := from.RelativeRank(us) == 6

	add := func(to Square) {
		if promoting {
			for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
				ml.Add(NewPromotion(from, to, pt))
			}
			return
		}
		ml.Add(NewMove(from, to))
	}

	if !capturesOnly {
		one := Square(int(from) + step)
		if p.IsEmpty(one) {
			add(one)
			if two := Square(int(one) + step); from.RelativeRank(us) == 1 && p.IsEmpty(two) {
				ml.Add(NewMove(from, two))
			}
		}
	}

	attacks := PawnAttacks(from, us)
	for targets := attacks & p.Occupied[us.Other()]; targets != 0; {
		add(targets.PopLSB())
	}
	if p.EnPassant != NoSquare && attacks.Has(p.EnPassant) {
		ml.Add(NewEnPassant(from, p.EnPassant))
	}
}

func (p *Position) castles(ml *MoveList, ksq Square) {
	them := p.SideToMove.Other()
	for _, r := range castleRules {
		if r.color != p.SideToMove || r.kingFrom != ksq || p.CastlingRights&r.right == 0 {
			continue
		}
		if p.AllOccupied&r.path != 0 || p.PieceAt(r.rookFrom) != NewPiece(Rook, r.color) {
			continue
		}
		safe := true
		for _, sq := range r.transit {
			if p.IsSquareAttacked(sq, them) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewCastling(r.kingFrom, r.kingTo))
		}
	}
}

// filterLegal keeps the moves that do not leave the mover's king attacked.
func (p *Position) filterLegal(ml *MoveList) *MoveList {
	out := NewMoveList()
	for _, m := range ml.Slice() {
		if p.leavesKingSafe(m) {
			out.Add(m)
		}
	}
	return out
}

func (p *Position) leavesKingSafe(m Move) bool {
	us := p.SideToMove
	u := p.MakeMove(m)
	ksq := p.KingSquare[us]
	safe := ksq == NoSquare || !p.IsSquareAttacked(ksq, us.Other())
	p.UnmakeMove(m, u)
	return safe
}

// MakeMove plays m in place and returns the record UnmakeMove needs. The
// move is assumed pseudo-legal for the side to move.
func (p *Position) MakeMove(m Move) Undo {
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	mover := p.PieceAt(from)
	pt := mover.Type()

	u := Undo{
		Captured:       NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
	}

	h := p.Hash ^ zobristSideToMove ^ zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		h ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}

	if victim := m.Captured(p); victim != NoPiece {
		capSq := m.CaptureSquare()
		p.removePiece(capSq)
		h ^= zobristPiece[them][victim.Type()][capSq]
		u.Captured = victim
	}

	p.movePiece(from, to)
	h ^= zobristPiece[us][pt][from] ^ zobristPiece[us][pt][to]

	switch {
	case m.IsPromotion():
		promo := m.Promotion()
		p.removePiece(to)
		p.setPiece(NewPiece(promo, us), to)
		h ^= zobristPiece[us][Pawn][to] ^ zobristPiece[us][promo][to]
	case m.IsCastling():
		rf, rt := castleRookMove(to)
		p.movePiece(rf, rt)
		h ^= zobristPiece[us][Rook][rf] ^ zobristPiece[us][Rook][rt]
	case pt == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16):
		p.EnPassant = Square((int(from) + int(to)) / 2)
		h ^= zobristEnPassant[p.EnPassant.File()]
	}

	p.CastlingRights &= castleKeep[from] & castleKeep[to]
	h ^= zobristCastling[p.CastlingRights]

	if pt == Pawn || u.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.Hash = h
	p.UpdateCheckers()
	return u
}

// UnmakeMove reverts MakeMove. After the pair the position is identical
// to the one before, hash and clocks included.
func (p *Position) UnmakeMove(m Move, u Undo) {
	us := p.SideToMove.Other()
	from, to := m.From(), m.To()

	if m.IsPromotion() {
		p.removePiece(to)
		p.setPiece(NewPiece(Pawn, us), to)
	}
	p.movePiece(to, from)
	if m.IsCastling() {
		rf, rt := castleRookMove(to)
		p.movePiece(rt, rf)
	}
	if u.Captured != NoPiece {
		p.setPiece(u.Captured, m.CaptureSquare())
	}

	p.SideToMove = us
	p.CastlingRights = u.CastlingRights
	p.EnPassant = u.EnPassant
	p.HalfMoveClock = u.HalfMoveClock
	p.Hash = u.Hash
	p.Checkers = u.Checkers
	if us == Black {
		p.FullMoveNumber--
	}
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}
	var nodes int64
	for _, m := range moves.Slice() {
		u := p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UnmakeMove(m, u)
	}
	return nodes
}
