package classify

import (
	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/oracle"
)

// retaliation grades, worst for the mover first
const (
	gradeUnfavorable = iota
	gradeNeutral
	gradeFavorable
)

// evaluator owns a scratch board. Every probe is a make/unmake pair, so the
// board is back to the snapshot between calls.
type evaluator struct {
	pos board.Position
}

func (ev *evaluator) reset(src *board.Position) {
	ev.pos = *src
}

// evaluate runs the two-ply check for m, which must be legal.
func (ev *evaluator) evaluate(m board.Move) MoveReport {
	p := &ev.pos
	r := MoveReport{Move: m, Reply: board.NoMove}

	mover := p.PieceAt(m.From())
	captured := m.Captured(p)
	risked := mover.Value()
	r.Gain = captured.Value()
	if m.IsPromotion() {
		risked = m.Promotion().Value()
		r.Gain += risked - board.Pawn.Value()
	}

	u := p.MakeMove(m)
	defer p.UnmakeMove(m, u)

	r.After = p.Status()
	if r.After == board.Checkmate {
		r.Class = Recommended
		return r
	}

	dest := m.To()
	replies := oracle.LegalCapturers(p, dest)
	them := p.SideToMove

	if len(replies) == 0 && !oracle.IsAttacked(p, dest, them) {
		switch {
		case captured != board.NoPiece && r.Gain >= risked:
			r.Class = Recommended
		case r.After != board.Stalemate && !ev.opponentHasSafeMove():
			r.Class = Recommended
		default:
			r.Class = Safe
		}
		return r
	}

	if captured != board.NoPiece && captured.Value() > risked {
		r.Class = FavorableCapture
		return r
	}
	if len(replies) == 0 {
		r.Class = Unsafe
		return r
	}

	bestGrade, bestNet := gradeFavorable+1, 0
	for _, reply := range replies {
		grade, net, loss := ev.gradeReply(reply, r.Gain, risked)
		if grade < bestGrade || grade == bestGrade && net < bestNet {
			bestGrade, bestNet = grade, net
			r.Reply, r.Loss = reply, loss
		}
	}
	switch bestGrade {
	case gradeUnfavorable:
		r.Class = UnsafeUnfavorableRetaliation
	case gradeNeutral:
		r.Class = UnsafeNeutralRetaliation
	default:
		r.Class = UnsafeFavorableRetaliation
	}
	return r
}

// gradeReply plays the opponent's capture of the moved piece and grades it
// from the mover's side. A reply that loses the mover material is still
// neutral when the mover can take the capturer back and break even.
func (ev *evaluator) gradeReply(reply board.Move, gain, risked int) (grade, net, loss int) {
	p := &ev.pos
	loss = risked
	if reply.IsPromotion() {
		loss += reply.Promotion().Value() - board.Pawn.Value()
	}
	net = gain - loss

	switch {
	case net > 0:
		return gradeFavorable, net, loss
	case net == 0:
		return gradeNeutral, net, loss
	}

	u := p.MakeMove(reply)
	capturer := p.PieceAt(reply.To()).Value()
	recapture := len(oracle.LegalCapturers(p, reply.To())) > 0
	p.UnmakeMove(reply, u)

	if recapture && net+capturer >= 0 {
		return gradeNeutral, net, loss
	}
	return gradeUnfavorable, net, loss
}

// opponentHasSafeMove reports whether the side to move has a reply that
// either lands out of reach or captures at least its own value.
func (ev *evaluator) opponentHasSafeMove() bool {
	p := &ev.pos
	us := p.SideToMove
	for _, m := range p.GenerateLegalMoves().Slice() {
		mover := p.PieceAt(m.From())
		if victim := m.Captured(p); victim != board.NoPiece && victim.Value() >= mover.Value() {
			return true
		}
		u := p.MakeMove(m)
		reachable := oracle.IsAttacked(p, m.To(), us.Other()) || len(oracle.LegalCapturers(p, m.To())) > 0
		p.UnmakeMove(m, u)
		if !reachable {
			return true
		}
	}
	return false
}

// terminalMoves returns the moves of the side to move that end the game.
func (ev *evaluator) terminalMoves() (mates, stalemates []board.Move) {
	p := &ev.pos
	for _, m := range p.GenerateLegalMoves().Slice() {
		u := p.MakeMove(m)
		switch p.Status() {
		case board.Checkmate:
			mates = append(mates, m)
		case board.Stalemate:
			stalemates = append(stalemates, m)
		}
		p.UnmakeMove(m, u)
	}
	return mates, stalemates
}
