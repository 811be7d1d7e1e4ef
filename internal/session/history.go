// Package session keeps the viewer's game state: the position, the moves
// played from the starting board, and what the user has selected.
package session

import (
	"fmt"

	"github.com/hailam/chesslens/internal/board"
)

// History is a linear move history with redo. Pushing a move after an undo
// discards the undone moves.
type History struct {
	start *board.Position
	moves []board.Move
	undos []board.Undo
	redo  []board.Move
	pos   *board.Position
}

// NewHistory starts a history at pos, which is copied.
func NewHistory(pos *board.Position) (*History, error) {
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	return &History{start: pos.Copy(), pos: pos.Copy()}, nil
}

// Current returns the position after the last played move. Callers must not
// modify it.
func (h *History) Current() *board.Position { return h.pos }

// Start returns the position the history began from.
func (h *History) Start() *board.Position { return h.start }

// Moves returns the played moves, oldest first.
func (h *History) Moves() []board.Move {
	return append([]board.Move(nil), h.moves...)
}

// RedoMoves returns the undone moves, next redo first.
func (h *History) RedoMoves() []board.Move {
	out := make([]board.Move, len(h.redo))
	for i, m := range h.redo {
		out[len(h.redo)-1-i] = m
	}
	return out
}

// Push plays m and clears the redo stack.
func (h *History) Push(m board.Move) error {
	if !h.pos.IsLegal(m) {
		return fmt.Errorf("%w: %s", board.ErrInvalidMove, m)
	}
	h.play(m)
	h.redo = h.redo[:0]
	return nil
}

// Undo takes back the last move and returns the resulting position,
// reporting false when there is nothing to undo.
func (h *History) Undo() (*board.Position, bool) {
	n := len(h.moves)
	if n == 0 {
		return h.pos, false
	}
	m, u := h.moves[n-1], h.undos[n-1]
	h.pos.UnmakeMove(m, u)
	h.moves, h.undos = h.moves[:n-1], h.undos[:n-1]
	h.redo = append(h.redo, m)
	return h.pos, true
}

// Redo replays the last undone move and returns the resulting position,
// reporting false when there is nothing to redo.
func (h *History) Redo() (*board.Position, bool) {
	n := len(h.redo)
	if n == 0 {
		return h.pos, false
	}
	m := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.play(m)
	return h.pos, true
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return len(h.moves) > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) play(m board.Move) {
	h.undos = append(h.undos, h.pos.MakeMove(m))
	h.moves = append(h.moves, m)
}
