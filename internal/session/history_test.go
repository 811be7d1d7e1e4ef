package session

import (
	"errors"
	"testing"

	"github.com/hailam/chesslens/internal/board"
)

func TestHistoryReturnsPositions(t *testing.T) {
	h, err := NewHistory(board.NewPosition())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo on an empty history should report false")
	}

	m := board.NewMove(board.E2, board.E4)
	if err := h.Push(m); err != nil {
		t.Fatal(err)
	}
	pos, ok := h.Undo()
	if !ok || pos.ToFEN() != board.StartFEN {
		t.Errorf("Undo = %s, %v", pos.ToFEN(), ok)
	}
	pos, ok = h.Redo()
	if !ok || pos.PieceAt(board.E4) != board.WhitePawn || pos.EnPassant != board.E3 {
		t.Errorf("Redo = %s, %v", pos.ToFEN(), ok)
	}
	if h.Start().ToFEN() != board.StartFEN {
		t.Error("start position was modified")
	}
}

func TestNewHistoryRejectsMalformedBoards(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewHistory(pos); !errors.Is(err, board.ErrMalformedBoard) {
		t.Errorf("NewHistory without a white king = %v", err)
	}
}
