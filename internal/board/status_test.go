package board

import (
	"errors"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want Status
	}{
		{"start", StartFEN, InPlay},
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", Checkmate},
		{"king takes the checker", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", Check},
		{"cornered king", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Stalemate},
		{"fool's mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", Checkmate},
	}
	for _, tc := range tests {
		pos := mustFEN(t, tc.fen)
		if got := pos.Status(); got != tc.want {
			t.Errorf("%s: Status() = %v, want %v", tc.name, got, tc.want)
		}
		if got := pos.Status().IsTerminal(); got != (tc.want == Checkmate || tc.want == Stalemate) {
			t.Errorf("%s: IsTerminal() = %v", tc.name, got)
		}
		if tc.want.IsTerminal() && pos.GenerateLegalMoves().Len() != 0 {
			t.Errorf("%s: terminal position still generates moves", tc.name)
		}
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}
	for _, fen := range fens {
		if got := mustFEN(t, fen).ToFEN(); got != fen {
			t.Errorf("ToFEN() = %q, want %q", got, fen)
		}
	}
	short := mustFEN(t, "8/8/8/8/8/8/8/K6k w - -")
	if short.HalfMoveClock != 0 || short.FullMoveNumber != 1 {
		t.Errorf("missing clocks should default to 0 1, got %d %d", short.HalfMoveClock, short.FullMoveNumber)
	}
}

func TestParseFENRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen); !errors.Is(err, ErrMalformedBoard) {
			t.Errorf("ParseFEN(%q) err = %v, want ErrMalformedBoard", fen, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		ok   bool
	}{
		{"start", StartFEN, true},
		{"no white king", "4k3/8/8/8/8/8/8/8 w - - 0 1", false},
		{"two black kings", "k3k3/8/8/8/8/8/8/4K3 w - - 0 1", false},
		{"pawn on rank one", "4k3/8/8/8/8/8/8/P3K3 w - - 0 1", false},
		{"opponent already in check", "4k3/4R3/8/8/8/8/8/4K3 w - - 0 1", false},
		{"castling right without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1", false},
		{"en passant without a pushed pawn", "4k3/8/8/8/8/8/8/4K3 b - e3 0 1", false},
		{"en passant after a push", "4k3/8/8/8/4P3/8/8/4K3 b - e3 0 1", true},
	}
	for _, tc := range tests {
		err := mustFEN(t, tc.fen).Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrMalformedBoard) {
			t.Errorf("%s: err = %v, want ErrMalformedBoard", tc.name, err)
		}
	}
}
