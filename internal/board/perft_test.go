package board

import "testing"

func TestPerft(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		counts []int64
	}{
		{"start", StartFEN, []int64{20, 400, 8902, 197281}},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []int64{48, 2039, 97862}},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []int64{14, 191, 2812, 43238}},
		{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []int64{6, 264, 9467}},
		{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []int64{44, 1486, 62379}},
	}

	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("%s: ParseFEN: %v", tc.name, err)
		}
		for i, want := range tc.counts {
			depth := i + 1
			if got := pos.Perft(depth); got != want {
				t.Errorf("%s: perft(%d) = %d, want %d", tc.name, depth, got, want)
			}
		}
	}
}

// Black's e4 pawn may not take en passant on d3: removing both pawns
// would open the rank between the a4 king and the h4 rook.
func TestPerftEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.IsEnPassant() {
			t.Errorf("en passant %v should be illegal", m)
		}
	}
	if got := pos.Perft(1); got != 6 {
		t.Errorf("perft(1) = %d, want 6", got)
	}
	if got := pos.Perft(2); got != 94 {
		t.Errorf("perft(2) = %d, want 94", got)
	}
}
