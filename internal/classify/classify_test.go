package classify

import (
	"errors"
	"testing"

	"github.com/hailam/chesslens/internal/board"
)

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func mustMove(t *testing.T, pos *board.Position, uci string) board.Move {
	t.Helper()
	m, err := board.ParseMove(uci, pos)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", uci, err)
	}
	return m
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestClassifyMove(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want Classification
	}{
		{"opening pawn push", board.StartFEN, "e2e4", Safe},
		{"knight takes a pawn-guarded queen", "4k3/8/4p3/3q4/8/4N3/8/4K3 w - - 0 1", "e3d5", FavorableCapture},
		{"back rank mate", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", Recommended},
		{"knight takes a loose rook", "4k3/8/8/3r4/8/4N3/8/4K3 w - - 0 1", "e3d5", Recommended},
		{"rook takes a loose knight", "4k3/8/8/3n4/8/8/8/3RK3 w - - 0 1", "d1d5", Safe},
		{"bishop takes away the last safe push", "7k/5K2/5N2/7p/8/8/3B4/8 w - - 0 1", "d2e1", Recommended},
		{"bishop leaves the push alone", "7k/5K2/5N2/7p/8/8/3B4/8 w - - 0 1", "d2c1", Safe},
		{"queen walks into a pawn", "4k3/8/4p3/8/8/8/8/3QK3 w - - 0 1", "d1d5", UnsafeUnfavorableRetaliation},
		{"knight trade with a pawn recapture", "4k3/8/5n2/8/4P3/2N5/8/4K3 w - - 0 1", "c3d5", UnsafeNeutralRetaliation},
		{"underdefended promotion capture", "1r2k3/P2n4/8/8/8/8/8/4K3 w - - 0 1", "a7b8q", UnsafeFavorableRetaliation},
		{"only a pinned knight attacks", "4k3/4n3/8/8/8/8/B7/K3R3 w - - 0 1", "a2d5", Unsafe},
		{"en passant counts as an attack", "4k3/8/8/8/3p4/8/4PP2/4K3 w - - 0 1", "e2e4", UnsafeNeutralRetaliation},
	}

	e := newEngine(t, Options{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			r, err := e.Classify(pos, mustMove(t, pos, tc.move))
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if r.Class != tc.want {
				t.Errorf("%s = %v, want %v (report %+v)", tc.move, r.Class, tc.want, r)
			}
		})
	}
}

func TestReportDetail(t *testing.T) {
	e := newEngine(t, Options{})

	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	r, err := e.Classify(pos, mustMove(t, pos, "a1a8"))
	if err != nil {
		t.Fatal(err)
	}
	if r.After != board.Checkmate {
		t.Errorf("After = %v, want checkmate", r.After)
	}

	pos = mustFEN(t, "4k3/8/4p3/8/8/8/8/3QK3 w - - 0 1")
	r, err = e.Classify(pos, mustMove(t, pos, "d1d5"))
	if err != nil {
		t.Fatal(err)
	}
	if r.Loss != 9 || r.Gain != 0 || r.Reply != board.NewMove(board.E6, board.D5) {
		t.Errorf("report = %+v, want loss 9 to e6d5", r)
	}

	pos = mustFEN(t, "7k/8/6K1/8/8/8/5Q2/8 w - - 0 1")
	r, err = e.Classify(pos, mustMove(t, pos, "f2f7"))
	if err != nil {
		t.Fatal(err)
	}
	if r.After != board.Stalemate || r.Class != Safe {
		t.Errorf("stalemating move = %+v, want safe with stalemate after", r)
	}
}

func TestClassifyMovesStartPosition(t *testing.T) {
	e := newEngine(t, DefaultOptions())
	pos := board.NewPosition()

	total := 0
	for sq := board.A1; sq <= board.H2; sq++ {
		got, err := e.ClassifyMoves(pos, sq)
		if err != nil {
			t.Fatalf("ClassifyMoves(%v): %v", sq, err)
		}
		for m, c := range got {
			if c != Safe {
				t.Errorf("%v = %v, want safe", m, c)
			}
		}
		total += len(got)
	}
	if total != 20 {
		t.Errorf("classified %d moves, want 20", total)
	}
}

func TestClassifyMovesEmptySelections(t *testing.T) {
	e := newEngine(t, Options{})
	tests := []struct {
		name string
		fen  string
		sq   board.Square
	}{
		{"empty square", board.StartFEN, board.E4},
		{"opponent piece", board.StartFEN, board.E7},
		{"no square", board.StartFEN, board.NoSquare},
		{"stalemated king", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", board.H8},
		{"mated king", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", board.G8},
	}
	for _, tc := range tests {
		got, err := e.ClassifyMoves(mustFEN(t, tc.fen), tc.sq)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if len(got) != 0 {
			t.Errorf("%s: got %v, want no moves", tc.name, got)
		}
	}
}

func TestEveryLegalMoveClassifiedOnce(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	serial := newEngine(t, Options{})
	parallel := newEngine(t, Options{Workers: 8, CacheEntries: 64})

	for _, fen := range fens {
		pos := mustFEN(t, fen)
		before := *pos
		want := pos.GenerateLegalMoves().Len()

		got := 0
		for sq := board.A1; sq <= board.H8; sq++ {
			a, err := serial.ClassifyMoves(pos, sq)
			if err != nil {
				t.Fatalf("%s: %v", fen, err)
			}
			b, err := parallel.ClassifyMoves(pos, sq)
			if err != nil {
				t.Fatalf("%s: %v", fen, err)
			}
			if len(a) != len(b) {
				t.Fatalf("%s %v: serial %v, parallel %v", fen, sq, a, b)
			}
			for m, c := range a {
				if c >= numClassifications {
					t.Errorf("%s %v: unknown class %d", fen, m, c)
				}
				if b[m] != c {
					t.Errorf("%s %v: serial %v, parallel %v", fen, m, c, b[m])
				}
			}
			got += len(a)
		}
		if got != want {
			t.Errorf("%s: classified %d moves, want %d", fen, got, want)
		}
		if *pos != before {
			t.Errorf("%s: classification changed the board", fen)
		}
	}
}

func TestAttackedByLesserPieceIsNeverSafe(t *testing.T) {
	e := newEngine(t, Options{})
	// Every queen move into the pawn's reach loses the queen for a pawn.
	pos := mustFEN(t, "4k3/8/8/3p4/8/3Q4/8/4K3 w - - 0 1")
	got, err := e.ClassifyMoves(pos, board.D3)
	if err != nil {
		t.Fatal(err)
	}
	checked := 0
	for m, c := range got {
		if m.To() != board.C4 && m.To() != board.E4 {
			continue
		}
		checked++
		if c != UnsafeUnfavorableRetaliation {
			t.Errorf("%v = %v, want %v", m, c, UnsafeUnfavorableRetaliation)
		}
	}
	if checked != 2 {
		t.Errorf("checked %d queen moves, want 2", checked)
	}
}

func TestErrors(t *testing.T) {
	e := newEngine(t, Options{})

	noKing := mustFEN(t, "8/8/8/8/8/8/8/4K3 w - - 0 1")
	if _, err := e.ClassifyMoves(noKing, board.E1); !errors.Is(err, board.ErrMalformedBoard) {
		t.Errorf("ClassifyMoves without a black king: %v", err)
	}
	if _, err := e.TerminalState(noKing); !errors.Is(err, board.ErrMalformedBoard) {
		t.Errorf("TerminalState without a black king: %v", err)
	}
	if _, err := e.ClassifyMoves(nil, board.E1); !errors.Is(err, board.ErrMalformedBoard) {
		t.Errorf("ClassifyMoves(nil): %v", err)
	}

	pos := board.NewPosition()
	if _, err := e.Classify(pos, board.NewMove(board.E2, board.E5)); !errors.Is(err, board.ErrInvalidMove) {
		t.Errorf("Classify(e2e5): %v", err)
	}
}

func TestTerminalState(t *testing.T) {
	e := newEngine(t, Options{})
	tests := []struct {
		fen  string
		want board.Status
	}{
		{board.StartFEN, board.InPlay},
		{"R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", board.Checkmate},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", board.Stalemate},
		{"4k3/8/8/8/8/8/8/R3K3 b - - 0 1", board.InPlay},
		{"4k3/4R3/8/8/8/8/8/4K3 b - - 0 1", board.InPlay},
	}
	for _, tc := range tests {
		got, err := e.TerminalState(mustFEN(t, tc.fen))
		if err != nil {
			t.Fatalf("%s: %v", tc.fen, err)
		}
		if got != tc.want {
			t.Errorf("%s: TerminalState = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestHighlights(t *testing.T) {
	e := newEngine(t, Options{})

	h, err := e.Highlights(mustFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"))
	if err != nil {
		t.Fatal(err)
	}
	mate, stalemate := h.Squares()
	if mate != board.SquareBB(board.A1) || stalemate != 0 {
		t.Errorf("mate %v stalemate %v, want the a1 rook only", mate.Squares(), stalemate.Squares())
	}

	h, err = e.Highlights(mustFEN(t, "7k/8/6K1/8/8/8/5Q2/8 w - - 0 1"))
	if err != nil {
		t.Fatal(err)
	}
	if _, stalemate = h.Squares(); !stalemate.Has(board.F2) {
		t.Errorf("stalemating queen not highlighted: %v", h)
	}

	h, err = e.Highlights(board.NewPosition())
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Mates)+len(h.Stalemates) != 0 {
		t.Errorf("start position highlights = %+v", h)
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	e := newEngine(t, Options{Workers: 2, CacheEntries: 16})
	pos := board.NewPosition()

	first, err := e.Reports(pos, board.G1)
	if err != nil {
		t.Fatal(err)
	}
	e.cache.Wait()
	if _, ok := e.cache.Get(pos.Hash ^ selectionKey(board.G1)); !ok {
		t.Fatal("reports for g1 were not cached")
	}
	first[0].Class = UnsafeUnfavorableRetaliation

	second, err := e.Reports(pos, board.G1)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range second {
		if r.Class != Safe {
			t.Errorf("cached report mutated: %+v", r)
		}
	}
}

func TestCacheCountsSelections(t *testing.T) {
	e := newEngine(t, Options{Workers: 1, CacheEntries: 16})
	pos := board.NewPosition()

	var selected []board.Square
	for sq := board.A2; sq <= board.H2; sq++ {
		selected = append(selected, sq)
	}
	selected = append(selected, board.B1, board.G1)
	for _, sq := range selected {
		if _, err := e.Reports(pos, sq); err != nil {
			t.Fatal(err)
		}
	}
	e.cache.Wait()

	for _, sq := range selected {
		if _, ok := e.cache.Get(pos.Hash ^ selectionKey(sq)); !ok {
			t.Errorf("selection %v missing from a 16-entry cache", sq)
		}
	}
}

func TestClassificationString(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range All() {
		s := c.String()
		if s == "unknown" || seen[s] {
			t.Errorf("bad name %q for %d", s, c)
		}
		seen[s] = true
	}
	if Classification(99).String() != "unknown" {
		t.Error("out of range class should be unknown")
	}
}
