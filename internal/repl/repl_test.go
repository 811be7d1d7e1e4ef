package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/classify"
	"github.com/hailam/chesslens/internal/session"
)

func run(t *testing.T, script string) string {
	t.Helper()
	e, err := classify.New(classify.Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	sess, err := session.New(board.NewPosition(), e, nil)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := New(sess, e, nil, strings.NewReader(script), &out).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestTranscripts(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			"classify a pawn",
			"classify e2\n",
			[]string{"e2e3 e3 safe\n", "e2e4 e4 safe\n", "2 moves\n"},
		},
		{
			"favorable capture",
			"position fen 4k3/8/4p3/3q4/8/4N3/8/4K3 w - - 0 1\nclassify e3\n",
			[]string{"ok\n", "e3d5 Nxd5 favorable-capture\n"},
		},
		{
			"mate is reported",
			"position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\nhighlights\nclassify a1\nmove Ra8\nstatus\n",
			[]string{"mate a1a8\n", "a1a8 Ra8# recommended checkmate\n", "ok a1a8\n", "checkmate\n"},
		},
		{
			"stalemate",
			"position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1\nstatus\nclassify h8\n",
			[]string{"stalemate\n", "0 moves\n"},
		},
		{
			"undo and redo",
			"position startpos moves e2e4 e7e5\nundo\nundo\nundo\nredo\nfen\nmoves\n",
			[]string{"ok\nok\nok\nnothing to undo\nok\n", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1\n", "e4\n"},
		},
		{
			"bad move list leaves the position alone",
			"move e2e4\nposition startpos moves d2d4 d7d5 e1e3\nfen\n",
			[]string{"ok e2e4\n", "error: session: replay e1e3", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1\n"},
		},
		{
			"threats",
			"position fen 4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1\nthreats\n",
			[]string{"e4 P hanging 1\n", "d5 p hanging 1\n", "2 threats\n"},
		},
		{
			"errors keep the loop alive",
			"move e2e5\nclassify z9\nposition fen 8/8/8/8/8/8/8/4K3 w - - 0 1\nbogus\nstatus\n",
			[]string{"error: invalid move", "error: malformed board", "error: unknown command \"bogus\"\n", "in-play\n"},
		},
		{
			"perft",
			"perft 2\n",
			[]string{"Nodes: 400\n"},
		},
		{
			"quit stops reading",
			"quit\nstatus\n",
			nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := run(t, tc.script)
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			if tc.want == nil && got != "" {
				t.Errorf("output after quit:\n%s", got)
			}
		})
	}
}
