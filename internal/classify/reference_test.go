package classify

import (
	"testing"

	nchess "github.com/corentings/chess/v2"

	"github.com/hailam/chesslens/internal/board"
)

// TestTerminalStateAgainstReference replays games through both boards and
// checks the end state agrees after every move.
func TestTerminalStateAgainstReference(t *testing.T) {
	games := map[string][]string{
		"fool's mate": {"f2f3", "e7e5", "g2g4", "d8h4"},
		"scholar's mate": {"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"},
		"shortest stalemate": {
			"e2e3", "a7a5", "d1h5", "a8a6", "h5a5", "h7h5", "h2h4", "a6h6", "a5c7", "f7f6",
			"c7d7", "e8f7", "d7b7", "d8d3", "b7b8", "d3h7", "b8c8", "f7g6", "c8e6",
		},
		"castling both ways": {"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "d7d6", "e1g1", "c8g4", "d2d3", "d8d7", "c1e3", "e8c8"},
	}

	e := newEngine(t, Options{})
	notation := nchess.UCINotation{}

	for name, moves := range games {
		t.Run(name, func(t *testing.T) {
			pos := board.NewPosition()
			game := nchess.NewGame()
			for _, uci := range moves {
				m, err := board.ParseMove(uci, pos)
				if err != nil {
					t.Fatalf("ParseMove(%s): %v", uci, err)
				}
				if pos, err = pos.Apply(m); err != nil {
					t.Fatalf("Apply(%s): %v", uci, err)
				}

				ref, err := notation.Decode(game.Position(), uci)
				if err != nil {
					t.Fatalf("reference decode %s: %v", uci, err)
				}
				if err := game.Move(ref, nil); err != nil {
					t.Fatalf("reference move %s: %v", uci, err)
				}

				got, err := e.TerminalState(pos)
				if err != nil {
					t.Fatalf("TerminalState after %s: %v", uci, err)
				}
				want := board.InPlay
				switch game.Method() {
				case nchess.Checkmate:
					want = board.Checkmate
				case nchess.Stalemate:
					want = board.Stalemate
				}
				if got != want {
					t.Fatalf("after %s: TerminalState = %v, reference %v", uci, got, game.Method())
				}
			}
		})
	}
}
