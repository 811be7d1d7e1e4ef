package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/classify"
	"github.com/hailam/chesslens/internal/oracle"
)

// Session is one viewer's state: a history, the selected piece and its
// classified moves, and the board orientation.
type Session struct {
	hist     *History
	engine   *classify.Engine
	log      *zap.Logger
	selected board.Square
	reports  []classify.MoveReport
	rotated  bool
}

// New starts a session at pos.
func New(pos *board.Position, engine *classify.Engine, log *zap.Logger) (*Session, error) {
	h, err := NewHistory(pos)
	if err != nil {
		return nil, err
	}
	return fromHistory(h, engine, log), nil
}

func fromHistory(h *History, engine *classify.Engine, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{hist: h, engine: engine, log: log, selected: board.NoSquare}
}

// Position returns the current board. Callers must not modify it.
func (s *Session) Position() *board.Position { return s.hist.Current() }

// History exposes the move history.
func (s *Session) History() *History { return s.hist }

// Selected returns the selected square or NoSquare.
func (s *Session) Selected() board.Square { return s.selected }

// Reports returns the classified moves of the selected piece.
func (s *Session) Reports() []classify.MoveReport { return s.reports }

// Rotated reports whether black is drawn at the bottom.
func (s *Session) Rotated() bool { return s.rotated }

// Rotate flips the board orientation.
func (s *Session) Rotate() { s.rotated = !s.rotated }

// SetRotated sets the board orientation.
func (s *Session) SetRotated(r bool) { s.rotated = r }

// Select makes sq the selection and classifies its moves. Selecting the
// selected square again, an empty square, or an opponent piece clears the
// selection.
func (s *Session) Select(sq board.Square) error {
	pos := s.Position()
	if sq == s.selected || !sq.IsValid() || pos.PieceAt(sq).Color() != pos.SideToMove {
		s.Deselect()
		return nil
	}
	reports, err := s.engine.Reports(pos, sq)
	if err != nil {
		s.Deselect()
		return err
	}
	s.selected, s.reports = sq, reports
	s.log.Debug("selected", zap.Stringer("square", sq), zap.Int("moves", len(reports)))
	return nil
}

// Deselect clears the selection.
func (s *Session) Deselect() {
	s.selected, s.reports = board.NoSquare, nil
}

// Target returns the report for moving the selected piece to sq. Among
// promotions the queen is preferred.
func (s *Session) Target(sq board.Square) (classify.MoveReport, bool) {
	var found classify.MoveReport
	ok := false
	for _, r := range s.reports {
		if r.Move.To() != sq {
			continue
		}
		if !ok || r.Move.Promotion() == board.Queen {
			found, ok = r, true
		}
	}
	return found, ok
}

// Click acts on a square the way a board click does: it moves the selected
// piece when sq is one of its destinations and changes the selection
// otherwise. promo picks the promotion piece, NoPieceType meaning queen.
func (s *Session) Click(sq board.Square, promo board.PieceType) (moved bool, err error) {
	if s.selected != board.NoSquare {
		if m, ok := s.Position().FindMove(s.selected, sq, promo); ok {
			return true, s.Play(m)
		}
	}
	return false, s.Select(sq)
}

// Play makes m and clears the selection.
func (s *Session) Play(m board.Move) error {
	if err := s.hist.Push(m); err != nil {
		return err
	}
	s.Deselect()
	s.log.Debug("played", zap.Stringer("move", m), zap.Int("ply", len(s.hist.moves)))
	return nil
}

// PlayUCI parses and plays a move in coordinate notation.
func (s *Session) PlayUCI(text string) (board.Move, error) {
	m, err := board.ParseMove(text, s.Position())
	if err != nil {
		return board.NoMove, err
	}
	return m, s.Play(m)
}

// Undo takes back a move and clears the selection.
func (s *Session) Undo() bool {
	s.Deselect()
	_, ok := s.hist.Undo()
	return ok
}

// Redo replays an undone move and clears the selection.
func (s *Session) Redo() bool {
	s.Deselect()
	_, ok := s.hist.Redo()
	return ok
}

// Reset starts over from pos with the given coordinate moves played. The
// session is left untouched unless every move replays.
func (s *Session) Reset(pos *board.Position, moves ...string) error {
	h, err := NewHistory(pos)
	if err != nil {
		return err
	}
	for _, text := range moves {
		m, err := board.ParseMove(text, h.Current())
		if err != nil {
			return fmt.Errorf("session: replay %s: %w", text, err)
		}
		if err := h.Push(m); err != nil {
			return err
		}
	}
	s.hist = h
	s.Deselect()
	return nil
}

// Status returns the terminal state of the current position.
func (s *Session) Status() (board.Status, error) {
	return s.engine.TerminalState(s.Position())
}

// Highlights returns the moves that end the game at once.
func (s *Session) Highlights() (classify.Highlights, error) {
	return s.engine.Highlights(s.Position())
}

// Threats returns the attacked pieces of both sides.
func (s *Session) Threats() ([]oracle.Threat, error) {
	return s.engine.Threats(s.Position())
}

// Snapshot is the persistent form of a session.
type Snapshot struct {
	Start   string   `json:"start"`
	Moves   []string `json:"moves"`
	Redo    []string `json:"redo,omitempty"`
	Rotated bool     `json:"rotated"`
}

// Snapshot captures the session for storage.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Start:   s.hist.Start().ToFEN(),
		Moves:   moveStrings(s.hist.Moves()),
		Redo:    moveStrings(s.hist.RedoMoves()),
		Rotated: s.rotated,
	}
}

// FromSnapshot rebuilds a session. Moves are replayed in order, so a stored
// game that no longer replays is rejected as a whole.
func FromSnapshot(snap Snapshot, engine *classify.Engine, log *zap.Logger) (*Session, error) {
	start, err := board.ParseFEN(snap.Start)
	if err != nil {
		return nil, err
	}
	h, err := NewHistory(start)
	if err != nil {
		return nil, err
	}
	for _, text := range snap.Moves {
		m, err := board.ParseMove(text, h.Current())
		if err != nil {
			return nil, fmt.Errorf("session: replay %s: %w", text, err)
		}
		if err := h.Push(m); err != nil {
			return nil, err
		}
	}
	redone := 0
	for _, text := range snap.Redo {
		m, err := board.ParseMove(text, h.Current())
		if err != nil {
			return nil, fmt.Errorf("session: replay %s: %w", text, err)
		}
		if err := h.Push(m); err != nil {
			return nil, err
		}
		redone++
	}
	for ; redone > 0; redone-- {
		h.Undo()
	}
	s := fromHistory(h, engine, log)
	s.rotated = snap.Rotated
	return s, nil
}

func moveStrings(moves []board.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
