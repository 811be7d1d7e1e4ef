// Package tui is a terminal board viewer built on bubbletea.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/obslog"
	"github.com/hailam/chesslens/internal/palette"
	"github.com/hailam/chesslens/internal/session"
)

// Model is the bubbletea model for one session.
type Model struct {
	sess    *session.Session
	pal     palette.Palette
	cursor  board.Square
	message string
	status  board.Status
}

// New returns a model over sess with the cursor on the first piece rank of
// the side at the bottom.
func New(sess *session.Session, pal palette.Palette) Model {
	m := Model{sess: sess, pal: pal, cursor: board.E2}
	if sess.Rotated() {
		m.cursor = board.E7
	}
	m.refresh()
	return m
}

// Session returns the underlying session.
func (m Model) Session() *session.Session { return m.sess }

// Cursor returns the square under the cursor.
func (m Model) Cursor() board.Square { return m.cursor }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.step(0, 1)
	case "down", "j":
		m.step(0, -1)
	case "left", "h":
		m.step(-1, 0)
	case "right", "l":
		m.step(1, 0)
	case "enter", " ":
		m.click(board.NoPieceType)
	case "Q", "R", "B", "N":
		// shifted letters pick the promotion piece
		m.click(board.PieceFromChar(key.String()[0]).Type())
	case "esc":
		m.sess.Deselect()
	case "tab":
		m.sess.Rotate()
	case "backspace", "u":
		if !m.sess.Undo() {
			m.message = "nothing to undo"
		}
		m.refresh()
	case "r":
		if !m.sess.Redo() {
			m.message = "nothing to redo"
		}
		m.refresh()
	}
	return m, nil
}

// step moves the cursor in screen directions, which flip with the board.
func (m *Model) step(df, dr int) {
	if m.sess.Rotated() {
		df, dr = -df, -dr
	}
	f, r := m.cursor.File()+df, m.cursor.Rank()+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return
	}
	m.cursor = board.NewSquare(f, r)
}

func (m *Model) click(promo board.PieceType) {
	m.message = ""
	moved, err := m.sess.Click(m.cursor, promo)
	if err != nil {
		m.message = err.Error()
		obslog.L().Warn("click failed", zap.Stringer("square", m.cursor), zap.Error(err))
		return
	}
	if moved {
		m.refresh()
		moves := m.sess.History().Moves()
		m.message = fmt.Sprintf("played %s", moves[len(moves)-1])
	}
}

func (m *Model) refresh() {
	st, err := m.sess.Status()
	if err != nil {
		m.message = err.Error()
		return
	}
	m.status = st
}
