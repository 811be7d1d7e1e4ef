package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/classify"
	"github.com/hailam/chesslens/internal/palette"
)

const reset = "\033[0m"

func (m Model) View() string {
	var s strings.Builder
	s.WriteString("chesslens\n")
	s.WriteString("arrows/hjkl move, ENTER select/move, Q/R/B/N promote, TAB rotate, U undo, r redo, q quit\n\n")

	boardLines := m.boardLines()
	infoLines := m.infoLines()
	for i := range max(len(boardLines), len(infoLines)) {
		if i < len(boardLines) {
			s.WriteString(boardLines[i])
		} else {
			s.WriteString(strings.Repeat(" ", 26))
		}
		s.WriteString("   ")
		if i < len(infoLines) {
			s.WriteString(infoLines[i])
		}
		s.WriteString("\n")
	}
	return s.String()
}

// order lists the screen rows top to bottom and columns left to right.
func (m Model) order() (ranks, files []int) {
	for i := range 8 {
		if m.sess.Rotated() {
			ranks = append(ranks, i)
			files = append(files, 7-i)
		} else {
			ranks = append(ranks, 7-i)
			files = append(files, i)
		}
	}
	return ranks, files
}

func (m Model) boardLines() []string {
	ranks, files := m.order()
	pos := m.sess.Position()
	marks := m.marks()

	var header strings.Builder
	header.WriteString(" ")
	for _, f := range files {
		fmt.Fprintf(&header, " %c ", 'a'+f)
	}
	header.WriteString(" ")

	lines := []string{header.String()}
	for _, r := range ranks {
		var line strings.Builder
		fmt.Fprintf(&line, "%d", r+1)
		for _, f := range files {
			sq := board.NewSquare(f, r)
			bg := palette.Square(sq)
			if c, ok := marks[sq]; ok {
				bg = c
			}
			cell := " "
			if p := pos.PieceAt(sq); p != board.NoPiece {
				cell = string(p.Glyph())
			}
			left, right := " ", " "
			if sq == m.cursor {
				left, right = "[", "]"
			}
			fmt.Fprintf(&line, "%s%s%s%s%s", background(bg), left, cell, right, reset)
		}
		fmt.Fprintf(&line, "%d", r+1)
		lines = append(lines, line.String())
	}
	return append(lines, header.String())
}

// marks colors the squares that carry information: the selection and its
// classified destinations, or with nothing selected the threatened pieces
// and the pieces that can end the game.
func (m Model) marks() map[board.Square]color.RGBA {
	out := map[board.Square]color.RGBA{}
	if sel := m.sess.Selected(); sel != board.NoSquare {
		out[sel] = palette.Selection
		for _, r := range m.sess.Reports() {
			if _, taken := out[r.Move.To()]; !taken {
				out[r.Move.To()] = m.pal.Report(r)
			}
		}
		return out
	}

	if threats, err := m.sess.Threats(); err == nil {
		for _, t := range threats {
			out[t.Square] = m.pal.Threat(t.Level)
		}
	}
	if h, err := m.sess.Highlights(); err == nil {
		for _, mv := range h.Stalemates {
			out[mv.From()] = m.pal.Stalemate
		}
		for _, mv := range h.Mates {
			out[mv.From()] = m.pal.Mate
		}
	}
	return out
}

func (m Model) infoLines() []string {
	pos := m.sess.Position()
	lines := []string{
		fmt.Sprintf("Turn:   %s", pos.SideToMove),
		fmt.Sprintf("Status: %s", m.status),
		fmt.Sprintf("Cursor: %s", m.cursor),
		"",
	}

	if sel := m.sess.Selected(); sel != board.NoSquare {
		lines = append(lines, fmt.Sprintf("Selected %s on %s", pos.PieceAt(sel).Type(), sel))
		for _, r := range m.sess.Reports() {
			lines = append(lines, fmt.Sprintf("%s  %s %s %s",
				background(m.pal.Report(r)), reset, r.Move.ToSAN(pos), describe(r)))
		}
		lines = append(lines, "")
	}

	moves := m.sess.History().Moves()
	if len(moves) > 0 {
		san := board.MovesToSAN(m.sess.History().Start(), moves)
		from := max(0, len(san)-6)
		lines = append(lines, "Moves: "+strings.Join(san[from:], " "))
	}
	if m.message != "" {
		lines = append(lines, m.message)
	}
	return lines
}

func describe(r classify.MoveReport) string {
	switch r.After {
	case board.Checkmate, board.Stalemate:
		return fmt.Sprintf("(%s, %s)", r.Class, r.After)
	}
	return fmt.Sprintf("(%s)", r.Class)
}

func background(c color.RGBA) string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", c.R, c.G, c.B)
}
