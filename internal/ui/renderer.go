package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/classify"
	"github.com/hailam/chesslens/internal/oracle"
	"github.com/hailam/chesslens/internal/palette"
)

// Renderer handles all drawing operations.
type Renderer struct {
	sprites    *SpriteManager
	pal        palette.Palette
	boardSize  int
	squareSize int
	flipped    bool
}

// NewRenderer creates a renderer for a square board of boardSize pixels.
func NewRenderer(boardSize int, pal palette.Palette) *Renderer {
	squareSize := boardSize / 8
	return &Renderer{
		sprites:    NewSpriteManager(squareSize),
		pal:        pal,
		boardSize:  squareSize * 8,
		squareSize: squareSize,
	}
}

// SetFlipped sets whether black is drawn at the bottom.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

// BoardSize returns the drawn board edge in pixels.
func (r *Renderer) BoardSize() int {
	return r.boardSize
}

// DrawBoard draws the chess board squares.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := r.SquareToScreen(sq)
		vector.DrawFilledRect(screen, float32(x), float32(y),
			float32(r.squareSize), float32(r.squareSize), palette.Square(sq), false)
	}
}

// DrawSelection outlines the selected square and every destination in the
// color of its classification.
func (r *Renderer) DrawSelection(screen *ebiten.Image, sel board.Square, reports []classify.MoveReport) {
	r.outlineSquare(screen, sel, palette.Selection)
	seen := make(map[board.Square]bool, len(reports))
	for _, rep := range reports {
		to := rep.Move.To()
		if seen[to] {
			continue // promotions share a square; the first listed is the queen
		}
		seen[to] = true
		r.outlineSquare(screen, to, r.pal.Report(rep))
	}
}

// DrawOverview marks attacked pieces and the pieces that can end the game
// in one move.
func (r *Renderer) DrawOverview(screen *ebiten.Image, threats []oracle.Threat, h classify.Highlights) {
	for _, t := range threats {
		r.outlineSquare(screen, t.Square, r.pal.Threat(t.Level))
	}
	mate, stalemate := h.Squares()
	for sq := board.A1; sq <= board.H8; sq++ {
		switch {
		case mate.Has(sq):
			r.highlightSquare(screen, sq, withAlpha(r.pal.Mate, 110))
		case stalemate.Has(sq):
			r.highlightSquare(screen, sq, withAlpha(r.pal.Stalemate, 110))
		}
	}
}

func (r *Renderer) highlightSquare(screen *ebiten.Image, sq board.Square, c color.Color) {
	x, y := r.SquareToScreen(sq)
	vector.DrawFilledRect(screen, float32(x), float32(y),
		float32(r.squareSize), float32(r.squareSize), c, false)
}

func (r *Renderer) outlineSquare(screen *ebiten.Image, sq board.Square, c color.Color) {
	x, y := r.SquareToScreen(sq)
	w := r.outlineWidth()
	vector.StrokeRect(screen, float32(x)+w/2, float32(y)+w/2,
		float32(r.squareSize)-w, float32(r.squareSize)-w, w, c, true)
}

func (r *Renderer) outlineWidth() float32 {
	return max(2, float32(r.squareSize)*0.06)
}

// DrawPieces draws all pieces except the one on skip.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pos *board.Position, skip board.Square) {
	for sq := board.A1; sq <= board.H8; sq++ {
		if sq == skip {
			continue
		}
		if p := pos.PieceAt(sq); p != board.NoPiece {
			x, y := r.SquareToScreen(sq)
			r.sprites.DrawPieceAt(screen, p, x, y)
		}
	}
}

// DrawDraggedPiece draws a piece centred on the cursor.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, p board.Piece, mx, my int) {
	half := r.squareSize / 2
	r.sprites.DrawPieceAt(screen, p, mx-half, my-half)
}

// SquareToScreen converts a square to the screen coordinates of its top-left
// corner.
func (r *Renderer) SquareToScreen(sq board.Square) (x, y int) {
	file, rank := sq.File(), sq.Rank()
	if r.flipped {
		file, rank = 7-file, 7-rank
	}
	return file * r.squareSize, (7 - rank) * r.squareSize
}

// ScreenToSquare converts screen coordinates to a square, or NoSquare when
// the point is off the board.
func (r *Renderer) ScreenToSquare(x, y int) board.Square {
	if x < 0 || y < 0 || x >= r.boardSize || y >= r.boardSize {
		return board.NoSquare
	}
	file, rank := x/r.squareSize, 7-y/r.squareSize
	if r.flipped {
		file, rank = 7-file, 7-rank
	}
	return board.NewSquare(file, rank)
}

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	// vector expects premultiplied colors
	scale := func(v uint8) uint8 { return uint8(uint16(v) * uint16(a) / 255) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: a}
}
