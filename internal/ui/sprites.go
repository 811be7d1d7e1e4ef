// Package ui implements the board viewer window using Ebitengine.
package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/obslog"
)

// Piece outlines on a 45x45 canvas. FILL and INK are replaced with the body
// and line colors of the side.
var pieceShapes = map[board.PieceType]string{
	board.Pawn: `<circle cx="22.5" cy="14" r="5.5"/>
<path d="M16 36 L18.5 22 Q22.5 18 26.5 22 L29 36 Z"/>
<rect x="11" y="35" width="23" height="5" rx="1.5"/>`,
	board.Knight: `<path d="M14 37 L14 30 Q14 24 20 20 L15 22 L12 19 L17 11 L20 10 L21 7 L24 10 Q33 12 32 24 L32 37 Z"/>
<circle cx="19.5" cy="14" r="1.2" fill="INK"/>
<rect x="11" y="36" width="24" height="4"/>`,
	board.Bishop: `<circle cx="22.5" cy="9" r="2.5"/>
<path d="M22.5 12 C15 17 15 25 17 29 H28 C30 25 30 17 22.5 12 Z"/>
<rect x="15" y="29" width="15" height="4"/>
<path d="M9 39 C14 36 18 37 22.5 35 C27 37 31 36 36 39 V40 H9 Z"/>`,
	board.Rook: `<path d="M12 10 H16 V13 H20.5 V10 H24.5 V13 H29 V10 H33 V18 H12 Z"/>
<rect x="15" y="18" width="15" height="14"/>
<rect x="11" y="32" width="23" height="4"/>
<rect x="9" y="36" width="27" height="4"/>`,
	board.Queen: `<path d="M9 26 L8 14 L14.5 22 L15 12 L20 21 L22.5 10 L25 21 L30 12 L30.5 22 L37 14 L36 26 Z"/>
<circle cx="8" cy="13" r="2"/><circle cx="15" cy="11" r="2"/><circle cx="22.5" cy="9" r="2"/>
<circle cx="30" cy="11" r="2"/><circle cx="37" cy="13" r="2"/>
<path d="M9 26 C12 30 12 33 11 36 H34 C33 33 33 30 36 26 Z"/>
<rect x="10" y="36" width="25" height="4"/>`,
	board.King: `<path d="M21 4 H24 V8 H27 V11 H24 V15 H21 V11 H18 V8 H21 Z"/>
<path d="M22.5 15 C30 15 38 18 36 25 L32 31 H13 L9 25 C7 18 15 15 22.5 15 Z"/>
<rect x="12" y="31" width="21" height="4"/>
<rect x="10" y="35" width="25" height="5"/>`,
}

// pieceSVG returns the complete SVG document for p.
func pieceSVG(p board.Piece) string {
	fill, ink := "#ffffff", "#000000"
	if p.Color() == board.Black {
		fill, ink = "#202020", "#f0f0f0"
	}
	body := strings.NewReplacer("FILL", fill, "INK", ink).Replace(pieceShapes[p.Type()])
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">
<g fill="%s" stroke="%s" stroke-width="1.5" stroke-linejoin="round">
%s
</g>
</svg>`, fill, ink, body)
}

// rasterize renders an SVG document into a size x size image.
func rasterize(svg string, size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// SpriteManager manages piece sprites.
type SpriteManager struct {
	pieces      map[board.Piece]*ebiten.Image
	size        int     // display size
	renderScale float64 // sprites are rendered larger and scaled down
}

// NewSpriteManager creates a new sprite manager with pieces of the given size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[board.Piece]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
	}
	sm.loadPieces()
	return sm
}

func (sm *SpriteManager) loadPieces() {
	renderSize := int(float64(sm.size) * sm.renderScale)
	for p := board.WhitePawn; p < board.NoPiece; p++ {
		rgba, err := rasterize(pieceSVG(p), renderSize)
		if err != nil {
			obslog.L().Warn("piece sprite", zap.Stringer("piece", p), zap.Error(err))
			continue
		}
		sm.pieces[p] = ebiten.NewImageFromImage(rgba)
	}
}

// DrawPieceAt draws a piece at the given pixel coordinates.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y int) {
	sprite := sm.pieces[p]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	scale := 1.0 / sm.renderScale
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}
