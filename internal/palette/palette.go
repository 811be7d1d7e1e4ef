// Package palette maps classifications, threats and terminal moves to the
// colors the viewers draw them in.
package palette

import (
	"fmt"
	"image/color"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/classify"
	"github.com/hailam/chesslens/internal/oracle"
)

// Named colors.
var (
	LightSquare = color.RGBA{222, 184, 135, 255}
	DarkSquare  = color.RGBA{101, 67, 33, 255}
	Selection   = color.RGBA{255, 255, 0, 255}

	Blue        = color.RGBA{0, 0, 255, 255}
	Cyan        = color.RGBA{0, 255, 255, 255}
	Green       = color.RGBA{0, 255, 0, 255}
	Red         = color.RGBA{255, 0, 0, 255}
	Magenta     = color.RGBA{255, 0, 255, 255}
	Purple      = color.RGBA{128, 0, 255, 255}
	Pink        = color.RGBA{255, 105, 180, 255}
	Orange      = color.RGBA{255, 128, 0, 255}
	GreenYellow = color.RGBA{173, 255, 47, 255}
	Yellow      = color.RGBA{255, 255, 0, 255}
	Amber       = color.RGBA{255, 192, 0, 255}
	Black       = color.RGBA{0, 0, 0, 255}
	White       = color.RGBA{255, 255, 255, 255}
)

// Palette is one color scheme.
type Palette struct {
	Name      string
	moves     map[classify.Classification]color.RGBA
	threats   map[oracle.ThreatLevel]color.RGBA
	Mate      color.RGBA
	Stalemate color.RGBA
}

// Default distinguishes all three retaliation outcomes of an unsafe move.
func Default() Palette {
	return Palette{
		Name: "four",
		moves: map[classify.Classification]color.RGBA{
			classify.Safe:                         Blue,
			classify.Recommended:                  Cyan,
			classify.FavorableCapture:             Green,
			classify.Unsafe:                       Red,
			classify.UnsafeNeutralRetaliation:     Magenta,
			classify.UnsafeUnfavorableRetaliation: Pink,
			classify.UnsafeFavorableRetaliation:   Purple,
		},
		threats:   threatColors(),
		Mate:      White,
		Stalemate: Black,
	}
}

// Reduced is the three-color scheme: safe, capture and unsafe families, with
// neutral and favorable retaliation drawn alike.
func Reduced() Palette {
	p := Default()
	p.Name = "three"
	p.moves = map[classify.Classification]color.RGBA{
		classify.Safe:                         Blue,
		classify.Recommended:                  Blue,
		classify.FavorableCapture:             Green,
		classify.Unsafe:                       Red,
		classify.UnsafeNeutralRetaliation:     Magenta,
		classify.UnsafeUnfavorableRetaliation: Red,
		classify.UnsafeFavorableRetaliation:   Magenta,
	}
	return p
}

// ByName returns the palette configured as "four" or "three".
func ByName(name string) (Palette, error) {
	switch name {
	case "", "four":
		return Default(), nil
	case "three":
		return Reduced(), nil
	}
	return Palette{}, fmt.Errorf("palette: unknown palette %q", name)
}

func threatColors() map[oracle.ThreatLevel]color.RGBA {
	return map[oracle.ThreatLevel]color.RGBA{
		oracle.Hanging:                Orange,
		oracle.FavorableRetaliation:   GreenYellow,
		oracle.NeutralRetaliation:     Yellow,
		oracle.UnfavorableRetaliation: Amber,
	}
}

// Move returns the outline color of a classified move.
func (p Palette) Move(c classify.Classification) color.RGBA {
	if col, ok := p.moves[c]; ok {
		return col
	}
	return Black
}

// Report colors a move report, letting a mating or stalemating move
// override its classification.
func (p Palette) Report(r classify.MoveReport) color.RGBA {
	switch r.After {
	case board.Checkmate:
		return p.Mate
	case board.Stalemate:
		return p.Stalemate
	}
	return p.Move(r.Class)
}

// Threat returns the outline color of a threatened piece.
func (p Palette) Threat(l oracle.ThreatLevel) color.RGBA {
	if col, ok := p.threats[l]; ok {
		return col
	}
	return Orange
}

// Square returns the board color of sq.
func Square(sq board.Square) color.RGBA {
	if (sq.File()+sq.Rank())%2 == 0 {
		return DarkSquare
	}
	return LightSquare
}
