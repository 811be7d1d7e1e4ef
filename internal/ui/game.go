package ui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/classify"
	"github.com/hailam/chesslens/internal/oracle"
	"github.com/hailam/chesslens/internal/palette"
	"github.com/hailam/chesslens/internal/session"
)

const (
	// DefaultResolution is the board edge in pixels when none is configured.
	DefaultResolution = 800
	// MinResolution keeps squares large enough to click.
	MinResolution = 160

	toastDuration = 2 * time.Second
)

var background = color.RGBA{30, 30, 30, 255}

// Saver persists the session after every change.
type Saver interface {
	SaveSession(session.Snapshot) error
}

// Options configures a Game.
type Options struct {
	Resolution int
	Palette    palette.Palette
	Saver      Saver
	Logger     *zap.Logger
}

// Game implements ebiten.Game over a viewer session.
type Game struct {
	sess  *session.Session
	saver Saver
	log   *zap.Logger

	renderer *Renderer
	input    *InputHandler
	toasts   *ToastManager

	// UI state
	dragging       bool
	pressedOnSel   bool
	status         board.Status
	threats        []oracle.Threat
	highlights     classify.Highlights
	lastTitleState string
}

// NewGame creates a viewer for sess.
func NewGame(sess *session.Session, opts Options) *Game {
	res := opts.Resolution
	if res <= 0 {
		res = DefaultResolution
	}
	res = max(res, MinResolution)
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Palette.Name == "" {
		opts.Palette = palette.Default()
	}

	g := &Game{
		sess:     sess,
		saver:    opts.Saver,
		log:      log,
		renderer: NewRenderer(res, opts.Palette),
		input:    NewInputHandler(),
		toasts:   NewToastManager(),
	}
	g.renderer.SetFlipped(sess.Rotated())
	g.refresh()
	return g
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	size := g.renderer.BoardSize()
	ebiten.SetWindowSize(size, size)
	ebiten.SetWindowTitle(g.title())
	return ebiten.RunGame(g)
}

// Session returns the session the window drives.
func (g *Game) Session() *session.Session {
	return g.sess
}

// Update handles one frame of input.
func (g *Game) Update() error {
	g.input.Update()
	g.toasts.Update()

	switch {
	case IsKeyJustPressed(ebiten.KeyShiftLeft):
		g.sess.Rotate()
		g.renderer.SetFlipped(g.sess.Rotated())
		g.save()
	case IsKeyJustPressed(ebiten.KeyBackspace):
		g.dragging = false
		if !g.sess.Undo() {
			g.toasts.Show("nothing to undo", ToastWarning, toastDuration)
			return nil
		}
		g.changed()
	case IsKeyJustPressed(ebiten.KeyEnter):
		g.dragging = false
		if !g.sess.Redo() {
			g.toasts.Show("nothing to redo", ToastWarning, toastDuration)
			return nil
		}
		g.changed()
	case IsKeyJustPressed(ebiten.KeyEscape):
		g.dragging = false
		g.sess.Deselect()
	}

	g.handleBoardInput()
	return nil
}

// handleBoardInput processes mouse interactions with the board. Pressing a
// piece selects it and classifies its moves; releasing over one of the
// outlined squares plays the move.
func (g *Game) handleBoardInput() {
	mx, my := g.input.MousePosition()
	sq := g.renderer.ScreenToSquare(mx, my)

	if g.input.IsLeftJustPressed() {
		g.press(sq)
	}
	if g.input.IsLeftJustReleased() {
		g.release(sq)
	}
}

func (g *Game) press(sq board.Square) {
	sel := g.sess.Selected()
	if sel != board.NoSquare {
		if _, ok := g.sess.Target(sq); ok {
			return // the move is made on release
		}
		if sq == sel {
			g.pressedOnSel, g.dragging = true, true
			return
		}
	}
	g.pressedOnSel = false
	if err := g.sess.Select(sq); err != nil {
		g.log.Warn("select", zap.Stringer("square", sq), zap.Error(err))
		g.toasts.Show(err.Error(), ToastError, toastDuration)
	}
	g.dragging = g.sess.Selected() != board.NoSquare
}

func (g *Game) release(sq board.Square) {
	g.dragging = false
	sel := g.sess.Selected()
	if sel == board.NoSquare {
		return
	}
	if sq == sel {
		if g.pressedOnSel {
			g.sess.Deselect()
		}
		g.pressedOnSel = false
		return
	}
	g.pressedOnSel = false
	if _, ok := g.sess.Target(sq); !ok {
		return
	}
	moved, err := g.sess.Click(sq, PromotionKey())
	if err != nil {
		g.log.Warn("move", zap.Stringer("from", sel), zap.Stringer("to", sq), zap.Error(err))
		g.toasts.Show(err.Error(), ToastError, toastDuration)
		return
	}
	if moved {
		g.changed()
	}
}

// changed refreshes derived state after the position moved and persists it.
func (g *Game) changed() {
	g.refresh()
	g.save()
	switch g.status {
	case board.Checkmate:
		g.toasts.Show(fmt.Sprintf("checkmate, %s wins", g.sess.Position().SideToMove.Other()), ToastInfo, 2*toastDuration)
	case board.Stalemate:
		g.toasts.Show("stalemate", ToastInfo, 2*toastDuration)
	}
}

// refresh recomputes the overview shown when nothing is selected.
func (g *Game) refresh() {
	var err error
	if g.status, err = g.sess.Status(); err != nil {
		g.log.Warn("status", zap.Error(err))
	}
	if g.threats, err = g.sess.Threats(); err != nil {
		g.log.Warn("threats", zap.Error(err))
	}
	if g.highlights, err = g.sess.Highlights(); err != nil {
		g.log.Warn("highlights", zap.Error(err))
	}
	if title := g.title(); title != g.lastTitleState {
		ebiten.SetWindowTitle(title)
		g.lastTitleState = title
	}
}

func (g *Game) save() {
	if g.saver == nil {
		return
	}
	if err := g.saver.SaveSession(g.sess.Snapshot()); err != nil {
		g.log.Warn("save session", zap.Error(err))
	}
}

func (g *Game) title() string {
	pos := g.sess.Position()
	if g.status.IsTerminal() {
		return fmt.Sprintf("chesslens - %s", g.status)
	}
	return fmt.Sprintf("chesslens - %s to move", pos.SideToMove)
}

// Draw renders the board, the markings, and the pieces.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.renderer.DrawBoard(screen)

	pos := g.sess.Position()
	sel := g.sess.Selected()
	if sel != board.NoSquare {
		g.renderer.DrawSelection(screen, sel, g.sess.Reports())
	} else {
		g.renderer.DrawOverview(screen, g.threats, g.highlights)
	}

	skip := board.NoSquare
	if g.dragging && g.input.IsLeftPressed() {
		skip = sel
	}
	g.renderer.DrawPieces(screen, pos, skip)
	if skip != board.NoSquare {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, pos.PieceAt(skip), mx, my)
	}

	if g.status.IsTerminal() {
		g.drawBanner(screen, g.status.String())
	}
	g.toasts.Draw(screen, g.renderer.BoardSize())
}

func (g *Game) drawBanner(screen *ebiten.Image, msg string) {
	if boldFace == nil {
		return
	}
	w, h := MeasureText(msg, boldFace)
	size := float64(g.renderer.BoardSize())
	op := &text.DrawOptions{}
	op.GeoM.Translate(size/2-w/2, size-h-16)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, msg, boldFace, op)
}

// Layout returns the board size; the window keeps a square logical screen.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := g.renderer.BoardSize()
	return size, size
}
