// chesslens - a board viewer that colors every legal move by how safe it is
package main

import (
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/app"
	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/config"
	"github.com/hailam/chesslens/internal/session"
	"github.com/hailam/chesslens/internal/ui"
)

var (
	res        = flag.Int("res", 0, "board edge in pixels (overrides window.resolution)")
	configPath = flag.String("config", "", "config file (default "+config.DefaultFile+" if present)")
	fen        = flag.String("fen", "", "start from this position instead of the stored session")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run returns only after the app is closed, so storage is flushed on every
// exit path.
func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *res > 0 {
		cfg.Window.Resolution = *res
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := view(a); err != nil {
		a.Log.Error("viewer stopped", zap.Error(err))
		return err
	}
	return nil
}

func view(a *app.App) error {
	sess, err := startSession(a)
	if err != nil {
		return err
	}

	var saver ui.Saver
	if a.Store != nil {
		saver = a.Store
	}
	game := ui.NewGame(sess, ui.Options{
		Resolution: a.Config.Window.Resolution,
		Palette:    a.Palette,
		Saver:      saver,
		Logger:     a.Log,
	})
	err = ui.Run(game)
	a.Save(sess)
	return err
}

func startSession(a *app.App) (*session.Session, error) {
	if *fen == "" {
		return a.Session()
	}
	pos, err := board.ParseFEN(*fen)
	if err != nil {
		return nil, fmt.Errorf("-fen: %w", err)
	}
	return session.New(pos, a.Engine, a.Log)
}
