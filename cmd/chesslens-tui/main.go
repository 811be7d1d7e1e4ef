package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/app"
	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/config"
	"github.com/hailam/chesslens/internal/session"
	"github.com/hailam/chesslens/internal/tui"
)

var (
	configPath = flag.String("config", "", "config file (default "+config.DefaultFile+" if present)")
	fen        = flag.String("fen", "", "start from this position instead of the stored session")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	// The terminal belongs to the board; keep only errors on stderr.
	if cfg.Log.File == "" {
		cfg.Log.Level = "error"
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

	final, err := tea.NewProgram(tui.New(sess, a.Palette), tea.WithAltScreen()).Run()
	if m, ok := final.(tui.Model); ok {
		sess = m.Session()
	}
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
