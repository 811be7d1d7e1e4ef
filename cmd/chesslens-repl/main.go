package main

import (
	"flag"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/app"
	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/config"
	"github.com/hailam/chesslens/internal/repl"
	"github.com/hailam/chesslens/internal/session"
)

var configPath = flag.String("config", "", "config file (default "+config.DefaultFile+" if present)")

func main() {
	flag.Parse()
	if err := run(*configPath, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run serves the REPL on in and out. It returns after the app is closed.
func run(configPath string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// The REPL always starts from the initial position.
	cfg.Storage.Enabled = false

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := session.New(board.NewPosition(), a.Engine, a.Log)
	if err != nil {
		return err
	}
	if err := repl.New(sess, a.Engine, a.Log, in, out).Run(); err != nil {
		a.Log.Error("repl stopped", zap.Error(err))
		return err
	}
	return nil
}
