// Package app wires configuration, logging, the classification engine and
// storage together for the process entry points.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/classify"
	"github.com/hailam/chesslens/internal/config"
	"github.com/hailam/chesslens/internal/obslog"
	"github.com/hailam/chesslens/internal/palette"
	"github.com/hailam/chesslens/internal/session"
	"github.com/hailam/chesslens/internal/storage"
)

// App holds the long-lived collaborators of one process.
type App struct {
	Config  config.Config
	Log     *zap.Logger
	Engine  *classify.Engine
	Palette palette.Palette
	// Store is nil when storage is disabled or could not be opened.
	Store *storage.Storage
	Prefs *storage.Preferences
}

// New builds an App from cfg. A storage failure is logged and the App runs
// without persistence.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := obslog.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	log := obslog.L()

	pal, err := palette.ByName(cfg.Engine.Palette)
	if err != nil {
		return nil, err
	}
	eng, err := classify.New(classify.Options{
		Workers:      cfg.Engine.Workers,
		CacheEntries: cfg.Engine.CacheEntries,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	a := &App{Config: cfg, Log: log, Engine: eng, Palette: pal, Prefs: storage.DefaultPreferences()}
	if cfg.Storage.Enabled {
		a.openStorage()
	}
	return a, nil
}

func (a *App) openStorage() {
	store, err := storage.Open(a.Config.Storage.Dir, a.Log)
	if err != nil {
		a.Log.Warn("storage unavailable, session will not persist", zap.Error(err))
		return
	}
	a.Store = store

	first, err := store.IsFirstLaunch()
	if err != nil {
		a.Log.Warn("read first launch flag", zap.Error(err))
	}
	if first {
		a.Log.Info("first launch")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			a.Log.Warn("mark first launch", zap.Error(err))
		}
	}

	prefs, err := store.LoadPreferences()
	if err != nil {
		a.Log.Warn("load preferences", zap.Error(err))
	}
	a.Prefs = prefs
}

// Session resumes the stored session, or starts from the initial position
// when there is none or it no longer replays.
func (a *App) Session() (*session.Session, error) {
	if a.Store != nil {
		snap, found, err := a.Store.LoadSession()
		switch {
		case err != nil:
			a.Log.Warn("load session", zap.Error(err))
		case found:
			sess, err := session.FromSnapshot(snap, a.Engine, a.Log)
			if err == nil {
				a.Log.Info("session resumed", zap.Int("moves", len(snap.Moves)))
				return sess, nil
			}
			a.Log.Warn("discarding stored session", zap.Error(err))
		}
	}
	return session.New(board.NewPosition(), a.Engine, a.Log)
}

// Save persists sess and the preferences in use. It is a no-op without
// storage.
func (a *App) Save(sess *session.Session) {
	if a.Store == nil {
		return
	}
	if err := a.Store.SaveSession(sess.Snapshot()); err != nil {
		a.Log.Warn("save session", zap.Error(err))
	}
	a.Prefs.Palette = a.Palette.Name
	a.Prefs.Resolution = a.Config.Window.Resolution
	if err := a.Store.SavePreferences(a.Prefs); err != nil {
		a.Log.Warn("save preferences", zap.Error(err))
	}
}

// Close releases the engine cache and the database.
func (a *App) Close() {
	a.Engine.Close()
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("close storage", zap.Error(err))
		}
	}
	obslog.Sync()
}
