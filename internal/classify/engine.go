// Package classify grades every legal move of a piece by what the opponent
// can do about it on the very next ply.
package classify

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/oracle"
)

// Options configures an Engine. The zero value classifies serially with no
// cache and no logging.
type Options struct {
	Workers      int   // moves evaluated in parallel (<= 1 means serial)
	CacheEntries int64 // selections remembered (0 disables the cache)
	Logger       *zap.Logger
}

// DefaultOptions uses one worker per CPU and a small cache.
func DefaultOptions() Options {
	return Options{Workers: runtime.GOMAXPROCS(0), CacheEntries: 4096}
}

// Engine classifies moves. It is safe for concurrent use; each evaluation
// works on its own pooled copy of the caller's board.
type Engine struct {
	workers int
	log     *zap.Logger
	cache   *ristretto.Cache[uint64, []MoveReport]
	pool    sync.Pool
}

// New creates an engine.
func New(opts Options) (*Engine, error) {
	e := &Engine{
		workers: max(opts.Workers, 1),
		log:     opts.Logger,
		pool:    sync.Pool{New: func() any { return new(evaluator) }},
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if opts.CacheEntries > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[uint64, []MoveReport]{
			NumCounters:        opts.CacheEntries * 10,
			// every selection costs 1, so MaxCost counts entries
			MaxCost:            opts.CacheEntries,
			BufferItems:        64,
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, fmt.Errorf("classify: cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// Close releases the cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// ClassifyMoves returns one classification per legal move of the piece on
// sq. The map is empty when sq is empty, holds a piece of the side not to
// move, or the game is over.
func (e *Engine) ClassifyMoves(pos *board.Position, sq board.Square) (map[board.Move]Classification, error) {
	reports, err := e.Reports(pos, sq)
	if err != nil {
		return nil, err
	}
	out := make(map[board.Move]Classification, len(reports))
	for _, r := range reports {
		out[r.Move] = r.Class
	}
	return out, nil
}

// Reports is ClassifyMoves with the supporting detail, in generation order.
func (e *Engine) Reports(pos *board.Position, sq board.Square) ([]MoveReport, error) {
	if err := check(pos); err != nil {
		return nil, err
	}
	moves := pos.GenerateLegalMovesFrom(sq).Slice()
	if len(moves) == 0 {
		return nil, nil
	}

	key := pos.Hash ^ selectionKey(sq)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok && len(cached) == len(moves) {
			return append([]MoveReport(nil), cached...), nil
		}
	}

	start := time.Now()
	reports := make([]MoveReport, len(moves))
	if e.workers == 1 || len(moves) == 1 {
		ev := e.acquire(pos)
		for i, m := range moves {
			reports[i] = ev.evaluate(m)
		}
		e.pool.Put(ev)
	} else {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for i, m := range moves {
			g.Go(func() error {
				ev := e.acquire(pos)
				defer e.pool.Put(ev)
				reports[i] = ev.evaluate(m)
				return nil
			})
		}
		_ = g.Wait()
	}

	e.log.Debug("classified",
		zap.Stringer("square", sq),
		zap.Int("moves", len(reports)),
		zap.Duration("elapsed", time.Since(start)))

	if e.cache != nil {
		e.cache.Set(key, append([]MoveReport(nil), reports...), 1)
	}
	return reports, nil
}

// Classify evaluates a single move, rejecting moves that are not legal.
func (e *Engine) Classify(pos *board.Position, m board.Move) (MoveReport, error) {
	if err := check(pos); err != nil {
		return MoveReport{}, err
	}
	if !pos.IsLegal(m) {
		return MoveReport{}, fmt.Errorf("%w: %s", board.ErrInvalidMove, m)
	}
	ev := e.acquire(pos)
	defer e.pool.Put(ev)
	return ev.evaluate(m), nil
}

// TerminalState reports InPlay, Checkmate or Stalemate. Check alone is
// still in play.
func (e *Engine) TerminalState(pos *board.Position) (board.Status, error) {
	if err := check(pos); err != nil {
		return board.InPlay, err
	}
	if st := pos.Status(); st.IsTerminal() {
		return st, nil
	}
	return board.InPlay, nil
}

// Highlights lists the moves of the side to move that end the game at once.
type Highlights struct {
	Mates      []board.Move
	Stalemates []board.Move
}

// Squares returns the origin squares of the mating and stalemating moves.
func (h Highlights) Squares() (mate, stalemate board.Bitboard) {
	for _, m := range h.Mates {
		mate |= board.SquareBB(m.From())
	}
	for _, m := range h.Stalemates {
		stalemate |= board.SquareBB(m.From())
	}
	return mate, stalemate
}

// Highlights finds the pieces that can deliver mate or stalemate.
func (e *Engine) Highlights(pos *board.Position) (Highlights, error) {
	if err := check(pos); err != nil {
		return Highlights{}, err
	}
	ev := e.acquire(pos)
	defer e.pool.Put(ev)
	mates, stalemates := ev.terminalMoves()
	return Highlights{Mates: mates, Stalemates: stalemates}, nil
}

// Threats lists the attacked pieces of both sides.
func (e *Engine) Threats(pos *board.Position) ([]oracle.Threat, error) {
	if err := check(pos); err != nil {
		return nil, err
	}
	return oracle.Threats(pos), nil
}

func (e *Engine) acquire(pos *board.Position) *evaluator {
	ev := e.pool.Get().(*evaluator)
	ev.reset(pos)
	return ev
}

func check(pos *board.Position) error {
	if pos == nil {
		return fmt.Errorf("%w: no position", board.ErrMalformedBoard)
	}
	return pos.Validate()
}

// selectionKey spreads the selected square over the hash so selections on
// one board land on distinct cache keys.
func selectionKey(sq board.Square) uint64 {
	return (uint64(sq) + 1) * 0x9E3779B97F4A7C15
}
