// Package repl is a line-oriented command interface over a session, in the
// spirit of a UCI loop: one command per line, plain text replies.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/classify"
	"github.com/hailam/chesslens/internal/session"
)

var errQuit = errors.New("quit")

// REPL reads commands from in and writes replies to out.
type REPL struct {
	sess   *session.Session
	engine *classify.Engine
	log    *zap.Logger
	in     io.Reader
	out    io.Writer
}

// New creates a REPL over sess.
func New(sess *session.Session, engine *classify.Engine, log *zap.Logger, in io.Reader, out io.Writer) *REPL {
	if log == nil {
		log = zap.NewNop()
	}
	return &REPL{sess: sess, engine: engine, log: log, in: in, out: out}
}

// Session returns the session the REPL drives.
func (r *REPL) Session() *session.Session { return r.sess }

// Run processes commands until quit or end of input.
func (r *REPL) Run() error {
	scanner := bufio.NewScanner(r.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := r.Exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			r.log.Debug("command failed", zap.String("line", line), zap.Error(err))
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Exec runs a single command line.
func (r *REPL) Exec(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "position":
		return r.handlePosition(args)
	case "move":
		return r.handleMove(args)
	case "classify":
		return r.handleClassify(args)
	case "threats":
		return r.handleThreats()
	case "highlights":
		return r.handleHighlights()
	case "status":
		st, err := r.sess.Status()
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, st)
	case "undo":
		r.report(r.sess.Undo(), "nothing to undo")
	case "redo":
		r.report(r.sess.Redo(), "nothing to redo")
	case "moves":
		h := r.sess.History()
		fmt.Fprintln(r.out, strings.Join(board.MovesToSAN(h.Start(), h.Moves()), " "))
	case "fen":
		fmt.Fprintln(r.out, r.sess.Position().ToFEN())
	case "d":
		fmt.Fprintln(r.out, r.sess.Position().String())
	case "perft":
		return r.handlePerft(args)
	case "quit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (r *REPL) report(ok bool, otherwise string) {
	if ok {
		fmt.Fprintln(r.out, "ok")
		return
	}
	fmt.Fprintln(r.out, otherwise)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (r *REPL) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("position: want startpos or fen")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		if pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " ")); err != nil {
			return err
		}
	default:
		return fmt.Errorf("position: unknown kind %q", args[0])
	}

	var moves []string
	if movesAt < len(args) {
		moves = args[movesAt+1:]
	}
	if err := r.sess.Reset(pos, moves...); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "ok")
	return nil
}

// handleMove accepts coordinate or SAN notation.
func (r *REPL) handleMove(args []string) error {
	if len(args) != 1 {
		return errors.New("move: want one move")
	}
	pos := r.sess.Position()
	m, err := board.ParseMove(args[0], pos)
	if err != nil {
		if m, err = board.ParseSAN(args[0], pos); err != nil {
			return err
		}
	}
	if err := r.sess.Play(m); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "ok %s\n", m)
	return nil
}

func (r *REPL) handleClassify(args []string) error {
	if len(args) != 1 {
		return errors.New("classify: want one square")
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}
	pos := r.sess.Position()
	reports, err := r.engine.Reports(pos, sq)
	if err != nil {
		return err
	}
	for _, rep := range reports {
		line := fmt.Sprintf("%s %s %s", rep.Move, rep.Move.ToSAN(pos), rep.Class)
		if rep.After.IsTerminal() {
			line += " " + rep.After.String()
		}
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintf(r.out, "%d moves\n", len(reports))
	return nil
}

func (r *REPL) handleThreats() error {
	threats, err := r.sess.Threats()
	if err != nil {
		return err
	}
	for _, t := range threats {
		fmt.Fprintf(r.out, "%s %s %s %d\n", t.Square, t.Piece, t.Level, t.Balance)
	}
	fmt.Fprintf(r.out, "%d threats\n", len(threats))
	return nil
}

func (r *REPL) handleHighlights() error {
	h, err := r.sess.Highlights()
	if err != nil {
		return err
	}
	for _, m := range h.Mates {
		fmt.Fprintf(r.out, "mate %s\n", m)
	}
	for _, m := range h.Stalemates {
		fmt.Fprintf(r.out, "stalemate %s\n", m)
	}
	return nil
}

func (r *REPL) handlePerft(args []string) error {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			return fmt.Errorf("perft: bad depth %q", args[0])
		}
		depth = d
	}

	pos := r.sess.Position().Copy()
	start := time.Now()
	nodes := pos.Perft(depth)
	elapsed := time.Since(start)

	fmt.Fprintf(r.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(r.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(r.out, "NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
	return nil
}
