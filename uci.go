package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"pvs-chess/board"
	"pvs-chess/engine"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const engineName = "pvs-chess 1.0"

func main() {
	logLevel := flag.String("log-level", "warn", "diagnostic log level (debug, info, warn, error)")
	hash := flag.Int("hash", engine.DefaultOptions().HashMB, "transposition table size in MB")
	cutStats := flag.Bool("cutstats", false, "print pruning statistics after every search")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", *logLevel).Msg("unknown-log-level")
	}

	opts := engine.DefaultOptions()
	opts.HashMB = *hash
	opts.PrintCutStats = *cutStats

	s := newUCISession(os.Stdout, opts)
	if err := s.run(os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("uci-loop")
	}
}

// syncWriter serialises writes from the search goroutine and the command loop.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type uciSession struct {
	out    io.Writer
	engine *engine.Engine
	pos    *board.Position
	search *errgroup.Group
	cancel context.CancelFunc
}

func newUCISession(out io.Writer, opts engine.Options) *uciSession {
	w := &syncWriter{w: out}
	e := engine.New(opts)
	e.SetOutput(w)
	return &uciSession{out: w, engine: e, pos: board.StartPosition()}
}

func (s *uciSession) println(a ...any) { fmt.Fprintln(s.out, a...) }

func (s *uciSession) printf(format string, a ...any) { fmt.Fprintf(s.out, format, a...) }

// wait blocks until a running search has printed its bestmove.
func (s *uciSession) wait() {
	if s.search != nil {
		_ = s.search.Wait()
		s.search = nil
	}
}

// halt stops a running search and waits for it.
func (s *uciSession) halt() {
	if s.search != nil {
		s.cancel()
		s.wait()
	}
}

func (s *uciSession) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	defer s.wait()
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			s.println("id name", engineName)
			s.println("id author pvs-chess developers")
			s.printf("option name Hash type spin default %d min 1 max 4096\n", engine.DefaultOptions().HashMB)
			s.printf("option name Contempt type spin default %d min -200 max 200\n", engine.DefaultOptions().Contempt)
			s.println("option name Clear Hash type button")
			s.println("uciok")
		case "isready":
			s.println("readyok")
		case "ucinewgame":
			s.halt()
			s.engine.Reset()
			s.pos = board.StartPosition()
		case "position":
			s.halt()
			s.position(tokens[1:])
		case "go":
			s.halt()
			s.goCommand(tokens[1:])
		case "stop":
			s.halt()
		case "quit":
			s.halt()
			return nil
		case "setoption":
			s.halt()
			s.setOption(tokens[1:])
		case "d":
			s.println(s.pos.String())
		case "eval":
			s.printf("info string eval %d\n", engine.NewEvaluator().Evaluate(s.pos))
		case "perft":
			s.halt()
			s.perft(tokens[1:])
		case "debug":
			if len(tokens) > 1 && strings.ToLower(tokens[1]) == "validate" {
				s.validate()
			}
		default:
			s.println("info string Unknown command", tokens[0])
		}
	}
	return scanner.Err()
}

func (s *uciSession) position(args []string) {
	if len(args) == 0 {
		s.println("info string Malformed position command")
		return
	}
	var moves []string
	for i, tok := range args {
		if strings.ToLower(tok) == "moves" {
			moves = args[i+1:]
			args = args[:i]
			break
		}
	}

	switch strings.ToLower(args[0]) {
	case "startpos":
		s.pos = board.StartPosition()
	case "fen":
		p, err := board.ParseFEN(strings.Join(args[1:], " "))
		if err != nil {
			s.println("info string", err)
			p = board.StartPosition()
		}
		s.pos = p
	default:
		s.println("info string Invalid position subcommand")
		return
	}
	if err := s.pos.PlayMoves(moves...); err != nil {
		s.println("info string", err)
	}
}

func (s *uciSession) goCommand(args []string) {
	r := engine.Restrictions{Output: engine.OutputUCI}
	for i := 0; i < len(args); i++ {
		token := strings.ToLower(args[i])
		if token == "infinite" {
			r.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			s.println("info string Malformed go command option", token)
			break
		}
		value, err := strconv.ParseInt(args[i+1], 10, 64)
		if err != nil {
			s.println("info string Malformed go command option; could not convert", token)
			i++
			continue
		}
		ms := time.Duration(value) * time.Millisecond
		switch token {
		case "wtime":
			r.TimeLeft[board.White] = ms
		case "btime":
			r.TimeLeft[board.Black] = ms
		case "winc":
			r.Increment[board.White] = ms
		case "binc":
			r.Increment[board.Black] = ms
		case "movetime":
			r.MoveTime = ms
		case "movestogo":
			r.MovesToGo = int(value)
		case "depth":
			r.Depth = int(value)
		case "nodes":
			r.Nodes = uint64(value)
		default:
			s.println("info string Unknown go subcommand", token)
			continue
		}
		i++
	}

	pos := s.pos.Clone()
	s.engine.SetRestrictions(r)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.search = new(errgroup.Group)
	s.search.Go(func() error {
		defer cancel()
		best := s.engine.GetMoveContext(ctx, pos)
		s.println("bestmove", best)
		return nil
	})
}

// setOption handles "setoption name <id> [value <x>]"; option names may
// contain spaces.
func (s *uciSession) setOption(args []string) {
	var name, value []string
	target := &name
	for _, tok := range args {
		switch strings.ToLower(tok) {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, tok)
		}
	}

	id := strings.ToLower(strings.Join(name, " "))
	switch id {
	case "clear hash":
		s.engine.ClearHash()
		return
	case "hash", "contempt":
	default:
		s.println("info string Unknown option", strings.Join(name, " "))
		return
	}

	n, err := strconv.Atoi(strings.Join(value, ""))
	if err != nil {
		s.println("info string Malformed setoption value for", id)
		return
	}
	if id == "hash" {
		s.engine.AllocateHash(n)
	} else {
		s.engine.SetContempt(n)
	}
}

func (s *uciSession) perft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			s.println("info string Malformed perft depth")
			return
		}
		depth = d
	}
	start := time.Now()
	divide := s.pos.PerftDivide(depth)
	lines := make([]string, 0, len(divide))
	var total uint64
	for m, n := range divide {
		lines = append(lines, fmt.Sprintf("%s: %d", m, n))
		total += n
	}
	sort.Strings(lines)
	for _, l := range lines {
		s.println(l)
	}
	s.printf("\nNodes searched: %d\n", total)
	s.printf("info string perft %d took %v\n", depth, time.Since(start).Round(time.Millisecond))
}

func (s *uciSession) validate() {
	if err := s.pos.Validate(); err != nil {
		log.Error().Err(err).Str("fen", s.pos.FEN()).Msg("position-invalid")
		s.println("info string position invalid:", err)
		return
	}
	s.println("info string position ok")
}
