package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"pvs-chess/board"
	"pvs-chess/engine"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Positions searched when no -fen is given.
var benchFENs = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
}

type result struct {
	fen     string
	move    board.Move
	score   int
	nodes   uint64
	elapsed time.Duration
	stats   engine.CutStatistics
}

func main() {
	depth := flag.Int("depth", 8, "search depth in plies")
	fen := flag.String("fen", "", "FEN to search (empty = built-in set)")
	parallel := flag.Int("parallel", 1, "positions searched at once, each with its own engine")
	hash := flag.Int("hash", 16, "transposition table size in MB per engine")
	cutStats := flag.Bool("cutstats", false, "print pruning statistics per position")
	prof := flag.String("profile", "", "write a profile (cpu or mem) to the current directory")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if *depth <= 0 {
		log.Fatal().Int("depth", *depth).Msg("depth must be positive")
	}

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		log.Fatal().Str("profile", *prof).Msg("unknown-profile-mode")
	}

	fens := benchFENs
	if *fen != "" {
		fens = []string{*fen}
	}

	results := make([]result, len(fens))
	var g errgroup.Group
	g.SetLimit(max(*parallel, 1))

	startAll := time.Now()
	for i, f := range fens {
		g.Go(func() error {
			pos, err := board.ParseFEN(f)
			if err != nil {
				return fmt.Errorf("position %d: %w", i, err)
			}
			opts := engine.DefaultOptions()
			opts.HashMB = *hash
			e := engine.New(opts)
			e.SetRestrictions(engine.Restrictions{Depth: *depth})

			start := time.Now()
			move := e.GetMove(pos)
			results[i] = result{
				fen:     f,
				move:    move,
				score:   e.Score(),
				nodes:   e.GetNodes(),
				elapsed: time.Since(start),
				stats:   e.Stats(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("searchbench")
	}
	total := time.Since(startAll)

	var nodes uint64
	for i, r := range results {
		nodes += r.nodes
		fmt.Printf("%2d: bestmove %-6v score %6d nodes %10d time %v\n", i+1, r.move, r.score, r.nodes, r.elapsed.Round(time.Millisecond))
		if *cutStats {
			r.stats.Dump(os.Stdout)
		}
	}
	fmt.Printf("total nodes %d time %v nps %.0f\n", nodes, total.Round(time.Millisecond), float64(nodes)/total.Seconds())
}
