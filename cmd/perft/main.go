package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"pvs-chess/board"

	"github.com/dylhunn/dragontoothmg"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	verify := flag.Bool("verify", false, "Cross-check per-move counts against an independent generator")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	prof := flag.String("profile", "", "Write a profile (cpu or mem) to the current directory")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Str("fen", *fen).Msg("parse-fen")
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

	if *verify {
		if mismatches := verifyDivide(pos, *fen, *depth); mismatches > 0 {
			log.Error().Int("mismatches", mismatches).Msg("perft-verify-failed")
			os.Exit(1)
		}
		log.Info().Int("depth", *depth).Msg("perft-verify-ok")
		return
	}

	if *divide {
		counts := divideByString(pos, *depth)
		keys := sortedKeys(counts)
		var sum uint64
		for _, k := range keys {
			fmt.Printf("%s: %d\n", k, counts[k])
			sum += counts[k]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += pos.Perft(*depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)
}

func divideByString(pos *board.Position, depth int) map[string]uint64 {
	counts := make(map[string]uint64)
	for m, n := range pos.PerftDivide(depth) {
		counts[m.String()] = n
	}
	return counts
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// verifyDivide compares the root divide with dragontoothmg's generator and
// logs every move whose subtree count differs. It returns the number of
// differences.
func verifyDivide(pos *board.Position, fen string, depth int) int {
	ours := divideByString(pos, depth)

	ref := dragontoothmg.ParseFen(fen)
	theirs := make(map[string]uint64)
	for _, m := range ref.GenerateLegalMoves() {
		unapply := ref.Apply(m)
		theirs[m.String()] = referencePerft(&ref, depth-1)
		unapply()
	}

	mismatches := 0
	for _, k := range sortedKeys(ours) {
		want, ok := theirs[k]
		switch {
		case !ok:
			log.Warn().Str("move", k).Msg("move-not-generated-by-reference")
			mismatches++
		case want != ours[k]:
			log.Warn().Str("move", k).Uint64("got", ours[k]).Uint64("want", want).Msg("count-mismatch")
			mismatches++
		}
	}
	for _, k := range sortedKeys(theirs) {
		if _, ok := ours[k]; !ok {
			log.Warn().Str("move", k).Msg("move-missing")
			mismatches++
		}
	}
	return mismatches
}

func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		unapply()
	}
	return nodes
}
