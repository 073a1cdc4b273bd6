package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pvs-chess/board"
	"pvs-chess/engine"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	file := flag.String("file", "", "EPD file (default stdin)")
	movetime := flag.Duration("movetime", time.Second, "time per position")
	depth := flag.Int("depth", 0, "fixed depth instead of movetime")
	hash := flag.Int("hash", engine.DefaultOptions().HashMB, "transposition table size in MB")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var in io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Msg("open-epd")
		}
		defer f.Close()
		in = f
	}

	opts := engine.DefaultOptions()
	opts.HashMB = *hash
	e := engine.New(opts)
	r := engine.Restrictions{MoveTime: *movetime}
	if *depth > 0 {
		r = engine.Restrictions{Depth: *depth}
	}
	e.SetRestrictions(r)

	solved, total, err := runSuite(e, in, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("read-epd")
	}
	fmt.Printf("solved %d/%d\n", solved, total)
}

// runSuite searches every record of in with e and prints one line per
// record. Unparseable records are logged and skipped.
func runSuite(e *engine.Engine, in io.Reader, out io.Writer) (solved, total int, err error) {
	scanner := bufio.NewScanner(in)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tc, err := parseEPD(line)
		if err != nil {
			if !errors.Is(err, errNoTarget) {
				log.Warn().Err(err).Int("line", lineNo).Msg("epd-skip")
			}
			continue
		}
		pos, err := board.ParseFEN(tc.fen)
		if err != nil {
			log.Warn().Err(err).Int("line", lineNo).Msg("epd-skip")
			continue
		}

		e.Reset()
		move := e.GetMove(pos).String()
		total++
		verdict := "fail"
		if tc.solved(move) {
			solved++
			verdict = "ok"
		}
		id := tc.id
		if id == "" {
			id = fmt.Sprintf("line %d", lineNo)
		}
		fmt.Fprintf(out, "%-12s %-4s %-6s best %v avoid %v nodes %d\n",
			id, verdict, move, tc.best, tc.avoid, e.GetNodes())
	}
	return solved, total, scanner.Err()
}
