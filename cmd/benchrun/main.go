package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

// step is one command of the benchmark run.
type step struct {
	title string
	args  []string
}

// run executes a command with its output going straight to ours and
// returns its exit code.
func run(name string, args ...string) int {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	log.Error().Err(err).Str("cmd", name).Msg("run-failed")
	return 1
}

func main() {
	benchtime := flag.String("benchtime", "1s", "passed to go test -benchtime")
	maxPerft := flag.Int("perft-depth", 5, "deepest start position perft")
	searchDepth := flag.Int("search-depth", 7, "depth for the search benchmark")
	verify := flag.Bool("verify", true, "cross-check kiwipete divide before timing")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op")
	if code := run("go", "test", "./bench", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime="+*benchtime); code != 0 {
		os.Exit(code)
	}

	var steps []step
	if *verify {
		steps = append(steps, step{"verify kiwipete", []string{"run", "./cmd/perft", "-fen", kiwipeteFEN, "-depth", "3", "-verify"}})
	}
	for d := 3; d <= *maxPerft; d++ {
		steps = append(steps, step{"", []string{"run", "./cmd/perft", "-depth", fmt.Sprint(d), "-label", "Initial"}})
	}
	steps = append(steps,
		step{"", []string{"run", "./cmd/perft", "-fen", kiwipeteFEN, "-depth", "3", "-label", "Kiwipete"}},
		step{"search", []string{"run", "./cmd/searchbench", "-depth", fmt.Sprint(*searchDepth), "-parallel", "1"}},
	)

	fmt.Println("\nPerft Performance:")
	fmt.Println("TEST \t\tDepth \t\tNodes \t\tTime \tNPS")
	failed := 0
	for _, s := range steps {
		if s.title != "" {
			fmt.Printf("\n%s:\n", s.title)
		}
		if code := run("go", s.args...); code != 0 {
			log.Warn().Strs("args", s.args).Int("exit", code).Msg("step-failed")
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
