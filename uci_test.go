package main

import (
	"bytes"
	"strings"
	"testing"

	"pvs-chess/engine"
)

func runUCI(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	opts := engine.DefaultOptions()
	opts.HashMB = 4
	s := newUCISession(&out, opts)
	if err := s.run(strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func lineWithPrefix(out, prefix string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	return ""
}

func TestUCIHandshake(t *testing.T) {
	out := runUCI(t, "uci\nisready\n")
	for _, want := range []string{"id name " + engineName, "option name Hash", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestUCIGoDepth(t *testing.T) {
	out := runUCI(t, "position startpos moves e2e4 e7e5\ngo depth 3\n")
	if !strings.Contains(out, "info depth 3 ") {
		t.Fatalf("expected a depth 3 info line:\n%s", out)
	}
	best := lineWithPrefix(out, "bestmove ")
	if best == "" || best == "bestmove 0000" {
		t.Fatalf("expected a bestmove:\n%s", out)
	}
}

func TestUCIFindsMate(t *testing.T) {
	out := runUCI(t, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 2\n")
	if best := lineWithPrefix(out, "bestmove "); best != "bestmove a1a8" {
		t.Fatalf("expected bestmove a1a8, got %q:\n%s", best, out)
	}
	if !strings.Contains(out, "score mate 1") {
		t.Fatalf("expected a mate score:\n%s", out)
	}
}

func TestUCIStopInfinite(t *testing.T) {
	out := runUCI(t, "position startpos\ngo infinite\nstop\n")
	if best := lineWithPrefix(out, "bestmove "); best == "" || best == "bestmove 0000" {
		t.Fatalf("expected a bestmove after stop:\n%s", out)
	}
}

func TestUCIPositionAndDisplay(t *testing.T) {
	out := runUCI(t, "position startpos moves e2e4 c7c5 g1f3\nd\n")
	if want := "rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"; !strings.Contains(out, want) {
		t.Fatalf("expected FEN %q in output:\n%s", want, out)
	}

	out = runUCI(t, "position fen not a fen\nd\n")
	if !strings.Contains(out, "info string") || !strings.Contains(out, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1") {
		t.Fatalf("invalid FEN should be reported and fall back to the start position:\n%s", out)
	}

	out = runUCI(t, "position startpos moves e2e5\n")
	if !strings.Contains(out, "info string") {
		t.Fatalf("illegal move should be reported:\n%s", out)
	}
}

func TestUCIPerftAndValidate(t *testing.T) {
	out := runUCI(t, "position startpos\nperft 2\ndebug validate\n")
	if !strings.Contains(out, "Nodes searched: 400") {
		t.Fatalf("expected 400 nodes:\n%s", out)
	}
	if !strings.Contains(out, "e2e4: 20") {
		t.Fatalf("expected divide output:\n%s", out)
	}
	if !strings.Contains(out, "info string position ok") {
		t.Fatalf("expected validation result:\n%s", out)
	}
}

func TestUCISetOption(t *testing.T) {
	var out bytes.Buffer
	s := newUCISession(&out, engine.DefaultOptions())
	input := "setoption name Hash value 2\nsetoption name Contempt value 33\nsetoption name Clear Hash\nsetoption name Bogus value 1\n"
	if err := s.run(strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := s.engine.Options().HashMB; got != 2 {
		t.Fatalf("expected hash 2 MB, got %d", got)
	}
	if got := s.engine.Options().Contempt; got != 33 {
		t.Fatalf("expected contempt 33, got %d", got)
	}
	if !strings.Contains(out.String(), "Unknown option Bogus") {
		t.Fatalf("expected unknown option report:\n%s", out.String())
	}
}

func TestUCIEval(t *testing.T) {
	out := runUCI(t, "eval\n")
	if want := "info string eval 10"; !strings.Contains(out, want) {
		t.Fatalf("expected %q:\n%s", want, out)
	}
}

func BenchmarkUCISearch(b *testing.B) {
	opts := engine.DefaultOptions()
	opts.HashMB = 16
	for i := 0; i < b.N; i++ {
		var out bytes.Buffer
		s := newUCISession(&out, opts)
		if err := s.run(strings.NewReader("position startpos\ngo depth 5\n")); err != nil {
			b.Fatalf("run: %v", err)
		}
	}
}
