package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"pvs-chess/engine"
)

func TestParseEPD(t *testing.T) {
	tc, err := parseEPD(`6k1/5ppp/8/8/8/8/8/R5K1 w - - bm Ra8#; id "back rank";`)
	if err != nil {
		t.Fatalf("parseEPD: %v", err)
	}
	if tc.id != "back rank" {
		t.Fatalf("expected id %q, got %q", "back rank", tc.id)
	}
	if tc.fen != "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1" {
		t.Fatalf("unexpected fen %q", tc.fen)
	}
	if len(tc.best) != 1 || tc.best[0] != "a1a8" {
		t.Fatalf("expected bm [a1a8], got %v", tc.best)
	}
	if !tc.solved("a1a8") || tc.solved("a1a7") {
		t.Fatalf("solved disagrees with bm")
	}
}

func TestParseEPDAvoidMove(t *testing.T) {
	tc, err := parseEPD(`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - am f3 g4; id "start";`)
	if err != nil {
		t.Fatalf("parseEPD: %v", err)
	}
	if len(tc.avoid) != 2 || tc.avoid[0] != "f2f3" || tc.avoid[1] != "g2g4" {
		t.Fatalf("expected am [f2f3 g2g4], got %v", tc.avoid)
	}
	if tc.solved("g2g4") || !tc.solved("e2e4") {
		t.Fatalf("solved disagrees with am")
	}
}

func TestParseEPDErrors(t *testing.T) {
	if _, err := parseEPD("8/8/8 w"); err == nil {
		t.Fatalf("expected an error for a short record")
	}
	if _, err := parseEPD(`4k3/8/8/8/8/8/8/4K3 w - - id "none";`); !errors.Is(err, errNoTarget) {
		t.Fatalf("expected errNoTarget, got %v", err)
	}
	if _, err := parseEPD(`4k3/8/8/8/8/8/8/4K3 w - - bm Qh5;`); err == nil {
		t.Fatalf("expected an error for an impossible bm")
	}
}

func TestRunSuite(t *testing.T) {
	opts := engine.DefaultOptions()
	opts.HashMB = 4
	e := engine.New(opts)
	e.SetRestrictions(engine.Restrictions{Depth: 3})

	suite := strings.Join([]string{
		"# comment",
		`6k1/5ppp/8/8/8/8/8/R5K1 w - - bm Ra8#; id "mate1";`,
		"",
		`4k3/8/8/8/8/8/8/4K3 w - - id "no target";`,
	}, "\n")

	var out bytes.Buffer
	solved, total, err := runSuite(e, strings.NewReader(suite), &out)
	if err != nil {
		t.Fatalf("runSuite: %v", err)
	}
	if total != 1 || solved != 1 {
		t.Fatalf("expected 1/1 solved, got %d/%d\n%s", solved, total, out.String())
	}
	if !strings.Contains(out.String(), "mate1") {
		t.Fatalf("expected the record id in the output, got %q", out.String())
	}
}
