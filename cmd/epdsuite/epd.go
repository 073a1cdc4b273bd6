package main

import (
	"errors"
	"fmt"
	"strings"

	"pvs-chess/notation"
)

// testCase is one EPD record with its best and avoid moves converted to
// coordinate notation.
type testCase struct {
	id    string
	fen   string
	best  []string
	avoid []string
}

var errNoTarget = errors.New("record has neither bm nor am")

// parseEPD reads a line such as
//
//	r1b1k2r/ppppnppp/2n2q2/2b5/3NP3/2P1B3/PP3PPP/RN1QKB1R w KQkq - bm Nb5; id "WAC.x";
//
// The FEN gets zero move counters.
func parseEPD(line string) (testCase, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return testCase{}, fmt.Errorf("epd: too few fields in %q", line)
	}
	tc := testCase{fen: strings.Join(fields[:4], " ") + " 0 1"}

	ops := strings.Join(fields[4:], " ")
	for _, op := range strings.Split(ops, ";") {
		words := strings.Fields(op)
		if len(words) == 0 {
			continue
		}
		switch words[0] {
		case "id":
			tc.id = strings.Trim(strings.Join(words[1:], " "), `"`)
		case "bm", "am":
			for _, san := range words[1:] {
				uci, err := notation.ToUCI(tc.fen, san)
				if err != nil {
					return testCase{}, fmt.Errorf("epd %s: %w", words[0], err)
				}
				if words[0] == "bm" {
					tc.best = append(tc.best, uci)
				} else {
					tc.avoid = append(tc.avoid, uci)
				}
			}
		}
	}
	if len(tc.best) == 0 && len(tc.avoid) == 0 {
		return testCase{}, errNoTarget
	}
	return tc, nil
}

// solved reports whether move satisfies the record.
func (tc testCase) solved(move string) bool {
	for _, m := range tc.avoid {
		if m == move {
			return false
		}
	}
	if len(tc.best) == 0 {
		return true
	}
	for _, m := range tc.best {
		if m == move {
			return true
		}
	}
	return false
}
