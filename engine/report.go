package engine

import (
	"fmt"
	"strings"
	"time"

	"pvs-chess/board"
	"pvs-chess/notation"
)

// Report is the progress of a search after a depth, or after an improving
// root move during the first depths.
type Report struct {
	Depth    int
	SelDepth int
	Score    int
	// Mate is the signed number of moves to mate, 0 when no mate is seen.
	Mate     int
	PV       []board.Move
	Nodes    uint64
	NPS      uint64
	Elapsed  time.Duration
	Hashfull int
}

// Reporter receives reports on the searching goroutine; it must not block
// for long.
type Reporter func(Report)

// mateIn converts a score into signed moves to mate, or 0.
func mateIn(score int) int {
	switch {
	case score >= MateThreshold:
		return (Max(MateScore-score, 0) + 1) / 2
	case score <= -MateThreshold:
		return -(Max(MateScore+score, 0) + 1) / 2
	}
	return 0
}

func (r Report) scoreString() string {
	if r.Mate != 0 {
		return fmt.Sprintf("mate %d", r.Mate)
	}
	return fmt.Sprintf("cp %d", r.Score)
}

func pvString(pv []board.Move) string {
	parts := make([]string, len(pv))
	for i, m := range pv {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// UCI renders the report as a UCI info line.
func (r Report) UCI() string {
	return fmt.Sprintf("info depth %d seldepth %d score %s nodes %d nps %d hashfull %d time %d pv %s",
		r.Depth, r.SelDepth, r.scoreString(), r.Nodes, r.NPS, r.Hashfull,
		r.Elapsed.Milliseconds(), pvString(r.PV))
}

// Human renders the report for a person, with the PV in SAN starting from
// the position given by fen. A PV that cannot be replayed falls back to
// coordinates.
func (r Report) Human(fen string) string {
	score := fmt.Sprintf("%+.2f", float64(r.Score)/100)
	if r.Mate != 0 {
		score = fmt.Sprintf("#%d", r.Mate)
	}
	uci := make([]string, len(r.PV))
	for i, m := range r.PV {
		uci[i] = m.String()
	}
	line, err := notation.SANLine(fen, uci)
	if err != nil {
		line = pvString(r.PV)
	}
	return fmt.Sprintf("%2d/%-2d %7s %10d nodes %6.2fs  %s",
		r.Depth, r.SelDepth, score, r.Nodes, r.Elapsed.Seconds(), line)
}

// publish hands a report to the reporter or prints it.
func (e *Engine) publish(depth, score int, pv []board.Move) {
	elapsed := e.time.Elapsed()
	ms := Max(uint64(elapsed.Milliseconds()), 1)
	r := Report{
		Depth:    depth,
		SelDepth: e.selDepth,
		Score:    score,
		Mate:     mateIn(score),
		PV:       pv,
		Nodes:    e.nodes,
		NPS:      scale(e.nodes, 1000, ms),
		Elapsed:  elapsed,
		Hashfull: e.tt.Hashfull(),
	}
	if e.reporter != nil {
		e.reporter(r)
		return
	}
	switch e.restrictions.Output {
	case OutputUCI:
		fmt.Fprintln(e.out, r.UCI())
	case OutputHuman:
		fmt.Fprintln(e.out, r.Human(e.rootFEN))
	}
}
