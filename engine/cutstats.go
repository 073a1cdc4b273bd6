package engine

import (
	"fmt"
	"io"
)

// CutStatistics collects counts for each pruning/cutoff mechanism.
type CutStatistics struct {
	TTCutoffs            uint64
	NullMoveCutoffs      uint64
	MateDistanceCutoffs  uint64
	FutilityPrunes       uint64
	LateMoveReductions   uint64
	LateMoveResearches   uint64
	BetaCutoffs          uint64
	AspirationResearches uint64
	QStandPatCutoffs     uint64
	QBetaCutoffs         uint64
	QSEEPrunes           uint64
}

// Dump writes the counters as UCI info strings.
func (s *CutStatistics) Dump(w io.Writer) {
	fmt.Fprintln(w, "info string Cut statistics:")
	fmt.Fprintf(w, "info string   TT cutoffs: %d\n", s.TTCutoffs)
	fmt.Fprintf(w, "info string   Null-move cutoffs: %d\n", s.NullMoveCutoffs)
	fmt.Fprintf(w, "info string   Mate-distance cutoffs: %d\n", s.MateDistanceCutoffs)
	fmt.Fprintf(w, "info string   Futility prunes: %d\n", s.FutilityPrunes)
	fmt.Fprintf(w, "info string   Late move reductions: %d (re-searched %d)\n", s.LateMoveReductions, s.LateMoveResearches)
	fmt.Fprintf(w, "info string   Beta cutoffs: %d\n", s.BetaCutoffs)
	fmt.Fprintf(w, "info string   Aspiration re-searches: %d\n", s.AspirationResearches)
	fmt.Fprintf(w, "info string   QStandPat cutoffs: %d\n", s.QStandPatCutoffs)
	fmt.Fprintf(w, "info string   QBeta cutoffs: %d\n", s.QBetaCutoffs)
	fmt.Fprintf(w, "info string   QSEE prunes: %d\n", s.QSEEPrunes)
}
