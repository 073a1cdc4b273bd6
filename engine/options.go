package engine

import (
	"fmt"
	"time"
)

// Options are the per-engine tunables. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	HashMB int

	// Contempt is how much the engine dislikes a draw, in centipawns.
	Contempt int
	// AcceptDraw answers yes once the last root score is at or below -AcceptDrawThreshold.
	AcceptDrawThreshold int

	AspirationWindow  int
	NullMoveReduction int
	// FutilityMargins[d] is the margin used at remaining depth d.
	FutilityMargins []int
	LMRMinDepth     int
	LMRMinMoves     int

	// Nodes between two looks at the clock and the abort flag.
	NodeCheckInterval uint64

	MoveOverhead time.Duration
	// A root score drop larger than this between iterations asks for more time.
	TimeExtensionDrop    int
	TimeExtensionPercent int
	MaxTimeExtensions    int

	// Number of depths during which every improving root move is reported.
	ReportImprovingDepth int

	PrintCutStats bool
}

// DefaultOptions returns the settings the engine plays with out of the box.
func DefaultOptions() Options {
	return Options{
		HashMB:               64,
		Contempt:             10,
		AcceptDrawThreshold:  50,
		AspirationWindow:     35,
		NullMoveReduction:    2,
		FutilityMargins:      []int{0, 120, 220, 320},
		LMRMinDepth:          3,
		LMRMinMoves:          4,
		NodeCheckInterval:    2048,
		MoveOverhead:         30 * time.Millisecond,
		TimeExtensionDrop:    40,
		TimeExtensionPercent: 50,
		MaxTimeExtensions:    2,
		ReportImprovingDepth: 4,
	}
}

func (o Options) validate() error {
	switch {
	case o.HashMB < 1:
		return fmt.Errorf("hash size must be at least 1 MB, got %d", o.HashMB)
	case o.NodeCheckInterval == 0:
		return fmt.Errorf("node check interval must be positive")
	case o.NullMoveReduction < 1:
		return fmt.Errorf("null move reduction must be at least 1, got %d", o.NullMoveReduction)
	case o.AspirationWindow < 0:
		return fmt.Errorf("aspiration window must not be negative, got %d", o.AspirationWindow)
	}
	return nil
}

// OutputMode selects how progress reports are rendered.
type OutputMode int

const (
	OutputNone OutputMode = iota
	OutputUCI
	OutputHuman
)

// Restrictions bound a single search. Zero fields impose no limit; with no
// limit at all the search runs until MaxPly or Stop.
type Restrictions struct {
	Output    OutputMode
	MoveTime  time.Duration
	Depth     int
	Nodes     uint64
	TimeLeft  [2]time.Duration
	Increment [2]time.Duration
	MovesToGo int
	Infinite  bool
}

// clocked reports whether the search plays under a game clock.
func (r Restrictions) clocked() bool {
	return !r.Infinite && r.MoveTime == 0 && (r.TimeLeft[0] > 0 || r.TimeLeft[1] > 0)
}
