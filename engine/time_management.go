package engine

import (
	"time"

	"pvs-chess/board"

	"github.com/rs/zerolog/log"
)

// TimeManager decides how long one search may run.
type TimeManager struct {
	start      time.Time
	allotted   time.Duration
	maximum    time.Duration
	extension  time.Duration
	extensions int
	limited    bool
	clocked    bool
	opts       *Options
}

// Engine-side safety knobs
const (
	minMoveTime    = 5 * time.Millisecond
	maxFraction    = 0.7
	panicThreshold = time.Second
	panicFraction  = 0.9
	hardFactor     = 3
)

// Start sets the budget for a search by us in a position of the given phase
// (0 = bare endgame, phaseScale = full midgame).
func (tm *TimeManager) Start(r Restrictions, us board.Colour, phase int, opts *Options) {
	*tm = TimeManager{start: time.Now(), opts: opts}

	switch {
	case r.Infinite:
		return
	case r.MoveTime > 0:
		tm.limited = true
		tm.allotted = Max(r.MoveTime-opts.MoveOverhead, minMoveTime)
		tm.maximum = tm.allotted
		return
	case !r.clocked():
		return
	}

	tm.limited, tm.clocked = true, true
	rem, inc := r.TimeLeft[us], r.Increment[us]
	movesLeft := r.MovesToGo
	if movesLeft <= 0 {
		movesLeft = estimateMovesRemaining(phase)
	}

	var moveTime time.Duration
	switch {
	case inc > 0 && rem < panicThreshold:
		// Bank a little time
		moveTime = time.Duration(float64(inc) * panicFraction)
	default:
		moveTime = rem/time.Duration(movesLeft) + inc
	}

	ceiling := Min(time.Duration(float64(rem)*maxFraction), rem-opts.MoveOverhead)
	moveTime = Max(Min(moveTime, ceiling), minMoveTime)

	tm.allotted = moveTime
	tm.maximum = Max(Min(moveTime*hardFactor, ceiling), moveTime)
}

// Elapsed is the time since Start.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }

func (tm *TimeManager) budget() time.Duration {
	return Min(tm.allotted+tm.extension, tm.maximum)
}

// OutOfTime is polled from inside the search; it ends the search at once.
func (tm *TimeManager) OutOfTime() bool {
	return tm.limited && tm.Elapsed() >= tm.budget()
}

// SoftStop is checked between iterations: once half the budget is gone the
// next depth is unlikely to finish.
func (tm *TimeManager) SoftStop() bool {
	return tm.limited && tm.Elapsed() >= tm.budget()/2
}

// TryTimeExtension grants extra time when the search looks troubled. Only
// clock games extend, and only MaxTimeExtensions times per search.
func (tm *TimeManager) TryTimeExtension(reason string) bool {
	if !tm.clocked || tm.extensions >= tm.opts.MaxTimeExtensions || tm.budget() >= tm.maximum {
		return false
	}
	tm.extensions++
	tm.extension += tm.allotted * time.Duration(tm.opts.TimeExtensionPercent) / 100
	log.Debug().
		Str("reason", reason).
		Dur("allotted", tm.allotted).
		Dur("budget", tm.budget()).
		Msg("time-extension")
	return true
}

// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
func estimateMovesRemaining(phase int) int {
	return phase*25/phaseScale + 20
}
