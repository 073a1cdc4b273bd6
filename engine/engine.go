package engine

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"pvs-chess/board"

	"github.com/rs/zerolog/log"
)

// State is where an engine is in its search lifecycle.
type State int32

const (
	Idle State = iota
	Searching
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Engine is a single-threaded searcher with its own hash table and
// evaluator. Stop, State, GetNodes, GetPV, Score and AcceptDraw may be
// called from any goroutine; everything else belongs to the caller that
// runs GetMove.
type Engine struct {
	opts         Options
	restrictions Restrictions
	reporter     Reporter
	out          io.Writer

	tt      *TranspositionTable
	eval    *Evaluator
	time    TimeManager
	killers KillerTable
	stats   CutStatistics

	moveBuf  [MaxPly + 1][board.MaxMoves]board.Move
	scoreBuf [MaxPly + 1][board.MaxMoves]int

	nodes    uint64
	selDepth int
	stopped  bool
	rootFEN  string

	abort     atomic.Bool
	state     atomic.Int32
	outcome   atomic.Int32
	published atomic.Uint64

	mu        sync.Mutex
	pv        []board.Move
	lastScore int
}

var _ Player = (*Engine)(nil)

// New builds an engine. Invalid options are replaced by the defaults.
func New(opts Options) *Engine {
	if err := opts.validate(); err != nil {
		log.Warn().Err(err).Msg("engine-options-invalid")
		opts = DefaultOptions()
	}
	e := &Engine{
		opts: opts,
		eval: NewEvaluator(),
		out:  os.Stdout,
	}
	e.tt = NewTranspositionTable(opts.HashMB << 20)
	return e
}

// Options returns the engine's current settings.
func (e *Engine) Options() Options { return e.opts }

// SetContempt changes the draw score bias for following searches.
func (e *Engine) SetContempt(cp int) { e.opts.Contempt = cp }

// SetRestrictions sets the limits for following searches.
func (e *Engine) SetRestrictions(r Restrictions) { e.restrictions = r }

// SetReporter installs a callback receiving every progress report. With no
// reporter, reports are printed to the output writer in the restriction's
// output mode.
func (e *Engine) SetReporter(r Reporter) { e.reporter = r }

// SetOutput redirects printed reports.
func (e *Engine) SetOutput(w io.Writer) { e.out = w }

// GetMove searches a private copy of pos within the current restrictions
// and returns the best move found, or NullMove when pos has no legal move.
func (e *Engine) GetMove(pos *board.Position) board.Move {
	e.begin()
	defer e.state.Store(int32(Idle))
	return e.run(pos)
}

// GetMoveContext is GetMove that also stops when ctx is done.
func (e *Engine) GetMoveContext(ctx context.Context, pos *board.Position) board.Move {
	e.begin()
	defer e.state.Store(int32(Idle))
	stop := context.AfterFunc(ctx, e.Stop)
	defer stop()
	return e.run(pos)
}

func (e *Engine) begin() {
	e.abort.Store(false)
	e.state.Store(int32(Searching))
}

// Stop asks a running search to return as soon as possible.
func (e *Engine) Stop() { e.abort.Store(true) }

// Reset forgets everything learned from previous searches.
func (e *Engine) Reset() {
	e.tt.Clear()
	e.killers.Clear()
	e.abort.Store(false)
	e.published.Store(0)
	e.mu.Lock()
	e.pv = nil
	e.lastScore = 0
	e.mu.Unlock()
	e.state.Store(int32(Idle))
	e.outcome.Store(int32(Idle))
}

// AllocateHash resizes the transposition table to mb megabytes, dropping
// its contents. It must not be called during a search.
func (e *Engine) AllocateHash(mb int) {
	e.opts.HashMB = Max(mb, 1)
	e.tt.Resize(e.opts.HashMB << 20)
}

// ClearHash empties the transposition table.
func (e *Engine) ClearHash() { e.tt.Clear() }

// Hashfull is the table occupancy in permille.
func (e *Engine) Hashfull() int { return e.tt.Hashfull() }

// GetPV returns the principal variation of the last finished depth.
func (e *Engine) GetPV() []board.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]board.Move(nil), e.pv...)
}

// GetNodes returns the nodes searched so far by the current or last search.
func (e *Engine) GetNodes() uint64 { return e.published.Load() }

// Score returns the root score of the last finished depth.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastScore
}

// AcceptDraw reports whether a draw offer should be taken.
func (e *Engine) AcceptDraw() bool {
	return e.Score() <= -e.opts.AcceptDrawThreshold
}

// State is Searching while GetMove runs, briefly Completed or Aborted as
// the result is handed back, and Idle otherwise.
func (e *Engine) State() State { return State(e.state.Load()) }

// Outcome is how the last search ended: Completed, Aborted, or Idle when
// nothing has been searched since New or Reset.
func (e *Engine) Outcome() State { return State(e.outcome.Load()) }

// Stats returns the pruning counters of the last search.
func (e *Engine) Stats() CutStatistics { return e.stats }

func (e *Engine) commit(pv []board.Move, score int) {
	e.mu.Lock()
	e.pv = pv
	e.lastScore = score
	e.mu.Unlock()
}
