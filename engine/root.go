package engine

import (
	"pvs-chess/board"

	"github.com/rs/zerolog/log"
)

func (e *Engine) run(pos *board.Position) board.Move {
	p := pos.Clone()
	if p.HistoryRoom() < 2*MaxPly {
		p.Rebase()
	}

	e.nodes, e.selDepth, e.stopped = 0, 0, false
	e.published.Store(0)
	e.stats = CutStatistics{}
	e.killers.Clear()
	e.rootFEN = p.FEN()
	e.time.Start(e.restrictions, p.SideToMove(), gamePhase(p), &e.opts)

	log.Debug().
		Str("fen", e.rootFEN).
		Int("depth", e.restrictions.Depth).
		Dur("movetime", e.restrictions.MoveTime).
		Uint64("nodes", e.restrictions.Nodes).
		Msg("search-start")

	best := e.iterate(p)

	e.published.Store(e.nodes)
	outcome := Completed
	if e.stopped || e.abort.Load() {
		outcome = Aborted
	}
	e.outcome.Store(int32(outcome))
	e.state.Store(int32(outcome))
	if e.opts.PrintCutStats {
		e.stats.Dump(e.out)
	}
	log.Debug().
		Str("move", best.String()).
		Int("score", e.Score()).
		Uint64("nodes", e.nodes).
		Dur("elapsed", e.time.Elapsed()).
		Str("outcome", outcome.String()).
		Msg("search-finish")
	return best
}

// iterate is the iterative deepening loop. Only fully searched depths
// change the answer.
func (e *Engine) iterate(p *board.Position) board.Move {
	var buf [board.MaxMoves]board.Move
	n := p.LegalMoves(buf[:])
	if n == 0 {
		e.commit(nil, 0)
		return board.NullMove
	}
	moves := buf[:n]

	hashMove := board.NullMove
	if entry, ok := e.tt.Probe(p.Key(), 0); ok {
		hashMove = entry.Move
	}
	var scores [board.MaxMoves]int
	e.orderMoves(moves, scores[:], hashMove, 0)

	best := moves[0]
	if n == 1 && e.time.clocked {
		e.commit([]board.Move{best}, e.Score())
		return best
	}

	maxDepth := MaxPly - 1
	if d := e.restrictions.Depth; d > 0 {
		maxDepth = Min(d, maxDepth)
	}

	prevScore := 0
	for depth := 1; depth <= maxDepth; depth++ {
		score, pv, ok := e.searchRoot(p, moves, depth, prevScore)
		if !ok {
			log.Debug().Int("depth", depth).Uint64("nodes", e.nodes).Msg("depth-aborted")
			break
		}

		if depth > 1 && prevScore-score > e.opts.TimeExtensionDrop {
			e.time.TryTimeExtension("score-drop")
		}
		best, prevScore = moves[0], score
		e.commit(pv, score)
		e.publish(depth, score, pv)
		e.published.Store(e.nodes)

		log.Debug().Int("depth", depth).Int("score", score).Str("best", best.String()).Msg("iteration-complete")

		if e.restrictions.Nodes > 0 && e.nodes >= e.restrictions.Nodes {
			break
		}
		if e.time.SoftStop() {
			break
		}
		// A mate inside the full-width horizon cannot get any shorter
		if Abs(score) >= MateThreshold && MateScore-Abs(score) <= depth && !e.restrictions.Infinite {
			break
		}
	}
	return best
}

// searchRoot searches every root move to depth. The first move gets an
// aspiration window around the previous score, the rest a null window.
// Improving moves move to the front of moves. ok is false when the search
// was stopped before the depth finished.
func (e *Engine) searchRoot(p *board.Position, moves []board.Move, depth, prevScore int) (int, []board.Move, bool) {
	alpha, beta := -Infinity, Infinity
	inCheck := p.InCheck()
	us := p.SideToMove()
	var rootPV, child PVLine

	for i, m := range moves {
		p.Make(m)
		givesCheck := p.KingAttacked(us.Other())
		next := depth - 1
		if inCheck {
			next++
		}

		var score int
		if i == 0 {
			score = e.searchFirstRootMove(p, next, prevScore, depth, givesCheck, &child)
		} else {
			score = -e.search(p, next, 1, -alpha-1, -alpha, givesCheck, true, &child)
			if !e.stopped && score > alpha {
				score = -e.search(p, next, 1, -beta, -alpha, givesCheck, true, &child)
			}
		}
		p.Unmake(m)

		if e.stopped {
			return 0, nil, false
		}

		if score > alpha {
			alpha = score
			rootPV.Update(m, &child)
			copy(moves[1:i+1], moves[:i])
			moves[0] = m
			if i > 0 && depth <= e.opts.ReportImprovingDepth {
				e.publish(depth, score, rootPV.Moves())
			}
		}
	}
	return alpha, rootPV.Moves(), true
}

func (e *Engine) searchFirstRootMove(p *board.Position, depth, prevScore, iteration int, givesCheck bool, child *PVLine) int {
	w := e.opts.AspirationWindow
	if iteration == 1 || w == 0 || Abs(prevScore) >= MateThreshold {
		return -e.search(p, depth, 1, -Infinity, Infinity, givesCheck, true, child)
	}

	lo, hi := prevScore-w, prevScore+w
	score := -e.search(p, depth, 1, -hi, -lo, givesCheck, true, child)
	if e.stopped || (score > lo && score < hi) {
		return score
	}

	e.stats.AspirationResearches++
	if score <= lo {
		e.time.TryTimeExtension("aspiration-fail-low")
	}
	return -e.search(p, depth, 1, -Infinity, Infinity, givesCheck, true, child)
}
