package engine

import (
	"pvs-chess/board"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	Infinity  = 32000
	MateScore = 31000
	MaxPly    = 128
	// Scores beyond MateThreshold are forced mates.
	MateThreshold = MateScore - 2*MaxPly
)

// drawScore is the contempt-biased value of a draw reached at ply. Even
// plies are the root side's turn, so the draw counts against it there.
func (e *Engine) drawScore(ply int) int {
	if ply%2 == 0 {
		return -e.opts.Contempt
	}
	return e.opts.Contempt
}

// countNode adds a node and reports whether the search has been stopped.
// The node limit is exact; the abort flag and the clock are only looked at
// every NodeCheckInterval nodes, when the count is also published.
func (e *Engine) countNode() bool {
	e.nodes++
	if limit := e.restrictions.Nodes; limit > 0 && e.nodes >= limit {
		e.stopped = true
	}
	if e.nodes%e.opts.NodeCheckInterval == 0 {
		e.published.Store(e.nodes)
		if e.abort.Load() || e.time.OutOfTime() {
			e.abort.Store(true)
			e.stopped = true
		}
	}
	return e.stopped
}

// repetitions is how many occurrences make a draw at ply. Close to the root
// a single repeat is enough; it can always be played again.
func repetitions(ply int) int {
	if ply <= 2 {
		return 2
	}
	return 3
}

// isDangerous reports a move that must be searched at full depth. p is the
// position after m was made.
func isDangerous(p *board.Position, m board.Move, givesCheck bool) bool {
	if givesCheck {
		return true
	}
	if m.Piece().Type() != board.Pawn || m.IsCapture() {
		return false
	}
	c := m.Piece().Colour()
	return m.To().RelativeRank(c) >= 4 && isPassed(p, c, m.To())
}

/*
	search is the recursive principal variation search. It returns a score
	from the side to move's point of view. When the search has been stopped
	it returns Infinity, which callers must not trust as a score.
*/
func (e *Engine) search(p *board.Position, depth, ply, alpha, beta int, inCheck, allowNull bool, pv *PVLine) int {
	pv.Clear()

	if depth <= 0 && !inCheck {
		return e.quiescence(p, ply, alpha, beta, pv)
	}
	depth = Max(depth, 0)

	if e.countNode() {
		return Infinity
	}
	if ply >= MaxPly {
		return e.eval.Evaluate(p)
	}

	/* DRAW DETECTION */
	if p.FiftyMoveDraw() || p.InsufficientMaterial() || p.HasRepeated(repetitions(ply)) {
		return e.drawScore(ply)
	}

	pvNode := beta-alpha > 1

	/* MATE DISTANCE PRUNING */
	alpha = Max(alpha, -MateScore+ply)
	beta = Min(beta, MateScore-ply-1)
	if alpha >= beta {
		e.stats.MateDistanceCutoffs++
		return alpha
	}

	/* TRANSPOSITION TABLE LOOKUP */
	hashMove := board.NullMove
	if entry, ok := e.tt.Probe(p.Key(), ply); ok {
		hashMove = entry.Move
		if entry.Depth() >= depth {
			score := entry.Score()
			switch entry.Bound() {
			case BoundExact:
				if !pvNode {
					e.stats.TTCutoffs++
					return score
				}
			case BoundLower:
				if score >= beta {
					e.stats.TTCutoffs++
					return score
				}
			case BoundUpper:
				if score <= alpha {
					e.stats.TTCutoffs++
					return score
				}
			}
		}
	}

	staticEval := -Infinity
	if !inCheck {
		staticEval = e.eval.Evaluate(p)
	}

	/* NULL MOVE PRUNING */
	if allowNull && !inCheck && !pvNode && depth >= 2 &&
		staticEval >= beta && p.HasNonPawnMaterial(p.SideToMove()) {
		r := e.opts.NullMoveReduction
		if depth > 6 {
			r++
		}
		var child PVLine
		p.MakeNull()
		score := -e.search(p, depth-1-r, ply+1, -beta, -beta+1, false, false, &child)
		p.UnmakeNull()
		if e.stopped {
			return Infinity
		}
		if score >= beta {
			e.stats.NullMoveCutoffs++
			if score >= MateThreshold {
				score = beta
			}
			return score
		}
	}

	n := p.LegalMoves(e.moveBuf[ply][:])
	if n == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return e.drawScore(ply)
	}
	moves := e.moveBuf[ply][:n]

	// Check and single-reply extension
	if inCheck || n == 1 {
		depth++
	}

	e.orderMoves(moves, e.scoreBuf[ply][:], hashMove, ply)

	/* FUTILITY PRUNING */
	futile := false
	if !inCheck && !pvNode && depth < len(e.opts.FutilityMargins) && Abs(alpha) < MateThreshold {
		futile = staticEval+e.opts.FutilityMargins[depth] <= alpha
	}
	nearMate := alpha <= -MateThreshold || beta >= MateThreshold

	us := p.SideToMove()
	bestScore, bestMove := -Infinity, board.NullMove
	bound := BoundUpper
	var child PVLine

	for i, m := range moves {
		p.Make(m)
		givesCheck := p.KingAttacked(us.Other())
		dangerous := inCheck || nearMate || isDangerous(p, m, givesCheck)

		if futile && i > 0 && m.IsQuiet() && !dangerous {
			p.Unmake(m)
			e.stats.FutilityPrunes++
			continue
		}

		var score int
		if i == 0 {
			score = -e.search(p, depth-1, ply+1, -beta, -alpha, givesCheck, true, &child)
		} else {
			reduction := 0
			if depth >= e.opts.LMRMinDepth && i >= e.opts.LMRMinMoves &&
				m.IsQuiet() && !dangerous && e.killers.Slot(m, ply) < 0 {
				reduction = 1
				if depth >= 6 && i >= 3*e.opts.LMRMinMoves {
					reduction = 2
				}
				e.stats.LateMoveReductions++
			}
			score = e.searchMoveWithPVS(p, depth-1, reduction, ply, alpha, beta, givesCheck, &child)
		}
		p.Unmake(m)

		if e.stopped {
			return Infinity
		}

		if score > bestScore {
			bestScore, bestMove = score, m
		}

		if score >= beta {
			e.stats.BetaCutoffs++
			if m.IsQuiet() {
				e.killers.Insert(m, ply)
			}
			e.tt.Store(p.Key(), m, BoundLower, depth, score, ply)
			return score
		}

		if score > alpha {
			alpha = score
			bound = BoundExact
			pv.Update(m, &child)
		}
	}

	e.tt.Store(p.Key(), bestMove, bound, depth, bestScore, ply)
	return bestScore
}

// searchMoveWithPVS performs a Principal Variation Search for a move
// already made on p. This implements the standard PVS 3-stage pattern:
// 1. Search with reduced depth using null window
// 2. If reduction was applied and score > alpha, re-search at full depth with null window
// 3. If score is between alpha and beta, do a full window search
func (e *Engine) searchMoveWithPVS(p *board.Position, depth, reduction, ply, alpha, beta int, givesCheck bool, child *PVLine) int {
	score := -e.search(p, depth-reduction, ply+1, -alpha-1, -alpha, givesCheck, true, child)
	if e.stopped {
		return score
	}

	if score > alpha && reduction > 0 {
		e.stats.LateMoveResearches++
		score = -e.search(p, depth, ply+1, -alpha-1, -alpha, givesCheck, true, child)
		if e.stopped {
			return score
		}
	}

	if score > alpha && score < beta {
		score = -e.search(p, depth, ply+1, -beta, -alpha, givesCheck, true, child)
	}
	return score
}

// quiescence resolves captures until the position is quiet.
func (e *Engine) quiescence(p *board.Position, ply, alpha, beta int, pv *PVLine) int {
	pv.Clear()

	if e.countNode() {
		return Infinity
	}
	e.selDepth = Max(e.selDepth, ply)

	standPat := e.eval.Evaluate(p)
	if ply >= MaxPly {
		return standPat
	}
	if standPat >= beta {
		e.stats.QStandPatCutoffs++
		return standPat
	}
	alpha = Max(alpha, standPat)
	best := standPat

	n := p.PseudoQuiescenceMoves(e.moveBuf[ply][:])
	moves := e.moveBuf[ply][:n]
	e.orderMoves(moves, e.scoreBuf[ply][:], board.NullMove, ply)

	us := p.SideToMove()
	var child PVLine
	for _, m := range moves {
		// Taking something at least as valuable is never a loss
		cheap := seeValue[m.Captured().Type()] >= seeValue[m.Piece().Type()]
		if !cheap && EvaluateStaticExchange(p, m) < 0 {
			e.stats.QSEEPrunes++
			continue
		}

		p.Make(m)
		if p.KingAttacked(us) {
			p.Unmake(m)
			continue
		}
		score := -e.quiescence(p, ply+1, -beta, -alpha, &child)
		p.Unmake(m)

		if e.stopped {
			return Infinity
		}
		if score > best {
			best = score
		}
		if score >= beta {
			e.stats.QBetaCutoffs++
			return score
		}
		if score > alpha {
			alpha = score
			pv.Update(m, &child)
		}
	}
	return best
}
