package engine

import "pvs-chess/board"

/*
	Move ordering offsets!
	- The hash move is the best move a previous search found here; always first.
	- Killers are quiet moves that cut off at the same ply in a sibling node.
	- Captures follow, ranked by how much is taken relative to what takes it.
	  A queen promotion counts as a capture of its own.
	- Everything else keeps generation order.
*/
const (
	hashMoveOffset    = 1 << 20
	killerOffset      = 1 << 18
	captureOffset     = 1 << 10
	queenPromoBonus   = 800
	captureRatioScale = 100
)

// scoreMove gives the ordering key of m at ply.
func (e *Engine) scoreMove(m, hashMove board.Move, ply int) int {
	if m == hashMove {
		return hashMoveOffset
	}
	if slot := e.killers.Slot(m, ply); slot >= 0 {
		return killerOffset - slot
	}
	score := 0
	if m.IsCapture() {
		score = captureOffset + seeValue[m.Captured().Type()]*captureRatioScale/seeValue[m.Piece().Type()]
	}
	if m.IsPromotion() && m.Promotion().Type() == board.Queen {
		score += captureOffset + queenPromoBonus
	}
	return score
}

// orderMoves sorts moves best-first. scores is scratch space of at least
// len(moves).
func (e *Engine) orderMoves(moves []board.Move, scores []int, hashMove board.Move, ply int) {
	for i, m := range moves {
		scores[i] = e.scoreMove(m, hashMove, ply)
	}
	insertionSort(moves, scores[:len(moves)])
}

// insertionSort orders moves by descending score. The lists are short and
// mostly sorted already, and equal scores keep their generation order.
func insertionSort(moves []board.Move, scores []int) {
	for i := 1; i < len(moves); i++ {
		m, s := moves[i], scores[i]
		j := i - 1
		for ; j >= 0 && scores[j] < s; j-- {
			moves[j+1], scores[j+1] = moves[j], scores[j]
		}
		moves[j+1], scores[j+1] = m, s
	}
}

// PVLine is a principal variation collected bottom-up during search.
type PVLine struct {
	moves [MaxPly]board.Move
	n     int
}

// Update sets the line to move followed by child's line.
func (pv *PVLine) Update(move board.Move, child *PVLine) {
	pv.moves[0] = move
	n := copy(pv.moves[1:], child.moves[:child.n])
	pv.n = n + 1
}

func (pv *PVLine) Clear() { pv.n = 0 }

// Moves returns a copy of the line.
func (pv *PVLine) Moves() []board.Move {
	out := make([]board.Move, pv.n)
	copy(out, pv.moves[:pv.n])
	return out
}

// First returns the first move of the line or NullMove.
func (pv *PVLine) First() board.Move {
	if pv.n == 0 {
		return board.NullMove
	}
	return pv.moves[0]
}
