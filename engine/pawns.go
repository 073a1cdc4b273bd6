package engine

import "pvs-chess/board"

// evaluatePawns scores c's pawn structure: doubled and isolated pawns are
// penalised, passed pawns get a square bonus that grows in the endgame as
// pawns come off the board.
func (e *Evaluator) evaluatePawns(p *board.Position, c board.Colour) {
	own := p.Bitboard(board.MakePiece(c, board.Pawn))
	enemy := p.Bitboard(board.MakePiece(c.Other(), board.Pawn))
	totalPawns := board.PopCount(own | enemy)

	for f := 0; f < 8; f++ {
		n := board.PopCount(own & board.FileMask(f))
		if n == 0 {
			continue
		}
		if n > 1 {
			e.mg[c] -= (n - 1) * PawnDoubledMG
			e.eg[c] -= (n - 1) * PawnDoubledEG
		}
		if own&board.AdjacentFilesMask(f) == 0 {
			e.mg[c] -= n * IsolatedPawnMG
			e.eg[c] -= n * IsolatedPawnEG
		}
	}

	for bb := own; bb != 0; {
		sq := board.PopFirst(&bb)
		if board.PassedPawnMask(c, sq)&enemy != 0 || board.FrontSpan(c, sq)&own != 0 {
			continue
		}
		idx := sq
		if c == board.Black {
			idx = sq.Mirror()
		}
		e.mg[c] += passedPawnMG[idx]
		bonus := passedPawnEG[idx]
		e.eg[c] += bonus + bonus*(16-totalPawns)/16
	}
}

// isPassed reports whether the c pawn on sq has no enemy pawn ahead of it
// on its own or an adjacent file.
func isPassed(p *board.Position, c board.Colour, sq board.Square) bool {
	return board.PassedPawnMask(c, sq)&p.Bitboard(board.MakePiece(c.Other(), board.Pawn)) == 0
}
