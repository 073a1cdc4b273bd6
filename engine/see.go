package engine

import "pvs-chess/board"

// SeePieceValue is the exchange value of each piece type.
var SeePieceValue = [7]int{
	board.Pawn:   100,
	board.Knight: 300,
	board.Bishop: 300,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   5000,
}

var seeValue = SeePieceValue

// EvaluateStaticExchange returns the material won by the side playing m once
// every recapture on m.To() has been played out, each side recapturing with
// its least valuable attacker and stopping when recapturing would lose.
// X-ray attackers join in as the pieces in front of them leave.
func EvaluateStaticExchange(p *board.Position, m board.Move) int {
	to := m.To()
	occ := p.Occupied()&^board.SquareBit(m.From()) | board.SquareBit(to)
	gain := seeValue[m.Captured().Type()]
	if m.IsEnPassant() {
		occ &^= board.SquareBit(board.SquareAt(to.File(), m.From().Rank()))
	}
	onSquare := seeValue[m.Piece().Type()]
	if m.IsPromotion() {
		promoted := seeValue[m.Special().Type()]
		gain += promoted - seeValue[board.Pawn]
		onSquare = promoted
	}
	return gain - recapture(p, to, m.Piece().Colour().Other(), occ, onSquare)
}

// recapture is the best gain for side when it may capture target on sq.
func recapture(p *board.Position, sq board.Square, side board.Colour, occ uint64, target int) int {
	attackers := p.AttackersTo(sq, occ) & occ & p.Pieces(side)
	if attackers == 0 {
		return 0
	}
	from, pt := leastValuableAttacker(p, side, attackers)
	gain, onSquare := target, seeValue[pt]
	if pt == board.Pawn && (sq.Row() == 0 || sq.Row() == 7) {
		gain += seeValue[board.Queen] - seeValue[board.Pawn]
		onSquare = seeValue[board.Queen]
	}
	return Max(0, gain-recapture(p, sq, side.Other(), occ&^board.SquareBit(from), onSquare))
}

func leastValuableAttacker(p *board.Position, side board.Colour, attackers uint64) (board.Square, board.PieceType) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		if bb := attackers & p.Bitboard(board.MakePiece(side, pt)); bb != 0 {
			return board.FirstSquare(bb), pt
		}
	}
	return board.NoSquare, board.NoPieceType
}
