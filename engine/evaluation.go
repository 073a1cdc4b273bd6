package engine

import (
	"pvs-chess/board"
)

// Piece base values (midgame/endgame)
var pieceValueMG = [7]int{
	board.Pawn: 88, board.Knight: 316, board.Bishop: 331, board.Rook: 494, board.Queen: 993,
}
var pieceValueEG = [7]int{
	board.Pawn: 111, board.Knight: 305, board.Bishop: 333, board.Rook: 535, board.Queen: 963,
}
var mobilityValueMG = [7]int{
	board.Bishop: 3, board.Rook: 2,
}
var mobilityValueEG = [7]int{
	board.Bishop: 2, board.Rook: 4,
}

// Most other non-material evaluation parameters
var (
	BishopPairBonusMG = 10
	BishopPairBonusEG = 50

	KnightTropismMG = 1
	KnightTropismEG = 4
	QueenTropismMG  = 2
	QueenTropismEG  = 2

	RookSemiOpenMG    = 13
	RookOpenMG        = 30
	RookSeventhRankEG = 10

	IsolatedPawnMG = 6
	IsolatedPawnEG = 7
	PawnDoubledMG  = 4
	PawnDoubledEG  = 17

	KingShieldNearMG   = 12
	KingShieldFarMG    = 6
	KingOpenFileMG     = -20
	KingSemiOpenFileMG = -10
	KingZoneAttackMG   = -6

	// Share of the best pending capture credited to the side to move, in percent.
	ThreatSharePercent = 50

	TempoValue = 10
)

// Phase is interpolated on non-pawn material: at or above phaseMidgame the
// midgame score is used alone, at or below phaseEndgame the endgame score.
const (
	phaseMidgame = 6000
	phaseEndgame = 1000
	phaseScale   = 256
)

// Material plus piece-square value, indexed by coloured piece code.
var pieceSquareMG, pieceSquareEG [16][64]int

var kingShieldNear, kingShieldFar [2][64]uint64

func init() {
	for pt := board.Pawn; pt <= board.King; pt++ {
		white, black := board.MakePiece(board.White, pt), board.MakePiece(board.Black, pt)
		for sq := board.Square(0); sq < 64; sq++ {
			pieceSquareMG[white][sq] = pieceValueMG[pt] + pstMG[pt][sq]
			pieceSquareEG[white][sq] = pieceValueEG[pt] + pstEG[pt][sq]
			pieceSquareMG[black][sq] = pieceValueMG[pt] + pstMG[pt][sq.Mirror()]
			pieceSquareEG[black][sq] = pieceValueEG[pt] + pstEG[pt][sq.Mirror()]
		}
	}

	for sq := board.Square(0); sq < 64; sq++ {
		for c := board.White; c <= board.Black; c++ {
			forward := 1
			if c == board.Black {
				forward = -1
			}
			for df := -1; df <= 1; df++ {
				f := sq.File() + df
				if f < 0 || f > 7 {
					continue
				}
				if r := sq.Rank() + forward; r >= 0 && r < 8 {
					kingShieldNear[c][sq] |= board.SquareBit(board.SquareAt(f, r))
				}
				if r := sq.Rank() + 2*forward; r >= 0 && r < 8 {
					kingShieldFar[c][sq] |= board.SquareBit(board.SquareAt(f, r))
				}
			}
		}
	}
}

// Evaluator computes static scores. It keeps per-call attack maps as scratch
// state, so each engine owns its own Evaluator.
type Evaluator struct {
	attacked   [2]uint64
	attackedBy [2][7]uint64
	mg, eg     [2]int
}

// NewEvaluator returns a ready Evaluator.
func NewEvaluator() *Evaluator { return &Evaluator{} }

// Evaluate scores p in centipawns from the side to move's point of view,
// including the tempo bonus.
func (e *Evaluator) Evaluate(p *board.Position) int {
	e.reset()
	for c := board.White; c <= board.Black; c++ {
		e.evaluatePieces(p, c)
	}
	for c := board.White; c <= board.Black; c++ {
		e.evaluatePawns(p, c)
		e.evaluateKing(p, c)
	}

	phase := gamePhase(p)
	mg := e.mg[board.White] - e.mg[board.Black]
	eg := e.eg[board.White] - e.eg[board.Black]
	score := (mg*phase + eg*(phaseScale-phase)) / phaseScale

	us := p.SideToMove()
	if us == board.Black {
		score = -score
	}
	return score + e.threatBonus(p, us) + TempoValue
}

func (e *Evaluator) reset() {
	e.attacked = [2]uint64{}
	e.attackedBy = [2][7]uint64{}
	e.mg = [2]int{}
	e.eg = [2]int{}
}

// gamePhase maps remaining non-pawn material to [0, phaseScale].
func gamePhase(p *board.Position) int {
	npm := 0
	for c := board.White; c <= board.Black; c++ {
		pawns := board.PopCount(p.Bitboard(board.MakePiece(c, board.Pawn)))
		npm += p.Material(c) - pawns*board.PieceValue[board.Pawn]
	}
	npm = Clamp(npm, phaseEndgame, phaseMidgame)
	return (npm - phaseEndgame) * phaseScale / (phaseMidgame - phaseEndgame)
}

func (e *Evaluator) addAttacks(c board.Colour, pt board.PieceType, att uint64) {
	e.attackedBy[c][pt] |= att
	e.attacked[c] |= att
}

// evaluatePieces adds material, piece-square terms and the per-piece
// factors for c, and fills c's attack maps.
func (e *Evaluator) evaluatePieces(p *board.Position, c board.Colour) {
	them := c.Other()
	own := p.Pieces(c)
	enemyKing := p.KingSquare(them)
	enemyPawns := p.Bitboard(board.MakePiece(them, board.Pawn))
	allPawns := enemyPawns | p.Bitboard(board.MakePiece(c, board.Pawn))
	seventh := board.SquareAt(0, 6)
	if c == board.Black {
		seventh = board.SquareAt(0, 1)
	}

	for pt := board.Pawn; pt <= board.King; pt++ {
		piece := board.MakePiece(c, pt)
		for bb := p.Bitboard(piece); bb != 0; {
			sq := board.PopFirst(&bb)
			e.mg[c] += pieceSquareMG[piece][sq]
			e.eg[c] += pieceSquareEG[piece][sq]

			att := p.SliderAttack(piece, sq)
			e.addAttacks(c, pt, att)

			switch pt {
			case board.Knight:
				closeness := 7 - distance(sq, enemyKing)
				e.mg[c] += closeness * KnightTropismMG
				e.eg[c] += closeness * KnightTropismEG
			case board.Queen:
				closeness := 7 - distance(sq, enemyKing)
				e.mg[c] += closeness * QueenTropismMG
				e.eg[c] += closeness * QueenTropismEG
			case board.Bishop, board.Rook:
				mobility := board.PopCount(att &^ own)
				e.mg[c] += mobility * mobilityValueMG[pt]
				e.eg[c] += mobility * mobilityValueEG[pt]
				if pt == board.Rook {
					file := board.FileMask(sq.File())
					if file&allPawns == 0 {
						e.mg[c] += RookOpenMG
					} else if file&p.Bitboard(board.MakePiece(c, board.Pawn)) == 0 {
						e.mg[c] += RookSemiOpenMG
					}
					if sq.Row() == seventh.Row() {
						e.eg[c] += RookSeventhRankEG
					}
				}
			}
		}
	}

	if board.PopCount(p.Bitboard(board.MakePiece(c, board.Bishop))) >= 2 {
		e.mg[c] += BishopPairBonusMG
		e.eg[c] += BishopPairBonusEG
	}
}

// evaluateKing scores the pawn shield, the files around c's king and the
// enemy attacks on its zone. Only the midgame score is affected. The attack
// maps must be complete for both colours.
func (e *Evaluator) evaluateKing(p *board.Position, c board.Colour) {
	kingSq := p.KingSquare(c)
	e.mg[c] += board.PopCount(board.KingZone(kingSq)&e.attacked[c.Other()]) * KingZoneAttackMG
	ownPawns := p.Bitboard(board.MakePiece(c, board.Pawn))
	allPawns := ownPawns | p.Bitboard(board.MakePiece(c.Other(), board.Pawn))

	e.mg[c] += board.PopCount(kingShieldNear[c][kingSq]&ownPawns) * KingShieldNearMG
	e.mg[c] += board.PopCount(kingShieldFar[c][kingSq]&ownPawns) * KingShieldFarMG

	for f := Max(kingSq.File()-1, 0); f <= Min(kingSq.File()+1, 7); f++ {
		file := board.FileMask(f)
		switch {
		case file&allPawns == 0:
			e.mg[c] += KingOpenFileMG
		case file&ownPawns == 0:
			e.mg[c] += KingSemiOpenFileMG
		}
	}
}

// threatBonus credits the side to move with part of the best capture it can
// make right away: a pawn or minor hitting a bigger piece, or any piece
// hitting an undefended one.
func (e *Evaluator) threatBonus(p *board.Position, us board.Colour) int {
	them := us.Other()
	targets := p.Pieces(them) &^ p.Bitboard(board.MakePiece(them, board.King))
	best := 0

	byPawn := e.attackedBy[us][board.Pawn] & targets &^ p.Bitboard(board.MakePiece(them, board.Pawn))
	if byPawn != 0 {
		best = Max(best, highestValue(p, byPawn)-seeValue[board.Pawn])
	}
	heavy := p.Bitboard(board.MakePiece(them, board.Rook)) | p.Bitboard(board.MakePiece(them, board.Queen))
	if byMinor := (e.attackedBy[us][board.Knight] | e.attackedBy[us][board.Bishop]) & heavy; byMinor != 0 {
		best = Max(best, highestValue(p, byMinor)-seeValue[board.Bishop])
	}
	if hanging := targets & e.attacked[us] &^ e.attacked[them]; hanging != 0 {
		best = Max(best, highestValue(p, hanging))
	}
	return best * ThreatSharePercent / 100
}

func highestValue(p *board.Position, bb uint64) int {
	best := 0
	for bb != 0 {
		best = Max(best, seeValue[p.PieceAt(board.PopFirst(&bb)).Type()])
	}
	return best
}

// distance is the king-move (Chebyshev) distance between two squares.
func distance(a, b board.Square) int {
	return Max(Abs(a.File()-b.File()), Abs(a.Row()-b.Row()))
}
