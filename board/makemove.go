package board

// Corner squares whose rook, when moved or captured, costs a castling right.
var (
	kingsideRookHome  = [2]Square{H1, H8}
	queensideRookHome = [2]Square{A1, A8}
	kingHome          = [2]Square{E1, E8}
)

func (p *Position) loseKingside(c Colour) {
	p.castleKingside[c]--
	if p.castleKingside[c] == 0 {
		p.zobristKey ^= zobristKingside[c]
	}
}

func (p *Position) loseQueenside(c Colour) {
	p.castleQueenside[c]--
	if p.castleQueenside[c] == 0 {
		p.zobristKey ^= zobristQueenside[c]
	}
}

// updateCastling applies delta (-1 on Make, +1 on Unmake) to every right m
// touches. Only Make keeps the key in sync; Unmake restores it from history.
func (p *Position) updateCastling(m Move, delta int) {
	us := m.Piece().Colour()
	them := us.Other()
	switch m.Piece().Type() {
	case King:
		if delta < 0 {
			p.loseKingside(us)
			p.loseQueenside(us)
		} else {
			p.castleKingside[us]++
			p.castleQueenside[us]++
		}
	case Rook:
		p.rookRight(us, m.From(), delta)
	}
	if m.Captured().Type() == Rook {
		p.rookRight(them, m.To(), delta)
	}
}

func (p *Position) rookRight(c Colour, sq Square, delta int) {
	switch sq {
	case kingsideRookHome[c]:
		if delta < 0 {
			p.loseKingside(c)
		} else {
			p.castleKingside[c]++
		}
	case queensideRookHome[c]:
		if delta < 0 {
			p.loseQueenside(c)
		} else {
			p.castleQueenside[c]++
		}
	}
}

// castleRookSquares returns the rook's origin and destination for a castling
// king move to kingTo.
func castleRookSquares(kingFrom, kingTo Square) (Square, Square) {
	if kingTo > kingFrom {
		return kingTo + 1, kingTo - 1
	}
	return kingTo - 2, kingTo + 1
}

// enPassantVictim is the square of the pawn removed by an en passant capture.
func enPassantVictim(m Move) Square {
	if m.Piece().Colour() == White {
		return m.To() + 8
	}
	return m.To() - 8
}

// Make plays a legal move. The move must come from this position's generator.
func (p *Position) Make(m Move) {
	us := p.sideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	piece, captured := m.Piece(), m.Captured()

	if p.enPassantSquare != NoSquare {
		p.zobristKey ^= zobristEnPassant[p.enPassantSquare.File()]
		p.enPassantSquare = NoSquare
	}

	if captured != Empty {
		capSq := to
		if m.IsEnPassant() {
			capSq = enPassantVictim(m)
		}
		p.clearPiece(capSq)
		p.zobristKey ^= zobristPiece[captured][capSq]
		p.material[them] -= PieceValue[captured.Type()]
	}

	p.clearPiece(from)
	p.zobristKey ^= zobristPiece[piece][from]
	placed := piece
	if m.IsPromotion() {
		placed = m.Special()
		p.material[us] += PieceValue[placed.Type()] - PieceValue[Pawn]
	}
	p.setPiece(to, placed)
	p.zobristKey ^= zobristPiece[placed][to]

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(from, to)
		rook := MakePiece(us, Rook)
		p.clearPiece(rookFrom)
		p.setPiece(rookTo, rook)
		p.zobristKey ^= zobristPiece[rook][rookFrom] ^ zobristPiece[rook][rookTo]
	}

	if piece.Type() == King || piece.Type() == Rook || captured.Type() == Rook {
		p.updateCastling(m, -1)
	}

	if piece.Type() == Pawn && (to-from == 16 || from-to == 16) {
		ep := (from + to) / 2
		// Only record a target an enemy pawn could actually capture on, so
		// transpositions hash alike.
		if pawnAttacks[us][ep]&p.bitboard[MakePiece(them, Pawn)] != 0 {
			p.enPassantSquare = ep
			p.zobristKey ^= zobristEnPassant[ep.File()]
		}
	}

	if piece.Type() == Pawn || captured != Empty {
		p.fiftyMoveClock = 0
	} else {
		p.fiftyMoveClock++
	}

	p.sideToMove = them
	p.zobristKey ^= zobristSide
	p.halfMoveCount++
	p.recordHistory()
}

// Unmake reverts m, which must be the last move made.
func (p *Position) Unmake(m Move) {
	p.halfMoveCount--
	p.sideToMove = p.sideToMove.Other()
	us := p.sideToMove
	from, to := m.From(), m.To()
	piece, captured := m.Piece(), m.Captured()

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(from, to)
		p.clearPiece(rookTo)
		p.setPiece(rookFrom, MakePiece(us, Rook))
	}

	if m.IsPromotion() {
		p.material[us] -= PieceValue[m.Special().Type()] - PieceValue[Pawn]
	}
	p.clearPiece(to)
	p.setPiece(from, piece)

	if captured != Empty {
		capSq := to
		if m.IsEnPassant() {
			capSq = enPassantVictim(m)
		}
		p.setPiece(capSq, captured)
		p.material[us.Other()] += PieceValue[captured.Type()]
	}

	if piece.Type() == King || piece.Type() == Rook || captured.Type() == Rook {
		p.updateCastling(m, +1)
	}

	i := p.historyIndex()
	p.enPassantSquare = p.enPassantHistory[i]
	p.fiftyMoveClock = p.fiftyMoveHistory[i]
	p.zobristKey = p.zobristHistory[i]
}

// MakeNull passes the turn. It must not be used while in check.
func (p *Position) MakeNull() {
	if p.enPassantSquare != NoSquare {
		p.zobristKey ^= zobristEnPassant[p.enPassantSquare.File()]
		p.enPassantSquare = NoSquare
	}
	p.fiftyMoveClock++
	p.sideToMove = p.sideToMove.Other()
	p.zobristKey ^= zobristSide
	p.halfMoveCount++
	p.recordHistory()
}

// UnmakeNull reverts MakeNull.
func (p *Position) UnmakeNull() {
	p.halfMoveCount--
	p.sideToMove = p.sideToMove.Other()
	i := p.historyIndex()
	p.enPassantSquare = p.enPassantHistory[i]
	p.fiftyMoveClock = p.fiftyMoveHistory[i]
	p.zobristKey = p.zobristHistory[i]
}
