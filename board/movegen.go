package board

// MaxMoves is a safe upper bound on the legal moves of any position.
const MaxMoves = 256

type moveList struct {
	buf []Move
	n   int
}

func (l *moveList) add(m Move) {
	l.buf[l.n] = m
	l.n++
}

// LegalMoves writes every legal move into buf and returns how many were
// written. buf must hold at least MaxMoves entries.
func (p *Position) LegalMoves(buf []Move) int {
	us, them := p.sideToMove, p.sideToMove.Other()
	kingSq := p.KingSquare(us)
	checkers := p.AttackersTo(kingSq, p.occupied) & p.Pieces(them)
	l := moveList{buf: buf}

	king := MakePiece(us, King)
	for targets := kingAttacks[kingSq] &^ p.Pieces(us); targets != 0; {
		to := PopFirst(&targets)
		if m := NewMove(kingSq, to, king, p.square[to], Empty); p.legal(m, kingSq) {
			l.add(m)
		}
	}
	// Double check: only the king can move.
	if MoreThanOne(checkers) {
		return l.n
	}
	if checkers == 0 {
		p.genCastling(&l, kingSq)
	}

	start := l.n
	p.genPieceMoves(&l, us, false)
	pinned := p.pinned(us, kingSq)
	n := start
	for i := start; i < l.n; i++ {
		m := l.buf[i]
		needsTest := checkers != 0 || pinned&SquareBit(m.From()) != 0 || m.IsEnPassant()
		if needsTest && !p.legal(m, kingSq) {
			continue
		}
		l.buf[n] = m
		n++
	}
	return n
}

// LegalMoveList allocates and returns the legal moves.
func (p *Position) LegalMoveList() []Move {
	var buf [MaxMoves]Move
	n := p.LegalMoves(buf[:])
	out := make([]Move, n)
	copy(out, buf[:n])
	return out
}

// HasLegalMove reports whether the side to move can move at all.
func (p *Position) HasLegalMove() bool {
	var buf [MaxMoves]Move
	return p.LegalMoves(buf[:]) > 0
}

// PseudoQuiescenceMoves writes captures and queen promotions into buf
// without checking legality; callers discard moves that leave their king
// attacked.
func (p *Position) PseudoQuiescenceMoves(buf []Move) int {
	us := p.sideToMove
	l := moveList{buf: buf}
	p.genPieceMoves(&l, us, true)
	kingSq := p.KingSquare(us)
	king := MakePiece(us, King)
	for att := kingAttacks[kingSq] & p.Pieces(us.Other()); att != 0; {
		to := PopFirst(&att)
		l.add(NewMove(kingSq, to, king, p.square[to], Empty))
	}
	return l.n
}

// legal reports whether m leaves the mover's king safe. The board is not
// touched; the resulting occupancy is simulated instead.
func (p *Position) legal(m Move, kingSq Square) bool {
	from, to := m.From(), m.To()
	occ := p.occupied&^SquareBit(from) | SquareBit(to)
	mask := ^uint64(0)
	if m.IsEnPassant() {
		victim := SquareBit(enPassantVictim(m))
		occ &^= victim
		mask &^= victim
	} else if m.IsCapture() {
		mask &^= SquareBit(to)
	}
	if m.Piece().Type() == King {
		kingSq = to
	}
	return !p.attackedWith(kingSq, p.sideToMove.Other(), occ, mask)
}

// pinned returns us's pieces that shield their king from an enemy slider.
func (p *Position) pinned(us Colour, kingSq Square) uint64 {
	them := us.Other()
	enemy := p.Pieces(them)
	queens := p.bitboard[MakePiece(them, Queen)]
	snipers := RookAttacks(kingSq, enemy)&(p.bitboard[MakePiece(them, Rook)]|queens) |
		BishopAttacks(kingSq, enemy)&(p.bitboard[MakePiece(them, Bishop)]|queens)
	var pinned uint64
	for snipers != 0 {
		s := PopFirst(&snipers)
		b := between[kingSq][s] & p.occupied
		if b != 0 && !MoreThanOne(b) && b&p.Pieces(us) != 0 {
			pinned |= b
		}
	}
	return pinned
}

func (p *Position) genCastling(l *moveList, kingSq Square) {
	us := p.sideToMove
	them := us.Other()
	if kingSq != kingHome[us] {
		return
	}
	king, rook := MakePiece(us, King), MakePiece(us, Rook)
	occ := p.occupied &^ SquareBit(kingSq)
	all := ^uint64(0)
	if p.castleKingside[us] > 0 {
		rookSq := kingsideRookHome[us]
		if p.square[rookSq] == rook && p.occupied&between[kingSq][rookSq] == 0 &&
			!p.attackedWith(kingSq+1, them, occ, all) && !p.attackedWith(kingSq+2, them, occ, all) {
			l.add(NewMove(kingSq, kingSq+2, king, Empty, king))
		}
	}
	if p.castleQueenside[us] > 0 {
		rookSq := queensideRookHome[us]
		if p.square[rookSq] == rook && p.occupied&between[kingSq][rookSq] == 0 &&
			!p.attackedWith(kingSq-1, them, occ, all) && !p.attackedWith(kingSq-2, them, occ, all) {
			l.add(NewMove(kingSq, kingSq-2, king, Empty, king))
		}
	}
}

// genPieceMoves adds pseudo-legal pawn, knight and slider moves. With
// captures set it keeps only captures and queen promotions.
func (p *Position) genPieceMoves(l *moveList, us Colour, captures bool) {
	p.genPawnMoves(l, us, captures)
	targets := ^p.Pieces(us)
	if captures {
		targets = p.Pieces(us.Other())
	}
	for pt := Knight; pt <= Queen; pt++ {
		piece := MakePiece(us, pt)
		for bb := p.bitboard[piece]; bb != 0; {
			from := PopFirst(&bb)
			for att := p.sliders.Attack(piece, from, p.occupied) & targets; att != 0; {
				to := PopFirst(&att)
				l.add(NewMove(from, to, piece, p.square[to], Empty))
			}
		}
	}
}

func (p *Position) genPawnMoves(l *moveList, us Colour, captures bool) {
	pawn := MakePiece(us, Pawn)
	enemy := p.Pieces(us.Other())
	push, startRow, promoRow := Square(-8), 6, 0
	if us == Black {
		push, startRow, promoRow = 8, 1, 7
	}
	for bb := p.bitboard[pawn]; bb != 0; {
		from := PopFirst(&bb)
		if to := from + push; p.square[to] == Empty {
			if to.Row() == promoRow {
				addPromotions(l, from, to, pawn, Empty, captures)
			} else if !captures {
				l.add(NewMove(from, to, pawn, Empty, Empty))
				if to2 := to + push; from.Row() == startRow && p.square[to2] == Empty {
					l.add(NewMove(from, to2, pawn, Empty, Empty))
				}
			}
		}
		for att := pawnAttacks[us][from] & enemy; att != 0; {
			to := PopFirst(&att)
			if to.Row() == promoRow {
				addPromotions(l, from, to, pawn, p.square[to], captures)
			} else {
				l.add(NewMove(from, to, pawn, p.square[to], Empty))
			}
		}
		if ep := p.enPassantSquare; ep != NoSquare && pawnAttacks[us][from]&SquareBit(ep) != 0 {
			l.add(NewMove(from, ep, pawn, MakePiece(us.Other(), Pawn), pawn))
		}
	}
}

func addPromotions(l *moveList, from, to Square, pawn, captured Piece, queenOnly bool) {
	us := pawn.Colour()
	l.add(NewMove(from, to, pawn, captured, MakePiece(us, Queen)))
	if queenOnly {
		return
	}
	for _, pt := range [...]PieceType{Rook, Bishop, Knight} {
		l.add(NewMove(from, to, pawn, captured, MakePiece(us, pt)))
	}
}
