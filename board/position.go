package board

import (
	"fmt"
	"strings"
)

// MaxHistory bounds the number of plies a Position can record before Rebase
// must be called.
const MaxHistory = 2048

// PieceValue is the material unit kept in Position.Material.
var PieceValue = [7]int{
	Pawn:   100,
	Knight: 320,
	Bishop: 330,
	Rook:   500,
	Queen:  900,
}

// Position is a full game state with enough history to undo moves and detect
// repetitions. It is mutated in place by Make/Unmake and is not safe for
// concurrent use; use Clone to hand a copy to another goroutine.
type Position struct {
	square   [64]Piece
	bitboard [16]uint64
	occupied uint64

	sideToMove      Colour
	halfMoveCount   int
	historyOrigin   int
	fiftyMoveClock  int
	enPassantSquare Square
	// A side may castle on a wing while its counter is positive. Losing the
	// right decrements, Unmake increments, so the right comes back exactly
	// when every move that removed it has been undone.
	castleKingside  [2]int
	castleQueenside [2]int
	zobristKey      uint64
	material        [2]int

	enPassantHistory [MaxHistory]Square
	fiftyMoveHistory [MaxHistory]int
	zobristHistory   [MaxHistory]uint64

	sliders SliderCache
}

// Clone returns an independent deep copy.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// Equal compares the game state and the live part of the history. The slider
// cache and history slots beyond the current ply are ignored.
func (p *Position) Equal(o *Position) bool {
	if p.square != o.square || p.bitboard != o.bitboard || p.occupied != o.occupied ||
		p.sideToMove != o.sideToMove || p.halfMoveCount != o.halfMoveCount ||
		p.historyOrigin != o.historyOrigin || p.fiftyMoveClock != o.fiftyMoveClock ||
		p.enPassantSquare != o.enPassantSquare || p.castleKingside != o.castleKingside ||
		p.castleQueenside != o.castleQueenside || p.zobristKey != o.zobristKey ||
		p.material != o.material {
		return false
	}
	for i := 0; i <= p.historyIndex(); i++ {
		if p.enPassantHistory[i] != o.enPassantHistory[i] ||
			p.fiftyMoveHistory[i] != o.fiftyMoveHistory[i] ||
			p.zobristHistory[i] != o.zobristHistory[i] {
			return false
		}
	}
	return true
}

func (p *Position) historyIndex() int { return p.halfMoveCount - p.historyOrigin }

func (p *Position) recordHistory() {
	i := p.historyIndex()
	p.enPassantHistory[i] = p.enPassantSquare
	p.fiftyMoveHistory[i] = p.fiftyMoveClock
	p.zobristHistory[i] = p.zobristKey
}

// Rebase drops history older than the last irreversible move so a long game
// never runs past MaxHistory. Positions before that move cannot repeat.
func (p *Position) Rebase() {
	idx := p.historyIndex()
	keep := p.fiftyMoveClock
	if keep > idx {
		keep = idx
	}
	start := idx - keep
	if start == 0 {
		return
	}
	copy(p.enPassantHistory[:], p.enPassantHistory[start:idx+1])
	copy(p.fiftyMoveHistory[:], p.fiftyMoveHistory[start:idx+1])
	copy(p.zobristHistory[:], p.zobristHistory[start:idx+1])
	p.historyOrigin += start
}

// HistoryRoom is the number of plies that can still be made before Rebase is needed.
func (p *Position) HistoryRoom() int { return MaxHistory - 1 - p.historyIndex() }

func (p *Position) SideToMove() Colour { return p.sideToMove }

func (p *Position) Key() uint64 { return p.zobristKey }

func (p *Position) PieceAt(sq Square) Piece { return p.square[sq] }

// Bitboard returns the squares holding piece. MakePiece(c, NoPieceType)
// yields all of c's pieces.
func (p *Position) Bitboard(piece Piece) uint64 { return p.bitboard[piece] }

// Pieces returns all pieces of colour c.
func (p *Position) Pieces(c Colour) uint64 { return p.bitboard[colourIndex(c)] }

func (p *Position) Occupied() uint64 { return p.occupied }

func (p *Position) EnPassantSquare() Square { return p.enPassantSquare }

func (p *Position) FiftyMoveClock() int { return p.fiftyMoveClock }

// HalfMoveCount counts plies since the game's initial position.
func (p *Position) HalfMoveCount() int { return p.halfMoveCount }

// FullMoveNumber is the FEN move number.
func (p *Position) FullMoveNumber() int { return p.halfMoveCount/2 + 1 }

// Material is the running sum of PieceValue over c's pieces.
func (p *Position) Material(c Colour) int { return p.material[c] }

func (p *Position) CanCastleKingside(c Colour) bool { return p.castleKingside[c] > 0 }

func (p *Position) CanCastleQueenside(c Colour) bool { return p.castleQueenside[c] > 0 }

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Colour) Square {
	return FirstSquare(p.bitboard[MakePiece(c, King)])
}

// SliderAttack returns the attacks of piece on sq under the current
// occupancy, using the position's slider cache.
func (p *Position) SliderAttack(piece Piece, sq Square) uint64 {
	return p.sliders.Attack(piece, sq, p.occupied)
}

func (p *Position) setPiece(sq Square, pc Piece) {
	bit := SquareBit(sq)
	p.square[sq] = pc
	p.bitboard[pc] |= bit
	p.bitboard[colourIndex(pc.Colour())] |= bit
	p.occupied |= bit
}

func (p *Position) clearPiece(sq Square) {
	pc := p.square[sq]
	bit := SquareBit(sq)
	p.square[sq] = Empty
	p.bitboard[pc] &^= bit
	p.bitboard[colourIndex(pc.Colour())] &^= bit
	p.occupied &^= bit
}

// AttackersTo returns the pieces of both colours attacking sq, given occ as
// the blocking occupancy. Pieces outside occ are still reported; callers that
// remove pieces mask the result with occ.
func (p *Position) AttackersTo(sq Square, occ uint64) uint64 {
	rq := p.bitboard[WhiteRook] | p.bitboard[BlackRook] | p.bitboard[WhiteQueen] | p.bitboard[BlackQueen]
	bq := p.bitboard[WhiteBishop] | p.bitboard[BlackBishop] | p.bitboard[WhiteQueen] | p.bitboard[BlackQueen]
	return pawnAttacks[Black][sq]&p.bitboard[WhitePawn] |
		pawnAttacks[White][sq]&p.bitboard[BlackPawn] |
		knightAttacks[sq]&(p.bitboard[WhiteKnight]|p.bitboard[BlackKnight]) |
		kingAttacks[sq]&(p.bitboard[WhiteKing]|p.bitboard[BlackKing]) |
		RookAttacks(sq, occ)&rq |
		BishopAttacks(sq, occ)&bq
}

// attackedWith reports whether side by attacks sq when the board holds occ
// and only by's pieces inside mask count.
func (p *Position) attackedWith(sq Square, by Colour, occ, mask uint64) bool {
	if pawnAttacks[by.Other()][sq]&p.bitboard[MakePiece(by, Pawn)]&mask != 0 {
		return true
	}
	if knightAttacks[sq]&p.bitboard[MakePiece(by, Knight)]&mask != 0 {
		return true
	}
	if kingAttacks[sq]&p.bitboard[MakePiece(by, King)] != 0 {
		return true
	}
	queens := p.bitboard[MakePiece(by, Queen)]
	if rq := (p.bitboard[MakePiece(by, Rook)] | queens) & mask; rq != 0 && RookAttacks(sq, occ)&rq != 0 {
		return true
	}
	if bq := (p.bitboard[MakePiece(by, Bishop)] | queens) & mask; bq != 0 && BishopAttacks(sq, occ)&bq != 0 {
		return true
	}
	return false
}

// IsAttacked reports whether side by attacks sq.
func (p *Position) IsAttacked(sq Square, by Colour) bool {
	return p.attackedWith(sq, by, p.occupied, ^uint64(0))
}

// KingAttacked reports whether c's king is attacked.
func (p *Position) KingAttacked(c Colour) bool {
	return p.IsAttacked(p.KingSquare(c), c.Other())
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.KingAttacked(p.sideToMove) }

// HasNonPawnMaterial reports whether c owns a knight, bishop, rook or queen.
func (p *Position) HasNonPawnMaterial(c Colour) bool {
	return p.bitboard[MakePiece(c, Knight)]|p.bitboard[MakePiece(c, Bishop)]|
		p.bitboard[MakePiece(c, Rook)]|p.bitboard[MakePiece(c, Queen)] != 0
}

const lightSquares uint64 = 0x55AA55AA55AA55AA

// InsufficientMaterial reports positions where neither side can mate:
// bare kings, a single minor piece, or only bishops all on one square colour.
func (p *Position) InsufficientMaterial() bool {
	heavy := p.bitboard[WhitePawn] | p.bitboard[BlackPawn] | p.bitboard[WhiteRook] |
		p.bitboard[BlackRook] | p.bitboard[WhiteQueen] | p.bitboard[BlackQueen]
	if heavy != 0 {
		return false
	}
	knights := p.bitboard[WhiteKnight] | p.bitboard[BlackKnight]
	bishops := p.bitboard[WhiteBishop] | p.bitboard[BlackBishop]
	if PopCount(knights|bishops) <= 1 {
		return true
	}
	if knights != 0 {
		return false
	}
	return bishops&lightSquares == 0 || bishops&^lightSquares == 0
}

// HasRepeated reports whether the current position has occurred at least n
// times (counting itself) since the last irreversible move.
func (p *Position) HasRepeated(n int) bool {
	idx := p.historyIndex()
	stop := idx - p.fiftyMoveClock
	if stop < 0 {
		stop = 0
	}
	count := 1
	for i := idx - 2; i >= stop; i -= 2 {
		if p.zobristHistory[i] == p.zobristKey {
			count++
			if count >= n {
				return true
			}
		}
	}
	return count >= n
}

// FiftyMoveDraw reports that fifty moves per side passed without a pawn move or capture.
func (p *Position) FiftyMoveDraw() bool { return p.fiftyMoveClock >= 100 }

// Validate cross-checks every redundant field and returns the first mismatch.
func (p *Position) Validate() error {
	var bbs [16]uint64
	var material [2]int
	for sq := Square(0); sq < 64; sq++ {
		pc := p.square[sq]
		if pc == Empty {
			continue
		}
		if pc.Type() == NoPieceType || pc.Type() > King {
			return fmt.Errorf("invalid piece code %d on %s", pc, sq)
		}
		bbs[pc] |= SquareBit(sq)
		bbs[colourIndex(pc.Colour())] |= SquareBit(sq)
		material[pc.Colour()] += PieceValue[pc.Type()]
	}
	if bbs != p.bitboard {
		for i := range bbs {
			if bbs[i] != p.bitboard[i] {
				return fmt.Errorf("bitboard %d is %#x, squares say %#x", i, p.bitboard[i], bbs[i])
			}
		}
	}
	if p.occupied != bbs[colourIndex(White)]|bbs[colourIndex(Black)] {
		return fmt.Errorf("occupancy %#x does not match pieces", p.occupied)
	}
	for c := White; c <= Black; c++ {
		if n := PopCount(p.bitboard[MakePiece(c, King)]); n != 1 {
			return fmt.Errorf("%s has %d kings", c, n)
		}
		if material[c] != p.material[c] {
			return fmt.Errorf("%s material %d, pieces say %d", c, p.material[c], material[c])
		}
	}
	if p.KingAttacked(p.sideToMove.Other()) {
		return fmt.Errorf("%s king can be captured", p.sideToMove.Other())
	}
	if p.enPassantSquare != NoSquare {
		if p.enPassantSquare.RelativeRank(p.sideToMove.Other()) != 2 {
			return fmt.Errorf("en passant square %s on wrong rank", p.enPassantSquare)
		}
	}
	if k := p.ComputeZobrist(); k != p.zobristKey {
		return fmt.Errorf("zobrist key %#x, recomputed %#x", p.zobristKey, k)
	}
	idx := p.historyIndex()
	if idx < 0 || idx >= MaxHistory {
		return fmt.Errorf("history index %d out of range", idx)
	}
	if p.zobristHistory[idx] != p.zobristKey || p.fiftyMoveHistory[idx] != p.fiftyMoveClock ||
		p.enPassantHistory[idx] != p.enPassantSquare {
		return fmt.Errorf("history entry %d out of sync", idx)
	}
	return nil
}

// String draws the board from White's side followed by the FEN.
func (p *Position) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteString("  +---+---+---+---+---+---+---+---+\n")
		fmt.Fprintf(&sb, "%d |", 8-row)
		for file := 0; file < 8; file++ {
			ch := byte(' ')
			if pc := p.square[row*8+file]; pc != Empty {
				ch = pc.Char()
			}
			fmt.Fprintf(&sb, " %c |", ch)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  +---+---+---+---+---+---+---+---+\n")
	sb.WriteString("    a   b   c   d   e   f   g   h\n\n")
	sb.WriteString("Fen: " + p.FEN() + "\n")
	fmt.Fprintf(&sb, "Key: %016X\n", p.zobristKey)
	return sb.String()
}
