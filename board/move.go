package board

import (
	"fmt"
	"strings"
)

// Move encodes a move in 32 bits. Besides the squares it carries the moving
// piece, the captured piece and a special piece: the promoted piece for a
// promotion, the moving pawn for en passant and the king for castling.
type Move uint32

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift     = 0  // 6 bits
	moveToShift       = 6  // 6 bits
	movePieceShift    = 12 // 4 bits
	moveCapturedShift = 16 // 4 bits
	moveSpecialShift  = 20 // 4 bits

	squareFieldMask = 0x3F
	pieceFieldMask  = 0xF
)

// NullMove never matches a legal move and prints as "0000".
const NullMove Move = 0

// NewMove packs a move from its fields.
func NewMove(from, to Square, piece, captured, special Piece) Move {
	return Move(uint32(from&squareFieldMask)<<moveFromShift |
		uint32(to&squareFieldMask)<<moveToShift |
		uint32(piece&pieceFieldMask)<<movePieceShift |
		uint32(captured&pieceFieldMask)<<moveCapturedShift |
		uint32(special&pieceFieldMask)<<moveSpecialShift)
}

func (m Move) From() Square { return Square(uint32(m) >> moveFromShift & squareFieldMask) }

func (m Move) To() Square { return Square(uint32(m) >> moveToShift & squareFieldMask) }

// Piece is the piece standing on From before the move.
func (m Move) Piece() Piece { return Piece(uint32(m) >> movePieceShift & pieceFieldMask) }

// Captured is the piece removed by the move, Empty for quiet moves.
func (m Move) Captured() Piece { return Piece(uint32(m) >> moveCapturedShift & pieceFieldMask) }

// Special is the promotion, en passant or castling marker.
func (m Move) Special() Piece { return Piece(uint32(m) >> moveSpecialShift & pieceFieldMask) }

func (m Move) IsCapture() bool { return m.Captured() != Empty }

func (m Move) IsCastle() bool { return m.Special().Type() == King }

func (m Move) IsEnPassant() bool { return m.Special().Type() == Pawn }

func (m Move) IsPromotion() bool {
	t := m.Special().Type()
	return t >= Knight && t <= Queen
}

// Promotion returns the promoted piece, or Empty.
func (m Move) Promotion() Piece {
	if m.IsPromotion() {
		return m.Special()
	}
	return Empty
}

// IsPawnAdvance reports a non-capturing pawn move.
func (m Move) IsPawnAdvance() bool { return m.Piece().Type() == Pawn && !m.IsCapture() }

// IsQuiet reports a move that neither captures nor promotes.
func (m Move) IsQuiet() bool { return !m.IsCapture() && !m.IsPromotion() }

// String renders long algebraic coordinates, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += strings.ToLower(string(m.Special().Char()))
	}
	return s
}

// ParseMove resolves a coordinate move such as "e2e4" against the legal
// moves of p.
func ParseMove(p *Position, s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	var buf [MaxMoves]Move
	n := p.LegalMoves(buf[:])
	for _, m := range buf[:n] {
		if m.String() == s {
			return m, nil
		}
	}
	return NullMove, fmt.Errorf("illegal move %q in %s", s, p.FEN())
}
