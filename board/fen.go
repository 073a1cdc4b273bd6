package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every error ParseFEN returns.
var ErrInvalidFEN = errors.New("invalid FEN")

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN builds a position from a FEN string. The move counters are
// optional; everything else is checked strictly.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fenError("expected 4 to 6 fields, got %d", len(fields))
	}

	p := &Position{enPassantSquare: NoSquare}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fenError("expected 8 ranks, got %d", len(ranks))
	}
	for row, rank := range ranks {
		file := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc := pieceFromChar(ch)
			if pc == Empty {
				return nil, fenError("unrecognised piece %q", ch)
			}
			if file >= 8 {
				return nil, fenError("rank %d is too long", 8-row)
			}
			if pc.Type() == Pawn && (row == 0 || row == 7) {
				return nil, fenError("pawn on rank %d", 8-row)
			}
			sq := Square(row*8 + file)
			p.setPiece(sq, pc)
			p.material[pc.Colour()] += PieceValue[pc.Type()]
			file++
		}
		if file != 8 {
			return nil, fenError("rank %d does not have 8 files", 8-row)
		}
	}
	for c := White; c <= Black; c++ {
		if n := PopCount(p.bitboard[MakePiece(c, King)]); n != 1 {
			return nil, fenError("%s has %d kings", c, n)
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return nil, fenError("side to move must be 'w' or 'b'")
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.castleKingside[White] = 1
			case 'Q':
				p.castleQueenside[White] = 1
			case 'k':
				p.castleKingside[Black] = 1
			case 'q':
				p.castleQueenside[Black] = 1
			default:
				return nil, fenError("bad castling flag %q", fields[2][i])
			}
		}
		p.dropUnusableCastling()
	}

	if fields[3] != "-" {
		sq, ok := ParseSquare(fields[3])
		if !ok || sq.RelativeRank(p.sideToMove.Other()) != 2 {
			return nil, fenError("bad en passant square %q", fields[3])
		}
		them := p.sideToMove.Other()
		victim := sq + 8
		if p.sideToMove == Black {
			victim = sq - 8
		}
		if p.square[sq] != Empty || p.square[victim] != MakePiece(them, Pawn) {
			return nil, fenError("en passant square %s without a pawn that just moved", sq)
		}
		if pawnAttacks[them][sq]&p.bitboard[MakePiece(p.sideToMove, Pawn)] != 0 {
			p.enPassantSquare = sq
		}
	}

	fullMove := 1
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fenError("bad halfmove clock %q", fields[4])
		}
		p.fiftyMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fenError("bad fullmove number %q", fields[5])
		}
		fullMove = n
	}
	p.halfMoveCount = 2*(fullMove-1) + int(p.sideToMove)
	p.historyOrigin = p.halfMoveCount

	if p.KingAttacked(p.sideToMove.Other()) {
		return nil, fenError("side not to move is in check")
	}

	p.zobristKey = p.ComputeZobrist()
	p.recordHistory()
	return p, nil
}

// dropUnusableCastling clears castling flags whose king or rook is not on
// its home square, so equal positions get equal keys.
func (p *Position) dropUnusableCastling() {
	homes := [2]struct{ king, kingRook, queenRook Square }{
		White: {E1, H1, A1},
		Black: {E8, H8, A8},
	}
	for c := White; c <= Black; c++ {
		h := homes[c]
		rook := MakePiece(c, Rook)
		if p.square[h.king] != MakePiece(c, King) {
			p.castleKingside[c], p.castleQueenside[c] = 0, 0
			continue
		}
		if p.square[h.kingRook] != rook {
			p.castleKingside[c] = 0
		}
		if p.square[h.queenRook] != rook {
			p.castleQueenside[c] = 0
		}
	}
}

// NewPosition parses fen and falls back to the start position when it is
// malformed.
func NewPosition(fen string) *Position {
	p, err := ParseFEN(fen)
	if err != nil {
		log.Warn().Err(err).Str("fen", fen).Msg("fen-fallback-startpos")
		p, _ = ParseFEN(StartFEN)
	}
	return p
}

// StartPosition returns the standard initial position.
func StartPosition() *Position {
	p, _ := ParseFEN(StartFEN)
	return p
}

// FEN renders the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.square[row*8+file]
			if pc == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	if p.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	castle := ""
	if p.castleKingside[White] > 0 {
		castle += "K"
	}
	if p.castleQueenside[White] > 0 {
		castle += "Q"
	}
	if p.castleKingside[Black] > 0 {
		castle += "k"
	}
	if p.castleQueenside[Black] > 0 {
		castle += "q"
	}
	if castle == "" {
		castle = "-"
	}
	sb.WriteString(castle)

	sb.WriteByte(' ')
	sb.WriteString(p.enPassantSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fiftyMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber()))
	return sb.String()
}

// PlayMoves applies coordinate moves in order, compacting history as needed.
func (p *Position) PlayMoves(moves ...string) error {
	for _, s := range moves {
		m, err := ParseMove(p, s)
		if err != nil {
			return err
		}
		if p.HistoryRoom() < 1 {
			p.Rebase()
			if p.HistoryRoom() < 1 {
				return fmt.Errorf("game too long to record %s", s)
			}
		}
		p.Make(m)
	}
	return nil
}
