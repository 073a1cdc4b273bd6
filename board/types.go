package board

// Colour of a side. White moves first.
type Colour uint8

const (
	White Colour = 0
	Black Colour = 1
)

// Other returns the opposing side.
func (c Colour) Other() Colour { return c ^ 1 }

func (c Colour) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is a colourless piece kind used for table lookups.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece is a coloured piece code: type | colour<<3.
// Code 0 is the empty square; code colour<<3 indexes the per-colour
// occupancy inside Position.bitboard.
type Piece uint8

const Empty Piece = 0

const (
	WhitePawn   = Piece(Pawn)
	WhiteKnight = Piece(Knight)
	WhiteBishop = Piece(Bishop)
	WhiteRook   = Piece(Rook)
	WhiteQueen  = Piece(Queen)
	WhiteKing   = Piece(King)

	BlackPawn   = Piece(Pawn) | 8
	BlackKnight = Piece(Knight) | 8
	BlackBishop = Piece(Bishop) | 8
	BlackRook   = Piece(Rook) | 8
	BlackQueen  = Piece(Queen) | 8
	BlackKing   = Piece(King) | 8
)

// MakePiece combines a colour and a colourless type.
func MakePiece(c Colour, pt PieceType) Piece { return Piece(pt) | Piece(c)<<3 }

// Type returns the colourless type of the piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Colour returns the owner of the piece. Empty reports White.
func (p Piece) Colour() Colour { return Colour(p >> 3) }

// colourIndex is the bitboard slot holding the union of a side's pieces.
func colourIndex(c Colour) Piece { return Piece(c) << 3 }

const pieceChars = " PNBRQK  pnbrqk"

// Char returns the FEN letter of the piece, or a space for Empty.
func (p Piece) Char() byte {
	if int(p) >= len(pieceChars) {
		return '?'
	}
	return pieceChars[p]
}

func pieceFromChar(ch byte) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	}
	return Empty
}

// Square is a board index, 0 = a8 through 63 = h1, rank by rank from the top.
type Square int

const NoSquare Square = -1

const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

// File returns 0 for the a-file through 7 for the h-file.
func (sq Square) File() int { return int(sq) & 7 }

// Row returns 0 for the eighth rank through 7 for the first.
func (sq Square) Row() int { return int(sq) >> 3 }

// Rank returns 0 for the first rank through 7 for the eighth.
func (sq Square) Rank() int { return 7 - int(sq)>>3 }

// RelativeRank is the rank seen from c's side of the board (0 = home rank).
func (sq Square) RelativeRank(c Colour) int {
	if c == White {
		return sq.Rank()
	}
	return sq.Row()
}

// Mirror flips the square vertically (a8 <-> a1).
func (sq Square) Mirror() Square { return sq ^ 56 }

func (sq Square) String() string {
	if sq < 0 || sq > 63 {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// SquareAt builds a square from a file (0..7) and a rank (0..7, rank 1 = 0).
func SquareAt(file, rank int) Square { return Square((7-rank)*8 + file) }

// ParseSquare reads "e4" style coordinates.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, false
	}
	return SquareAt(int(s[0]-'a'), int(s[1]-'1')), true
}
