package board

import "math/rand"

var (
	zobristPiece     [16][64]uint64
	zobristKingside  [2]uint64
	zobristQueenside [2]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	// Fixed seed so keys, and therefore hash-table behaviour, are reproducible.
	rnd := rand.New(rand.NewSource(0xC0DE))
	for p := range zobristPiece {
		for sq := range zobristPiece[p] {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for c := 0; c < 2; c++ {
		zobristKingside[c] = rnd.Uint64()
		zobristQueenside[c] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeZobrist hashes the position from scratch. Make and Unmake keep
// Key() equal to this value incrementally.
func (p *Position) ComputeZobrist() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.square[sq]; pc != Empty {
			key ^= zobristPiece[pc][sq]
		}
	}
	if p.sideToMove == Black {
		key ^= zobristSide
	}
	for c := White; c <= Black; c++ {
		if p.castleKingside[c] > 0 {
			key ^= zobristKingside[c]
		}
		if p.castleQueenside[c] > 0 {
			key ^= zobristQueenside[c]
		}
	}
	if p.enPassantSquare != NoSquare {
		key ^= zobristEnPassant[p.enPassantSquare.File()]
	}
	return key
}
