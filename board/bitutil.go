package board

import "math/bits"

// SquareBit returns the single-bit mask of sq.
func SquareBit(sq Square) uint64 { return uint64(1) << uint(sq) }

// FirstSquare is a forward bit-scan: the lowest set square. bb must be non-zero.
func FirstSquare(bb uint64) Square { return Square(bits.TrailingZeros64(bb)) }

// LastSquare is a reverse bit-scan: the highest set square. bb must be non-zero.
func LastSquare(bb uint64) Square { return Square(63 - bits.LeadingZeros64(bb)) }

// PopCount returns the number of set bits.
func PopCount(bb uint64) int { return bits.OnesCount64(bb) }

// PopFirst removes and returns the lowest set square of *bb.
func PopFirst(bb *uint64) Square {
	sq := Square(bits.TrailingZeros64(*bb))
	*bb &= *bb - 1
	return sq
}

// MoreThanOne reports whether bb has at least two bits set.
func MoreThanOne(bb uint64) bool { return bb&(bb-1) != 0 }
