package board

// Ray directions. Rook directions come first, then bishop directions.
const (
	North = iota
	East
	South
	West
	NorthEast
	SouthEast
	SouthWest
	NorthWest
)

var dirDelta = [8][2]int{
	North:     {0, -1},
	East:      {1, 0},
	South:     {0, 1},
	West:      {-1, 0},
	NorthEast: {1, -1},
	SouthEast: {1, 1},
	SouthWest: {-1, 1},
	NorthWest: {-1, -1},
}

// Directions whose square index grows along the ray; the nearest blocker is
// found with a forward scan, the others need a reverse scan.
var dirAscending = [8]bool{
	East:      true,
	South:     true,
	SouthEast: true,
	SouthWest: true,
}

var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	pawnAttacks   [2][64]uint64

	rays [8][64]uint64

	// Slider masks without the board-edge square of each ray; the edge never
	// changes the attack set, so it is left out of the cache key.
	rookRelevant   [64]uint64
	bishopRelevant [64]uint64

	fileMasks     [8]uint64
	adjacentFiles [8]uint64
	frontSpans    [2][64]uint64
	passedMasks   [2][64]uint64
	kingZones     [64]uint64
	between       [64][64]uint64
)

func init() {
	initLeapers()
	initRays()
	initMasks()
}

func onBoard(file, row int) bool { return file >= 0 && file < 8 && row >= 0 && row < 8 }

func initLeapers() {
	knightOffsets := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	for sq := Square(0); sq < 64; sq++ {
		f, r := sq.File(), sq.Row()
		for _, off := range knightOffsets {
			if onBoard(f+off[0], r+off[1]) {
				knightAttacks[sq] |= SquareBit(Square((r+off[1])*8 + f + off[0]))
			}
		}
		for _, d := range dirDelta {
			if onBoard(f+d[0], r+d[1]) {
				kingAttacks[sq] |= SquareBit(Square((r+d[1])*8 + f + d[0]))
			}
		}
		// White pawns advance toward row 0.
		for _, df := range [2]int{-1, 1} {
			if onBoard(f+df, r-1) {
				pawnAttacks[White][sq] |= SquareBit(Square((r-1)*8 + f + df))
			}
			if onBoard(f+df, r+1) {
				pawnAttacks[Black][sq] |= SquareBit(Square((r+1)*8 + f + df))
			}
		}
	}
}

func initRays() {
	for sq := Square(0); sq < 64; sq++ {
		for dir, d := range dirDelta {
			var ray uint64
			last := NoSquare
			for f, r := sq.File()+d[0], sq.Row()+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
				last = Square(r*8 + f)
				ray |= SquareBit(last)
			}
			rays[dir][sq] = ray
			var path uint64
			for f, r := sq.File()+d[0], sq.Row()+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
				to := Square(r*8 + f)
				between[sq][to] = path
				path |= SquareBit(to)
			}
			relevant := ray
			if last != NoSquare {
				relevant &^= SquareBit(last)
			}
			if dir < NorthEast {
				rookRelevant[sq] |= relevant
			} else {
				bishopRelevant[sq] |= relevant
			}
		}
	}
}

func initMasks() {
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			fileMasks[f] |= SquareBit(Square(r*8 + f))
		}
	}
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= fileMasks[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= fileMasks[f+1]
		}
	}
	for sq := Square(0); sq < 64; sq++ {
		frontSpans[White][sq] = rays[North][sq]
		frontSpans[Black][sq] = rays[South][sq]
		for c := White; c <= Black; c++ {
			span := frontSpans[c][sq]
			passedMasks[c][sq] = span
			if sq.File() > 0 {
				passedMasks[c][sq] |= span >> 1
			}
			if sq.File() < 7 {
				passedMasks[c][sq] |= span << 1
			}
		}
		kingZones[sq] = kingAttacks[sq] | SquareBit(sq)
	}
}

// rayAttack returns the ray from sq in dir, cut at (and including) the first blocker.
func rayAttack(dir int, sq Square, occ uint64) uint64 {
	ray := rays[dir][sq]
	if blockers := ray & occ; blockers != 0 {
		var b Square
		if dirAscending[dir] {
			b = FirstSquare(blockers)
		} else {
			b = LastSquare(blockers)
		}
		ray &^= rays[dir][b]
	}
	return ray
}

// RookAttacks computes the rook attack set from sq with the given occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	return rayAttack(North, sq, occ) | rayAttack(East, sq, occ) |
		rayAttack(South, sq, occ) | rayAttack(West, sq, occ)
}

// BishopAttacks computes the bishop attack set from sq with the given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return rayAttack(NorthEast, sq, occ) | rayAttack(SouthEast, sq, occ) |
		rayAttack(SouthWest, sq, occ) | rayAttack(NorthWest, sq, occ)
}

// Attack returns the squares attacked by piece standing on sq.
func Attack(piece Piece, sq Square, occ uint64) uint64 {
	switch piece.Type() {
	case Pawn:
		return pawnAttacks[piece.Colour()][sq]
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Queen:
		return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

// KnightAttacks, KingAttacks and PawnAttacks expose the leaper tables.
func KnightAttacks(sq Square) uint64 { return knightAttacks[sq] }

func KingAttacks(sq Square) uint64 { return kingAttacks[sq] }

func PawnAttacks(c Colour, sq Square) uint64 { return pawnAttacks[c][sq] }

// FileMask returns every square on the file.
func FileMask(file int) uint64 { return fileMasks[file] }

// AdjacentFilesMask returns the files on either side of file.
func AdjacentFilesMask(file int) uint64 { return adjacentFiles[file] }

// FrontSpan is the part of sq's file ahead of a c pawn on sq.
func FrontSpan(c Colour, sq Square) uint64 { return frontSpans[c][sq] }

// PassedPawnMask covers the squares enemy pawns must avoid for a c pawn on sq to be passed.
func PassedPawnMask(c Colour, sq Square) uint64 { return passedMasks[c][sq] }

// KingZone is the king square plus its neighbours.
func KingZone(sq Square) uint64 { return kingZones[sq] }

type sliderEntry struct {
	occupancy uint64
	attacks   uint64
	valid     bool
}

// SliderCache memoises the last slider attack set computed per square.
// The zero value is ready to use.
type SliderCache struct {
	rook   [64]sliderEntry
	bishop [64]sliderEntry
}

// Rook returns the rook attacks from sq, reusing the cached set when the
// relevant occupancy has not changed.
func (c *SliderCache) Rook(sq Square, occ uint64) uint64 {
	rel := occ & rookRelevant[sq]
	e := &c.rook[sq]
	if e.valid && e.occupancy == rel {
		return e.attacks
	}
	e.occupancy, e.attacks, e.valid = rel, RookAttacks(sq, occ), true
	return e.attacks
}

// Bishop is the diagonal counterpart of Rook.
func (c *SliderCache) Bishop(sq Square, occ uint64) uint64 {
	rel := occ & bishopRelevant[sq]
	e := &c.bishop[sq]
	if e.valid && e.occupancy == rel {
		return e.attacks
	}
	e.occupancy, e.attacks, e.valid = rel, BishopAttacks(sq, occ), true
	return e.attacks
}

// Attack is the cached form of the package-level Attack.
func (c *SliderCache) Attack(piece Piece, sq Square, occ uint64) uint64 {
	switch piece.Type() {
	case Bishop:
		return c.Bishop(sq, occ)
	case Rook:
		return c.Rook(sq, occ)
	case Queen:
		return c.Rook(sq, occ) | c.Bishop(sq, occ)
	}
	return Attack(piece, sq, occ)
}
