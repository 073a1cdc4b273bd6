package engine

import (
	"unsafe"

	"pvs-chess/board"

	"github.com/rs/zerolog/log"
)

// Bound says how a stored score relates to the true value of the position.
type Bound uint8

const (
	BoundNone  Bound = iota
	BoundUpper       // failed low: true score <= stored
	BoundLower       // failed high: true score >= stored
	BoundExact
)

// Field layout of HashEntry.data (from LSB to MSB)
const (
	boundBits = 2
	depthBits = 8
	scoreBits = 16

	depthShift = boundBits
	scoreShift = boundBits + depthBits

	boundMask = 1<<boundBits - 1
	depthMask = 1<<depthBits - 1
	scoreMask = 1<<scoreBits - 1

	depthBias = 1 << (depthBits - 1)
	scoreBias = 1 << (scoreBits - 1)
)

// HashEntry is one transposition table slot.
type HashEntry struct {
	Key  uint64
	Move board.Move
	data uint32
}

func packHashData(bound Bound, depth, score int) uint32 {
	return uint32(bound)&boundMask |
		uint32(depth+depthBias)&depthMask<<depthShift |
		uint32(score+scoreBias)&scoreMask<<scoreShift
}

func (e HashEntry) Bound() Bound { return Bound(e.data & boundMask) }

func (e HashEntry) Depth() int { return int(e.data>>depthShift&depthMask) - depthBias }

func (e HashEntry) Score() int { return int(e.data>>scoreShift&scoreMask) - scoreBias }

// TranspositionTable is a single-probe, always-replace hash table indexed by
// key modulo capacity. It belongs to one engine and is not safe for
// concurrent use.
type TranspositionTable struct {
	entries []HashEntry
	count   int
}

const hashEntrySize = int(unsafe.Sizeof(HashEntry{}))

// NewTranspositionTable sizes the table to fit in bytes.
func NewTranspositionTable(bytes int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(bytes)
	return tt
}

// Resize discards all entries and reallocates to fit in bytes.
func (tt *TranspositionTable) Resize(bytes int) {
	n := Max(bytes/hashEntrySize, 1)
	tt.entries = make([]HashEntry, n)
	tt.count = 0
	log.Debug().Int("entries", n).Int("bytes", n*hashEntrySize).Msg("hash-resize")
}

// Clear empties every slot without reallocating.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.count = 0
}

func (tt *TranspositionTable) Capacity() int { return len(tt.entries) }

// Count is the number of occupied slots.
func (tt *TranspositionTable) Count() int { return tt.count }

// Hashfull reports occupancy in permille.
func (tt *TranspositionTable) Hashfull() int {
	return int(int64(tt.count) * 1000 / int64(len(tt.entries)))
}

// Store overwrites the slot for key. Mate scores are stored relative to
// the node rather than the root so they stay valid when reached at another ply.
func (tt *TranspositionTable) Store(key uint64, move board.Move, bound Bound, depth, score, ply int) {
	if score >= MateThreshold {
		score += ply
	} else if score <= -MateThreshold {
		score -= ply
	}
	e := &tt.entries[key%uint64(len(tt.entries))]
	if e.Bound() == BoundNone {
		tt.count++
	}
	e.Key = key
	e.Move = move
	e.data = packHashData(bound, Clamp(depth, -depthBias, depthBias-1), score)
}

// Probe returns the entry stored for key with its mate score rebased to ply.
func (tt *TranspositionTable) Probe(key uint64, ply int) (HashEntry, bool) {
	e := tt.entries[key%uint64(len(tt.entries))]
	if e.Bound() == BoundNone || e.Key != key {
		return HashEntry{}, false
	}
	score := e.Score()
	if score >= MateThreshold {
		score -= ply
	} else if score <= -MateThreshold {
		score += ply
	}
	e.data = packHashData(e.Bound(), e.Depth(), score)
	return e, true
}
