package engine

import "pvs-chess/board"

// KillerTable keeps two quiet cutoff moves per ply, newest first.
type KillerTable struct {
	moves [MaxPly + 1][2]board.Move
}

// Insert makes move the first killer at ply, shifting the old first one
// into the second slot.
func (k *KillerTable) Insert(move board.Move, ply int) {
	if move != k.moves[ply][0] {
		k.moves[ply][1] = k.moves[ply][0]
		k.moves[ply][0] = move
	}
}

// Slot returns 0 or 1 when move is a killer at ply, -1 otherwise.
func (k *KillerTable) Slot(move board.Move, ply int) int {
	switch move {
	case board.NullMove:
		return -1
	case k.moves[ply][0]:
		return 0
	case k.moves[ply][1]:
		return 1
	}
	return -1
}

// Clear the killer moves table.
func (k *KillerTable) Clear() {
	k.moves = [MaxPly + 1][2]board.Move{}
}
