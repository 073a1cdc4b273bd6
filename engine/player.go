package engine

import "pvs-chess/board"

// Player is anything that can take a turn in a game: this engine, a human
// at a terminal, a remote opponent.
type Player interface {
	// GetMove returns the move to play in pos. It may block.
	GetMove(pos *board.Position) board.Move
	// AcceptDraw answers a draw offer.
	AcceptDraw() bool
	// Stop interrupts a pending GetMove.
	Stop()
	// Reset prepares for a new game.
	Reset()
}
