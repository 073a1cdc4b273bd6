package engine

import (
	"testing"

	"pvs-chess/board"
)

func seeOf(t *testing.T, fen, move string) int {
	t.Helper()
	p, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	m, err := board.ParseMove(p, move)
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}
	return EvaluateStaticExchange(p, m)
}

func TestSEEPawnTakesDefendedQueen(t *testing.T) {
	score := seeOf(t, "4k3/2p5/3q4/4P3/8/8/8/4K3 w - - 0 1", "e5d6")
	if want := SeePieceValue[board.Queen] - SeePieceValue[board.Pawn]; score != want {
		t.Fatalf("expected SEE score %d, got %d", want, score)
	}
}

func TestSEEAccountsForRevealedSlider(t *testing.T) {
	if score := seeOf(t, "6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1", "c4e6"); score != 0 {
		t.Fatalf("expected SEE score 0, got %d", score)
	}
}

func TestSEEXrayBehindAttacker(t *testing.T) {
	// Rxd5 Rxd5 Rxd5: the doubled white rooks win the pawn outright.
	score := seeOf(t, "3r2k1/8/8/3p4/8/8/3R4/3R2K1 w - - 0 1", "d2d5")
	if want := SeePieceValue[board.Pawn]; score != want {
		t.Fatalf("expected SEE score %d, got %d", want, score)
	}
}

func TestSEELosingCapture(t *testing.T) {
	// Qxd5 cxd5 drops the queen for a pawn.
	score := seeOf(t, "6k1/8/2p5/3p4/8/8/8/3Q2K1 w - - 0 1", "d1d5")
	if want := SeePieceValue[board.Pawn] - SeePieceValue[board.Queen]; score != want {
		t.Fatalf("expected SEE score %d, got %d", want, score)
	}
}

func TestSEEHandlesEnPassantCapture(t *testing.T) {
	score := seeOf(t, "8/8/8/3pP3/8/8/8/k5K1 w - d6 0 1", "e5d6")
	if expected := SeePieceValue[board.Pawn]; score != expected {
		t.Fatalf("expected SEE score %d, got %d", expected, score)
	}
}
