package engine

import (
	"testing"

	"pvs-chess/board"
)

func mustMove(t *testing.T, p *board.Position, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(p, s)
	if err != nil {
		t.Fatalf("parse move %s: %v", s, err)
	}
	return m
}

func TestOrderMovesPriorities(t *testing.T) {
	// White can take a queen with a pawn or a knight, promote, or play quiet moves.
	p := mustPosition(t, "4k3/1P6/8/3q4/2P5/4N3/8/4K3 w - - 0 1")
	e := newTestEngine(Restrictions{})

	hash := mustMove(t, p, "e1f2")
	killer := mustMove(t, p, "e1f1")
	e.killers.Insert(killer, 3)

	moves := p.LegalMoveList()
	scores := make([]int, len(moves))
	e.orderMoves(moves, scores, hash, 3)

	want := []string{"e1f2", "e1f1", "c4d5", "b7b8q", "e3d5"}
	for i, w := range want {
		if moves[i].String() != w {
			t.Fatalf("position %d: expected %s, got %s (order %v)", i, w, moves[i], moves)
		}
	}
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[i-1] {
			t.Fatalf("scores not descending at %d: %v", i, scores)
		}
	}
}

func TestKillerShift(t *testing.T) {
	p := board.StartPosition()
	a, b, c := mustMove(t, p, "g1f3"), mustMove(t, p, "b1c3"), mustMove(t, p, "e2e4")
	var k KillerTable
	k.Insert(a, 2)
	k.Insert(b, 2)
	if k.Slot(b, 2) != 0 || k.Slot(a, 2) != 1 {
		t.Fatalf("newest killer should be first")
	}
	k.Insert(b, 2)
	if k.Slot(a, 2) != 1 {
		t.Fatalf("re-inserting the first killer must not evict the second")
	}
	k.Insert(c, 2)
	if k.Slot(a, 2) != -1 || k.Slot(c, 2) != 0 || k.Slot(b, 2) != 1 {
		t.Fatalf("oldest killer should drop out")
	}
	if k.Slot(c, 3) != -1 {
		t.Fatalf("killers are per ply")
	}
	k.Clear()
	if k.Slot(c, 2) != -1 {
		t.Fatalf("clear should drop every killer")
	}
}

func TestPVLineUpdate(t *testing.T) {
	p := board.StartPosition()
	e4 := mustMove(t, p, "e2e4")
	p.Make(e4)
	e5 := mustMove(t, p, "e7e5")
	p.Make(e5)
	nf3 := mustMove(t, p, "g1f3")

	var leaf, mid, root PVLine
	leaf.Update(nf3, &PVLine{})
	mid.Update(e5, &leaf)
	root.Update(e4, &mid)
	if got := pvString(root.Moves()); got != "e2e4 e7e5 g1f3" {
		t.Fatalf("unexpected PV %q", got)
	}
	if root.First() != e4 {
		t.Fatalf("unexpected first move %v", root.First())
	}
	root.Clear()
	if root.First() != board.NullMove || len(root.Moves()) != 0 {
		t.Fatalf("cleared line should be empty")
	}
}
