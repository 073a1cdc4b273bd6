package board

import (
	"sort"
	"strings"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func mustParse(t testing.TB, fen string) *Position {
	t.Helper()
	p, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return p
}

func TestPerft(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		nodes []uint64
	}{
		{"startpos", StartFEN, []uint64{20, 400, 8902, 197281, 4865609}},
		{"kiwipete", kiwipeteFEN, []uint64{48, 2039, 97862}},
		{"en passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", []uint64{5, 19}},
		{"promotion", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", []uint64{11}},
		{"position 3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238}},
		{"position 4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}},
		{"position 5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustParse(t, tc.fen)
			for i, want := range tc.nodes {
				depth := i + 1
				if depth >= 5 && testing.Short() {
					t.Skip("skipping deep perft in -short mode")
				}
				if got := p.Perft(depth); got != want {
					t.Fatalf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
			if fen := p.FEN(); fen != mustParse(t, tc.fen).FEN() {
				t.Fatalf("perft left the position modified: %s", fen)
			}
		})
	}
}

func dragonPerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += dragonPerft(b, depth-1)
		undo()
	}
	return nodes
}

func TestPerftDivideMatchesDragontooth(t *testing.T) {
	fens := []string{
		StartFEN,
		kiwipeteFEN,
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		p := mustParse(t, fen)
		ours := make(map[string]uint64)
		for m, n := range p.PerftDivide(2) {
			ours[m.String()] = n
		}

		db := dragontoothmg.ParseFen(fen)
		theirs := make(map[string]uint64)
		for _, m := range db.GenerateLegalMoves() {
			undo := db.Apply(m)
			theirs[m.String()] = dragonPerft(&db, 1)
			undo()
		}

		if len(ours) != len(theirs) {
			t.Fatalf("%s: %d root moves, dragontooth has %d\nours:   %s\ntheirs: %s",
				fen, len(ours), len(theirs), keys(ours), keys(theirs))
		}
		for mv, n := range theirs {
			if ours[mv] != n {
				t.Fatalf("%s: divide %s = %d, dragontooth %d", fen, mv, ours[mv], n)
			}
		}
	}
}

func keys(m map[string]uint64) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, " ")
}
