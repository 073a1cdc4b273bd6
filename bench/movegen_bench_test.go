package bench

import (
	"testing"

	"pvs-chess/board"
)

const (
	kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos6FEN     = "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"
)

func mustParse(b *testing.B, fen string) *board.Position {
	p, err := board.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	return p
}

func benchLegalMoves(b *testing.B, fen string) {
	p := mustParse(b, fen)
	var buf [board.MaxMoves]board.Move
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.LegalMoves(buf[:])
	}
}

func BenchmarkLegalMoves_Initial(b *testing.B) {
	benchLegalMoves(b, board.StartFEN)
}

func BenchmarkLegalMoves_Kiwipete(b *testing.B) {
	benchLegalMoves(b, kiwipeteFEN)
}

func BenchmarkLegalMoves_Pos6(b *testing.B) {
	benchLegalMoves(b, pos6FEN)
}

// Check evasions go through the per-move legality test.
func BenchmarkLegalMoves_InCheck(b *testing.B) {
	benchLegalMoves(b, "r1bqkbnr/pppp1Qpp/2n5/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4")
}

func benchQuiescenceMoves(b *testing.B, fen string) {
	p := mustParse(b, fen)
	var buf [board.MaxMoves]board.Move
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.PseudoQuiescenceMoves(buf[:])
	}
}

func BenchmarkQuiescenceMoves_EP(b *testing.B) {
	benchQuiescenceMoves(b, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
}

func BenchmarkQuiescenceMoves_Kiwipete(b *testing.B) {
	benchQuiescenceMoves(b, kiwipeteFEN)
}

func BenchmarkMakeUnmake_Kiwipete(b *testing.B) {
	p := mustParse(b, kiwipeteFEN)
	moves := p.LegalMoveList()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := moves[i%len(moves)]
		p.Make(m)
		p.Unmake(m)
	}
}

func BenchmarkSliderAttacks(b *testing.B) {
	p := mustParse(b, pos6FEN)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sq := board.Square(i & 63)
		_ = p.SliderAttack(board.WhiteQueen, sq)
	}
}
