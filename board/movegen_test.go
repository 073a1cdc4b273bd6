package board

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func moveSet(p *Position) map[string]bool {
	set := make(map[string]bool)
	for _, m := range p.LegalMoveList() {
		set[m.String()] = true
	}
	return set
}

func TestCheckmateAndStalemate(t *testing.T) {
	mate := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !mate.InCheck() || mate.HasLegalMove() {
		t.Fatalf("fool's mate: expected check with no legal moves")
	}

	stale := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if stale.InCheck() || stale.HasLegalMove() {
		t.Fatalf("stalemate: expected no check and no legal moves")
	}

	p := mustParse(t, "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")
	if err := p.PlayMoves("g6g7"); err != nil {
		t.Fatal(err)
	}
	if !p.InCheck() || p.HasLegalMove() {
		t.Fatalf("Qxg7 should be mate: %s", p.FEN())
	}
}

func TestPinnedPieceStaysOnLine(t *testing.T) {
	// The e2 rook is pinned by the e8 queen; it may only slide along the e-file.
	p := mustParse(t, "4q2k/8/8/8/8/8/4R3/4K3 w - - 0 1")
	moves := moveSet(p)
	for mv := range moves {
		if mv[:2] == "e2" && mv[2] != 'e' {
			t.Fatalf("pinned rook left the pin line with %s", mv)
		}
	}
	if !moves["e2e8"] || !moves["e2e5"] {
		t.Fatalf("pinned rook should still move along the file: %v", moves)
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Knight on f3 and rook on e8 both give check.
	p := mustParse(t, "4r2k/8/8/8/8/5n2/3B4/4K3 w - - 0 1")
	for _, m := range p.LegalMoveList() {
		if m.Piece().Type() != King {
			t.Fatalf("double check allowed non-king move %s", m)
		}
	}
}

func TestSingleCheckEvasions(t *testing.T) {
	// Rook check on the e-file; the d2 bishop can only interpose on e3.
	p := mustParse(t, "4r2k/8/8/8/8/8/3B4/4K3 w - - 0 1")
	moves := moveSet(p)
	if !moves["d2e3"] {
		t.Fatalf("missing interposition d2e3: %v", moves)
	}
	if moves["d2c3"] {
		t.Fatalf("non-evading move allowed")
	}
}

func TestEnPassantDiscoveredCheck(t *testing.T) {
	// Capturing en passant would expose the king on the fifth rank.
	p := mustParse(t, "8/8/8/K2pP2r/8/8/8/7k w - d6 0 1")
	if moveSet(p)["e5d6"] {
		t.Fatalf("en passant exposing the king was generated")
	}
	p = mustParse(t, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	if !moveSet(p)["e5d6"] {
		t.Fatalf("legal en passant missing")
	}
}

func TestPromotionsAllPieces(t *testing.T) {
	p := mustParse(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	moves := moveSet(p)
	for _, mv := range []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n", "a7b8q", "a7b8n"} {
		if !moves[mv] {
			t.Fatalf("missing promotion %s", mv)
		}
	}
}

func TestPseudoQuiescenceMoves(t *testing.T) {
	p := mustParse(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	var buf [MaxMoves]Move
	n := p.PseudoQuiescenceMoves(buf[:])
	got := make(map[string]bool)
	for _, m := range buf[:n] {
		got[m.String()] = true
		if !m.IsCapture() && m.Promotion().Type() != Queen {
			t.Fatalf("quiet non-queen move %s in quiescence list", m)
		}
	}
	if len(got) != 2 || !got["a7a8q"] || !got["a7b8q"] {
		t.Fatalf("quiescence moves = %v", got)
	}
}

func TestMoveCodec(t *testing.T) {
	m := NewMove(E7, E8, WhitePawn, BlackRook, WhiteQueen)
	if m.From() != E7 || m.To() != E8 || m.Piece() != WhitePawn || m.Captured() != BlackRook {
		t.Fatalf("field round trip failed: %032b", m)
	}
	if !m.IsPromotion() || !m.IsCapture() || m.IsCastle() || m.IsEnPassant() || m.IsQuiet() {
		t.Fatalf("classifiers wrong for %s", m)
	}
	if m.String() != "e7e8q" {
		t.Fatalf("String() = %s", m)
	}
	castle := NewMove(E1, G1, WhiteKing, Empty, WhiteKing)
	if !castle.IsCastle() || castle.IsPromotion() || !castle.IsQuiet() {
		t.Fatalf("castle classifiers wrong")
	}
	ep := NewMove(E5, D6, WhitePawn, BlackPawn, WhitePawn)
	if !ep.IsEnPassant() || ep.IsPromotion() || ep.IsPawnAdvance() {
		t.Fatalf("en passant classifiers wrong")
	}
	if NullMove.String() != "0000" {
		t.Fatalf("null move prints %s", NullMove)
	}
}

// toA1 converts a bitboard with a8 = bit 0 to the a1 = bit 0 layout.
func toA1(bb uint64) uint64 { return bits.ReverseBytes64(bb) }

func TestSliderAttacksMatchDragontooth(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	var cache SliderCache
	for i := 0; i < 2000; i++ {
		occ := rnd.Uint64() & rnd.Uint64()
		for sq := Square(0); sq < 64; sq++ {
			dsq := uint8(sq.Mirror())
			if got, want := toA1(RookAttacks(sq, occ)), dragontoothmg.CalculateRookMoveBitboard(dsq, toA1(occ)); got != want {
				t.Fatalf("rook %s occ %#x: got %#x want %#x", sq, occ, got, want)
			}
			if got, want := toA1(BishopAttacks(sq, occ)), dragontoothmg.CalculateBishopMoveBitboard(dsq, toA1(occ)); got != want {
				t.Fatalf("bishop %s occ %#x: got %#x want %#x", sq, occ, got, want)
			}
			if cache.Rook(sq, occ) != RookAttacks(sq, occ) || cache.Bishop(sq, occ) != BishopAttacks(sq, occ) {
				t.Fatalf("slider cache disagrees on %s", sq)
			}
		}
	}
}

func TestLeaperTables(t *testing.T) {
	if PopCount(KnightAttacks(A8)) != 2 || PopCount(KnightAttacks(D4)) != 8 {
		t.Fatalf("knight table wrong")
	}
	if KingAttacks(H1) != SquareBit(G1)|SquareBit(G2)|SquareBit(H2) {
		t.Fatalf("king table wrong")
	}
	if PawnAttacks(White, E2) != SquareBit(D3)|SquareBit(F3) {
		t.Fatalf("white pawn attacks wrong")
	}
	if PawnAttacks(Black, A7) != SquareBit(B6) {
		t.Fatalf("black pawn attacks wrong")
	}
	if FirstSquare(SquareBit(C3)|SquareBit(F6)) != F6 || LastSquare(SquareBit(C3)|SquareBit(F6)) != C3 {
		t.Fatalf("bit scans wrong")
	}
}
