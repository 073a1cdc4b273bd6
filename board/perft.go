package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][MaxMoves]Move, depth)
	return p.perft(depth, bufs)
}

func (p *Position) perft(depth int, bufs [][MaxMoves]Move) uint64 {
	moves := bufs[depth-1][:]
	n := p.LegalMoves(moves)
	if depth == 1 {
		return uint64(n)
	}
	var nodes uint64
	for _, m := range moves[:n] {
		p.Make(m)
		nodes += p.perft(depth-1, bufs)
		p.Unmake(m)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move.
func (p *Position) PerftDivide(depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range p.LegalMoveList() {
		p.Make(m)
		result[m] = p.Perft(depth - 1)
		p.Unmake(m)
	}
	return result
}
