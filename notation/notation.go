// Package notation converts between coordinate moves and standard algebraic
// notation (SAN) on top of github.com/corentings/chess/v2.
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"
)

func newGame(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("notation: %w", err)
	}
	return chess.NewGame(opt), nil
}

// moveCounter returns the side to move and the fullmove number of fen.
func moveCounter(fen string) (whiteToMove bool, fullMove int) {
	fields := strings.Fields(fen)
	whiteToMove, fullMove = true, 1
	if len(fields) > 1 {
		whiteToMove = fields[1] != "b"
	}
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			fullMove = n
		}
	}
	return whiteToMove, fullMove
}

// push plays a coordinate move on game and returns its SAN.
func push(game *chess.Game, uci string) (string, error) {
	pos := game.Position()
	m, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return "", fmt.Errorf("notation: decode %q: %w", uci, err)
	}
	san := chess.AlgebraicNotation{}.Encode(pos, m)
	if err := game.PushMove(san, &chess.PushMoveOptions{ForceMainline: true}); err != nil {
		return "", fmt.Errorf("notation: play %q: %w", san, err)
	}
	return san, nil
}

// SAN converts each coordinate move, played in order from fen, into SAN.
func SAN(fen string, moves []string) ([]string, error) {
	game, err := newGame(fen)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(moves))
	for _, uci := range moves {
		san, err := push(game, uci)
		if err != nil {
			return out, err
		}
		out = append(out, san)
	}
	return out, nil
}

// SANLine renders moves played from fen as a numbered line, for example
// "1. e4 e5 2. Nf3" or "3... Nc6 4. Bb5".
func SANLine(fen string, moves []string) (string, error) {
	sans, err := SAN(fen, moves)
	if err != nil {
		return "", err
	}
	white, n := moveCounter(fen)
	var sb strings.Builder
	for i, san := range sans {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case white:
			fmt.Fprintf(&sb, "%d. ", n)
		case i == 0:
			fmt.Fprintf(&sb, "%d... ", n)
		}
		sb.WriteString(san)
		if !white {
			n++
		}
		white = !white
	}
	return sb.String(), nil
}

// ToUCI converts a SAN move in the position fen to coordinate notation.
// Check and annotation suffixes such as "+", "#" and "!?" are accepted.
func ToUCI(fen, san string) (string, error) {
	game, err := newGame(fen)
	if err != nil {
		return "", err
	}
	pos := game.Position()
	m, err := chess.AlgebraicNotation{}.Decode(pos, strings.TrimRight(san, "+#!?"))
	if err != nil {
		return "", fmt.Errorf("notation: decode %q: %w", san, err)
	}
	return chess.UCINotation{}.Encode(pos, m), nil
}
