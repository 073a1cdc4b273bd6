package engine

import (
	"bytes"
	"os"
	"testing"

	"pvs-chess/board"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func TestSearchDiagnosticsRespectLogLevel(t *testing.T) {
	var buf bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = saved }()

	newTestEngine(Restrictions{Depth: 2}).GetMove(board.StartPosition())
	if buf.Len() != 0 {
		t.Fatalf("expected no log output at warn level, got %q", buf.String())
	}
}
