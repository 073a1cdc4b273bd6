package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pvs-chess/board"
	"pvs-chess/engine"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const maxPerftDepth = 5

// analysisRequest is the body of POST /analyse and the first message of a
// websocket session.
type analysisRequest struct {
	FEN        string   `json:"fen"`
	Moves      []string `json:"moves"`
	Depth      int      `json:"depth"`
	MoveTimeMS int      `json:"movetime_ms"`
	Nodes      uint64   `json:"nodes"`
}

// message is everything the service sends back. Type is "info" for
// progress, "bestmove" for the result and "error" otherwise.
type message struct {
	Type     string   `json:"type"`
	Depth    int      `json:"depth,omitempty"`
	SelDepth int      `json:"seldepth,omitempty"`
	Score    int      `json:"score"`
	Mate     int      `json:"mate,omitempty"`
	PV       []string `json:"pv,omitempty"`
	Line     string   `json:"line,omitempty"`
	Nodes    uint64   `json:"nodes,omitempty"`
	NPS      uint64   `json:"nps,omitempty"`
	TimeMS   int64    `json:"time_ms,omitempty"`
	Hashfull int      `json:"hashfull,omitempty"`
	BestMove string   `json:"bestmove,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func moveStrings(pv []board.Move) []string {
	out := make([]string, len(pv))
	for i, m := range pv {
		out[i] = m.String()
	}
	return out
}

func infoMessage(r engine.Report, fen string) message {
	return message{
		Type:     "info",
		Depth:    r.Depth,
		SelDepth: r.SelDepth,
		Score:    r.Score,
		Mate:     r.Mate,
		PV:       moveStrings(r.PV),
		Line:     r.Human(fen),
		Nodes:    r.Nodes,
		NPS:      r.NPS,
		TimeMS:   r.Elapsed.Milliseconds(),
		Hashfull: r.Hashfull,
	}
}

func resultMessage(e *engine.Engine, best board.Move) message {
	return message{
		Type:     "bestmove",
		BestMove: best.String(),
		Score:    e.Score(),
		PV:       moveStrings(e.GetPV()),
		Nodes:    e.GetNodes(),
		Hashfull: e.Hashfull(),
	}
}

// position builds the position to analyse and the search limits. A request
// without limits searches for maxTime; longer move times are capped.
func (req analysisRequest) position(maxTime time.Duration) (*board.Position, engine.Restrictions, error) {
	var r engine.Restrictions
	if req.Depth < 0 || req.MoveTimeMS < 0 {
		return nil, r, errors.New("depth and movetime_ms must not be negative")
	}

	pos := board.StartPosition()
	if req.FEN != "" {
		p, err := board.ParseFEN(req.FEN)
		if err != nil {
			return nil, r, err
		}
		pos = p
	}
	if err := pos.PlayMoves(req.Moves...); err != nil {
		return nil, r, err
	}

	r.Depth = req.Depth
	r.Nodes = req.Nodes
	r.MoveTime = time.Duration(req.MoveTimeMS) * time.Millisecond
	if (r.MoveTime == 0 && r.Depth == 0 && r.Nodes == 0) || r.MoveTime > maxTime {
		r.MoveTime = maxTime
	}
	return pos, r, nil
}

type application struct {
	router   *mux.Router
	upgrader websocket.Upgrader
	hashMB   int
	maxTime  time.Duration
	slots    chan struct{}
}

func newApplication(hashMB, maxSearches int, maxTime time.Duration) *application {
	a := &application{
		router:  mux.NewRouter(),
		hashMB:  hashMB,
		maxTime: maxTime,
		slots:   make(chan struct{}, max(maxSearches, 1)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	a.router.HandleFunc("/healthz", a.healthHandler).Methods(http.MethodGet)
	a.router.HandleFunc("/analyse", a.analyseHandler).Methods(http.MethodPost)
	a.router.HandleFunc("/perft/{depth:[0-9]+}", a.perftHandler).Methods(http.MethodGet)
	a.router.HandleFunc("/ws", a.wsHandler)
	return a
}

func (a *application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// handler wraps the router with panic recovery and request logging.
func (a *application) handler(logTo func(http.Handler) http.Handler) http.Handler {
	return handlers.RecoveryHandler()(logTo(a))
}

func (a *application) newEngine() *engine.Engine {
	opts := engine.DefaultOptions()
	opts.HashMB = a.hashMB
	return engine.New(opts)
}

// acquire takes a search slot, or reports false when the service is busy.
func (a *application) acquire() bool {
	select {
	case a.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (a *application) release() { <-a.slots }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write-response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, message{Type: "error", Error: err.Error()})
}

func (a *application) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"searches": len(a.slots)})
}

func (a *application) analyseHandler(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	pos, limits, err := req.position(a.maxTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !a.acquire() {
		writeError(w, http.StatusServiceUnavailable, errors.New("all search slots busy"))
		return
	}
	defer a.release()

	e := a.newEngine()
	e.SetRestrictions(limits)
	best := e.GetMoveContext(r.Context(), pos)
	writeJSON(w, http.StatusOK, resultMessage(e, best))
}

func (a *application) perftHandler(w http.ResponseWriter, r *http.Request) {
	depth, err := strconv.Atoi(mux.Vars(r)["depth"])
	if err != nil || depth < 1 || depth > maxPerftDepth {
		writeError(w, http.StatusBadRequest, fmt.Errorf("depth must be between 1 and %d", maxPerftDepth))
		return
	}
	pos := board.StartPosition()
	if fen := r.URL.Query().Get("fen"); fen != "" {
		if pos, err = board.ParseFEN(fen); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	divide := make(map[string]uint64)
	var total uint64
	for m, n := range pos.PerftDivide(depth) {
		divide[m.String()] = n
		total += n
	}
	writeJSON(w, http.StatusOK, struct {
		Depth  int               `json:"depth"`
		Nodes  uint64            `json:"nodes"`
		Divide map[string]uint64 `json:"divide"`
	}{depth, total, divide})
}

// wsHandler runs one analysis per connection. The client sends an
// analysisRequest, receives "info" messages while the engine searches and a
// final "bestmove". Any message from the client stops the search early.
func (a *application) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("ws-upgrade")
		return
	}
	defer conn.Close()

	var req analysisRequest
	if err := conn.ReadJSON(&req); err != nil {
		log.Debug().Err(err).Msg("ws-read-request")
		return
	}
	pos, limits, err := req.position(a.maxTime)
	if err != nil {
		_ = conn.WriteJSON(message{Type: "error", Error: err.Error()})
		return
	}
	if !a.acquire() {
		_ = conn.WriteJSON(message{Type: "error", Error: "all search slots busy"})
		return
	}
	defer a.release()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// A stop request or a closed connection ends the search.
		_, _, _ = conn.ReadMessage()
		cancel()
	}()

	fen := pos.FEN()
	e := a.newEngine()
	e.SetRestrictions(limits)
	reports := make(chan engine.Report, 64)
	e.SetReporter(func(rep engine.Report) {
		select {
		case reports <- rep:
		default:
			log.Debug().Int("depth", rep.Depth).Msg("ws-report-dropped")
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	var best board.Move
	g.Go(func() error {
		defer close(reports)
		best = e.GetMoveContext(gctx, pos)
		return nil
	})
	g.Go(func() error {
		for rep := range reports {
			if err := conn.WriteJSON(infoMessage(rep, fen)); err != nil {
				return fmt.Errorf("write info: %w", err)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Msg("ws-stream")
		return
	}

	if err := conn.WriteJSON(resultMessage(e, best)); err != nil {
		log.Debug().Err(err).Msg("ws-write-result")
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}
