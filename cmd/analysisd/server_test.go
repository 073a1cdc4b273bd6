package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	app := newApplication(4, 2, 2*time.Second)
	srv := httptest.NewServer(app.handler(func(h http.Handler) http.Handler {
		return handlers.LoggingHandler(io.Discard, h)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, message) {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var msg message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, msg
}

func TestAnalyseMateInOne(t *testing.T) {
	srv := newTestServer(t)
	resp, msg := postJSON(t, srv.URL+"/analyse", analysisRequest{
		FEN:   "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
		Depth: 3,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, msg.Error)
	}
	if msg.Type != "bestmove" || msg.BestMove != "a1a8" {
		t.Fatalf("expected bestmove a1a8, got %+v", msg)
	}
	if len(msg.PV) == 0 || msg.PV[0] != "a1a8" {
		t.Fatalf("expected the pv to start with a1a8, got %v", msg.PV)
	}
}

func TestAnalyseWithMoves(t *testing.T) {
	srv := newTestServer(t)
	resp, msg := postJSON(t, srv.URL+"/analyse", analysisRequest{
		Moves: []string{"e2e4", "e7e5"},
		Depth: 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, msg.Error)
	}
	if msg.BestMove == "" || msg.BestMove == "0000" {
		t.Fatalf("expected a move, got %+v", msg)
	}
}

func TestAnalyseRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)
	for _, req := range []analysisRequest{
		{FEN: "not a fen", Depth: 1},
		{Moves: []string{"e2e5"}, Depth: 1},
		{Depth: -1},
	} {
		resp, msg := postJSON(t, srv.URL+"/analyse", req)
		if resp.StatusCode != http.StatusBadRequest || msg.Type != "error" {
			t.Fatalf("request %+v: expected 400 error, got %d %+v", req, resp.StatusCode, msg)
		}
	}
}

func TestRequestLimits(t *testing.T) {
	req := analysisRequest{MoveTimeMS: 60000}
	_, r, err := req.position(time.Second)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if r.MoveTime != time.Second {
		t.Fatalf("expected movetime capped at 1s, got %v", r.MoveTime)
	}

	_, r, err = analysisRequest{}.position(time.Second)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if r.MoveTime != time.Second {
		t.Fatalf("expected an unlimited request to get the cap, got %v", r.MoveTime)
	}

	_, r, err = analysisRequest{Depth: 4}.position(time.Second)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if r.Depth != 4 || r.MoveTime != 0 {
		t.Fatalf("expected depth 4 without a movetime, got %+v", r)
	}
}

func TestPerftRoute(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/perft/2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		Nodes  uint64            `json:"nodes"`
		Divide map[string]uint64 `json:"divide"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Nodes != 400 || len(out.Divide) != 20 || out.Divide["e2e4"] != 20 {
		t.Fatalf("unexpected perft result %+v", out)
	}

	resp, err = http.Get(srv.URL + "/perft/9")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a deep perft, got %d", resp.StatusCode)
	}
}

func TestHealthMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/healthz", "text/plain", strings.NewReader(""))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebsocketStreamsReports(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)
	if err := conn.WriteJSON(analysisRequest{Depth: 4}); err != nil {
		t.Fatalf("write: %v", err)
	}

	infos := 0
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == "info" {
			infos++
			if msg.Line == "" || len(msg.PV) == 0 {
				t.Fatalf("expected a rendered line and a pv, got %+v", msg)
			}
			continue
		}
		if msg.Type != "bestmove" || msg.BestMove == "" {
			t.Fatalf("expected bestmove, got %+v", msg)
		}
		break
	}
	if infos < 4 {
		t.Fatalf("expected at least one report per depth, got %d", infos)
	}
}

func TestWebsocketStop(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)
	if err := conn.WriteJSON(analysisRequest{MoveTimeMS: 2000}); err != nil {
		t.Fatalf("write: %v", err)
	}
	start := time.Now()
	time.Sleep(50 * time.Millisecond)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("stop")); err != nil {
		t.Fatalf("write stop: %v", err)
	}
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == "bestmove" {
			break
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("stop took %v", elapsed)
	}
}

func TestWebsocketBadRequest(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)
	if err := conn.WriteJSON(analysisRequest{FEN: "8/8/8 w"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var msg message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" || msg.Error == "" {
		t.Fatalf("expected an error message, got %+v", msg)
	}
}
