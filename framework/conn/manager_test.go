package conn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mahjong/framework/game"
	"mahjong/framework/stream"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, m *Manager, gameID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.ServeWS(w, r, gameID); err != nil {
			t.Errorf("ServeWS: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func waitCount(t *testing.T, m *Manager, gameID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for m.Count(gameID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("%s: expected %d clients, got %d", gameID, want, m.Count(gameID))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestManager_PublishToSubscribers(t *testing.T) {
	m := NewManager()
	a := dial(t, m, "g1")
	other := dial(t, m, "g2")
	waitCount(t, m, "g1", 1)
	waitCount(t, m, "g2", 1)

	e := game.Event{Type: game.EventTileDiscarded, GameID: "g1", Seat: 1, Player: "bob"}
	if err := m.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	_ = a.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, buf, err := a.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	msg, err := stream.Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Route != string(game.EventTileDiscarded) || msg.GameID != "g1" {
		t.Fatalf("unexpected message %+v", msg)
	}

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Fatalf("subscriber of g2 must not receive g1 events")
	}
}

func TestManager_ClientDisconnect(t *testing.T) {
	m := NewManager()
	ws := dial(t, m, "g1")
	waitCount(t, m, "g1", 1)

	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = ws.Close()
	waitCount(t, m, "g1", 0)

	if err := m.Publish(context.Background(), game.Event{Type: game.EventGameWon, GameID: "g1"}); err != nil {
		t.Fatalf("publish without subscribers: %v", err)
	}
}

func TestManager_Close(t *testing.T) {
	m := NewManager()
	dial(t, m, "g1")
	dial(t, m, "g1")
	waitCount(t, m, "g1", 2)
	m.Close()
	waitCount(t, m, "g1", 0)
}

func TestLongConnection_SlowConsumer(t *testing.T) {
	con := NewLongConnection("c1", "g1", nil, nil)
	for i := 0; i < writeQueueSize; i++ {
		if err := con.SendMessage([]byte("x")); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if err := con.SendMessage([]byte("x")); err != ErrSlowConsumer {
		t.Fatalf("expected ErrSlowConsumer, got %v", err)
	}
	if err := con.SendMessage([]byte("x")); err != ErrConnectionClosed {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
}
