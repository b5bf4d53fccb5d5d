package watch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/voldash/internal/stream"
)

// mockStreamServer creates a test WebSocket server.
func mockStreamServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testConfig(server *httptest.Server) Config {
	cfg := DefaultConfig()
	cfg.URL = wsURL(server)
	cfg.ReconnectBaseWait = 10 * time.Millisecond
	cfg.ReconnectMaxWait = 20 * time.Millisecond
	return cfg
}

func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func stateFrame(tag string, version uint64) []byte {
	return fmt.Appendf(nil,
		`{"type":"state","state":{"tag":%q,"label":"x","loading":false,"failed":false,"count":3,"hotSections":[],"version":%d}}`,
		tag, version)
}

func nextEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	return Event{}
}

func TestClient_ConnectClose(t *testing.T) {
	server := mockStreamServer(t, drain)
	defer server.Close()

	client := NewClient(testConfig(server), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if !client.IsConnected() {
		t.Error("expected IsConnected to return true")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if client.IsConnected() {
		t.Error("expected IsConnected to return false after Close")
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if err := client.Connect(context.Background()); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Connect after Close = %v, want ErrAlreadyClosed", err)
	}
}

func TestClient_Events(t *testing.T) {
	server := mockStreamServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte("not json"))
		conn.WriteMessage(websocket.TextMessage, stateFrame("metals", 4))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","error":"unknown tag \"x\""}`))
		drain(conn)
	})
	defer server.Close()

	client := NewClient(testConfig(server), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	ev := nextEvent(t, client)
	if ev.Message.Type != stream.TypeState || ev.Message.State == nil {
		t.Fatalf("first event = %+v, want a state frame", ev.Message)
	}
	if ev.Message.State.Tag != "metals" || ev.Message.State.Version != 4 {
		t.Errorf("state = %+v", ev.Message.State)
	}
	if ev.ReceivedAt.IsZero() {
		t.Error("ReceivedAt should not be zero")
	}

	ev = nextEvent(t, client)
	if ev.Message.Type != stream.TypeError || !strings.Contains(ev.Message.Error, "unknown tag") {
		t.Errorf("second event = %+v, want an error frame", ev.Message)
	}
}

func TestClient_SetTag(t *testing.T) {
	received := make(chan stream.Command, 1)
	server := mockStreamServer(t, func(conn *websocket.Conn) {
		var cmd stream.Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		received <- cmd
		drain(conn)
	})
	defer server.Close()

	client := NewClient(testConfig(server), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if err := client.SetTag("dce"); err != nil {
		t.Fatalf("SetTag failed: %v", err)
	}

	select {
	case cmd := <-received:
		if cmd.Type != stream.TypeSetTag || cmd.Tag != "dce" {
			t.Errorf("command = %+v, want setTag dce", cmd)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for command")
	}
}

func TestClient_SetTagNotConnected(t *testing.T) {
	client := NewClient(Config{URL: "ws://localhost:12345"}, nil)
	if err := client.SetTag("all"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestClient_ServerCloseReportsError(t *testing.T) {
	server := mockStreamServer(t, func(conn *websocket.Conn) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "bye"), time.Now().Add(time.Second))
	})
	defer server.Close()

	client := NewClient(testConfig(server), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case err := <-client.Errors():
		if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
			t.Errorf("error = %v, want going-away close", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for error")
	}
}

func TestClient_AnswersPing(t *testing.T) {
	pong := make(chan string, 1)
	server := mockStreamServer(t, func(conn *websocket.Conn) {
		conn.SetPongHandler(func(data string) error {
			pong <- data
			return nil
		})
		conn.WriteControl(websocket.PingMessage, []byte("heartbeat"), time.Now().Add(time.Second))
		drain(conn)
	})
	defer server.Close()

	client := NewClient(testConfig(server), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case data := <-pong:
		if data != "heartbeat" {
			t.Errorf("pong payload = %q, want heartbeat", data)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for pong")
	}
}

func TestWatch_ReconnectsAndReselectsTag(t *testing.T) {
	var conns atomic.Int32
	var mu sync.Mutex
	var tags []string

	server := mockStreamServer(t, func(conn *websocket.Conn) {
		n := conns.Add(1)
		var cmd stream.Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		mu.Lock()
		tags = append(tags, cmd.Tag)
		mu.Unlock()

		conn.WriteMessage(websocket.TextMessage, stateFrame(cmd.Tag, uint64(n)))
		if n == 1 {
			return // drop the first connection
		}
		drain(conn)
	})
	defer server.Close()

	cfg := testConfig(server)
	cfg.Tag = "energy"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var versions []uint64
	err := Watch(ctx, cfg, nil, func(ev Event) {
		if ev.Message.State != nil {
			versions = append(versions, ev.Message.State.Version)
		}
		if len(versions) == 2 {
			cancel()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Watch = %v, want context.Canceled", err)
	}
	if len(versions) != 2 || versions[0] != 1 || versions[1] != 2 {
		t.Errorf("versions = %v, want [1 2]", versions)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(tags) < 2 || tags[0] != "energy" || tags[1] != "energy" {
		t.Errorf("tags = %v, want energy selected on each connect", tags)
	}
}
