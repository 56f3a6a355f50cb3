package display

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/piyush-malaviya/4dvideo/internal/frame"
)

func startSurface(t *testing.T) (*WebSurface, string) {
	t.Helper()
	s, err := NewWebSurface("fusion", "127.0.0.1:0", slog.Default())
	if err != nil {
		t.Fatalf("NewWebSurface: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, s.Addr()
}

func TestServesViewerPage(t *testing.T) {
	_, addr := startSurface(t)

	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "4dvideo viewer") {
		t.Error("viewer page not served")
	}
}

func TestKeyEventsReachPollKey(t *testing.T) {
	s, addr := startSurface(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"key": "space"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	key, ok := s.PollKey(time.Second)
	if !ok || key != KeySpace {
		t.Errorf("PollKey = (%v, %v), want (KeySpace, true)", key, ok)
	}

	if err := conn.WriteJSON(map[string]string{"key": "escape"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	key, ok = s.PollKey(time.Second)
	if !ok || key != KeyEscape {
		t.Errorf("PollKey = (%v, %v), want (KeyEscape, true)", key, ok)
	}
}

func TestPollKeyTimesOut(t *testing.T) {
	s, _ := startSurface(t)

	start := time.Now()
	_, ok := s.PollKey(15 * time.Millisecond)
	if ok {
		t.Error("PollKey reported a key with no viewer connected")
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("PollKey returned before the poll interval elapsed")
	}
}

func TestShowWithoutViewersIsNoop(t *testing.T) {
	s, _ := startSurface(t)

	if err := s.Show(frame.NewColorImage(8, 8)); err != nil {
		t.Errorf("Show with no clients: %v", err)
	}
}

func TestShowDeliversJPEG(t *testing.T) {
	s, addr := startSurface(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The client registers from the handler goroutine; wait for it.
	deadline := time.Now().Add(time.Second)
	for {
		s.mu.Lock()
		n := len(s.clients)
		s.mu.Unlock()
		if n == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Show(frame.NewColorImage(8, 8)); err != nil {
		t.Fatalf("Show: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Errorf("message type %d, want binary", kind)
	}
	// JPEG SOI marker.
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		t.Error("payload is not a JPEG image")
	}
}
