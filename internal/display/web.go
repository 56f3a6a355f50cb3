package display

import (
	"bytes"
	_ "embed"
	"errors"
	"image"
	"image/jpeg"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/piyush-malaviya/4dvideo/internal/frame"
)

//go:embed viewer.html
var viewerPage []byte

// jpegQuality for the live view; recording quality is configured
// separately on the recorder.
const jpegQuality = 80

// WebSurface serves the composite stream to browsers: `/` is the viewer
// page, `/ws` carries JPEG frames out and key events in, `/metrics` is
// the Prometheus endpoint.
type WebSurface struct {
	name   string
	addr   string
	server *http.Server
	logger *slog.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*websocket.Conn

	keys chan Key

	closeOnce sync.Once
}

// NewWebSurface starts listening on addr and serves the viewer.
func NewWebSurface(name, addr string, logger *slog.Logger) (*WebSurface, error) {
	s := &WebSurface{
		name:    name,
		logger:  logger.With("component", "display", "window", name),
		clients: make(map[string]*websocket.Conn),
		keys:    make(chan Key, 16),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(viewerPage)
	})
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/metrics", promhttp.Handler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s.addr = ln.Addr().String()
	s.server = &http.Server{Handler: mux}
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("viewer server failed", "error", err)
		}
	}()

	s.logger.Info("viewer listening", "addr", ln.Addr().String())
	return s, nil
}

func (s *WebSurface) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.clients[id] = conn
	s.mu.Unlock()
	s.logger.Info("viewer connected", "session", id)

	// Read loop: key events from the page.
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, id)
			s.mu.Unlock()
			conn.Close()
			s.logger.Info("viewer disconnected", "session", id)
		}()

		for {
			var msg struct {
				Key string `json:"key"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			var key Key
			switch msg.Key {
			case "space":
				key = KeySpace
			case "escape":
				key = KeyEscape
			default:
				continue
			}

			// Drop key events rather than block the socket reader.
			select {
			case s.keys <- key:
			default:
			}
		}
	}()
}

// Addr returns the address the viewer server is bound to.
func (s *WebSurface) Addr() string {
	return s.addr
}

// Show encodes the composite as JPEG and pushes it to every connected
// viewer. Called from the visualizer goroutine only.
func (s *WebSurface) Show(img *frame.ColorImage) error {
	s.mu.Lock()
	n := len(s.clients)
	s.mu.Unlock()
	if n == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, toRGBA(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, conn := range s.clients {
		if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
			s.logger.Debug("viewer write failed, dropping", "session", id, "error", err)
			conn.Close()
			delete(s.clients, id)
		}
	}
	return nil
}

// PollKey waits up to timeout for one key event from any viewer.
func (s *WebSurface) PollKey(timeout time.Duration) (Key, bool) {
	select {
	case key := <-s.keys:
		return key, true
	case <-time.After(timeout):
		return 0, false
	}
}

// Close stops the HTTP server and closes viewer sockets.
func (s *WebSurface) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		for _, conn := range s.clients {
			conn.Close()
		}
		s.clients = make(map[string]*websocket.Conn)
		s.mu.Unlock()
		err = s.server.Close()
	})
	return err
}

// toRGBA adapts the raw RGB frame to the stdlib image type, adding an
// opaque alpha channel.
func toRGBA(img *frame.ColorImage) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	for i := 0; i < img.W*img.H; i++ {
		out.Pix[i*4+0] = img.Pix[i*3+0]
		out.Pix[i*4+1] = img.Pix[i*3+1]
		out.Pix[i*4+2] = img.Pix[i*3+2]
		out.Pix[i*4+3] = 255
	}
	return out
}
