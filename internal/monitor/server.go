package monitor

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The monitor is a same-host operator tool, not a public endpoint; any
	// origin may open the stream.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server upgrades incoming HTTP requests to websocket connections and
// streams every Event published on Bus to each connected browser as JSON.
type Server struct {
	bus    *Bus
	logger zerolog.Logger
}

// NewServer builds a Server streaming bus's events.
func NewServer(bus *Bus, logger zerolog.Logger) *Server {
	return &Server{bus: bus, logger: logger}
}

// ServeHTTP implements http.Handler, upgrading the request to a websocket
// and streaming events until the client disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("monitor: websocket upgrade failed")
		return
	}
	go s.stream(conn)
}

func (s *Server) stream(conn *websocket.Conn) {
	defer conn.Close()

	ch := s.bus.Subscribe(64)
	defer s.bus.Unsubscribe(ch)

	// Discard anything the browser sends and notice when it disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
