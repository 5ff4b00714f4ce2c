package ws281x

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/events"
)

const reconnectInterval = time.Second

// Link holds the parent-side TCP connection to one forked LED helper: it
// reconnects on failure, replays the last frame on every new connection,
// and tears the connection down on a protocol violation, per spec §6.3.
// It is the ws281x counterpart of homebridge.Client/Device — a standalone
// transport an Output component wraps, not a Component itself.
type Link struct {
	logger  zerolog.Logger
	host    string
	port    string
	gamma   *channel.GammaTable
	limiter *rate.Limiter

	mu      sync.Mutex
	conn    net.Conn
	ledNum  int
	pending []uint32
}

// NewLink builds a Link dialing host:port once ready fires. gamma may be
// nil to send raw color values uncorrected.
func NewLink(ready *events.Event[struct{}], logger zerolog.Logger, host string, port int, gamma *channel.GammaTable) *Link {
	l := &Link{
		logger:  logger,
		host:    host,
		port:    strconv.Itoa(port),
		gamma:   gamma,
		limiter: rate.NewLimiter(rate.Every(reconnectInterval), 1),
	}
	ready.SubscribeOnce(func(struct{}) { go l.connectLoop(context.Background()) })
	return l
}

// LEDCount returns the helper-reported strip length, or 0 before the first
// successful handshake.
func (l *Link) LEDCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ledNum
}

// Send packs cb's pixels, gamma-corrects them if configured, and writes
// the frame to the current connection; a write failure drops the
// connection so connectLoop redials. With no connection yet, the frame is
// cached and replayed once one is established.
func (l *Link) Send(cb channel.ColorBuffer) {
	colors := frameFromColorBuffer(cb, l.gamma)

	l.mu.Lock()
	l.pending = colors
	conn := l.conn
	l.mu.Unlock()

	if conn == nil {
		return
	}
	if _, err := conn.Write(encodeFrame(colors)); err != nil {
		l.logger.Warn().Err(err).Msg("ws281x write failed")
		l.drop(conn)
	}
}

func (l *Link) connectLoop(ctx context.Context) {
	for {
		if err := l.limiter.Wait(ctx); err != nil {
			return
		}
		conn, err := net.Dial("tcp", net.JoinHostPort(l.host, l.port))
		if err != nil {
			l.logger.Warn().Err(err).Msg("ws281x connect failed")
			continue
		}
		n, err := readCount(bufio.NewReader(conn))
		if err != nil {
			l.logger.Warn().Err(err).Msg("ws281x handshake failed")
			_ = conn.Close()
			continue
		}
		l.logger.Info().Int("leds", n).Msg("ws281x connected")

		l.mu.Lock()
		l.conn = conn
		l.ledNum = n
		pending := l.pending
		l.mu.Unlock()

		if pending != nil {
			if _, err := conn.Write(encodeFrame(pending)); err != nil {
				l.logger.Warn().Err(err).Msg("ws281x replay failed")
				l.drop(conn)
				continue
			}
		}

		l.waitClosed(ctx, conn)
	}
}

// waitClosed blocks reading conn (the helper never sends anything after
// the handshake, so any read returning is a disconnect) until ctx is
// canceled or the peer closes.
func (l *Link) waitClosed(ctx context.Context, conn net.Conn) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 1)
		_, _ = conn.Read(buf)
	}()
	select {
	case <-ctx.Done():
		_ = conn.Close()
		<-done
	case <-done:
		l.drop(conn)
	}
}

func (l *Link) drop(conn net.Conn) {
	_ = conn.Close()
	l.mu.Lock()
	if l.conn == conn {
		l.conn = nil
	}
	l.mu.Unlock()
}
