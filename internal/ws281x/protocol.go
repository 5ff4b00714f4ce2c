// Package ws281x implements the parent side of the LED driver protocol
// (handshake + frame encoding) and the forked-helper process management
// that keeps the child's lifecycle tied to the reactor.
package ws281x

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
)

// ErrProtocolViolation marks a malformed handshake or frame: wrong length,
// non-hex characters, a non-numeric LED count, or a frame line without its
// CRLF terminator.
type ErrProtocolViolation struct {
	Reason string
}

func (e *ErrProtocolViolation) Error() string {
	return fmt.Sprintf("ws281x: protocol violation: %s", e.Reason)
}

// readCount reads the helper's handshake line, a bare decimal LED count
// terminated by CRLF, and returns it.
func readCount(r *bufio.Reader) (int, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, err
	}
	line = strings.TrimRight(line, "\r\n")
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		return 0, &ErrProtocolViolation{Reason: "non-numeric LED count " + strconv.Quote(line)}
	}
	return n, nil
}

// encodeFrame packs colors as n concatenated six-digit lowercase hex
// triples terminated by CRLF, e.g. red, green, blue encode as
// "ff000000ff000000ff\r\n" (three LEDs): there is no delimiter between
// triples, only the trailing CRLF is a separator.
func encodeFrame(colors []uint32) []byte {
	var b strings.Builder
	for _, c := range colors {
		fmt.Fprintf(&b, "%06x", c&0xffffff)
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

// frameFromColorBuffer reads every pixel of cb into a color slice, applying
// gamma if non-nil.
func frameFromColorBuffer(cb channel.ColorBuffer, gamma *channel.GammaTable) []uint32 {
	colors := make([]uint32, cb.Len())
	for i := 0; i < cb.Len(); i++ {
		c := cb.Get(i)
		if gamma == nil {
			colors[i] = c
			continue
		}
		r, g, b := channel.RGB(c)
		colors[i] = channel.PackRGB(gamma.Apply(r), gamma.Apply(g), gamma.Apply(b))
	}
	return colors
}

// parseFrame validates and decodes a line of n concatenated six-digit hex
// triples, the inverse of encodeFrame — used by the forked helper to read
// frames from the parent.
func parseFrame(line string, n int) ([]uint32, error) {
	if len(line) != n*6 {
		return nil, &ErrProtocolViolation{Reason: fmt.Sprintf("frame length %d, want %d", len(line), n*6)}
	}
	colors := make([]uint32, n)
	for i := 0; i < n; i++ {
		triple := line[i*6 : i*6+6]
		if !isLowerHex(triple) {
			return nil, &ErrProtocolViolation{Reason: "non-hex triple " + strconv.Quote(triple)}
		}
		v, err := strconv.ParseUint(triple, 16, 32)
		if err != nil {
			return nil, &ErrProtocolViolation{Reason: err.Error()}
		}
		colors[i] = uint32(v)
	}
	return colors, nil
}

func isLowerHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}

// EncodeHandshake formats the helper's connect-time LED-count announcement:
// a bare decimal number terminated by CRLF, no delimiters.
func EncodeHandshake(n int) []byte {
	return []byte(fmt.Sprintf("%d\r\n", n))
}

// ReadFrame reads one line from r and decodes it as n LEDs, the helper
// side of the protocol parent writes via encodeFrame.
func ReadFrame(r *bufio.Reader, n int) ([]uint32, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(line, "\r\n") {
		return nil, &ErrProtocolViolation{Reason: "missing CRLF terminator"}
	}
	line = strings.TrimRight(line, "\r\n")
	return parseFrame(line, n)
}
