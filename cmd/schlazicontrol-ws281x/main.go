// Command schlazicontrol-ws281x is the forked LED driver helper: it owns
// the addressable-LED hardware (modeled here, per spec §1's out-of-scope
// boundary, as a log of the frames it would push to rpi_ws281x) and speaks
// the line-oriented protocol of spec §6.3 to the parent daemon.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/lordjaxom/schlazicontrol/internal/logging"
	"github.com/lordjaxom/schlazicontrol/internal/ws281x"
)

func main() {
	port := flag.Int("port", 9999, "TCP port to listen on")
	leds := flag.Int("leds", 0, "number of LEDs on the strip")
	flag.Parse()

	logger := logging.New(nil, zerolog.InfoLevel)
	if *leds <= 0 {
		logger.Fatal().Msg("ws281x-helper: -leds must be positive")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		logger.Fatal().Err(err).Msg("ws281x-helper: listen failed")
	}
	logger.Info().Int("port", *port).Int("leds", *leds).Msg("ws281x-helper: listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			logger.Error().Err(err).Msg("ws281x-helper: accept failed")
			return
		}
		serve(conn, *leds, logger)
	}
}

// serve handles one parent connection until it disconnects or violates
// the protocol, then returns so the caller's accept loop can take the
// next connection — the helper's "restart its accept loop" behavior from
// spec §6.3.
func serve(conn net.Conn, leds int, logger zerolog.Logger) {
	defer conn.Close()

	if _, err := conn.Write(ws281x.EncodeHandshake(leds)); err != nil {
		logger.Warn().Err(err).Msg("ws281x-helper: handshake write failed")
		return
	}

	r := bufio.NewReader(conn)
	frames := 0
	for {
		colors, err := ws281x.ReadFrame(r, leds)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Info().Int("frames", frames).Msg("ws281x-helper: parent disconnected")
				return
			}
			var violation *ws281x.ErrProtocolViolation
			if errors.As(err, &violation) {
				logger.Warn().Err(err).Msg("ws281x-helper: protocol violation, closing")
				return
			}
			logger.Warn().Err(err).Msg("ws281x-helper: read failed")
			return
		}
		frames++
		render(colors, frames, logger)
	}
}

// render is the hardware boundary: a real build swaps this for a call
// into rpi_ws281x. Logged at debug so a running helper is quiet by
// default.
func render(colors []uint32, frame int, logger zerolog.Logger) {
	logger.Debug().Int("frame", frame).Int("pixels", len(colors)).Time("at", time.Now()).Msg("ws281x-helper: render")
}
