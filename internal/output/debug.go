// Package output implements the Output components: debug/console logging
// sinks, the ws281x LED strip driver, gpio-pwm, mqtt-publish, and the
// digital-home device bridge.
package output

import (
	"github.com/rs/zerolog"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/logging"
)

// Debug logs every value it receives at debug level; it exists purely to
// let a configuration exercise a connection chain without real hardware.
type Debug struct {
	identity component.Identity
	logger   zerolog.Logger
	channels int
	values   []channel.Value
}

var _ iotype.Output = (*Debug)(nil)

// NewDebug resolves {input, channels: int}.
func NewDebug(deps component.Deps, id string, node config.Node) (component.Component, error) {
	channelsNode, err := node.Key("channels")
	if err != nil {
		return nil, err
	}
	channels, err := config.As[int](channelsNode)
	if err != nil {
		return nil, err
	}
	d := &Debug{
		identity: component.Identity{Category: component.CategoryOutput, Name: "debug", ID: id},
		logger:   logging.Named(deps.Logger(), id),
		channels: channels,
	}
	if err := bindSingleInput(deps, d, node); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Debug) Identity() component.Identity { return d.identity }
func (d *Debug) Accepts(n int) bool           { return n == d.channels }

func (d *Debug) Set(_ string, buf channel.Buffer) {
	d.values = buf.Values()
	d.logger.Debug().Interface("values", d.values).Msg("set")
}
