package output

import (
	"github.com/rs/zerolog"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/logging"
)

// Console logs every value it receives, same as Debug but registered
// under the unified "console" name alongside the console input subsystem.
type Console struct {
	identity component.Identity
	logger   zerolog.Logger
	channels int
	values   []channel.Value
}

var _ iotype.Output = (*Console)(nil)

// NewConsole resolves {input, channels: int}.
func NewConsole(deps component.Deps, id string, node config.Node) (component.Component, error) {
	channelsNode, err := node.Key("channels")
	if err != nil {
		return nil, err
	}
	channels, err := config.As[int](channelsNode)
	if err != nil {
		return nil, err
	}
	c := &Console{
		identity: component.Identity{Category: component.CategoryOutput, Name: "console", ID: id},
		logger:   logging.Named(deps.Logger(), id),
		channels: channels,
	}
	if err := bindSingleInput(deps, c, node); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Console) Identity() component.Identity { return c.identity }
func (c *Console) Accepts(n int) bool           { return n == c.channels }

func (c *Console) Set(_ string, buf channel.Buffer) {
	c.values = buf.Values()
	c.logger.Debug().Interface("values", c.values).Msg("set")
}
