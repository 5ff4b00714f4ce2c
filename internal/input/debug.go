package input

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// Debug is a manually-driven input with no hardware backing: Poke sets its
// value directly. Poke is the only way to drive it; neither the monitor
// endpoint nor the console input calls it.
type Debug struct {
	identity    component.Identity
	channels    int
	values      []channel.Value
	inputChange events.Event[channel.Buffer]
}

var _ iotype.Input = (*Debug)(nil)

// NewDebug resolves {channels: int}.
func NewDebug(_ component.Deps, id string, node config.Node) (component.Component, error) {
	channelsNode, err := node.Key("channels")
	if err != nil {
		return nil, err
	}
	channels, err := config.As[int](channelsNode)
	if err != nil {
		return nil, err
	}
	return &Debug{
		identity: component.Identity{Category: component.CategoryInput, Name: "debug", ID: id},
		channels: channels,
		values:   make([]channel.Value, channels),
	}, nil
}

func (d *Debug) Identity() component.Identity { return d.identity }
func (d *Debug) Emits() int                   { return d.channels }

func (d *Debug) InputChange() *events.Event[channel.Buffer] { return &d.inputChange }

// Poke overwrites the input's current buffer and fires InputChange,
// simulating a hardware state change for smoke-testing a configuration.
func (d *Debug) Poke(values []channel.Value) {
	d.values = append([]channel.Value(nil), values...)
	d.inputChange.Fire(channel.NewSimpleFrom(append([]channel.Value(nil), d.values...)))
}
