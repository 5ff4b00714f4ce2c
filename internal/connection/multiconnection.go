package connection

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// MultiConnection fans N inputs into one element-wise max, acting as an
// Output toward its configured inputs and as an Input toward whatever
// consumes it downstream.
type MultiConnection struct {
	identity component.Identity
	channels int

	buffers map[string][]channel.Value
	change  events.Event[channel.Buffer]
}

var _ iotype.Input = (*MultiConnection)(nil)
var _ iotype.Output = (*MultiConnection)(nil)

// NewMultiConnection resolves {inputs[]}.
func NewMultiConnection(deps component.Deps, id string, node config.Node) (*MultiConnection, error) {
	inputsNode, err := node.Key("inputs")
	if err != nil {
		return nil, err
	}
	entries, err := inputsNode.Iter()
	if err != nil {
		return nil, err
	}

	mc := &MultiConnection{
		identity: component.Identity{Category: component.CategoryStandalone, Name: "multiconnection", ID: id},
		buffers:  make(map[string][]channel.Value),
	}

	var inputs []iotype.Input
	for _, entry := range entries {
		input, err := component.Get[iotype.Input](deps, id, entry)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
		if input.Emits() > mc.channels {
			mc.channels = input.Emits()
		}
	}

	for _, input := range inputs {
		inputID := input.Identity().ID
		input.InputChange().Subscribe(func(buf channel.Buffer) {
			mc.Set(inputID, buf)
		})
	}
	return mc, nil
}

func (mc *MultiConnection) Identity() component.Identity { return mc.identity }

func (mc *MultiConnection) Emits() int { return mc.channels }

func (mc *MultiConnection) InputChange() *events.Event[channel.Buffer] { return &mc.change }

// Accepts reports whether a buffer of size n can be folded in; shorter
// buffers than the declared channel count are accepted and zero-padded.
func (mc *MultiConnection) Accepts(n int) bool { return n <= mc.channels }

// Set stores inputID's buffer and recomputes the emitted buffer as the
// per-index max across every stored buffer, treating absent indices as 0.
func (mc *MultiConnection) Set(inputID string, buf channel.Buffer) {
	mc.buffers[inputID] = append([]channel.Value(nil), buf.Values()...)

	result := make([]channel.Value, mc.channels)
	for _, values := range mc.buffers {
		for i := 0; i < mc.channels; i++ {
			v := channel.Off()
			if i < len(values) {
				v = values[i]
			}
			if v.Get() > result[i].Get() {
				result[i] = v
			}
		}
	}
	mc.change.Fire(channel.NewSimpleFrom(result))
}
