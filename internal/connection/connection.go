// Package connection implements the single-input dataflow pipeline
// (Connection) and the N-input element-wise max fan-in (MultiConnection).
package connection

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/monitor"
)

// Connection threads one input's value changes through an ordered chain of
// transition instances to one output. It caches the last buffer received
// from the input so transition instances can trigger a Retransfer on their
// own schedule (fade ticks, trigger timers) without a new input event.
type Connection struct {
	identity component.Identity
	deps     component.Deps
	input    iotype.Input
	chain    []iotype.TransitionInstance
	output   iotype.Output

	lastValue channel.Buffer
	haveValue bool
}

var _ component.Component = (*Connection)(nil)
var _ iotype.Connection = (*Connection)(nil)

// New resolves {input, transitions[], output} and wires the subscription
// that drives transfer on every input change.
func New(deps component.Deps, id string, node config.Node) (*Connection, error) {
	inputNode, err := node.Key("input")
	if err != nil {
		return nil, err
	}
	input, err := component.Get[iotype.Input](deps, id, inputNode)
	if err != nil {
		return nil, err
	}

	n := input.Emits()

	var chain []iotype.TransitionInstance
	if node.Has("transitions") {
		transitionsNode, err := node.Key("transitions")
		if err != nil {
			return nil, err
		}
		entries, err := transitionsNode.Iter()
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			transition, err := component.Get[iotype.Transition](deps, id, entry)
			if err != nil {
				return nil, err
			}
			if !transition.Accepts(n) {
				return nil, &component.ChannelCountMismatchError{Component: transition.Identity().ID, Emits: n}
			}
			chain = append(chain, transition.Instantiate())
			n = transition.Emits(n)
		}
	}

	outputNode, err := node.Key("output")
	if err != nil {
		return nil, err
	}
	output, err := component.Get[iotype.Output](deps, id, outputNode)
	if err != nil {
		return nil, err
	}
	if !output.Accepts(n) {
		return nil, &component.ChannelCountMismatchError{Component: output.Identity().ID, Emits: n}
	}

	c := &Connection{
		identity: component.Identity{Category: component.CategoryStandalone, Name: "connection", ID: id},
		deps:     deps,
		input:    input,
		chain:    chain,
		output:   output,
	}
	input.InputChange().Subscribe(func(buf channel.Buffer) {
		c.transfer(buf)
	})
	return c, nil
}

func (c *Connection) Identity() component.Identity { return c.identity }

// transfer runs buf through the transition chain and hands the result to
// the output, caching buf as the value a later Retransfer will replay.
func (c *Connection) transfer(buf channel.Buffer) {
	c.lastValue = buf
	c.haveValue = true
	c.run(buf)
}

// Retransfer replays the transition chain against the cached last input
// value, without a fresh input event. Used by time-driven transitions
// (fade ticks, trigger timers) to push continued progress downstream.
func (c *Connection) Retransfer() {
	if !c.haveValue {
		return
	}
	c.run(c.lastValue)
}

func (c *Connection) run(buf channel.Buffer) {
	// Transitions may modify their input in place; run them on a copy so the
	// cached lastValue stays intact for Retransfer.
	working := channel.Buffer(channel.NewSimpleFrom(append([]channel.Value(nil), buf.Values()...)))
	for _, ti := range c.chain {
		working = ti.Transform(c, working)
	}
	c.output.Set(c.input.Identity().ID, working)
	c.deps.Monitor().Publish(monitor.Event{
		Source: monitor.SourceConnection,
		Kind:   monitor.KindTransfer,
		Data: map[string]any{
			"connection": c.identity.ID,
			"input":      c.input.Identity().ID,
			"output":     c.output.Identity().ID,
			"size":       working.Size(),
		},
	})
}
