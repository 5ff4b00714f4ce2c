package transition

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// Multiply replicates its input buffer factor times.
type Multiply struct {
	identity component.Identity
	factor   int
}

var _ iotype.Transition = (*Multiply)(nil)

// NewMultiply resolves {factor: int}.
func NewMultiply(_ component.Deps, id string, node config.Node) (component.Component, error) {
	factorNode, err := node.Key("factor")
	if err != nil {
		return nil, err
	}
	factor, err := config.As[int](factorNode)
	if err != nil {
		return nil, err
	}
	return &Multiply{
		identity: component.Identity{Category: component.CategoryTransition, Name: "multiply", ID: id},
		factor:   factor,
	}, nil
}

func (m *Multiply) Identity() component.Identity { return m.identity }
func (m *Multiply) Accepts(int) bool             { return true }
func (m *Multiply) Emits(n int) int              { return n * m.factor }

func (m *Multiply) Instantiate() iotype.TransitionInstance {
	return multiplyInstance{factor: m.factor}
}

type multiplyInstance struct {
	factor int
}

func (m multiplyInstance) Transform(_ iotype.Connection, buf channel.Buffer) channel.Buffer {
	buf.Multiply(m.factor)
	return buf
}
