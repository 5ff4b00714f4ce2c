package transition

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// Shift prepends offset zero-valued channels ahead of its input.
type Shift struct {
	identity component.Identity
	offset   int
}

var _ iotype.Transition = (*Shift)(nil)

// NewShift resolves {offset: int}.
func NewShift(_ component.Deps, id string, node config.Node) (component.Component, error) {
	offsetNode, err := node.Key("offset")
	if err != nil {
		return nil, err
	}
	offset, err := config.As[int](offsetNode)
	if err != nil {
		return nil, err
	}
	return &Shift{
		identity: component.Identity{Category: component.CategoryTransition, Name: "shift", ID: id},
		offset:   offset,
	}, nil
}

func (s *Shift) Identity() component.Identity { return s.identity }
func (s *Shift) Accepts(int) bool             { return true }
func (s *Shift) Emits(n int) int              { return n + s.offset }

func (s *Shift) Instantiate() iotype.TransitionInstance {
	return shiftInstance{offset: s.offset}
}

type shiftInstance struct {
	offset int
}

func (s shiftInstance) Transform(_ iotype.Connection, buf channel.Buffer) channel.Buffer {
	buf.Shift(s.offset)
	return buf
}
