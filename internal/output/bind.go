package output

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// bindSingleInput resolves node's "input" property, checks out.Accepts
// against its emitted channel count, and subscribes out.Set to its
// changes — the construction sequence every single-input Output shares
// (spec §4.4). Unlike the original, the check runs synchronously at
// construction rather than deferred to a ready callback: by the time New
// returns here, the input is already fully constructed, so there is no
// ordering hazard to defer past.
func bindSingleInput(deps component.Deps, out iotype.Output, node config.Node) error {
	inputNode, err := node.Key("input")
	if err != nil {
		return err
	}
	in, err := component.Get[iotype.Input](deps, out.Identity().ID, inputNode)
	if err != nil {
		return err
	}
	return bindOne(out, in)
}

// bindMultiInput resolves node's "inputs" array and binds each the same
// way as bindSingleInput.
func bindMultiInput(deps component.Deps, out iotype.Output, node config.Node) error {
	inputsNode, err := node.Key("inputs")
	if err != nil {
		return err
	}
	entries, err := inputsNode.Iter()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		in, err := component.Get[iotype.Input](deps, out.Identity().ID, entry)
		if err != nil {
			return err
		}
		if err := bindOne(out, in); err != nil {
			return err
		}
	}
	return nil
}

func bindOne(out iotype.Output, in iotype.Input) error {
	n := in.Emits()
	if !out.Accepts(n) {
		return &component.ChannelCountMismatchError{Component: in.Identity().ID, Emits: n}
	}
	in.InputChange().Subscribe(func(buf channel.Buffer) {
		out.Set(in.Identity().ID, buf)
	})
	return nil
}
