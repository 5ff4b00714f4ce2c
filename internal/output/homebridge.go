package output

import (
	"github.com/google/uuid"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/homebridge"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// Homebridge drives one digital-home device: a single channel value is
// pushed to the bridge every time it changes, and the bridge's own sync
// requests are answered with the last value, per spec §6.5.
type Homebridge struct {
	identity component.Identity
	device   *homebridge.Device
}

var _ iotype.Output = (*Homebridge)(nil)

// NewHomebridge resolves {homebridge: Client, dsuid?: string, group: int,
// outputType?: string, dimmable?: bool, input}. dsuid defaults to a
// generated UUID when omitted, so a device config never needs to invent
// its own unique id.
func NewHomebridge(deps component.Deps, id string, node config.Node) (component.Component, error) {
	clientNode, err := node.Key("homebridge")
	if err != nil {
		return nil, err
	}
	client, err := component.Get[*homebridge.Client](deps, id, clientNode)
	if err != nil {
		return nil, err
	}
	dsuid := uuid.NewString()
	if node.Has("dsuid") {
		n, err := node.Key("dsuid")
		if err != nil {
			return nil, err
		}
		dsuid, err = config.As[string](n)
		if err != nil {
			return nil, err
		}
	}
	groupNode, err := node.Key("group")
	if err != nil {
		return nil, err
	}
	group, err := config.As[int](groupNode)
	if err != nil {
		return nil, err
	}
	outputType := ""
	if node.Has("outputType") {
		n, _ := node.Key("outputType")
		outputType, err = config.As[string](n)
		if err != nil {
			return nil, err
		}
	}
	dimmable := false
	if node.Has("dimmable") {
		n, _ := node.Key("dimmable")
		dimmable, err = config.As[bool](n)
		if err != nil {
			return nil, err
		}
	}

	h := &Homebridge{
		identity: component.Identity{Category: component.CategoryOutput, Name: "homebridge", ID: id},
	}
	h.device = homebridge.NewDevice(client, id, dsuid, group, outputType, dimmable)
	if err := bindSingleInput(deps, h, node); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Homebridge) Identity() component.Identity { return h.identity }
func (h *Homebridge) Accepts(n int) bool           { return n == 1 }

func (h *Homebridge) Set(_ string, buf channel.Buffer) {
	h.device.Set(buf.At(0).Get())
}
