package output

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/gpiohw"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// Pwm drives one GPIO pin per channel via software PWM, scaling each
// channel value (0..100) directly onto the pin's duty cycle.
type Pwm struct {
	identity component.Identity
	device   gpiohw.Device
	pins     []uint16
}

var _ iotype.Output = (*Pwm)(nil)

// NewPwm resolves {input, gpioPins: [int]}.
func NewPwm(deps component.Deps, id string, node config.Node) (component.Component, error) {
	pinsNode, err := node.Key("gpioPins")
	if err != nil {
		return nil, err
	}
	pinNodes, err := pinsNode.Iter()
	if err != nil {
		return nil, err
	}
	pins := make([]uint16, len(pinNodes))
	for i, pn := range pinNodes {
		v, err := config.As[int](pn)
		if err != nil {
			return nil, err
		}
		pins[i] = uint16(v)
	}

	device := gpiohw.NewSysfsDevice(deps.Ready())
	for _, pin := range pins {
		device.PinMode(pin, gpiohw.ModeOutput)
		device.SoftPwmCreate(pin)
	}

	p := &Pwm{
		identity: component.Identity{Category: component.CategoryOutput, Name: "softPwm", ID: id},
		device:   device,
		pins:     pins,
	}
	if err := bindSingleInput(deps, p, node); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pwm) Identity() component.Identity { return p.identity }
func (p *Pwm) Accepts(n int) bool           { return n == len(p.pins) }

func (p *Pwm) Set(_ string, buf channel.Buffer) {
	values := buf.Values()
	for i, pin := range p.pins {
		if i >= len(values) {
			break
		}
		p.device.SoftPwmWrite(pin, uint16(values[i].Get()))
	}
}
