package input

import (
	"time"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/gpiohw"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// Gpio polls one GPIO pin on every tick and fires InputChange when its
// level flips.
type Gpio struct {
	identity    component.Identity
	device      gpiohw.Device
	pin         uint16
	value       bool
	inputChange events.Event[channel.Buffer]
}

var _ iotype.Input = (*Gpio)(nil)

// NewGpio resolves {gpioPin: int, pull?: "off"|"up"|"down" (default "off")}.
func NewGpio(deps component.Deps, id string, node config.Node) (component.Component, error) {
	pinNode, err := node.Key("gpioPin")
	if err != nil {
		return nil, err
	}
	pin, err := config.As[int](pinNode)
	if err != nil {
		return nil, err
	}

	pullStr := "off"
	if node.Has("pull") {
		pullNode, _ := node.Key("pull")
		pullStr, err = config.As[string](pullNode)
		if err != nil {
			return nil, err
		}
	}
	pull, err := gpiohw.ParsePull(pullStr)
	if err != nil {
		return nil, err
	}

	device := gpiohw.NewSysfsDevice(deps.Ready())
	device.PinMode(uint16(pin), gpiohw.ModeInput)
	device.PullUpDnControl(uint16(pin), pull)

	g := &Gpio{
		identity: component.Identity{Category: component.CategoryInput, Name: "gpio", ID: id},
		device:   device,
		pin:      uint16(pin),
	}
	deps.Poll().Subscribe(func(time.Duration) { g.poll() })
	return g, nil
}

func (g *Gpio) Identity() component.Identity { return g.identity }
func (g *Gpio) Emits() int                   { return 1 }

func (g *Gpio) InputChange() *events.Event[channel.Buffer] { return &g.inputChange }

func (g *Gpio) poll() {
	last := g.value
	g.value = g.device.DigitalRead(g.pin)
	if last != g.value {
		g.inputChange.Fire(channel.NewSimpleFrom([]channel.Value{channel.FromBool(g.value)}))
	}
}
