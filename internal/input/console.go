package input

import (
	"bufio"
	"os"

	"github.com/rs/zerolog"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/logging"
)

// Console is the shared stdin line reader every console input registers
// against by tag: one line "tag\n" toggles that tag's device. It unifies
// what were two overlapping modules in the original into a single
// subsystem.
type Console struct {
	identity component.Identity
	logger   zerolog.Logger
	devices  map[string]*ConsoleDevice
}

var _ iotype.Standalone = (*Console)(nil)

// NewConsole starts reading stdin lines once deps.Ready fires; each toggle
// is posted to the reactor goroutine.
func NewConsole(deps component.Deps, id string, _ config.Node) (component.Component, error) {
	c := &Console{
		identity: component.Identity{Category: component.CategoryStandalone, Name: "console", ID: id},
		logger:   logging.Named(deps.Logger(), id),
		devices:  make(map[string]*ConsoleDevice),
	}
	deps.Ready().SubscribeOnce(func(struct{}) { go c.run(deps.Post) })
	return c, nil
}

func (c *Console) Identity() component.Identity { return c.identity }

func (c *Console) run(post func(func())) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		tag := scanner.Text()
		device, ok := c.devices[tag]
		if !ok {
			c.logger.Warn().Str("tag", tag).Msg("unknown console tag")
			continue
		}
		post(device.Toggle)
	}
	if err := scanner.Err(); err != nil {
		c.logger.Error().Err(err).Msg("console read failed")
	}
}

func (c *Console) add(device *ConsoleDevice)    { c.devices[device.tag] = device }
func (c *Console) remove(device *ConsoleDevice) { delete(c.devices, device.tag) }

// ConsoleDevice is one tag registered against a Console: Toggle flips its
// boolean state and fires Change.
type ConsoleDevice struct {
	console *Console
	tag     string
	value   bool
	change  events.Event[bool]
}

// NewConsoleDevice registers tag against console.
func NewConsoleDevice(console *Console, tag string) *ConsoleDevice {
	d := &ConsoleDevice{console: console, tag: tag}
	console.add(d)
	return d
}

func (d *ConsoleDevice) Tag() string { return d.tag }

func (d *ConsoleDevice) Toggle() {
	d.value = !d.value
	d.change.Fire(d.value)
}

func (d *ConsoleDevice) ChangeEvent() *events.Event[bool] { return &d.change }

// ConsoleInput fires InputChange whenever its console device toggles.
type ConsoleInput struct {
	identity    component.Identity
	device      *ConsoleDevice
	inputChange events.Event[channel.Buffer]
}

var _ iotype.Input = (*ConsoleInput)(nil)

// NewConsoleInput resolves {console: Console, tag: string}.
func NewConsoleInput(deps component.Deps, id string, node config.Node) (component.Component, error) {
	consoleNode, err := node.Key("console")
	if err != nil {
		return nil, err
	}
	console, err := component.Get[*Console](deps, id, consoleNode)
	if err != nil {
		return nil, err
	}
	tagNode, err := node.Key("tag")
	if err != nil {
		return nil, err
	}
	tag, err := config.As[string](tagNode)
	if err != nil {
		return nil, err
	}

	ci := &ConsoleInput{
		identity: component.Identity{Category: component.CategoryInput, Name: "console", ID: id},
		device:   NewConsoleDevice(console, tag),
	}
	ci.device.ChangeEvent().Subscribe(func(value bool) {
		ci.inputChange.Fire(channel.NewSimpleFrom([]channel.Value{channel.FromBool(value)}))
	})
	return ci, nil
}

func (c *ConsoleInput) Identity() component.Identity { return c.identity }
func (c *ConsoleInput) Emits() int                   { return 1 }

func (c *ConsoleInput) InputChange() *events.Event[channel.Buffer] { return &c.inputChange }
