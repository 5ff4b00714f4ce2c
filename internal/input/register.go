// Package input implements the Input components: gpio, the console
// subsystem, mqtt-subscribe, and the manually-poked debug input.
package input

import (
	"github.com/lordjaxom/schlazicontrol/internal/component"
)

// Register adds every input type to registry.
func Register(registry *component.Registry) {
	registry.Register(component.CategoryInput, "gpio", NewGpio)
	registry.Register(component.CategoryStandalone, "console", NewConsole)
	registry.Register(component.CategoryInput, "console", NewConsoleInput)
	registry.Register(component.CategoryInput, "mqtt", NewMqtt)
	registry.Register(component.CategoryInput, "debug", NewDebug)
}
