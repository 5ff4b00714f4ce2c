package output

import (
	"github.com/lordjaxom/schlazicontrol/internal/component"
)

// Register adds every output type to registry.
func Register(registry *component.Registry) {
	registry.Register(component.CategoryOutput, "debug", NewDebug)
	registry.Register(component.CategoryOutput, "console", NewConsole)
	registry.Register(component.CategoryOutput, "softPwm", NewPwm)
	registry.Register(component.CategoryOutput, "homebridge", NewHomebridge)
	registry.Register(component.CategoryOutput, "mqtt", NewMqtt)
	registry.Register(component.CategoryOutput, "ws281x", NewWs281x)
}
