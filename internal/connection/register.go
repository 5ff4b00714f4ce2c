package connection

import (
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
)

// Register adds the "connection" and "multiconnection" standalone
// component types to registry.
func Register(registry *component.Registry) {
	registry.Register(component.CategoryStandalone, "connection",
		func(deps component.Deps, id string, props config.Node) (component.Component, error) {
			return New(deps, id, props)
		})
	registry.Register(component.CategoryStandalone, "multiconnection",
		func(deps component.Deps, id string, props config.Node) (component.Component, error) {
			return NewMultiConnection(deps, id, props)
		})
}
