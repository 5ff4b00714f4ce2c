// Package transition implements the stateless Transition descriptors and
// their per-connection TransitionInstance state machines: fade, the
// waves animator, fill/gradient color painters, and the channel-count
// transitions shift and multiply.
package transition

import (
	"github.com/lordjaxom/schlazicontrol/internal/component"
)

// Register adds every transition type to registry.
func Register(registry *component.Registry) {
	registry.Register(component.CategoryTransition, "fade", NewFade)
	registry.Register(component.CategoryTransition, "waves", NewAnimateWaves)
	registry.Register(component.CategoryTransition, "fill", NewFill)
	registry.Register(component.CategoryTransition, "gradient", NewGradient)
	registry.Register(component.CategoryTransition, "shift", NewShift)
	registry.Register(component.CategoryTransition, "multiply", NewMultiply)
	registry.Register(component.CategoryTransition, "triggers", NewTriggers)
}
