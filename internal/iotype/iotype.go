// Package iotype declares the capability contracts (Input, Output,
// Transition) that a Component may satisfy. These are ordinary Go
// interfaces: "does this component provide capability T" is a plain type
// assertion, the idiomatic replacement for the original's virtual-dispatch
// polymorphism.
package iotype

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/events"
)

// Input produces channel-value changes. InputChange fires on every state
// change, carrying the new buffer.
type Input interface {
	component.Component
	Emits() int
	InputChange() *events.Event[channel.Buffer]
}

// Output consumes channel buffers. Accepts reports whether the output can
// take a buffer of size n; Set delivers one from a named input (by input
// id, to support the multi-input fan-in variant).
type Output interface {
	component.Component
	Accepts(n int) bool
	Set(inputID string, buf channel.Buffer)
}

// Transition describes channel-count composition and builds per-connection
// instances.
type Transition interface {
	component.Component
	Accepts(n int) bool
	Emits(n int) int
	Instantiate() TransitionInstance
}

// Connection is the non-owning handle a TransitionInstance receives at
// transform time: it lets time-driven transitions (fade, animate, triggers)
// replay the last input value on their own schedule.
type Connection interface {
	Retransfer()
}

// TransitionInstance carries per-connection mutable state for one
// transition and transforms a buffer in place along the connection.
type TransitionInstance interface {
	Transform(conn Connection, buf channel.Buffer) channel.Buffer
}

// Standalone components participate as collaborators (broker client,
// hardware bus owner) without emitting or accepting channels directly.
type Standalone interface {
	component.Component
}
