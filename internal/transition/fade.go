package transition

import (
	"time"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// Fade advances its output toward the most recent input value at a rate
// proportional to speed, driven by the manager's poll tick.
type Fade struct {
	identity component.Identity
	deps     component.Deps
	speed    time.Duration
}

var _ iotype.Transition = (*Fade)(nil)

// NewFade resolves {speed: duration}.
func NewFade(deps component.Deps, id string, node config.Node) (component.Component, error) {
	speedNode, err := node.Key("speed")
	if err != nil {
		return nil, err
	}
	speed, err := config.As[time.Duration](speedNode)
	if err != nil {
		return nil, err
	}
	return &Fade{
		identity: component.Identity{Category: component.CategoryTransition, Name: "fade", ID: id},
		deps:     deps,
		speed:    speed,
	}, nil
}

func (f *Fade) Identity() component.Identity { return f.identity }
func (f *Fade) Accepts(int) bool             { return true }
func (f *Fade) Emits(n int) int              { return n }

func (f *Fade) Instantiate() iotype.TransitionInstance {
	return &fadeInstance{fade: f, pollScope: events.NewScope(events.Connection{})}
}

// fadeState mirrors the original's per-connection state directly: output is
// the currently emitted buffer, target the most recently received input,
// deltas the signed per-channel distance still to cover, and factor the
// fraction of speed elapsed on the most recent tick.
type fadeInstance struct {
	fade *Fade

	output      []channel.Value
	target      []channel.Value
	deltas      []float64
	factor      float64
	deltasKnown bool
	pollScope   *events.Scope
}

// Transform is re-entrant from both an input change and a tick. deltasKnown
// is read at entry and unconditionally reset to false on exit. A tick sets it
// true and immediately triggers a retransfer, so that retransfer reuses the
// existing deltas and only advances the output; every other entry (an input
// change) recomputes the deltas — matching the original's
// scope-guard-reset dance.
func (fi *fadeInstance) Transform(conn iotype.Connection, buf channel.Buffer) (result channel.Buffer) {
	incoming := append([]channel.Value(nil), buf.Values()...)

	if len(fi.output) == 0 {
		fi.output = make([]channel.Value, len(incoming))
		fi.deltas = make([]float64, len(incoming))
	}

	deltasKnownAtEntry := fi.deltasKnown
	defer func() {
		result = channel.NewSimpleFrom(append([]channel.Value(nil), fi.output...))
		fi.deltasKnown = false
	}()

	fi.target = incoming

	changed := false
	if !deltasKnownAtEntry {
		changed = fi.calculateDeltas()
	}
	if fi.calculateOutput() {
		changed = true
	}

	if !changed {
		fi.pollScope.Close()
		return
	}

	if !deltasKnownAtEntry {
		fi.pollScope.Reset(fi.fade.deps.Poll().Subscribe(func(elapsed time.Duration) {
			fi.deltasKnown = true
			fi.factor = float64(elapsed) / float64(fi.fade.speed)
			conn.Retransfer()
		}))
	}
	return
}

func (fi *fadeInstance) calculateDeltas() bool {
	changed := false
	for i := range fi.target {
		delta := fi.target[i].Get() - fi.output[i].Get()
		if delta < 0 {
			delta = -delta
		}
		if delta > 0 {
			changed = true
		}
		fi.deltas[i] = fi.target[i].Get() - fi.output[i].Get()
	}
	return changed
}

func (fi *fadeInstance) calculateOutput() bool {
	changed := false
	factor := fi.factor
	for i := range fi.output {
		delta := fi.deltas[i]
		target := fi.target[i].Get()
		result := fi.output[i].Get() + factor*delta
		if (delta > 0 && result > target) || (delta < 0 && result < target) {
			result = target
		}
		if result != fi.output[i].Get() {
			changed = true
		}
		fi.output[i] = channel.New(result)
	}
	return changed
}
