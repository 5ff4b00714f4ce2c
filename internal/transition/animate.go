package transition

import (
	"math"
	"time"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// animator computes one animation frame into out given elapsed seconds since
// the previous frame, keeping whatever per-instance state it needs in data.
type animator interface {
	newData() any
	animate(out channel.ColorBuffer, data any, elapsed float64)
}

// Animate redraws its output continuously, as long as any input channel is
// on, via an animator implementation; it goes idle (and unsubscribes from
// poll) the moment every input channel reads off.
type Animate struct {
	identity component.Identity
	deps     component.Deps
	animator animator
}

var _ iotype.Transition = (*Animate)(nil)

func (a *Animate) Identity() component.Identity { return a.identity }
func (a *Animate) Accepts(n int) bool            { return n%3 == 0 }
func (a *Animate) Emits(n int) int               { return n }

func (a *Animate) Instantiate() iotype.TransitionInstance {
	return &animateInstance{animate: a, pollScope: events.NewScope(events.Connection{})}
}

type animateInstance struct {
	animate *Animate

	output    *channel.Simple
	data      any
	polling   bool
	elapsed   float64
	pollScope *events.Scope
}

// Transform mirrors the original's Scoped-guarded transform: the returned
// buffer is always state.output, and polling is always cleared on exit,
// regardless of which path below was taken.
func (ai *animateInstance) Transform(conn iotype.Connection, buf channel.Buffer) (result channel.Buffer) {
	if ai.data == nil {
		ai.data = ai.animate.animator.newData()
	}
	if ai.output == nil {
		ai.output = channel.NewSimple(buf.Size())
	}

	defer func() {
		result = ai.output
		ai.polling = false
	}()

	anyOn := false
	for _, v := range buf.Values() {
		if v.On() {
			anyOn = true
			break
		}
	}
	if !anyOn {
		ai.output.Fill(channel.Off())
		ai.pollScope.Close()
		return
	}

	ai.animate.animator.animate(channel.NewColorBuffer(ai.output), ai.data, ai.elapsed)

	if !ai.polling {
		ai.pollScope.Reset(ai.animate.deps.Poll().Subscribe(func(elapsed time.Duration) {
			ai.polling = true
			ai.elapsed = elapsed.Seconds()
			conn.Retransfer()
		}))
	}
	return
}

// cyclicIncrement/cyclicDecrement wrap value into [0, 1), matching the
// original's free functions of the same name.
func cyclicIncrement(value, increment float64) float64 {
	value += increment
	for value >= 1.0 {
		value -= 1.0
	}
	return value
}

func cyclicDecrement(value, decrement float64) float64 {
	value -= decrement
	for value < 0.0 {
		value += 1.0
	}
	return value
}

// wavesData is the per-connection state threaded between animate() calls.
type wavesData struct {
	brightnessOffset float64
	colorOffset      float64
}

// wavesAnimator sweeps a sine-modulated brightness and a colorwheel hue
// across the pixel strip.
type wavesAnimator struct {
	colorRange  float64
	colorSpeed  float64
	pulseRange  float64
	pulseSpeed  float64
	minBright   float64
	maxBright   float64
	colorwheel  *channel.Colorwheel
}

func (w *wavesAnimator) newData() any { return &wavesData{} }

func (w *wavesAnimator) animate(out channel.ColorBuffer, data any, elapsed float64) {
	d := data.(*wavesData)

	brightnessIndex := d.brightnessOffset
	colorIndex := d.colorOffset

	n := out.Len()
	for i := 0; i < n; i++ {
		brightness := math.Sin(brightnessIndex*6.283)*(w.maxBright-w.minBright) + w.minBright
		color := w.colorwheel.Get(int(colorIndex * 255.0))
		out.Set(i, scaleColor(color, brightness))

		if n > 0 {
			brightnessIndex = cyclicIncrement(brightnessIndex, w.pulseRange/float64(n))
			colorIndex = cyclicIncrement(colorIndex, w.colorRange/float64(n))
		}
	}

	d.brightnessOffset = cyclicDecrement(d.brightnessOffset, w.pulseSpeed*elapsed)
	d.colorOffset = cyclicIncrement(d.colorOffset, w.colorSpeed*elapsed)
}

// NewAnimateWaves resolves {colorRange?: float(1.0), colorSpeed: float,
// pulseRange?: float(1.0), pulseSpeed: float, minBright: float, maxBright: float}.
func NewAnimateWaves(deps component.Deps, id string, node config.Node) (component.Component, error) {
	colorRange, err := optionalFloat(node, "colorRange", 1.0)
	if err != nil {
		return nil, err
	}
	colorSpeed, err := requiredFloat(node, "colorSpeed")
	if err != nil {
		return nil, err
	}
	pulseRange, err := optionalFloat(node, "pulseRange", 1.0)
	if err != nil {
		return nil, err
	}
	pulseSpeed, err := requiredFloat(node, "pulseSpeed")
	if err != nil {
		return nil, err
	}
	minBright, err := requiredFloat(node, "minBright")
	if err != nil {
		return nil, err
	}
	maxBright, err := requiredFloat(node, "maxBright")
	if err != nil {
		return nil, err
	}
	return &Animate{
		identity: component.Identity{Category: component.CategoryTransition, Name: "waves", ID: id},
		deps:     deps,
		animator: &wavesAnimator{
			colorRange: colorRange,
			colorSpeed: colorSpeed,
			pulseRange: pulseRange,
			pulseSpeed: pulseSpeed,
			minBright:  minBright,
			maxBright:  maxBright,
			colorwheel: channel.NewColorwheel(256),
		},
	}, nil
}

func requiredFloat(node config.Node, key string) (float64, error) {
	n, err := node.Key(key)
	if err != nil {
		return 0, err
	}
	return config.As[float64](n)
}

func optionalFloat(node config.Node, key string, def float64) (float64, error) {
	if !node.Has(key) {
		return def, nil
	}
	return requiredFloat(node, key)
}
