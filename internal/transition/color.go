package transition

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
)

// colorPainter computes the pixel colors of one transform call; pixelCount
// is the input channel count n (one pixel per input channel, emitting 3n).
type colorPainter interface {
	paint(out channel.ColorBuffer, in channel.Buffer, pixelCount int)
}

// colorTransition is shared by Fill and Gradient: both accept any channel
// count and emit 3n, building a fresh buffer and ColorBuffer view per
// transform call.
type colorTransition struct {
	identity component.Identity
	painter  colorPainter
}

var _ iotype.Transition = (*colorTransition)(nil)

func (c *colorTransition) Identity() component.Identity { return c.identity }
func (c *colorTransition) Accepts(int) bool             { return true }
func (c *colorTransition) Emits(n int) int              { return n * 3 }

func (c *colorTransition) Instantiate() iotype.TransitionInstance {
	return colorInstance{painter: c.painter}
}

type colorInstance struct {
	painter colorPainter
}

func (ci colorInstance) Transform(_ iotype.Connection, buf channel.Buffer) channel.Buffer {
	n := buf.Size()
	out := channel.NewSimple(n * 3)
	colorBuf := channel.NewColorBuffer(out)
	ci.painter.paint(colorBuf, buf, n)
	return out
}

// Fill scales one configured color by each input channel's value.
type fillPainter struct {
	color config.RGB
}

func (p fillPainter) paint(out channel.ColorBuffer, in channel.Buffer, n int) {
	for i := 0; i < n; i++ {
		factor := in.At(i).Scale(0, 1)
		out.Set(i, scaleColor(uint32(p.color), factor))
	}
}

// NewFill resolves {color: RGB}.
func NewFill(_ component.Deps, id string, node config.Node) (component.Component, error) {
	colorNode, err := node.Key("color")
	if err != nil {
		return nil, err
	}
	rgb, err := config.As[config.RGB](colorNode)
	if err != nil {
		return nil, err
	}
	return &colorTransition{
		identity: component.Identity{Category: component.CategoryTransition, Name: "fill", ID: id},
		painter:  fillPainter{color: rgb},
	}, nil
}

// Gradient linearly interpolates between two colors across the pixel
// count, each pixel additionally scaled by its input channel's value.
type gradientPainter struct {
	start, end config.RGB
}

func (p gradientPainter) paint(out channel.ColorBuffer, in channel.Buffer, n int) {
	sr, sg, sb := channel.RGB(uint32(p.start))
	er, eg, eb := channel.RGB(uint32(p.end))
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := lerp(sr, er, t)
		g := lerp(sg, eg, t)
		b := lerp(sb, eb, t)
		factor := in.At(i).Scale(0, 1)
		out.Set(i, scaleColor(channel.PackRGB(r, g, b), factor))
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

func scaleColor(color uint32, factor float64) uint32 {
	r, g, b := channel.RGB(color)
	return channel.PackRGB(
		uint8(float64(r)*factor+0.5),
		uint8(float64(g)*factor+0.5),
		uint8(float64(b)*factor+0.5),
	)
}

// NewGradient resolves {start: RGB, end: RGB}.
func NewGradient(_ component.Deps, id string, node config.Node) (component.Component, error) {
	startNode, err := node.Key("start")
	if err != nil {
		return nil, err
	}
	start, err := config.As[config.RGB](startNode)
	if err != nil {
		return nil, err
	}
	endNode, err := node.Key("end")
	if err != nil {
		return nil, err
	}
	end, err := config.As[config.RGB](endNode)
	if err != nil {
		return nil, err
	}
	return &colorTransition{
		identity: component.Identity{Category: component.CategoryTransition, Name: "gradient", ID: id},
		painter:  gradientPainter{start: start, end: end},
	}, nil
}
