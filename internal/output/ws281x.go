package output

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/logging"
	"github.com/lordjaxom/schlazicontrol/internal/ws281x"
)

// Ws281x drives one addressable LED strip through the forked helper
// process described in spec §6.3: every buffer it receives is interpreted
// as a ColorBuffer (3 channels per pixel) and forwarded to a ws281x.Link.
type Ws281x struct {
	identity component.Identity
	link     *ws281x.Link
	leds     int
}

var _ iotype.Output = (*Ws281x)(nil)

// NewWs281x resolves {input, leds: int, host?: string (default
// "localhost"), port?: int (default 9999), gamma?: number (default 2.5),
// fork?: bool (default true), helperPath?: string (default
// "schlazicontrol-ws281x")}.
func NewWs281x(deps component.Deps, id string, node config.Node) (component.Component, error) {
	ledsNode, err := node.Key("leds")
	if err != nil {
		return nil, err
	}
	leds, err := config.As[int](ledsNode)
	if err != nil {
		return nil, err
	}

	host := "localhost"
	if node.Has("host") {
		n, err := node.Key("host")
		if err != nil {
			return nil, err
		}
		host, err = config.As[string](n)
		if err != nil {
			return nil, err
		}
	}
	port := 9999
	if node.Has("port") {
		n, err := node.Key("port")
		if err != nil {
			return nil, err
		}
		port, err = config.As[int](n)
		if err != nil {
			return nil, err
		}
	}
	gammaValue := 2.5
	if node.Has("gamma") {
		n, err := node.Key("gamma")
		if err != nil {
			return nil, err
		}
		gammaValue, err = config.As[float64](n)
		if err != nil {
			return nil, err
		}
	}
	fork := true
	if node.Has("fork") {
		n, err := node.Key("fork")
		if err != nil {
			return nil, err
		}
		fork, err = config.As[bool](n)
		if err != nil {
			return nil, err
		}
	}
	helperPath := "schlazicontrol-ws281x"
	if node.Has("helperPath") {
		n, err := node.Key("helperPath")
		if err != nil {
			return nil, err
		}
		helperPath, err = config.As[string](n)
		if err != nil {
			return nil, err
		}
	}

	logger := logging.Named(deps.Logger(), id)
	link := ws281x.NewLink(deps.Ready(), logger, host, port, channel.NewGammaTable(gammaValue, 1))

	if fork {
		deps.Declare(component.ForkRequest{
			Name: "ws281x-helper:" + id,
			Run:  ws281x.NewHelperProcess(helperPath, port, leds).Run,
		})
	}

	w := &Ws281x{
		identity: component.Identity{Category: component.CategoryOutput, Name: "ws281x", ID: id},
		link:     link,
		leds:     leds,
	}
	if err := bindSingleInput(deps, w, node); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Ws281x) Identity() component.Identity { return w.identity }
func (w *Ws281x) Accepts(n int) bool           { return n == w.leds*3 }

func (w *Ws281x) Set(_ string, buf channel.Buffer) {
	w.link.Send(channel.NewColorBuffer(buf))
}
