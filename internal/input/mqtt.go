package input

import (
	"fmt"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/mqttstd"
)

// Mqtt fires InputChange whenever its subscribed topic receives a message,
// interpreting the payload as a bare channel-percentage number ("0".."100")
// or "on"/"off".
type Mqtt struct {
	identity    component.Identity
	inputChange events.Event[channel.Buffer]
}

var _ iotype.Input = (*Mqtt)(nil)

// NewMqtt resolves {mqtt: Client, topic: string}.
func NewMqtt(deps component.Deps, id string, node config.Node) (component.Component, error) {
	clientNode, err := node.Key("mqtt")
	if err != nil {
		return nil, err
	}
	client, err := component.Get[*mqttstd.Client](deps, id, clientNode)
	if err != nil {
		return nil, err
	}
	topicNode, err := node.Key("topic")
	if err != nil {
		return nil, err
	}
	topic, err := config.As[string](topicNode)
	if err != nil {
		return nil, err
	}

	m := &Mqtt{
		identity: component.Identity{Category: component.CategoryInput, Name: "mqtt", ID: id},
	}
	client.Subscribe(topic, func(_ string, payload []byte) {
		v, ok := parsePayload(string(payload))
		if !ok {
			return
		}
		m.inputChange.Fire(channel.NewSimpleFrom([]channel.Value{v}))
	})
	return m, nil
}

func (m *Mqtt) Identity() component.Identity { return m.identity }
func (m *Mqtt) Emits() int                   { return 1 }

func (m *Mqtt) InputChange() *events.Event[channel.Buffer] { return &m.inputChange }

func parsePayload(s string) (channel.Value, bool) {
	switch s {
	case "on", "ON", "true":
		return channel.FullOn(), true
	case "off", "OFF", "false":
		return channel.Off(), true
	}
	var f float64
	n, err := fmt.Sscan(s, &f)
	if err != nil || n != 1 {
		return 0, false
	}
	return channel.New(f), true
}
