package output

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/logging"
	"github.com/lordjaxom/schlazicontrol/internal/mqttstd"
)

// Mqtt publishes every value it receives as a bare channel-percentage
// string ("0".."100") to one topic, the write-side counterpart of input's
// mqtt-subscribe component.
type Mqtt struct {
	identity component.Identity
	logger   zerolog.Logger
	client   *mqttstd.Client
	topic    string
	retain   bool
}

var _ iotype.Output = (*Mqtt)(nil)

// NewMqtt resolves {mqtt: Client, topic: string, retain?: bool, input}.
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
	retain := false
	if node.Has("retain") {
		n, _ := node.Key("retain")
		retain, err = config.As[bool](n)
		if err != nil {
			return nil, err
		}
	}

	m := &Mqtt{
		identity: component.Identity{Category: component.CategoryOutput, Name: "mqtt", ID: id},
		logger:   logging.Named(deps.Logger(), id),
		client:   client,
		topic:    topic,
		retain:   retain,
	}
	if err := bindSingleInput(deps, m, node); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mqtt) Identity() component.Identity { return m.identity }
func (m *Mqtt) Accepts(n int) bool           { return n == 1 }

func (m *Mqtt) Set(_ string, buf channel.Buffer) {
	payload := fmt.Sprintf("%g", buf.At(0).Get())
	if err := m.client.Publish(context.Background(), m.topic, []byte(payload), m.retain); err != nil {
		m.logger.Warn().Err(err).Str("topic", m.topic).Msg("mqtt publish failed")
	}
}
