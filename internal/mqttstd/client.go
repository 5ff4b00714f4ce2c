// Package mqttstd implements the MQTT standalone component (spec §6.4): a
// broker connection shared by the mqtt-subscribe input and mqtt-publish
// output, built on Eclipse Paho's autopaho connection manager, generalized
// from Home Assistant discovery to the plain publish/subscribe/will
// contract the component graph needs.
package mqttstd

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/logging"
)

// Handler receives one inbound message on a subscribed topic.
type Handler func(topic string, payload []byte)

// Client is the standalone MQTT component: other components depend on it
// by id and call Publish/Subscribe. Connection, reconnection and
// re-subscription on reconnect are handled internally by autopaho; inbound
// messages are rate-limited via golang.org/x/time/rate.
type Client struct {
	identity component.Identity
	logger   zerolog.Logger
	deps     component.Deps

	broker      *url.URL
	username    string
	password    string
	clientID    string
	willTopic   string
	limiter     *rate.Limiter

	mu   sync.Mutex
	cm   *autopaho.ConnectionManager
	subs map[string][]Handler
}

var _ iotype.Standalone = (*Client)(nil)

// New resolves {broker: string, username?: string, password?: string,
// clientId?: string, will?: string}. will names the topic that receives
// "YES" on connect and "NO" on abnormal disconnect (spec §6.4); if omitted
// no will/birth messages are published.
func New(deps component.Deps, id string, node config.Node) (component.Component, error) {
	brokerNode, err := node.Key("broker")
	if err != nil {
		return nil, err
	}
	brokerStr, err := config.As[string](brokerNode)
	if err != nil {
		return nil, err
	}
	broker, err := url.Parse(brokerStr)
	if err != nil {
		return nil, &config.TypeMismatchError{Path: brokerNode.Path(), Expected: "broker URL", Actual: err.Error()}
	}

	username := ""
	if node.Has("username") {
		n, _ := node.Key("username")
		username, err = config.As[string](n)
		if err != nil {
			return nil, err
		}
	}
	password := ""
	if node.Has("password") {
		n, _ := node.Key("password")
		password, err = config.As[string](n)
		if err != nil {
			return nil, err
		}
	}
	clientID := "schlazicontrol-" + id
	if node.Has("clientId") {
		n, _ := node.Key("clientId")
		clientID, err = config.As[string](n)
		if err != nil {
			return nil, err
		}
	}
	willTopic := ""
	if node.Has("will") {
		n, _ := node.Key("will")
		willTopic, err = config.As[string](n)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{
		identity:  component.Identity{Category: component.CategoryStandalone, Name: "mqtt", ID: id},
		logger:    logging.Named(deps.Logger(), id),
		deps:      deps,
		broker:    broker,
		username:  username,
		password:  password,
		clientID:  clientID,
		willTopic: willTopic,
		limiter:   rate.NewLimiter(rate.Limit(100), 100),
		subs:      make(map[string][]Handler),
	}
	deps.Ready().SubscribeOnce(func(struct{}) { go c.run(context.Background()) })
	return c, nil
}

func (c *Client) Identity() component.Identity { return c.identity }

// Subscribe registers handler for topic. If the connection manager already
// exists the topic is subscribed right away; every registered topic is
// subscribed again from this client's OnConnectionUp callback on each
// (re-)connect.
func (c *Client) Subscribe(topic string, handler Handler) {
	c.mu.Lock()
	c.subs[topic] = append(c.subs[topic], handler)
	cm := c.cm
	c.mu.Unlock()
	if cm != nil {
		c.subscribeTopic(context.Background(), cm, topic)
	}
}

// Publish sends payload to topic, retained when retain is true.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, retain bool) error {
	c.mu.Lock()
	cm := c.cm
	c.mu.Unlock()
	if cm == nil {
		return fmt.Errorf("mqttstd: %s not connected", c.identity.ID)
	}
	_, err := cm.Publish(ctx, &paho.Publish{Topic: topic, Payload: payload, QoS: 0, Retain: retain})
	return err
}

// run connects with automatic reconnection and blocks until ctx is
// canceled; it is launched once, on manager Ready, and runs for the
// lifetime of the process.
func (c *Client) run(ctx context.Context) {
	cfg := autopaho.ClientConfig{
		ServerUrls:      []*url.URL{c.broker},
		KeepAlive:       30,
		ConnectUsername: c.username,
		ConnectPassword: []byte(c.password),
		OnConnectionUp: func(cm *autopaho.ConnectionManager, _ *paho.Connack) {
			c.logger.Info().Str("broker", c.broker.String()).Msg("mqtt connected")
			c.deps.Metrics().SetMQTTConnected(c.identity.ID, true)
			c.mu.Lock()
			c.cm = cm
			topics := make([]string, 0, len(c.subs))
			for t := range c.subs {
				topics = append(topics, t)
			}
			c.mu.Unlock()
			publishCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			for _, topic := range topics {
				c.subscribeTopic(publishCtx, cm, topic)
			}
			if c.willTopic != "" {
				_, _ = cm.Publish(publishCtx, &paho.Publish{Topic: c.willTopic, Payload: []byte("YES"), QoS: 1, Retain: true})
			}
		},
		OnConnectError: func(err error) {
			c.logger.Warn().Err(err).Msg("mqtt connect error")
			c.deps.Metrics().SetMQTTConnected(c.identity.ID, false)
		},
		ClientConfig: paho.ClientConfig{
			ClientID: c.clientID,
		},
	}
	if c.willTopic != "" {
		cfg.WillMessage = &paho.WillMessage{Topic: c.willTopic, Payload: []byte("NO"), QoS: 1, Retain: true}
	}
	if c.broker.Scheme == "mqtts" || c.broker.Scheme == "ssl" {
		cfg.TlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	cm, err := autopaho.NewConnection(ctx, cfg)
	if err != nil {
		c.logger.Error().Err(err).Msg("mqtt connection setup failed")
		return
	}
	cm.AddOnPublishReceived(func(pr autopaho.PublishReceived) (bool, error) {
		if !c.limiter.Allow() {
			return true, nil
		}
		c.deps.Post(func() { c.dispatch(pr.Packet.Topic, pr.Packet.Payload) })
		return true, nil
	})
	<-ctx.Done()
	c.deps.Metrics().SetMQTTConnected(c.identity.ID, false)
	disconnectCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = cm.Disconnect(disconnectCtx)
}

func (c *Client) subscribeTopic(ctx context.Context, cm *autopaho.ConnectionManager, topic string) {
	if _, err := cm.Subscribe(ctx, &paho.Subscribe{
		Subscriptions: []paho.SubscribeOptions{{Topic: topic, QoS: 0}},
	}); err != nil {
		c.logger.Warn().Err(err).Str("topic", topic).Msg("mqtt subscribe failed")
	}
}

func (c *Client) dispatch(topic string, payload []byte) {
	c.mu.Lock()
	handlers := append([]Handler(nil), c.subs[topic]...)
	c.mu.Unlock()
	for _, h := range handlers {
		h(topic, payload)
	}
}

// Register adds the "mqtt" standalone component type to registry.
func Register(registry *component.Registry) {
	registry.Register(component.CategoryStandalone, "mqtt", New)
}
