// Package homebridge implements the digital-home device bridge client
// (spec §6.5): a line-delimited JSON TCP connection to a home-automation
// controller, following the MQTT standalone-plus-collaborator shape used
// elsewhere in this tree and original_source/vdcd.cpp's handshake/channel/
// sync protocol.
package homebridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/logging"
)

const retryDelay = time.Second

// message is the shared envelope for every line of the protocol; unused
// fields are simply omitted by encoding/json on send.
type message struct {
	Message string `json:"message"`

	// init
	Name      string `json:"name,omitempty"`
	Tag       string `json:"tag,omitempty"`
	UniqueID  string `json:"uniqueid,omitempty"`
	Group     int    `json:"group,omitempty"`
	Sync      bool   `json:"sync,omitempty"`
	Output    string `json:"output,omitempty"`
	Dimmable  bool   `json:"dimmable,omitempty"`

	// status
	Status       string `json:"status,omitempty"`
	ErrorMessage string `json:"errormessage,omitempty"`

	// channel/sync/synced
	Index json.Number `json:"index,omitempty"`
	Value float64     `json:"value,omitempty"`
}

// Client is the standalone digital-home bridge component: other components
// register a Device against it by depending on its id, the same way
// VdcdDevice depended on Vdcd in the original. Only one TCP connection is
// ever open; devices survive reconnects, re-sent as the init handshake.
type Client struct {
	identity component.Identity
	logger   zerolog.Logger
	deps     component.Deps

	host string
	port string

	mu      sync.Mutex
	devices []*Device
	conn    net.Conn
}

var _ iotype.Standalone = (*Client)(nil)

// New resolves {host: string, port?: int (default 8999)}.
func New(deps component.Deps, id string, node config.Node) (component.Component, error) {
	hostNode, err := node.Key("host")
	if err != nil {
		return nil, err
	}
	host, err := config.As[string](hostNode)
	if err != nil {
		return nil, err
	}
	port := 8999
	if node.Has("port") {
		n, _ := node.Key("port")
		port, err = config.As[int](n)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{
		identity: component.Identity{Category: component.CategoryStandalone, Name: "homebridge", ID: id},
		logger:   logging.Named(deps.Logger(), id),
		deps:     deps,
		host:     host,
		port:     strconv.Itoa(port),
	}
	deps.Ready().SubscribeOnce(func(struct{}) { go c.connect(context.Background()) })
	return c, nil
}

func (c *Client) Identity() component.Identity { return c.identity }

// add registers device, assigning it the tag it keeps for the rest of its
// lifetime (its index into the device list, mirroring Vdcd::add).
func (c *Client) add(d *Device) {
	c.mu.Lock()
	d.tag = len(c.devices)
	c.devices = append(c.devices, d)
	c.mu.Unlock()
}

// push sends the client-push sequence (channel, then synced) for d's
// current value, reconnecting on failure rather than surfacing the error
// to the caller: I/O errors here are runtime, not construction-time.
func (c *Client) push(d *Device) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}
	tag := strconv.Itoa(d.tag)
	if err := c.send(conn, message{Message: "channel", Tag: tag, Index: json.Number("0"), Value: d.Get()}); err != nil {
		c.logger.Warn().Err(err).Msg("homebridge push failed")
		c.reconnect(conn)
		return
	}
	if err := c.send(conn, message{Message: "synced", Tag: tag}); err != nil {
		c.logger.Warn().Err(err).Msg("homebridge push failed")
		c.reconnect(conn)
	}
}

func (c *Client) connect(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		conn, err := net.Dial("tcp", net.JoinHostPort(c.host, c.port))
		if err != nil {
			c.logger.Warn().Err(err).Msg("homebridge connect failed")
			time.Sleep(retryDelay)
			continue
		}
		if !c.handshake(conn) {
			_ = conn.Close()
			time.Sleep(retryDelay)
			continue
		}
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.receive(ctx, conn)
		c.reconnect(conn)
		time.Sleep(retryDelay)
	}
}

func (c *Client) handshake(conn net.Conn) bool {
	c.mu.Lock()
	devices := append([]*Device(nil), c.devices...)
	c.mu.Unlock()

	for _, d := range devices {
		init := message{
			Message:  "init",
			Name:     d.name,
			Tag:      strconv.Itoa(d.tag),
			UniqueID: d.dsuid,
			Group:    d.group,
			Sync:     true,
		}
		if d.outputType != "" {
			init.Output = d.outputType
			init.Dimmable = d.dimmable
		}
		if err := c.send(conn, init); err != nil {
			c.logger.Error().Err(err).Msg("homebridge init failed")
			return false
		}
	}

	reader := bufio.NewReader(conn)
	var status message
	if err := c.receiveOne(reader, &status); err != nil {
		c.logger.Error().Err(err).Msg("homebridge init response failed")
		return false
	}
	if status.Message != "status" || status.Status != "ok" {
		c.logger.Error().Str("errormessage", status.ErrorMessage).Msg("homebridge rejected init")
		return false
	}
	c.logger.Info().Msg("homebridge connection established")
	return true
}

func (c *Client) receive(ctx context.Context, conn net.Conn) {
	reader := bufio.NewReader(conn)
	for {
		var msg message
		if err := c.receiveOne(reader, &msg); err != nil {
			return
		}
		c.deps.Post(func() { c.dispatch(conn, msg) })
	}
}

func (c *Client) dispatch(conn net.Conn, msg message) {
	switch msg.Message {
	case "channel":
		tag, err := strconv.Atoi(msg.Tag)
		if err != nil {
			return
		}
		c.mu.Lock()
		var d *Device
		if tag >= 0 && tag < len(c.devices) {
			d = c.devices[tag]
		}
		c.mu.Unlock()
		if d != nil {
			d.received(msg.Value)
		}
	case "sync":
		tag, err := strconv.Atoi(msg.Tag)
		if err != nil {
			return
		}
		c.mu.Lock()
		var d *Device
		if tag >= 0 && tag < len(c.devices) {
			d = c.devices[tag]
		}
		c.mu.Unlock()
		if d != nil {
			c.push(d)
		}
	default:
		c.logger.Error().Str("message", msg.Message).Msg("unexpected message from homebridge")
		_ = conn.Close()
	}
}

func (c *Client) send(conn net.Conn, msg message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = conn.Write(b)
	return err
}

func (c *Client) receiveOne(reader *bufio.Reader, msg *message) error {
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(line), msg); err != nil {
		return fmt.Errorf("homebridge: invalid JSON message: %w", err)
	}
	return nil
}

func (c *Client) reconnect(conn net.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

// Register adds the "homebridge" standalone component type to registry.
func Register(registry *component.Registry) {
	registry.Register(component.CategoryStandalone, "homebridge", New)
}
