package homebridge

import "sync"

// Device is one bridge-side endpoint: a named, grouped output with an
// optional dimmable output type, mirroring VdcdDevice. Its tag is assigned
// by Client.add and resent on every reconnect, so it stays stable only for
// the lifetime of the process, the same constraint the original accepted.
type Device struct {
	client     *Client
	tag        int
	name       string
	dsuid      string
	group      int
	outputType string
	dimmable   bool

	mu    sync.Mutex
	value float64
}

// NewDevice registers a device with client and returns its handle. name
// identifies the owning output component, dsuid is the digital-home unique
// id, group is the controller's zone/group number, and outputType/dimmable
// describe the actuator (empty outputType omits both from the init message).
func NewDevice(client *Client, name, dsuid string, group int, outputType string, dimmable bool) *Device {
	d := &Device{
		client:     client,
		name:       name,
		dsuid:      dsuid,
		group:      group,
		outputType: outputType,
		dimmable:   dimmable,
	}
	client.add(d)
	return d
}

// Get returns the device's last known value (0..100).
func (d *Device) Get() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Set updates the device's value and, if changed, pushes it to the bridge
// via the channel/synced sequence, the client push path in spec §6.5.
func (d *Device) Set(value float64) {
	d.mu.Lock()
	changed := d.value != value
	d.value = value
	d.mu.Unlock()
	if changed {
		d.client.push(d)
	}
}

// received handles a server-initiated "channel" message, recording the
// pushed value without re-triggering a client push back at the server.
func (d *Device) received(value float64) {
	d.mu.Lock()
	d.value = value
	d.mu.Unlock()
}
