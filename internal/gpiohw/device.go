package gpiohw

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lordjaxom/schlazicontrol/internal/events"
)

// pendingOp is one queued pin-setup call, applied once on Ready — mirroring
// the original's readyEvent().subscribe(..., true) one-shot registration so
// every component can declare its pins during construction, before the
// underlying hardware interface is touched exactly once.
type pendingOp func() error

// SysfsDevice implements Device via the Linux GPIO sysfs interface
// (/sys/class/gpio), which needs no CGo binding and no third-party driver:
// every operation is plain file I/O. Software PWM is approximated with a
// ticker goroutine toggling the pin at the requested duty cycle.
type SysfsDevice struct {
	ready  *events.Event[struct{}]
	queued []pendingOp
	pwm    map[uint16]chan uint16
}

// NewSysfsDevice builds a device that defers every pin operation until
// ready fires, matching the original's "touch the hardware library exactly
// once, after every component has registered" ordering.
func NewSysfsDevice(ready *events.Event[struct{}]) *SysfsDevice {
	d := &SysfsDevice{ready: ready, pwm: make(map[uint16]chan uint16)}
	ready.SubscribeOnce(func(struct{}) { d.apply() })
	return d
}

func (d *SysfsDevice) apply() {
	for _, op := range d.queued {
		if err := op(); err != nil {
			fmt.Fprintf(os.Stderr, "gpiohw: %v\n", err)
		}
	}
	d.queued = nil
}

func (d *SysfsDevice) PinMode(pin uint16, mode Mode) {
	d.queued = append(d.queued, func() error { return exportAndDirection(pin, mode) })
}

func (d *SysfsDevice) PullUpDnControl(uint16, Pull) {
	// sysfs exposes no pull-resistor control; boards that need it configure
	// pull via a device-tree overlay outside this process.
}

func (d *SysfsDevice) SoftPwmCreate(pin uint16) {
	d.queued = append(d.queued, func() error {
		if err := exportAndDirection(pin, ModeOutput); err != nil {
			return err
		}
		ch := make(chan uint16, 1)
		d.pwm[pin] = ch
		go runSoftPwm(pin, ch)
		return nil
	})
}

func (d *SysfsDevice) DigitalRead(pin uint16) bool {
	data, err := os.ReadFile(gpioPath(pin, "value"))
	if err != nil {
		return false
	}
	return len(data) > 0 && data[0] == '1'
}

func (d *SysfsDevice) SoftPwmWrite(pin uint16, value uint16) {
	if ch, ok := d.pwm[pin]; ok {
		select {
		case ch <- value:
		default:
			// drop the stale duty-cycle update rather than block the reactor
			<-ch
			ch <- value
		}
	}
}

func gpioPath(pin uint16, leaf string) string {
	return filepath.Join("/sys/class/gpio", fmt.Sprintf("gpio%d", pin), leaf)
}

func exportAndDirection(pin uint16, mode Mode) error {
	if _, err := os.Stat(gpioPath(pin, "value")); os.IsNotExist(err) {
		if err := os.WriteFile("/sys/class/gpio/export", []byte(strconv.Itoa(int(pin))), 0644); err != nil {
			return fmt.Errorf("gpiohw: export pin %d: %w", pin, err)
		}
	}
	direction := "in"
	if mode == ModeOutput {
		direction = "out"
	}
	if err := os.WriteFile(gpioPath(pin, "direction"), []byte(direction), 0644); err != nil {
		return fmt.Errorf("gpiohw: set direction for pin %d: %w", pin, err)
	}
	return nil
}

// runSoftPwm toggles pin at a 100-step duty cycle over a fixed period,
// approximating wiringPi's softPwm without needing a timing-sensitive
// kernel driver.
func runSoftPwm(pin uint16, updates <-chan uint16) {
	const period = 20 * time.Millisecond
	const steps = 100

	duty := uint16(0)
	ticker := time.NewTicker(period / steps)
	defer ticker.Stop()

	step := 0
	for {
		select {
		case v, ok := <-updates:
			if !ok {
				return
			}
			duty = v
		case <-ticker.C:
			high := step < int(duty)
			writeValue(pin, high)
			step = (step + 1) % steps
		}
	}
}

func writeValue(pin uint16, high bool) {
	v := "0"
	if high {
		v = "1"
	}
	_ = os.WriteFile(gpioPath(pin, "value"), []byte(v), 0644)
}
