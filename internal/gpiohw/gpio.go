// Package gpiohw wraps the GPIO pin operations gpio input/output components
// need behind a small capability interface. The actual pin access is
// hardware- and platform-specific (wiringPi on a Raspberry Pi); this package
// deliberately stays a thin black-box boundary so the rest of the component
// graph never depends on a particular GPIO backend.
package gpiohw

import "fmt"

// Mode is a GPIO pin's direction.
type Mode int

const (
	ModeInput Mode = iota
	ModeOutput
)

func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeOutput:
		return "output"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "input"/"output" in lower, title or upper case
// ("input", "Input", "INPUT"); other spellings are rejected.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "input", "Input", "INPUT":
		return ModeInput, nil
	case "output", "Output", "OUTPUT":
		return ModeOutput, nil
	default:
		return 0, fmt.Errorf("gpiohw: invalid mode %q", s)
	}
}

// Pull is a GPIO pin's internal pull resistor configuration.
type Pull int

const (
	PullOff Pull = iota
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullOff:
		return "off"
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return fmt.Sprintf("Pull(%d)", int(p))
	}
}

// ParsePull accepts "off"/"up"/"down", defaulting callers should pass "off".
func ParsePull(s string) (Pull, error) {
	switch s {
	case "off", "Off", "OFF":
		return PullOff, nil
	case "up", "Up", "UP":
		return PullUp, nil
	case "down", "Down", "DOWN":
		return PullDown, nil
	default:
		return 0, fmt.Errorf("gpiohw: invalid pull %q", s)
	}
}

// Device is the capability a gpio input/output component depends on: pin
// setup is deferred (queued) since the underlying library must only be
// touched once, after every component has registered its pins; reads and
// PWM writes happen at runtime once set up.
type Device interface {
	// PinMode schedules pin to be configured as mode once the device
	// initializes.
	PinMode(pin uint16, mode Mode)
	// PullUpDnControl schedules pin's pull resistor configuration.
	PullUpDnControl(pin uint16, pull Pull)
	// SoftPwmCreate schedules pin for software PWM output, range [0,100].
	SoftPwmCreate(pin uint16)

	// DigitalRead reads pin's current logic level.
	DigitalRead(pin uint16) bool
	// SoftPwmWrite sets pin's PWM duty cycle, range [0,100].
	SoftPwmWrite(pin uint16, value uint16)
}
