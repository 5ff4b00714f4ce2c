package config

import (
	"fmt"
	"strconv"
	"time"
)

// As converts n to T, failing with TypeMismatchError when the conversion is
// impossible. Supported T: bool, int, int64, float64, string, []string,
// []Node, time.Duration, and RGB (packed 24-bit color).
func As[T any](n Node) (T, error) {
	var zero T
	var result any
	var err error
	switch any(zero).(type) {
	case bool:
		result, err = n.asBool()
	case int:
		var i int64
		i, err = n.asInt()
		result = int(i)
	case int64:
		result, err = n.asInt()
	case float64:
		result, err = n.asFloat()
	case string:
		result, err = n.asString()
	case []string:
		result, err = n.asStringSlice()
	case []Node:
		result, err = n.Iter()
	case time.Duration:
		result, err = n.asDuration()
	case RGB:
		result, err = n.asRGB()
	default:
		err = &TypeMismatchError{Path: n.path, Expected: fmt.Sprintf("%T", zero), Actual: n.TypeName()}
	}
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// Is reports whether As[T] would succeed, never returning an error.
func Is[T any](n Node) bool {
	_, err := As[T](n)
	return err == nil
}

func (n Node) asBool() (bool, error) {
	b, ok := n.value.(bool)
	if !ok {
		return false, &TypeMismatchError{Path: n.path, Expected: "boolean", Actual: n.TypeName()}
	}
	return b, nil
}

func (n Node) asFloat() (float64, error) {
	f, ok := n.value.(float64)
	if !ok {
		return 0, &TypeMismatchError{Path: n.path, Expected: "number", Actual: n.TypeName()}
	}
	return f, nil
}

func (n Node) asInt() (int64, error) {
	f, err := n.asFloat()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func (n Node) asString() (string, error) {
	s, ok := n.value.(string)
	if !ok {
		return "", &TypeMismatchError{Path: n.path, Expected: "string", Actual: n.TypeName()}
	}
	return s, nil
}

func (n Node) asStringSlice() ([]string, error) {
	arr, ok := n.value.([]any)
	if !ok {
		return nil, &TypeMismatchError{Path: n.path, Expected: "array", Actual: n.TypeName()}
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, &TypeMismatchError{Path: fmt.Sprintf("%s[%d]", n.path, i), Expected: "string", Actual: n.TypeName()}
		}
		out[i] = s
	}
	return out, nil
}

// RGB is a 24-bit packed color, 0xRRGGBB, parsed from a six-digit lowercase
// hex string property.
type RGB uint32

func (n Node) asRGB() (RGB, error) {
	s, ok := n.value.(string)
	if !ok || len(s) != 6 || !isLowerHex(s) {
		return 0, &TypeMismatchError{Path: n.path, Expected: "rgb color string", Actual: n.TypeName()}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, &TypeMismatchError{Path: n.path, Expected: "rgb color string", Actual: n.TypeName()}
	}
	return RGB(v), nil
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// durationSuffixes maps the closed suffix set to the resulting unit.
// Unknown suffixes, and compound durations ("1h30min"), are rejected.
var durationSuffixes = []struct {
	suffix string
	unit   time.Duration
}{
	{"ns", time.Nanosecond},
	{"us", time.Microsecond},
	{"ms", time.Millisecond},
	{"min", time.Minute},
	{"h", time.Hour},
	{"s", time.Second},
}

// ParseDuration parses a single integer-with-suffix duration string, e.g.
// "500ms", "5s", "2min", "1h", "250us", "100ns". Compound durations and
// suffixes outside the closed set are rejected.
func ParseDuration(s string) (time.Duration, error) {
	// try longer suffixes first so "min" isn't misread as "s"-less leftovers
	for _, cand := range []string{"min", "ms", "us", "ns", "h", "s"} {
		if len(s) > len(cand) && s[len(s)-len(cand):] == cand {
			numPart := s[:len(s)-len(cand)]
			n, err := strconv.ParseInt(numPart, 10, 64)
			if err != nil {
				continue
			}
			for _, entry := range durationSuffixes {
				if entry.suffix == cand {
					return time.Duration(n) * entry.unit, nil
				}
			}
		}
	}
	return 0, &DurationParseError{Value: s}
}

// DurationParseError reports a duration string with an unknown or compound
// suffix.
type DurationParseError struct {
	Value string
}

func (e *DurationParseError) Error() string {
	return fmt.Sprintf("couldn't parse duration %q", e.Value)
}

func (n Node) asDuration() (time.Duration, error) {
	s, ok := n.value.(string)
	if !ok {
		return 0, &TypeMismatchError{Path: n.path, Expected: "duration", Actual: n.TypeName()}
	}
	d, err := ParseDuration(s)
	if err != nil {
		return 0, &TypeMismatchError{Path: n.path, Expected: "duration", Actual: n.TypeName()}
	}
	return d, nil
}

// UpdateInterval converts n to a duration the way the "updateInterval"
// property alone is allowed to: a suffixed string, as As[time.Duration]
// accepts everywhere, or a bare number interpreted as milliseconds. No
// other duration property accepts a bare number.
func UpdateInterval(n Node) (time.Duration, error) {
	if f, ok := n.value.(float64); ok {
		return time.Duration(f) * time.Millisecond, nil
	}
	return As[time.Duration](n)
}
