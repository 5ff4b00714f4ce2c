package triggers

import (
	"fmt"
	"time"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/expression"
)

// ParseEvent parses one of "change(value)" or "timeout(timer)".
func ParseEvent(text string) (Event, error) {
	call, err := expression.ParseCall(text)
	if err != nil {
		return nil, err
	}
	switch call.Function {
	case "change":
		if len(call.Args) != 1 {
			return nil, &expression.ParseError{Text: text, Reason: "change() takes exactly one argument"}
		}
		value, err := parseValue(call.Args[0])
		if err != nil {
			return nil, err
		}
		return NewChangeEvent(value), nil
	case "timeout":
		if len(call.Args) != 1 || call.Args[0].Kind != expression.KindInt {
			return nil, &expression.ParseError{Text: text, Reason: "timeout() takes exactly one integer argument"}
		}
		return NewTimeoutEvent(int(call.Args[0].Int)), nil
	default:
		return nil, &expression.ParseError{Text: text, Reason: fmt.Sprintf("unknown event %q", call.Function)}
	}
}

// ParseOutcome parses one of "set(value)", "startTimer(timer, duration)",
// "stopTimer(timer)".
func ParseOutcome(text string) (Outcome, error) {
	call, err := expression.ParseCall(text)
	if err != nil {
		return nil, err
	}
	switch call.Function {
	case "set":
		if len(call.Args) != 1 {
			return nil, &expression.ParseError{Text: text, Reason: "set() takes exactly one argument"}
		}
		value, err := parseValue(call.Args[0])
		if err != nil {
			return nil, err
		}
		return NewSetOutcome(value), nil
	case "startTimer":
		if len(call.Args) != 2 || call.Args[0].Kind != expression.KindInt || call.Args[1].Kind != expression.KindInt {
			return nil, &expression.ParseError{Text: text, Reason: "startTimer() takes a timer id and a duration"}
		}
		timeout := time.Duration(call.Args[1].Int)
		return NewStartTimerOutcome(int(call.Args[0].Int), timeout), nil
	case "stopTimer":
		if len(call.Args) != 1 || call.Args[0].Kind != expression.KindInt {
			return nil, &expression.ParseError{Text: text, Reason: "stopTimer() takes exactly one integer argument"}
		}
		return NewStopTimerOutcome(int(call.Args[0].Int)), nil
	default:
		return nil, &expression.ParseError{Text: text, Reason: fmt.Sprintf("unknown outcome %q", call.Function)}
	}
}

// parseValue turns a ranged percentage ("50") or a named level
// ("off"/"on"/"fullOn") into a Value with the matching predicate.
func parseValue(arg expression.Argument) (Value, error) {
	switch arg.Kind {
	case expression.KindInt:
		v := channel.New(float64(arg.Int))
		return NewValue(v), nil
	case expression.KindString:
		switch arg.Str {
		case "off":
			return NewNamedValue(channel.Off(), func(v channel.Value) bool { return v.Off() }), nil
		case "on":
			return NewNamedValue(channel.FullOn(), func(v channel.Value) bool { return v.On() }), nil
		case "fullOn":
			return NewNamedValue(channel.FullOn(), func(v channel.Value) bool { return v.FullOn() }), nil
		default:
			return Value{}, &expression.ParseError{Text: arg.Str, Reason: "expected off, on or fullOn"}
		}
	default:
		return Value{}, &expression.ParseError{Reason: "unsupported value argument"}
	}
}
