// Package triggers implements the event/outcome interpreter behind the
// triggers transition: Actions pair an Event predicate with a list of
// Outcomes, evaluated against a per-connection Context on every input
// change and timer expiry.
package triggers

import (
	"time"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/monitor"
)

// Value is a channel value together with the comparison used to test
// whether another value matches it — an exact match for ranged percentages,
// or a named predicate for "off"/"on"/"fullOn".
type Value struct {
	value     channel.Value
	condition func(channel.Value) bool
}

// NewValue builds a Value matched by exact equality to v.
func NewValue(v channel.Value) Value {
	return Value{value: v, condition: func(other channel.Value) bool { return other == v }}
}

// NewNamedValue builds a Value matched by condition, carrying v as its
// get() result (the value an outcome assigns when this Value fires).
func NewNamedValue(v channel.Value, condition func(channel.Value) bool) Value {
	return Value{value: v, condition: condition}
}

func (v Value) Get() channel.Value          { return v.value }
func (v Value) Matches(other channel.Value) bool { return v.condition(other) }

// Event decides whether an Action fires, given the input/lastInput/timer
// state visible through ctx.
type Event interface {
	Applies(ctx *Context) bool
}

// ChangeEvent applies the instant the input transitions into a value that
// matches, having not matched on the previous call.
type ChangeEvent struct{ value Value }

func NewChangeEvent(value Value) *ChangeEvent { return &ChangeEvent{value: value} }

func (e *ChangeEvent) Applies(ctx *Context) bool {
	was := e.value.Matches(ctx.LastInput())
	is := e.value.Matches(ctx.Input())
	return !was && is
}

// TimeoutEvent applies exactly once, on the poll tick where timer expires.
type TimeoutEvent struct{ timer int }

func NewTimeoutEvent(timer int) *TimeoutEvent { return &TimeoutEvent{timer: timer} }

func (e *TimeoutEvent) Applies(ctx *Context) bool { return ctx.TimerExpired(e.timer) }

// Outcome is one effect an Action applies once its Event fires.
type Outcome interface {
	Invoke(ctx *Context)
}

// SetOutcome assigns value to the connection's output.
type SetOutcome struct{ value Value }

func NewSetOutcome(value Value) *SetOutcome { return &SetOutcome{value: value} }

func (o *SetOutcome) Invoke(ctx *Context) { ctx.Set(o.value.Get()) }

// StartTimerOutcome (re)starts timer, replacing any running instance.
type StartTimerOutcome struct {
	timer   int
	timeout time.Duration
}

func NewStartTimerOutcome(timer int, timeout time.Duration) *StartTimerOutcome {
	return &StartTimerOutcome{timer: timer, timeout: timeout}
}

func (o *StartTimerOutcome) Invoke(ctx *Context) { ctx.StartTimer(o.timer, o.timeout) }

// StopTimerOutcome cancels timer if running.
type StopTimerOutcome struct{ timer int }

func NewStopTimerOutcome(timer int) *StopTimerOutcome { return &StopTimerOutcome{timer: timer} }

func (o *StopTimerOutcome) Invoke(ctx *Context) { ctx.StopTimer(o.timer) }

// Action pairs one Event with the Outcomes to run when it applies.
type Action struct {
	event    Event
	outcomes []Outcome
}

// NewAction builds an Action from a parsed event and outcome list.
func NewAction(event Event, outcomes []Outcome) Action {
	return Action{event: event, outcomes: outcomes}
}

// Invoke runs every outcome if event applies to ctx's current state.
func (a Action) Invoke(ctx *Context) {
	if a.event.Applies(ctx) {
		for _, o := range a.outcomes {
			o.Invoke(ctx)
		}
		ctx.deps.Monitor().Publish(monitor.Event{
			Source: monitor.SourceTrigger,
			Kind:   monitor.KindFired,
			Data: map[string]any{
				"triggers": ctx.id,
				"outcomes": len(a.outcomes),
			},
		})
	}
}

// timerState tracks one running timer's remaining duration and poll
// subscription, counted down on each tick rather than scheduled against a
// wall clock, matching the reactor's single-goroutine tick model.
type timerState struct {
	remaining time.Duration
	scope     *events.Scope
}

// State is the data a triggers transition instance keeps across calls,
// threaded through every Context built for that connection.
type State struct {
	LastInput channel.Value
	Output    channel.Value

	timers        map[int]*timerState
	expiredTimers map[int]bool
}

// Context mediates one transform call's view of State: it exposes the
// current and previous input, lets Outcomes mutate the output and the
// timer set, and on Finish folds the current input back into State as the
// next call's lastInput — replacing the original's destructor-driven
// bookkeeping, since Go has none.
type Context struct {
	id    string
	conn  iotype.Connection
	deps  component.Deps
	state *State
	input channel.Value
}

// NewContext builds a Context for one transform call. id names the owning
// triggers transition, for monitor events; deps supplies Poll for timer
// countdowns; conn is retransferred when a timer fires.
func NewContext(id string, conn iotype.Connection, deps component.Deps, state *State, input channel.Value) *Context {
	return &Context{id: id, conn: conn, deps: deps, state: state, input: input}
}

func (c *Context) Input() channel.Value     { return c.input }
func (c *Context) LastInput() channel.Value { return c.state.LastInput }

// Set assigns the connection's output for this and subsequent calls, until
// the next Set.
func (c *Context) Set(v channel.Value) { c.state.Output = v }

// StartTimer (re)starts timer, counting down from timeout across poll
// ticks; on expiry it marks timer expired and retransfers the connection so
// a TimeoutEvent gets a chance to observe it.
func (c *Context) StartTimer(timer int, timeout time.Duration) {
	if c.state.timers == nil {
		c.state.timers = make(map[int]*timerState)
	}
	if existing, ok := c.state.timers[timer]; ok {
		existing.scope.Close()
	}

	ts := &timerState{remaining: timeout, scope: events.NewScope(events.Connection{})}
	conn := c.conn
	state := c.state
	ts.scope.Reset(c.deps.Poll().Subscribe(func(elapsed time.Duration) {
		ts.remaining -= elapsed
		if ts.remaining > 0 {
			return
		}
		ts.scope.Close()
		delete(state.timers, timer)
		if state.expiredTimers == nil {
			state.expiredTimers = make(map[int]bool)
		}
		state.expiredTimers[timer] = true
		conn.Retransfer()
	}))
	c.state.timers[timer] = ts
}

// StopTimer cancels timer if it is running; a no-op otherwise.
func (c *Context) StopTimer(timer int) {
	if ts, ok := c.state.timers[timer]; ok {
		ts.scope.Close()
		delete(c.state.timers, timer)
	}
}

// TimerExpired reports and consumes timer's expiry flag: it reads true
// exactly once, on the first Context built after the timer fired.
func (c *Context) TimerExpired(timer int) bool {
	if !c.state.expiredTimers[timer] {
		return false
	}
	delete(c.state.expiredTimers, timer)
	return true
}

// Finish stashes the input seen by this Context as the next call's
// lastInput and returns the (possibly just-assigned) output value to write
// back into the channel buffer.
func (c *Context) Finish() channel.Value {
	c.state.LastInput = c.input
	return c.state.Output
}
