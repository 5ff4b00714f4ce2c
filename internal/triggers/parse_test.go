package triggers

import (
	"testing"
	"time"

	"github.com/lordjaxom/schlazicontrol/internal/channel"
)

func TestParseEventChange(t *testing.T) {
	ev, err := ParseEvent("change(50)")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ev.(*ChangeEvent); !ok {
		t.Fatalf("got %T, want *ChangeEvent", ev)
	}
}

func TestParseEventTimeout(t *testing.T) {
	ev, err := ParseEvent("timeout(1)")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ev.(*TimeoutEvent); !ok {
		t.Fatalf("got %T, want *TimeoutEvent", ev)
	}
}

func TestParseEventRejectsUnknownFunction(t *testing.T) {
	if _, err := ParseEvent("bogus(1)"); err == nil {
		t.Error("expected error for unknown event function")
	}
}

func TestParseEventRejectsWrongArity(t *testing.T) {
	if _, err := ParseEvent("change(1, 2)"); err == nil {
		t.Error("expected error for change() with two arguments")
	}
}

func TestParseOutcomeSet(t *testing.T) {
	out, err := ParseOutcome("set(on)")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.(*SetOutcome); !ok {
		t.Fatalf("got %T, want *SetOutcome", out)
	}
}

func TestParseOutcomeStartTimer(t *testing.T) {
	out, err := ParseOutcome("startTimer(1, 500ms)")
	if err != nil {
		t.Fatal(err)
	}
	st, ok := out.(*StartTimerOutcome)
	if !ok {
		t.Fatalf("got %T, want *StartTimerOutcome", out)
	}
	if st.timer != 1 || st.timeout != 500*time.Millisecond {
		t.Errorf("got %+v", st)
	}
}

func TestParseOutcomeStopTimer(t *testing.T) {
	out, err := ParseOutcome("stopTimer(1)")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.(*StopTimerOutcome); !ok {
		t.Fatalf("got %T, want *StopTimerOutcome", out)
	}
}

func TestParseOutcomeRejectsUnknownFunction(t *testing.T) {
	if _, err := ParseOutcome("bogus(1)"); err == nil {
		t.Error("expected error for unknown outcome function")
	}
}

func TestParseValueNamedLevels(t *testing.T) {
	onEvent, err := ParseEvent("change(on)")
	if err != nil {
		t.Fatal(err)
	}
	ce := onEvent.(*ChangeEvent)
	if !ce.value.Matches(channel.FullOn()) {
		t.Error("on should match FullOn()")
	}
	if ce.value.Matches(channel.Off()) {
		t.Error("on should not match Off()")
	}
}

func TestParseValueRejectsUnknownName(t *testing.T) {
	if _, err := ParseEvent("change(bogus)"); err == nil {
		t.Error("expected error for unknown named value")
	}
}

func TestChangeEventAppliesOnRisingEdgeOnly(t *testing.T) {
	ev, err := ParseEvent("change(50)")
	if err != nil {
		t.Fatal(err)
	}

	state := &State{LastInput: channel.Off()}
	ctx := NewContext("t1", nil, nil, state, channel.New(50))
	if !ev.Applies(ctx) {
		t.Error("expected change(50) to apply on transition from off to 50")
	}

	state.LastInput = channel.New(50)
	ctx = NewContext("t1", nil, nil, state, channel.New(50))
	if ev.Applies(ctx) {
		t.Error("expected change(50) not to re-apply while already at 50")
	}
}

func TestTimeoutEventConsumesExpiryOnce(t *testing.T) {
	state := &State{expiredTimers: map[int]bool{2: true}}
	ctx := NewContext("t1", nil, nil, state, channel.Off())

	ev := NewTimeoutEvent(2)
	if !ev.Applies(ctx) {
		t.Fatal("expected timeout(2) to apply once expired")
	}
	if ev.Applies(ctx) {
		t.Error("expected timeout(2) not to re-apply after being consumed")
	}
}

func TestContextFinishCarriesInputAndOutput(t *testing.T) {
	state := &State{}
	ctx := NewContext("t1", nil, nil, state, channel.New(10))
	ctx.Set(channel.New(20))
	got := ctx.Finish()
	if got != channel.New(20) {
		t.Errorf("Finish() = %v, want 20", got)
	}
	if state.LastInput != channel.New(10) {
		t.Errorf("LastInput = %v, want 10", state.LastInput)
	}
}
