package channel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSimpleAndLazyFromAgreeOnInitialValues(t *testing.T) {
	seed := []Value{FullOn(), Off(), New(42)}

	simple := NewSimpleFrom(append([]Value(nil), seed...))
	lazy := NewLazyFrom(seed)

	if diff := cmp.Diff(simple.Values(), lazy.Values()); diff != "" {
		t.Errorf("NewSimpleFrom and NewLazyFrom disagree on the same seed (-simple +lazy):\n%s", diff)
	}
}

func TestSimpleFillOverwritesEveryValue(t *testing.T) {
	b := NewSimple(4)
	b.Set(1, FullOn())
	b.Fill(Off())

	want := []Value{Off(), Off(), Off(), Off()}
	if diff := cmp.Diff(want, b.Values()); diff != "" {
		t.Errorf("Fill did not reset every slot (-want +got):\n%s", diff)
	}
}

func TestLazyFillCollapsesOffsetAndRepeat(t *testing.T) {
	b := NewLazy(3)
	b.Shift(2)
	b.Multiply(2)
	b.Fill(FullOn())

	want := make([]Value, b.Size())
	for i := range want {
		want[i] = FullOn()
	}
	if diff := cmp.Diff(want, b.Values()); diff != "" {
		t.Errorf("Fill on a shifted/multiplied Lazy buffer did not reach every slot (-want +got):\n%s", diff)
	}
}

func TestSimpleMultiplyRepeatsContents(t *testing.T) {
	b := NewSimpleFrom([]Value{FullOn(), Off()})
	b.Multiply(3)

	want := []Value{FullOn(), Off(), FullOn(), Off(), FullOn(), Off()}
	if diff := cmp.Diff(want, b.Values()); diff != "" {
		t.Errorf("Multiply(3) on [on,off] (-want +got):\n%s", diff)
	}
}
