package config

import (
	"testing"
	"time"
)

func testDoc() Node {
	return Root(map[string]any{
		"name":    "gpio17",
		"pin":     float64(17),
		"enabled": true,
		"ratio":   float64(0.5),
		"tags":    []any{"a", "b"},
		"color":   "ff00aa",
		"delay":   "500ms",
		"nested": map[string]any{
			"id": "inner",
		},
		"items": []any{
			map[string]any{"id": "first"},
			map[string]any{"id": "second"},
		},
	})
}

func TestKeyMissingReturnsMissingPropertyError(t *testing.T) {
	_, err := testDoc().Key("nope")
	if _, ok := err.(*MissingPropertyError); !ok {
		t.Fatalf("got %T, want *MissingPropertyError", err)
	}
}

func TestKeyPathTracksNesting(t *testing.T) {
	n, err := testDoc().Key("nested")
	if err != nil {
		t.Fatal(err)
	}
	inner, err := n.Key("id")
	if err != nil {
		t.Fatal(err)
	}
	if inner.Path() != "/nested/id" {
		t.Errorf("Path() = %q, want /nested/id", inner.Path())
	}
}

func TestKeyOrUsesDefaultWhenAbsent(t *testing.T) {
	key := NewKey("missing", "fallback")
	n, err := testDoc().KeyOr(key)
	if err != nil {
		t.Fatal(err)
	}
	s, err := As[string](n)
	if err != nil {
		t.Fatal(err)
	}
	if s != "fallback" {
		t.Errorf("got %q, want fallback", s)
	}
}

func TestKeyOrFailsWithoutDefaultWhenAbsent(t *testing.T) {
	key := RequiredKey("missing")
	_, err := testDoc().KeyOr(key)
	if _, ok := err.(*MissingPropertyError); !ok {
		t.Fatalf("got %T, want *MissingPropertyError", err)
	}
}

func TestAsConversions(t *testing.T) {
	doc := testDoc()

	if v, err := As[string](mustKey(t, doc, "name")); err != nil || v != "gpio17" {
		t.Errorf("string: got (%q, %v)", v, err)
	}
	if v, err := As[int](mustKey(t, doc, "pin")); err != nil || v != 17 {
		t.Errorf("int: got (%d, %v)", v, err)
	}
	if v, err := As[bool](mustKey(t, doc, "enabled")); err != nil || v != true {
		t.Errorf("bool: got (%v, %v)", v, err)
	}
	if v, err := As[float64](mustKey(t, doc, "ratio")); err != nil || v != 0.5 {
		t.Errorf("float64: got (%v, %v)", v, err)
	}
	if v, err := As[[]string](mustKey(t, doc, "tags")); err != nil || len(v) != 2 || v[0] != "a" || v[1] != "b" {
		t.Errorf("[]string: got (%v, %v)", v, err)
	}
	if v, err := As[RGB](mustKey(t, doc, "color")); err != nil || v != RGB(0xff00aa) {
		t.Errorf("RGB: got (%v, %v)", v, err)
	}
	if v, err := As[time.Duration](mustKey(t, doc, "delay")); err != nil || v != 500*time.Millisecond {
		t.Errorf("duration: got (%v, %v)", v, err)
	}
}

func TestAsTypeMismatch(t *testing.T) {
	_, err := As[int](mustKey(t, testDoc(), "name"))
	if _, ok := err.(*TypeMismatchError); !ok {
		t.Fatalf("got %T, want *TypeMismatchError", err)
	}
}

func TestAsDurationRejectsBareNumber(t *testing.T) {
	doc := Root(map[string]any{"speed": float64(500)})
	_, err := As[time.Duration](mustKey(t, doc, "speed"))
	if _, ok := err.(*TypeMismatchError); !ok {
		t.Fatalf("got %T, want *TypeMismatchError for a bare numeric duration", err)
	}
}

func TestUpdateIntervalAcceptsBareNumberAsMilliseconds(t *testing.T) {
	doc := Root(map[string]any{"updateInterval": float64(40)})
	d, err := UpdateInterval(mustKey(t, doc, "updateInterval"))
	if err != nil {
		t.Fatal(err)
	}
	if d != 40*time.Millisecond {
		t.Errorf("got %v, want 40ms", d)
	}
}

func TestUpdateIntervalAcceptsSuffixedString(t *testing.T) {
	doc := Root(map[string]any{"updateInterval": "40ms"})
	d, err := UpdateInterval(mustKey(t, doc, "updateInterval"))
	if err != nil {
		t.Fatal(err)
	}
	if d != 40*time.Millisecond {
		t.Errorf("got %v, want 40ms", d)
	}
}

func TestIsReportsWithoutError(t *testing.T) {
	doc := testDoc()
	if !Is[string](mustKey(t, doc, "name")) {
		t.Error("Is[string] should be true for a string node")
	}
	if Is[int](mustKey(t, doc, "name")) {
		t.Error("Is[int] should be false for a string node")
	}
}

func TestIterOverArrayOfObjects(t *testing.T) {
	doc := testDoc()
	items, err := mustKey(t, doc, "items").Iter()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	id, err := As[string](mustKey(t, items[1], "id"))
	if err != nil {
		t.Fatal(err)
	}
	if id != "second" {
		t.Errorf("got %q, want second", id)
	}
}

func TestParseDurationRejectsCompoundSuffix(t *testing.T) {
	if _, err := ParseDuration("1h30min"); err == nil {
		t.Error("expected error for compound duration")
	}
}

func TestParseDurationAcceptsClosedSuffixSet(t *testing.T) {
	cases := map[string]time.Duration{
		"5s":    5 * time.Second,
		"2min":  2 * time.Minute,
		"1h":    time.Hour,
		"250us": 250 * time.Microsecond,
		"100ns": 100 * time.Nanosecond,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		if err != nil {
			t.Errorf("ParseDuration(%q) returned error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDuration(%q) = %v, want %v", in, got, want)
		}
	}
}

func mustKey(t *testing.T, n Node, key string) Node {
	t.Helper()
	got, err := n.Key(key)
	if err != nil {
		t.Fatalf("Key(%q): %v", key, err)
	}
	return got
}
