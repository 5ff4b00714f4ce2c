package component

import (
	"testing"

	"github.com/lordjaxom/schlazicontrol/internal/config"
)

type stubComponent struct {
	identity Identity
}

func (s stubComponent) Identity() Identity { return s.identity }

func newStub(_ Deps, id string, _ config.Node) (Component, error) {
	return stubComponent{identity: Identity{Category: CategoryInput, Name: "stub", ID: id}}, nil
}

func TestGenerateIDSequence(t *testing.T) {
	r := NewRegistry()
	first := r.GenerateID("gpio")
	if first != "gpio.924536" {
		t.Fatalf("first generated id = %q, want %q (idGenSeed)", first, "gpio.924536")
	}

	second := r.GenerateID("gpio")
	if second == first {
		t.Fatalf("GenerateID returned the same id twice: %q", first)
	}

	r2 := NewRegistry()
	if got := r2.GenerateID("gpio"); got != first {
		t.Errorf("GenerateID is not deterministic across registries: got %q, want %q", got, first)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(CategoryInput, "stub", newStub)

	defer func() {
		if recover() == nil {
			t.Fatal("expected Register to panic on duplicate (category, name)")
		}
	}()
	r.Register(CategoryInput, "stub", newStub)
}

func TestResolveBareNameUnambiguous(t *testing.T) {
	r := NewRegistry()
	r.Register(CategoryInput, "stub", newStub)

	c, err := r.Create(nil, "stub", "a", config.Root(map[string]any{}))
	if err != nil {
		t.Fatalf("Create(%q) error: %v", "stub", err)
	}
	if c.Identity().ID != "a" {
		t.Errorf("got id %q, want %q", c.Identity().ID, "a")
	}
}

func TestResolveQualifiedName(t *testing.T) {
	r := NewRegistry()
	r.Register(CategoryInput, "stub", newStub)

	c, err := r.Create(nil, "input:stub", "b", config.Root(map[string]any{}))
	if err != nil {
		t.Fatalf("Create(%q) error: %v", "input:stub", err)
	}
	if c.Identity().ID != "b" {
		t.Errorf("got id %q, want %q", c.Identity().ID, "b")
	}
}

func TestUnknownTypeError(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create(nil, "nonexistent", "a", config.Root(map[string]any{})); err == nil {
		t.Fatal("expected an error for an unregistered type")
	}
}
