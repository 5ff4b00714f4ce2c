package events

import "testing"

func TestFireInvokesInSubscriptionOrder(t *testing.T) {
	var ev Event[int]
	var order []int
	ev.Subscribe(func(v int) { order = append(order, v*10+1) })
	ev.Subscribe(func(v int) { order = append(order, v*10+2) })

	ev.Fire(3)

	want := []int{31, 32}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestDisconnectRemovesHandler(t *testing.T) {
	var ev Event[int]
	calls := 0
	conn := ev.Subscribe(func(int) { calls++ })
	ev.Fire(1)
	conn.Disconnect()
	ev.Fire(1)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	var ev Event[int]
	conn := ev.Subscribe(func(int) {})
	conn.Disconnect()
	conn.Disconnect()
	if ev.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ev.Len())
	}
}

func TestSubscribeOnceFiresAtMostOnce(t *testing.T) {
	var ev Event[int]
	calls := 0
	ev.SubscribeOnce(func(int) { calls++ })
	ev.Fire(1)
	ev.Fire(1)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if ev.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after one-shot fired", ev.Len())
	}
}

func TestSelfDisconnectDuringFireDoesNotSkipNext(t *testing.T) {
	var ev Event[int]
	var order []int
	var conn Connection
	conn = ev.Subscribe(func(int) {
		order = append(order, 1)
		conn.Disconnect()
	})
	ev.Subscribe(func(int) { order = append(order, 2) })

	ev.Fire(0)

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("got %v, want [1 2]", order)
	}
	if ev.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ev.Len())
	}
}

func TestSubscribeExtendedCanDisconnectConditionally(t *testing.T) {
	var ev Event[int]
	calls := 0
	ev.SubscribeExtended(func(conn Connection, v int) {
		calls++
		if v == 2 {
			conn.Disconnect()
		}
	})
	ev.Fire(1)
	ev.Fire(2)
	ev.Fire(3)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestScopeResetDisconnectsPrevious(t *testing.T) {
	var ev Event[int]
	calls := 0
	scope := NewScope(ev.Subscribe(func(int) { calls++ }))
	scope.Reset(ev.Subscribe(func(int) { calls += 10 }))

	ev.Fire(0)
	if calls != 10 {
		t.Errorf("calls = %d, want 10", calls)
	}
	scope.Close()
	ev.Fire(0)
	if calls != 10 {
		t.Errorf("calls = %d, want 10 after scope closed", calls)
	}
}

func TestScopeReleaseLeavesConnectionActive(t *testing.T) {
	var ev Event[int]
	calls := 0
	scope := NewScope(ev.Subscribe(func(int) { calls++ }))
	conn := scope.Release()
	scope.Close()

	ev.Fire(0)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 after scope.Close with released connection", calls)
	}
	conn.Disconnect()
	ev.Fire(0)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 after explicit disconnect", calls)
	}
}
