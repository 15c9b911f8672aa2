package event

import (
	"testing"
)

func TestEmitCallsListenersInOrder(t *testing.T) {
	var e Event[int]
	var got []int
	e.Connect(func(v int) { got = append(got, v) })
	e.Connect(func(v int) { got = append(got, v*10) })

	e.Emit(3)
	if len(got) != 2 || got[0] != 3 || got[1] != 30 {
		t.Errorf("got %v", got)
	}
}

func TestConnectionClose(t *testing.T) {
	var e Event[string]
	calls := 0
	c := e.Connect(func(string) { calls++ })

	e.Emit("a")
	c.Close()
	c.Close()
	e.Emit("b")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if c.Connected() || e.ListenerCount() != 0 {
		t.Error("listener still connected")
	}
}

func TestCloseFromInsideListener(t *testing.T) {
	var e Event[int]
	calls := 0
	var c Connection
	c = e.Connect(func(int) {
		calls++
		c.Close()
	})

	e.Emit(1)
	e.Emit(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestClear(t *testing.T) {
	var e Event[int]
	c := e.Connect(func(int) {})
	e.Clear()
	if c.Connected() {
		t.Error("Clear left the listener connected")
	}
}
