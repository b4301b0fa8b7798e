package svg

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestListeners_InvocationOrder(t *testing.T) {
	c := New(Config{}, zap.NewNop())

	var order []int
	c.On(EventComplete, func(any) { order = append(order, 1) })
	c.On(EventComplete, func(any) { order = append(order, 2) })
	c.On(EventComplete, func(any) { order = append(order, 3) })

	c.emit(EventComplete, Complete{})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("listeners ran out of insertion order: %v", order)
	}
}

func TestListeners_Off(t *testing.T) {
	c := New(Config{}, zap.NewNop())

	var first, second int
	one := func(any) { first++ }
	two := func(any) { second++ }

	c.On(EventReset, one)
	c.On(EventReset, two)
	c.emit(EventReset, Reset{})

	c.Off(EventReset, one)
	c.emit(EventReset, Reset{})

	if first != 1 {
		t.Errorf("removed listener ran %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("remaining listener ran %d times, want 2", second)
	}

	c.Off(EventReset, two)
	if n := c.GetStats().Listeners[EventReset]; n != 0 {
		t.Errorf("listener count after removing all = %d, want 0", n)
	}
}

func TestListeners_PanicDoesNotStopOthers(t *testing.T) {
	c := New(Config{}, zaptest.NewLogger(t))

	ran := false
	c.On(EventComplete, func(any) { panic("listener blew up") })
	c.On(EventComplete, func(any) { ran = true })

	c.emit(EventComplete, Complete{})

	if !ran {
		t.Fatal("a panicking listener must not prevent subsequent listeners from running")
	}
}

func TestListeners_PanicDoesNotAbortApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientProbability = 0
	c := New(cfg, zaptest.NewLogger(t))

	c.On(EventColorApplied, func(any) { panic("bad listener") })

	_, root := parseSVG(t, `<svg><rect fill="#111" width="10" height="10"/></svg>`)
	if !c.ApplyColors(root, ApplyOptions{}) {
		t.Fatal("a failing listener must not abort the triggering operation")
	}
}
