package svg

import (
	"reflect"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Notification channel: synchronous, ordered, same-thread dispatch. There is
// no queue and no replay of past events to newly added listeners.

// Event names accepted by On/Off.
const (
	EventColorApplied = "colorApplied"
	EventError        = "error"
	EventComplete     = "complete"
	EventReset        = "reset"
)

// ColorApplied is emitted once per successful channel write. Element is the
// node the value was written onto, which may be a <g> ancestor of the
// classified shape. Index is the shape's position in traversal order, -1 when
// not applicable.
type ColorApplied struct {
	Element   *etree.Element
	Attribute string
	Color     string
	Index     int
}

// ColorError is emitted for precondition and per-element failures. Index is
// -1 when the failure is not tied to a particular element.
type ColorError struct {
	Err     error
	Element *etree.Element
	Index   int
}

// Complete is emitted at the end of an apply pass.
type Complete struct {
	Processed int
	Total     int
	Target    *etree.Element
}

// Reset is emitted after a successful restore.
type Reset struct {
	Target *etree.Element
	ID     string
}

// Listener receives one of the event payload types above.
type Listener func(payload any)

type listenerEntry struct {
	fn  Listener
	key uintptr
}

// On appends a listener for the named event. Listeners run in insertion
// order.
func (c *Colorizer) On(event string, fn Listener) {
	if fn == nil {
		return
	}
	c.listeners[event] = append(c.listeners[event], listenerEntry{fn: fn, key: reflect.ValueOf(fn).Pointer()})
}

// Off removes every registration of fn for the named event.
func (c *Colorizer) Off(event string, fn Listener) {
	if fn == nil {
		return
	}
	key := reflect.ValueOf(fn).Pointer()
	entries := c.listeners[event]
	kept := entries[:0]
	for _, e := range entries {
		if e.key != key {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(c.listeners, event)
		return
	}
	c.listeners[event] = kept
}

// emit invokes listeners synchronously. A panicking listener is recovered and
// logged so the remaining listeners and the triggering operation proceed.
func (c *Colorizer) emit(event string, payload any) {
	for _, e := range c.listeners[event] {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Warn("Event listener failed", zap.String("event", event), zap.Any("cause", r))
				}
			}()
			e.fn(payload)
		}()
	}
}
