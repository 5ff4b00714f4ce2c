// Package events implements the broadcast substrate that threads readiness,
// poll ticks and input changes through the component graph: an ordered list
// of handlers per event, with idempotent disconnect and safe self-removal
// from inside dispatch.
package events

import "container/list"

// Connection identifies one subscription. Disconnect is idempotent: calling
// it more than once, or on a zero Connection, is a no-op.
type Connection struct {
	disconnect func()
}

// Disconnect removes the associated handler. Safe to call from within the
// handler itself, and safe to call more than once.
func (c *Connection) Disconnect() {
	if c == nil || c.disconnect == nil {
		return
	}
	d := c.disconnect
	c.disconnect = nil
	d()
}

// Scope disconnects its Connection when Close is called, giving call sites
// an RAII-style pattern via defer since Go has no destructors.
type Scope struct {
	conn Connection
}

// NewScope wraps conn for disconnect-on-Close use.
func NewScope(conn Connection) *Scope {
	return &Scope{conn: conn}
}

// Close disconnects the wrapped connection. Safe to call multiple times.
func (s *Scope) Close() {
	if s == nil {
		return
	}
	s.conn.Disconnect()
}

// Reset replaces the wrapped connection, disconnecting the previous one
// first — the equivalent of assigning a new EventConnection to an
// EventScope in the original.
func (s *Scope) Reset(conn Connection) {
	s.conn.Disconnect()
	s.conn = conn
}

// Release detaches and returns the wrapped connection without disconnecting
// it, leaving the scope empty.
func (s *Scope) Release() Connection {
	conn := s.conn
	s.conn = Connection{}
	return conn
}

// Handler receives the event argument only.
type Handler[T any] func(T)

// ExtendedHandler additionally receives its own Connection, so it can
// disconnect itself conditionally without capturing external state.
type ExtendedHandler[T any] func(Connection, T)

// Event is an ordered multicast point for one argument type. The zero value
// is ready to use.
type Event[T any] struct {
	handlers list.List // of func(T)
}

// Subscribe registers handler, returning a Connection that removes it.
func (e *Event[T]) Subscribe(handler Handler[T]) Connection {
	return e.subscribe(handler, false)
}

// SubscribeOnce registers handler to fire at most once: it disconnects
// itself immediately before running, so a handler that re-enters Fire
// cannot observe itself still subscribed.
func (e *Event[T]) SubscribeOnce(handler Handler[T]) Connection {
	return e.subscribe(handler, true)
}

func (e *Event[T]) subscribe(handler Handler[T], oneShot bool) Connection {
	elem := e.handlers.PushBack((func(T))(nil))
	var conn Connection
	conn.disconnect = func() { e.remove(elem) }
	if oneShot {
		scope := NewScope(conn)
		elem.Value = func(arg T) {
			scope.Close()
			handler(arg)
		}
	} else {
		elem.Value = (func(T))(handler)
	}
	return conn
}

// remove clears elem before unlinking it, so a Fire already walking a
// snapshot that holds elem skips it.
func (e *Event[T]) remove(elem *list.Element) {
	elem.Value = nil
	e.handlers.Remove(elem)
}

// SubscribeExtended registers a handler that receives its own Connection on
// every call, letting it decide at runtime whether to disconnect.
func (e *Event[T]) SubscribeExtended(handler ExtendedHandler[T]) Connection {
	elem := e.handlers.PushBack((func(T))(nil))
	var conn Connection
	conn.disconnect = func() { e.remove(elem) }
	elem.Value = func(arg T) { handler(conn, arg) }
	return conn
}

// Fire invokes every handler subscribed at the time of the call, in
// subscription order. It walks a snapshot of the handler list, so a handler
// that disconnects itself (or another handler) during dispatch cannot
// corrupt iteration; a handler disconnected before its turn is skipped.
func (e *Event[T]) Fire(arg T) {
	snapshot := make([]*list.Element, 0, e.handlers.Len())
	for elem := e.handlers.Front(); elem != nil; elem = elem.Next() {
		snapshot = append(snapshot, elem)
	}
	for _, elem := range snapshot {
		if fn, ok := elem.Value.(func(T)); ok && fn != nil {
			fn(arg)
		}
	}
}

// Len reports the number of currently subscribed handlers.
func (e *Event[T]) Len() int { return e.handlers.Len() }
