package channel

// Buffer is a fixed-length sequence of Values flowing along one connection.
// schlazicontrol has two implementations with identical external behaviour
// but different growth strategies: Simple is eager, Lazy defers shift and
// multiply until the buffer is actually read or written at an index that
// forces materialization.
type Buffer interface {
	Size() int
	At(i int) Value
	Set(i int, v Value)
	Shift(offset int)
	Multiply(repeat int)
	Fill(v Value)
	// Values returns the fully materialized contents. Callers that need a
	// plain slice (ColorBuffer, output adapters) go through this rather
	// than indexing one element at a time.
	Values() []Value
}

// NewSimple builds an eagerly-materialized buffer of the given size, all
// values initialized to Off.
func NewSimple(size int) *Simple {
	return &Simple{values: make([]Value, size)}
}

// NewSimpleFrom wraps an existing slice without copying.
func NewSimpleFrom(values []Value) *Simple {
	return &Simple{values: values}
}

// Simple is the eager ChannelBuffer: Shift and Multiply immediately resize
// the backing slice.
type Simple struct {
	values []Value
}

func (b *Simple) Size() int { return len(b.values) }

func (b *Simple) At(i int) Value {
	if i < 0 || i >= len(b.values) {
		return Off()
	}
	return b.values[i]
}

func (b *Simple) Set(i int, v Value) { b.values[i] = v }

func (b *Simple) Shift(offset int) {
	if offset <= 0 {
		return
	}
	shifted := make([]Value, offset, offset+len(b.values))
	b.values = append(shifted, b.values...)
}

func (b *Simple) Multiply(repeat int) {
	if repeat <= 1 {
		return
	}
	n := len(b.values)
	out := make([]Value, 0, n*repeat)
	for i := 0; i < repeat; i++ {
		out = append(out, b.values...)
	}
	b.values = out
}

func (b *Simple) Fill(v Value) {
	for i := range b.values {
		b.values[i] = v
	}
}

func (b *Simple) Values() []Value { return b.values }

// NewLazy builds the lazily-expanding ("smart") buffer of the given size.
// Internally it tracks size as offset + repeat*len(values), deferring the
// actual allocation that Shift/Multiply would otherwise force.
func NewLazy(size int) *Lazy {
	return &Lazy{offset: size, repeat: 1}
}

// NewLazyFrom seeds a lazy buffer with concrete values (repeat=1, offset=0).
func NewLazyFrom(values []Value) *Lazy {
	cp := make([]Value, len(values))
	copy(cp, values)
	return &Lazy{repeat: 1, values: cp}
}

// Lazy is the deferred-expansion ChannelBuffer. The invariant maintained at
// all times is Size() == offset + repeat*len(values).
type Lazy struct {
	offset int
	repeat int
	values []Value
}

func (b *Lazy) Size() int { return b.offset + b.repeat*len(b.values) }

// At reads without forcing expansion: indices below offset read as Off,
// indices within the repeated tail wrap modulo len(values).
func (b *Lazy) At(i int) Value {
	if i < b.offset {
		return Off()
	}
	if len(b.values) == 0 {
		return Off()
	}
	return b.values[(i-b.offset)%len(b.values)]
}

// Set forces expansion up through i, then writes the concrete slot.
func (b *Lazy) Set(i int, v Value) {
	b.expand(i)
	b.values[i-b.offset] = v
}

func (b *Lazy) Shift(offset int) {
	if offset > 0 {
		b.offset += offset
	}
}

// Multiply mirrors the original's restriction: once the buffer has both a
// nonzero offset and concrete values, repeat can no longer be folded in
// cheaply, so Multiply materializes the buffer first and then repeats it.
func (b *Lazy) Multiply(repeat int) {
	if repeat <= 1 {
		return
	}
	switch {
	case len(b.values) == 0:
		b.offset *= repeat
	case b.offset == 0:
		b.repeat *= repeat
	default:
		b.expandAll()
		b.repeat *= repeat
	}
}

// Fill sets every logical element to v, collapsing offset and repeat to a
// single concrete run so the fill is observed at every index, not just the
// already-materialized tail.
func (b *Lazy) Fill(v Value) {
	n := b.Size()
	b.offset = 0
	b.repeat = 1
	b.values = make([]Value, n)
	for i := range b.values {
		b.values[i] = v
	}
}

// Values materializes the full buffer, collapsing offset and repeat.
func (b *Lazy) Values() []Value {
	b.expandAll()
	return b.values
}

func (b *Lazy) expandAll() {
	b.expand(0)
}

// expand materializes enough of the buffer that index is addressable as a
// concrete slot, collapsing any pending repeat and growing past any pending
// offset.
func (b *Lazy) expand(index int) {
	if b.repeat > 1 {
		orig := len(b.values)
		grown := make([]Value, 0, orig*b.repeat)
		for i := 0; i < b.repeat; i++ {
			grown = append(grown, b.values...)
		}
		b.values = grown
		b.repeat = 1
	}
	if b.offset > index {
		fill := b.offset - index
		prefix := make([]Value, fill)
		b.values = append(prefix, b.values...)
		b.offset = index
		if b.offset < 0 {
			b.offset = 0
		}
	}
}
