package msgpack

// Codec owns an append-only write buffer, a read cursor, and a pair
// counter used while building user-aggregate maps (see Marshaler). The
// zero value is ready to use as a producer; call Deserialize to load bytes
// for consuming.
type Codec struct {
	buf    []byte
	cursor int
	pairs  uint32
}

// Options configures a new Codec. The zero value is valid; all fields are
// purely performance hints.
type Options struct {
	// InitialCapacity pre-sizes the write buffer to avoid early
	// reallocation. Zero means "let append grow it as needed".
	InitialCapacity int
}

// New returns a Codec ready for writing, honoring Options as capacity
// hints only.
func New(opts Options) *Codec {
	c := &Codec{}
	if opts.InitialCapacity > 0 {
		c.buf = make([]byte, 0, opts.InitialCapacity)
	}
	return c
}

// Reset returns the cursor to the beginning of the buffer without
// modifying the buffer's contents. Use it to re-read an already loaded
// stream.
func (c *Codec) Reset() { c.cursor = 0 }

// Clear empties the buffer, zeroes the cursor, and zeroes the pair
// counter. Use it to abandon a partially built stream.
func (c *Codec) Clear() {
	c.buf = c.buf[:0]
	c.cursor = 0
	c.pairs = 0
}

// Serialize returns a copy of the buffer and then clears the Codec.
func (c *Codec) Serialize() []byte {
	out := make([]byte, len(c.buf))
	copy(out, c.buf)
	c.Clear()
	return out
}

// SerializeWithoutWipe returns a copy of the buffer, leaving buffer,
// cursor, and pair counter untouched.
func (c *Codec) SerializeWithoutWipe() []byte {
	out := make([]byte, len(c.buf))
	copy(out, c.buf)
	return out
}

// Deserialize installs b as the read buffer and resets the cursor to zero.
// The Codec keeps b itself, not a copy; callers must not mutate b while the
// Codec still has unread data from it.
func (c *Codec) Deserialize(b []byte) {
	c.buf = b
	c.cursor = 0
}

// Len returns the number of bytes currently in the buffer.
func (c *Codec) Len() int { return len(c.buf) }

// Cursor returns the current read offset.
func (c *Codec) Cursor() int { return c.cursor }

// Remaining reports how many unread bytes are left in the buffer.
func (c *Codec) Remaining() int { return len(c.buf) - c.cursor }

func (c *Codec) atEnd() bool { return c.cursor >= len(c.buf) }

func (c *Codec) checkStreamPos() error {
	if c.atEnd() {
		return newStreamError(c.cursor, len(c.buf))
	}
	return nil
}
