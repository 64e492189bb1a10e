package msgpack

// PeekType classifies the byte at the cursor without advancing it.
// Returns Reserved if the cursor is at or past the end of the buffer.
// Repeated calls return the same value until a consuming operation
// (GetValue, UnpackArray, UnpackMap, SkipValue) runs.
func (c *Codec) PeekType() Format {
	if c.atEnd() {
		return Reserved
	}
	return classify(c.buf[c.cursor])
}

func (c *Codec) peekByte() (byte, bool) {
	if c.atEnd() {
		return 0, false
	}
	return c.buf[c.cursor], true
}
