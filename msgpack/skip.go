package msgpack

// SkipValue advances the cursor past n complete values without
// materializing them. It stops early if the buffer end is reached
// before n values are consumed, rather than treating that as an error.
func (c *Codec) SkipValue(n int) error {
	for i := 0; i < n; i++ {
		if c.atEnd() {
			return nil
		}
		if err := c.skipOne(); err != nil {
			return err
		}
		if c.atEnd() {
			return nil
		}
	}
	return nil
}

func (c *Codec) skipOne() error {
	tag := c.PeekType()

	switch tag {
	case PositiveFixint, NegativeFixint, Nil, True, False:
		c.cursor++
		return nil

	case FixArray, Array16, Array32:
		n, err := c.length(tag)
		if err != nil {
			return err
		}
		c.cursor += headerLen(tag)
		return c.SkipValue(int(n))

	case FixMap, Map16, Map32:
		n, err := c.length(tag)
		if err != nil {
			return err
		}
		c.cursor += headerLen(tag)
		return c.SkipValue(int(n) * 2)

	case FixStr, Str8, Str16, Str32, Bin8, Bin16, Bin32,
		Uint8, Uint16, Uint32, Uint64,
		Int8, Int16, Int32, Int64,
		Float32, Float64:
		n, err := c.length(tag)
		if err != nil {
			return err
		}
		end := c.cursor + headerLen(tag) + int(n)
		if end > len(c.buf) {
			return newStreamError(c.cursor, len(c.buf))
		}
		c.cursor = end
		return nil

	default:
		return newUnknownTypeError(c.cursor, byte(tag))
	}
}
