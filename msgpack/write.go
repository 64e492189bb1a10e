package msgpack

import (
	"math"
	"reflect"
)

// AddValue appends v using the narrowest-fit encoding for its dynamic
// type. Supported kinds: all signed/unsigned integer widths, bool,
// float32/float64, string, []byte, nil, and any type implementing
// Marshaler. Unsupported types return an error instead of silently
// dropping data.
func (c *Codec) AddValue(v any) error {
	switch t := v.(type) {
	case nil:
		c.writeNil()
	case bool:
		c.writeBool(t)
	case int:
		c.writeInt(int64(t))
	case int8:
		c.writeInt(int64(t))
	case int16:
		c.writeInt(int64(t))
	case int32:
		c.writeInt(int64(t))
	case int64:
		c.writeInt(t)
	case uint:
		c.writeUint(uint64(t))
	case uint8:
		c.writeUint(uint64(t))
	case uint16:
		c.writeUint(uint64(t))
	case uint32:
		c.writeUint(uint64(t))
	case uint64:
		c.writeUint(t)
	case float32:
		c.writeFloat32(t)
	case float64:
		c.writeFloat64(t)
	case string:
		c.writeString(t)
	case []byte:
		return c.AddBin(t)
	case Marshaler:
		// A nil *T satisfying Marshaler through a value-receiver method
		// set would panic on dereference inside MarshalMsgpack; write it
		// as a bare nil instead, the Go counterpart of the pointer-to-
		// class overload's nullptr check.
		if rv := reflect.ValueOf(t); rv.Kind() == reflect.Ptr && rv.IsNil() {
			c.writeNil()
			return nil
		}
		return c.writeAggregate(t)
	default:
		return &unsupportedTypeError{v: v}
	}
	return nil
}

type unsupportedTypeError struct{ v any }

func (e *unsupportedTypeError) Error() string {
	return "msgpack: AddValue: unsupported type"
}

func (c *Codec) writeNil() { c.buf = append(c.buf, byte(Nil)) }

func (c *Codec) writeBool(v bool) {
	if v {
		c.buf = append(c.buf, byte(True))
	} else {
		c.buf = append(c.buf, byte(False))
	}
}

// writeInt chooses positive fixint, negative fixint, then the narrowest
// of int8/16/32/64 that admits v.
func (c *Codec) writeInt(v int64) {
	switch {
	case v >= 0 && v <= posFixintMax:
		c.buf = append(c.buf, byte(PositiveFixint)|byte(v))
	case v < 0 && v >= negFixintMin:
		c.buf = append(c.buf, byte(NegativeFixint)|(byte(v)&0x1f))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		c.buf = append(c.buf, byte(Int8), byte(v))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		c.buf = append(c.buf, byte(Int16))
		c.appendUint16(uint16(v))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		c.buf = append(c.buf, byte(Int32))
		c.appendUint32(uint32(v))
	default:
		c.buf = append(c.buf, byte(Int64))
		c.appendUint64(uint64(v))
	}
}

// writeUint chooses positive fixint, then the narrowest of
// uint8/16/32/64 that admits v.
func (c *Codec) writeUint(v uint64) {
	switch {
	case v <= posFixintMax:
		c.buf = append(c.buf, byte(PositiveFixint)|byte(v))
	case v <= math.MaxUint8:
		c.buf = append(c.buf, byte(Uint8), byte(v))
	case v <= math.MaxUint16:
		c.buf = append(c.buf, byte(Uint16))
		c.appendUint16(uint16(v))
	case v <= math.MaxUint32:
		c.buf = append(c.buf, byte(Uint32))
		c.appendUint32(uint32(v))
	default:
		c.buf = append(c.buf, byte(Uint64))
		c.appendUint64(v)
	}
}

// writeFloat32 never widens to float64: a declared-32-bit value always
// emits the float32 tag.
func (c *Codec) writeFloat32(v float32) {
	c.buf = append(c.buf, byte(Float32))
	c.appendUint32(math.Float32bits(v))
}

// writeFloat64 never narrows to float32.
func (c *Codec) writeFloat64(v float64) {
	c.buf = append(c.buf, byte(Float64))
	c.appendUint64(math.Float64bits(v))
}

// writeString encodes an empty string as nil, an intentional quirk kept
// from the reference behavior rather than "fixed" to a zero-length
// fixstr. Non-empty strings use fixstr/str8/str16/str32 by length.
func (c *Codec) writeString(s string) {
	if len(s) == 0 {
		c.writeNil()
		return
	}
	n := len(s)
	switch {
	case n <= fixStrLenMask:
		c.buf = append(c.buf, byte(FixStr)|byte(n))
	case n <= math.MaxUint8:
		c.buf = append(c.buf, byte(Str8), byte(n))
	case n <= math.MaxUint16:
		c.buf = append(c.buf, byte(Str16))
		c.appendUint16(uint16(n))
	default:
		c.buf = append(c.buf, byte(Str32))
		c.appendUint32(uint32(n))
	}
	c.buf = append(c.buf, s...)
}

// AddBin appends a bin8/16/32 header followed by b's bytes.
func (c *Codec) AddBin(b []byte) error {
	n := len(b)
	switch {
	case n <= math.MaxUint8:
		c.buf = append(c.buf, byte(Bin8), byte(n))
	case n <= math.MaxUint16:
		c.buf = append(c.buf, byte(Bin16))
		c.appendUint16(uint16(n))
	case uint64(n) <= math.MaxUint32:
		c.buf = append(c.buf, byte(Bin32))
		c.appendUint32(uint32(n))
	default:
		return &SizeError{Size: uint64(n)}
	}
	c.buf = append(c.buf, b...)
	return nil
}

// AddArray appends an array header declaring n elements. The caller is
// responsible for appending exactly n values afterward.
func (c *Codec) AddArray(n uint32) {
	c.writeContainerHeader(FixArray, Array16, Array32, fixArrayLenMask, n)
}

// AddMap appends a map header declaring n pairs. The caller is
// responsible for appending exactly 2n values afterward.
func (c *Codec) AddMap(n uint32) {
	c.writeContainerHeader(FixMap, Map16, Map32, fixMapLenMask, n)
}

func (c *Codec) writeContainerHeader(fix, f16, f32 Format, fixMax uint32, n uint32) {
	switch {
	case n <= fixMax:
		c.buf = append(c.buf, byte(fix)|byte(n))
	case n <= math.MaxUint16:
		c.buf = append(c.buf, byte(f16))
		c.appendUint16(uint16(n))
	default:
		c.buf = append(c.buf, byte(f32))
		c.appendUint32(n)
	}
}

// AddPair appends k then v and increments the pair counter; the outer map
// header for a Marshaler's fields is computed from this counter once the
// callback returns (see writeAggregate and Marshaler).
func (c *Codec) AddPair(k, v any) error {
	c.pairs++
	if err := c.AddValue(k); err != nil {
		return err
	}
	return c.AddValue(v)
}

// BeginPair appends k and increments the pair counter without writing a
// value, for a Marshaler field whose value isn't a single AddValue call
// (e.g. an array or nested map the caller builds with AddArray/AddMap and
// a loop). The caller is responsible for appending exactly one value's
// worth of data afterward.
func (c *Codec) BeginPair(k any) error {
	c.pairs++
	return c.AddValue(k)
}

// AddSlice appends an array header for n elements and then each element
// in order via AddValue. It is the array-writing half of a
// caller-drives-the-recursion contract, specialized for the common case
// of a homogeneous Go slice.
func AddSlice[T any](c *Codec, s []T) error {
	c.AddArray(uint32(len(s)))
	for _, e := range s {
		if err := c.AddValue(e); err != nil {
			return err
		}
	}
	return nil
}

// AddMapValues appends a map header for len(m) pairs and then each
// key/value pair via AddValue. Go map iteration order is randomized;
// callers needing a stable wire order must encode pairs manually with
// AddPair in their own chosen order.
func AddMapValues[K comparable, V any](c *Codec, m map[K]V) error {
	c.AddMap(uint32(len(m)))
	for k, v := range m {
		if err := c.AddValue(k); err != nil {
			return err
		}
		if err := c.AddValue(v); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) appendUint16(v uint16) {
	c.buf = append(c.buf, byte(v>>8), byte(v))
}

func (c *Codec) appendUint32(v uint32) {
	c.buf = append(c.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (c *Codec) appendUint64(v uint64) {
	c.buf = append(c.buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v),
	)
}
