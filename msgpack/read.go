package msgpack

import "math"

// headerLen returns the number of bytes occupied by tag's header: the tag
// byte itself plus any following length field. Payload bytes (string/bin
// contents, or the fixed-width scalar body) are not included.
func headerLen(tag Format) int {
	switch tag {
	case Str8, Bin8:
		return 2
	case Str16, Bin16, Array16, Map16:
		return 3
	case Str32, Bin32, Array32, Map32:
		return 5
	default:
		return 1
	}
}

// length returns the payload length (for scalars: their fixed byte width;
// for fix-family containers/strings: the low-bit-packed count; for sized
// containers/strings: the length field following the tag) without
// advancing the cursor. tag must be the classification of the byte
// currently at the cursor.
func (c *Codec) length(tag Format) (uint32, error) {
	switch tag {
	case PositiveFixint, NegativeFixint, Nil, True, False:
		return 1, nil
	case FixArray:
		return uint32(c.buf[c.cursor]) & fixArrayLenMask, nil
	case FixMap:
		return uint32(c.buf[c.cursor]) & fixMapLenMask, nil
	case FixStr:
		return uint32(c.buf[c.cursor]) & fixStrLenMask, nil
	case Uint8, Int8:
		return 1, nil
	case Uint16, Int16:
		return 2, nil
	case Uint32, Int32, Float32:
		return 4, nil
	case Uint64, Int64, Float64:
		return 8, nil
	case Str8, Bin8:
		if c.cursor+2 > len(c.buf) {
			return 0, newStreamError(c.cursor, len(c.buf))
		}
		return uint32(c.buf[c.cursor+1]), nil
	case Str16, Bin16, Array16, Map16:
		if c.cursor+3 > len(c.buf) {
			return 0, newStreamError(c.cursor, len(c.buf))
		}
		return uint32(readUint16BE(c.buf[c.cursor+1 : c.cursor+3])), nil
	case Str32, Bin32, Array32, Map32:
		if c.cursor+5 > len(c.buf) {
			return 0, newStreamError(c.cursor, len(c.buf))
		}
		return readUint32BE(c.buf[c.cursor+1 : c.cursor+5]), nil
	default:
		return 0, newUnknownTypeError(c.cursor, byte(tag))
	}
}

func readUint16BE(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func readUint32BE(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func readUint64BE(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

const (
	familyInt = iota
	familyBool
	familyFloat
	familyStrOrBin
	familyArray
	familyMap
	familyNil
)

func (f Format) family() (int, bool) {
	switch f {
	case PositiveFixint, NegativeFixint, Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return familyInt, true
	case True, False:
		return familyBool, true
	case Float32, Float64:
		return familyFloat, true
	case FixStr, Str8, Str16, Str32, Bin8, Bin16, Bin32:
		return familyStrOrBin, true
	case FixArray, Array16, Array32:
		return familyArray, true
	case FixMap, Map16, Map32:
		return familyMap, true
	case Nil:
		return familyNil, true
	default:
		return 0, false
	}
}

func (c *Codec) expect(wanted int, wantedName string) (Format, error) {
	if err := c.checkStreamPos(); err != nil {
		return 0, err
	}
	tag := c.PeekType()
	fam, ok := tag.family()
	if !ok || fam != wanted {
		return 0, newCastError(c.cursor, tag, wantedName)
	}
	return tag, nil
}

// readIntBody reads the declared integer payload at the cursor, advances
// past header+payload, and returns it sign-extended/zero-extended as
// int64 (the caller narrows to the requested width).
func (c *Codec) readIntBody(tag Format) (int64, error) {
	switch tag {
	case PositiveFixint:
		v := int64(c.buf[c.cursor] &^ byte(PositiveFixint))
		c.cursor++
		return v, nil
	case NegativeFixint:
		// sign-extend: the byte itself, reinterpreted as int8, is already
		// the correct negative value (e0-ff == -32..-1).
		v := int64(int8(c.buf[c.cursor]))
		c.cursor++
		return v, nil
	}

	n, err := c.length(tag)
	if err != nil {
		return 0, err
	}
	hl := headerLen(tag)
	start := c.cursor + hl
	end := start + int(n)
	if end > len(c.buf) {
		return 0, newStreamError(c.cursor, len(c.buf))
	}
	raw := c.buf[start:end]
	switch tag {
	case Int8:
		c.cursor = end
		return int64(int8(raw[0])), nil
	case Int16:
		c.cursor = end
		return int64(int16(readUint16BE(raw))), nil
	case Int32:
		c.cursor = end
		return int64(int32(readUint32BE(raw))), nil
	case Int64:
		c.cursor = end
		return int64(readUint64BE(raw)), nil
	case Uint8:
		c.cursor = end
		return int64(raw[0]), nil
	case Uint16:
		c.cursor = end
		return int64(readUint16BE(raw)), nil
	case Uint32:
		c.cursor = end
		return int64(readUint32BE(raw)), nil
	case Uint64:
		c.cursor = end
		return int64(readUint64BE(raw)), nil
	default:
		return 0, newCastError(c.cursor, tag, "integer")
	}
}

func (c *Codec) readUintBody(tag Format) (uint64, error) {
	v, err := c.readIntBody(tag)
	return uint64(v), err
}

func (c *Codec) readBool() (bool, error) {
	tag, err := c.expect(familyBool, "bool")
	if err != nil {
		return false, err
	}
	v := tag == True
	c.cursor++
	return v, nil
}

// readFloatBody reads a float32/float64 payload, raising ErrInvalidFloat if
// fewer bytes remain than the declared width requires.
func (c *Codec) readFloatBody(tag Format) (float64, error) {
	width := 4
	if tag == Float64 {
		width = 8
	}
	start := c.cursor + 1
	end := start + width
	if end > len(c.buf) {
		return 0, newFloatError(c.cursor, width, len(c.buf)-start)
	}
	raw := c.buf[start:end]
	c.cursor = end
	if width == 4 {
		return float64(math.Float32frombits(readUint32BE(raw))), nil
	}
	return math.Float64frombits(readUint64BE(raw)), nil
}

// readBytesBody reads the raw payload of a string/binary value and
// advances the cursor past header+payload.
func (c *Codec) readBytesBody(tag Format) ([]byte, error) {
	n, err := c.length(tag)
	if err != nil {
		return nil, err
	}
	hl := headerLen(tag)
	start := c.cursor + hl
	end := start + int(n)
	if end > len(c.buf) {
		return nil, newStreamError(c.cursor, len(c.buf))
	}
	out := make([]byte, n)
	copy(out, c.buf[start:end])
	c.cursor = end
	return out, nil
}

// GetValue consumes one value of the expected type T. T must be one of:
// bool, the signed/unsigned integer kinds, float32/float64, string, or
// []byte. Go methods cannot be generic, hence this is a free function
// taking *Codec rather than a method.
func GetValue[T Value](c *Codec) (T, error) {
	var zero T
	switch any(zero).(type) {
	case bool:
		v, err := c.readBool()
		return any(v).(T), err
	case float32:
		tag, err := c.expect(familyFloat, "float")
		if err != nil {
			return zero, err
		}
		f, err := c.readFloatBody(tag)
		return any(float32(f)).(T), err
	case float64:
		tag, err := c.expect(familyFloat, "float")
		if err != nil {
			return zero, err
		}
		f, err := c.readFloatBody(tag)
		return any(f).(T), err
	case string:
		tag, err := c.expect(familyStrOrBin, "string")
		if err != nil {
			return zero, err
		}
		b, err := c.readBytesBody(tag)
		return any(string(b)).(T), err
	case []byte:
		tag, err := c.expect(familyStrOrBin, "bytes")
		if err != nil {
			return zero, err
		}
		b, err := c.readBytesBody(tag)
		return any(b).(T), err
	default:
		return getInteger[T](c)
	}
}

// Value constrains GetValue's type parameter to the requestable scalar
// result types.
type Value interface {
	bool | string | []byte |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Key is Value minus []byte: the subset of requestable result types that
// are valid Go map keys, used by GetMap/GetMultiMap.
type Key interface {
	bool | string |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

func getInteger[T Value](c *Codec) (T, error) {
	var zero T
	tag, err := c.expect(familyInt, "integer")
	if err != nil {
		return zero, err
	}
	v, err := c.readIntBody(tag)
	if err != nil {
		return zero, err
	}
	return narrowTo[T](v), nil
}

// narrowTo converts the sign/zero-extended 64-bit value into the
// requested width using Go's ordinary (wrapping) numeric conversion. It
// wraps silently rather than saturating or erroring on overflow.
func narrowTo[T Value](v int64) T {
	var out T
	switch any(out).(type) {
	case int:
		return any(int(v)).(T)
	case int8:
		return any(int8(v)).(T)
	case int16:
		return any(int16(v)).(T)
	case int32:
		return any(int32(v)).(T)
	case int64:
		return any(v).(T)
	case uint:
		return any(uint(v)).(T)
	case uint8:
		return any(uint8(v)).(T)
	case uint16:
		return any(uint16(v)).(T)
	case uint32:
		return any(uint32(v)).(T)
	case uint64:
		return any(uint64(v)).(T)
	default:
		return out
	}
}

// UnpackArray consumes an array header and returns its declared element
// count, leaving the cursor on the first element.
func (c *Codec) UnpackArray() (uint32, error) {
	tag, err := c.expect(familyArray, "array")
	if err != nil {
		return 0, err
	}
	n, err := c.length(tag)
	if err != nil {
		return 0, err
	}
	c.cursor += headerLen(tag)
	return n, nil
}

// UnpackMap consumes a map header and returns its declared pair count,
// leaving the cursor on the first key.
func (c *Codec) UnpackMap() (uint32, error) {
	tag, err := c.expect(familyMap, "map")
	if err != nil {
		return 0, err
	}
	n, err := c.length(tag)
	if err != nil {
		return 0, err
	}
	c.cursor += headerLen(tag)
	return n, nil
}

// GetNil consumes a nil value.
func (c *Codec) GetNil() error {
	if err := c.checkStreamPos(); err != nil {
		return err
	}
	tag := c.PeekType()
	if tag != Nil {
		return newCastError(c.cursor, tag, "nil")
	}
	c.cursor++
	return nil
}

// GetSlice consumes an array header and then n elements of type T via
// GetValue, the reader's half of AddSlice's "caller drives the
// recursion" contract.
func GetSlice[T Value](c *Codec) ([]T, error) {
	n, err := c.UnpackArray()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := GetValue[T](c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetMap consumes a map header and then n key/value pairs of type K, V.
// Duplicate keys are permitted; the last occurrence wins, matching a
// plain Go map's assignment semantics.
func GetMap[K Key, V Value](c *Codec) (map[K]V, error) {
	n, err := c.UnpackMap()
	if err != nil {
		return nil, err
	}
	out := make(map[K]V, n)
	for i := uint32(0); i < n; i++ {
		k, err := GetValue[K](c)
		if err != nil {
			return nil, err
		}
		v, err := GetValue[V](c)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// GetMultiMap consumes a map header and then n key/value pairs, keeping
// every occurrence of a repeated key instead of overwriting.
func GetMultiMap[K Key, V Value](c *Codec) (map[K][]V, error) {
	n, err := c.UnpackMap()
	if err != nil {
		return nil, err
	}
	out := make(map[K][]V, n)
	for i := uint32(0); i < n; i++ {
		k, err := GetValue[K](c)
		if err != nil {
			return nil, err
		}
		v, err := GetValue[V](c)
		if err != nil {
			return nil, err
		}
		out[k] = append(out[k], v)
	}
	return out, nil
}
