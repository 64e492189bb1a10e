package msgpack

import (
	"bytes"
	"errors"
	"testing"
)

func TestClearResetSerialize(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, uint64(1))
	mustAddValue(t, c, "abc")

	snap := c.SerializeWithoutWipe()
	if len(snap) == 0 {
		t.Fatalf("expected non-empty snapshot")
	}
	if c.Len() == 0 {
		t.Fatalf("SerializeWithoutWipe must not clear the buffer")
	}

	out := c.Serialize()
	if !bytes.Equal(out, snap) {
		t.Fatalf("Serialize mismatch: got %x want %x", out, snap)
	}
	if c.Len() != 0 || c.Cursor() != 0 {
		t.Fatalf("Serialize must clear the codec")
	}

	mustAddValue(t, c, int64(5))
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Clear must empty the buffer")
	}

	c.Deserialize([]byte{0xc0, 0xc0})
	c.cursor = 1
	c.Reset()
	if c.Cursor() != 0 {
		t.Fatalf("Reset must zero the cursor")
	}
	if c.Len() != 2 {
		t.Fatalf("Reset must not touch the buffer")
	}
}

func mustAddValue(t *testing.T, c *Codec, v any) {
	t.Helper()
	if err := c.AddValue(v); err != nil {
		t.Fatalf("AddValue(%v): %v", v, err)
	}
}

// Scenario: nil, true, false, 1, -31.
func TestScenarioScalars(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, nil)
	mustAddValue(t, c, true)
	mustAddValue(t, c, false)
	mustAddValue(t, c, 1)
	mustAddValue(t, c, -31)

	got := c.SerializeWithoutWipe()
	want := []byte{0xc0, 0xc2, 0xc3, 0x01, 0xe1}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes mismatch: got %x want %x", got, want)
	}

	wantTypes := []Format{Nil, True, False, PositiveFixint, NegativeFixint}
	for _, wt := range wantTypes {
		if pt := c.PeekType(); pt != wt {
			t.Fatalf("PeekType: got %s want %s", pt, wt)
		}
		if wt == Nil {
			if err := c.GetNil(); err != nil {
				t.Fatalf("GetNil: %v", err)
			}
			continue
		}
		if err := c.SkipValue(1); err != nil {
			t.Fatalf("SkipValue: %v", err)
		}
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected buffer fully consumed, %d bytes left", c.Remaining())
	}
}

// Scenario 2: 0xFF as uint8.
func TestScenarioUint8(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, uint8(0xFF))
	got := c.SerializeWithoutWipe()
	want := []byte{0xcc, 0xff}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes mismatch: got %x want %x", got, want)
	}
	if pt := c.PeekType(); pt != Uint8 {
		t.Fatalf("PeekType: got %s want uint8", pt)
	}
	v, err := GetValue[uint8](c)
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if v != 255 {
		t.Fatalf("value mismatch: got %d want 255", v)
	}
}

// Scenario 3: a 36-char string, header d9 24.
func TestScenarioStr8(t *testing.T) {
	s := "123456789012345678901234567890345678"
	if len(s) != 36 {
		t.Fatalf("fixture length changed: %d", len(s))
	}
	c := New(Options{})
	mustAddValue(t, c, s)
	got := c.SerializeWithoutWipe()
	if got[0] != 0xd9 || got[1] != 0x24 {
		t.Fatalf("header mismatch: got %x", got[:2])
	}
	if pt := c.PeekType(); pt != Str8 {
		t.Fatalf("PeekType: got %s want str8", pt)
	}
	v, err := GetValue[string](c)
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if v != s {
		t.Fatalf("round trip mismatch: got %q want %q", v, s)
	}
}

// Scenario: array [10, 11, -21, 243] carried as signed int elements, so
// per the narrowest-signed-fit ladder 243 needs int16 (0xd1), not uint8:
// it exceeds int8's 127 ceiling. See DESIGN.md for the reasoning.
func TestScenarioArray(t *testing.T) {
	c := New(Options{})
	vals := []int{10, 11, -21, 243}
	if err := AddSlice(c, vals); err != nil {
		t.Fatalf("AddSlice: %v", err)
	}
	got := c.SerializeWithoutWipe()
	want := []byte{0x94, 0x0a, 0x0b, 0xeb, 0xd1, 0x00, 0xf3}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes mismatch: got %x want %x", got, want)
	}

	out, err := GetSlice[int](c)
	if err != nil {
		t.Fatalf("GetSlice: %v", err)
	}
	if len(out) != len(vals) {
		t.Fatalf("length mismatch: got %d want %d", len(out), len(vals))
	}
	for i := range vals {
		if out[i] != vals[i] {
			t.Fatalf("element %d mismatch: got %d want %d", i, out[i], vals[i])
		}
	}
}

// Scenario 5: map {1:"Test", 2:"Hallo", 3:"Hallo Test"}.
func TestScenarioMap(t *testing.T) {
	c := New(Options{})
	c.AddMap(3)
	mustAddValue(t, c, 1)
	mustAddValue(t, c, "Test")
	mustAddValue(t, c, 2)
	mustAddValue(t, c, "Hallo")
	mustAddValue(t, c, 3)
	mustAddValue(t, c, "Hallo Test")

	got := c.SerializeWithoutWipe()
	if got[0] != 0x83 {
		t.Fatalf("header mismatch: got %x", got[0])
	}

	m, err := GetMap[int, string](c)
	if err != nil {
		t.Fatalf("GetMap: %v", err)
	}
	want := map[int]string{1: "Test", 2: "Hallo", 3: "Hallo Test"}
	if len(m) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(m), len(want))
	}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("entry %d mismatch: got %q want %q", k, m[k], v)
		}
	}
}

// Scenario 6: skip equivalence and reset + full skip landing on Reserved.
func TestScenarioSkip(t *testing.T) {
	c := New(Options{})
	if err := AddSlice[any](c, []any{"test", 5, 256, 5.0, "Lol"}); err != nil {
		t.Fatalf("AddSlice: %v", err)
	}
	mustAddValue(t, c, 42)

	if err := c.SkipValue(1); err != nil {
		t.Fatalf("SkipValue: %v", err)
	}
	if pt := c.PeekType(); pt != PositiveFixint {
		t.Fatalf("PeekType after skip: got %s want positive-fixint", pt)
	}
	v, err := GetValue[int](c)
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if v != 42 {
		t.Fatalf("value mismatch: got %d want 42", v)
	}

	c.Reset()
	if err := c.SkipValue(5); err != nil {
		t.Fatalf("SkipValue: %v", err)
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected cursor at buffer end, %d bytes remain", c.Remaining())
	}
	if pt := c.PeekType(); pt != Reserved {
		t.Fatalf("PeekType at end: got %s want reserved", pt)
	}
}

func TestEmptyStringEncodesAsNil(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, "")
	got := c.SerializeWithoutWipe()
	if !bytes.Equal(got, []byte{0xc0}) {
		t.Fatalf("empty string should encode as bare nil tag: got %x", got)
	}
}

func TestSignedIntegerTagWidthMinimality(t *testing.T) {
	cases := []struct {
		v    int64
		want Format
	}{
		{0, PositiveFixint},
		{127, PositiveFixint},
		{128, Int16},
		{-1, NegativeFixint},
		{-32, NegativeFixint},
		{-33, Int8},
		{-128, Int8},
		{-129, Int16},
		{-32768, Int16},
		{-32769, Int32},
		{2147483648, Int64},
	}
	for _, tc := range cases {
		c := New(Options{})
		mustAddValue(t, c, tc.v)
		got := classify(c.SerializeWithoutWipe()[0])
		if got != tc.want {
			t.Fatalf("value %d: got tag %s want %s", tc.v, got, tc.want)
		}
	}
}

func TestUnsignedIntegerTagWidthMinimality(t *testing.T) {
	cases := []struct {
		v    uint64
		want Format
	}{
		{0, PositiveFixint},
		{127, PositiveFixint},
		{128, Uint8},
		{255, Uint8},
		{256, Uint16},
		{65535, Uint16},
		{65536, Uint32},
		{4294967296, Uint64},
	}
	for _, tc := range cases {
		c := New(Options{})
		mustAddValue(t, c, tc.v)
		got := classify(c.SerializeWithoutWipe()[0])
		if got != tc.want {
			t.Fatalf("value %d: got tag %s want %s", tc.v, got, tc.want)
		}
	}
}

func TestStringTagWidthMinimality(t *testing.T) {
	cases := []struct {
		n    int
		want Format
	}{
		{1, FixStr},
		{31, FixStr},
		{32, Str8},
		{255, Str8},
		{256, Str16},
	}
	for _, tc := range cases {
		c := New(Options{})
		mustAddValue(t, c, string(make([]byte, tc.n)))
		got := classify(c.SerializeWithoutWipe()[0])
		if got != tc.want {
			t.Fatalf("length %d: got tag %s want %s", tc.n, got, tc.want)
		}
	}
}

func TestBinTagWidthMinimality(t *testing.T) {
	cases := []struct {
		n    int
		want Format
	}{
		{0, Bin8},
		{255, Bin8},
		{256, Bin16},
		{65536, Bin32},
	}
	for _, tc := range cases {
		c := New(Options{})
		if err := c.AddBin(make([]byte, tc.n)); err != nil {
			t.Fatalf("AddBin: %v", err)
		}
		got := classify(c.SerializeWithoutWipe()[0])
		if got != tc.want {
			t.Fatalf("length %d: got tag %s want %s", tc.n, got, tc.want)
		}
	}
}

func TestFloatPrecisionNotWidenedOrNarrowed(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, float32(1.5))
	mustAddValue(t, c, float64(1.5))
	buf := c.SerializeWithoutWipe()
	if buf[0] != byte(Float32) {
		t.Fatalf("float32 value should not be widened: got tag 0x%02x", buf[0])
	}
	if buf[5] != byte(Float64) {
		t.Fatalf("float64 value should not be narrowed: got tag 0x%02x", buf[5])
	}
	f32, err := GetValue[float32](c)
	if err != nil || f32 != 1.5 {
		t.Fatalf("float32 round trip: got %v, err %v", f32, err)
	}
	f64, err := GetValue[float64](c)
	if err != nil || f64 != 1.5 {
		t.Fatalf("float64 round trip: got %v, err %v", f64, err)
	}
}

func TestEndiannessOfSizedFields(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, uint32(0x01020304))
	got := c.SerializeWithoutWipe()
	want := []byte{byte(Uint32), 0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(got, want) {
		t.Fatalf("big-endian mismatch: got %x want %x", got, want)
	}
}

func TestPeekIdempotence(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, "hello")
	c.Deserialize(c.SerializeWithoutWipe())
	first := c.PeekType()
	second := c.PeekType()
	if first != second {
		t.Fatalf("peek not idempotent: %s vs %s", first, second)
	}
	if c.Cursor() != 0 {
		t.Fatalf("peek must not advance the cursor")
	}
}

func TestInvalidCastError(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, "not a number")
	c.Deserialize(c.SerializeWithoutWipe())
	if _, err := GetValue[int](c); !errors.Is(err, ErrInvalidCast) {
		t.Fatalf("expected ErrInvalidCast, got %v", err)
	}
}

func TestEmptyStreamError(t *testing.T) {
	c := New(Options{})
	if _, err := GetValue[int](c); !errors.Is(err, ErrEmptyStream) {
		t.Fatalf("expected ErrEmptyStream, got %v", err)
	}
}

func TestInvalidFloatError(t *testing.T) {
	c := New(Options{})
	c.Deserialize([]byte{byte(Float64), 0x01, 0x02})
	if _, err := GetValue[float64](c); !errors.Is(err, ErrInvalidFloat) {
		t.Fatalf("expected ErrInvalidFloat, got %v", err)
	}
}

func TestUnknownTypeDuringSkip(t *testing.T) {
	c := New(Options{})
	c.Deserialize([]byte{byte(Ext8), 0x01, 0x02})
	if err := c.SkipValue(1); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestSkipToleratesShortBuffer(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, 1)
	mustAddValue(t, c, 2)
	c.Deserialize(c.SerializeWithoutWipe())
	if err := c.SkipValue(10); err != nil {
		t.Fatalf("SkipValue should stop early rather than error: %v", err)
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected cursor at end after over-requested skip")
	}
}

func TestUnpackArrayAndMapRejectWrongTag(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, 1)
	c.Deserialize(c.SerializeWithoutWipe())
	if _, err := c.UnpackArray(); !errors.Is(err, ErrInvalidCast) {
		t.Fatalf("UnpackArray: expected ErrInvalidCast, got %v", err)
	}
	c.Reset()
	if _, err := c.UnpackMap(); !errors.Is(err, ErrInvalidCast) {
		t.Fatalf("UnpackMap: expected ErrInvalidCast, got %v", err)
	}
}

func TestDuplicateKeysMultiMap(t *testing.T) {
	c := New(Options{})
	c.AddMap(2)
	mustAddValue(t, c, "k")
	mustAddValue(t, c, "old")
	mustAddValue(t, c, "k")
	mustAddValue(t, c, "new")
	c.Deserialize(c.SerializeWithoutWipe())

	mm, err := GetMultiMap[string, string](c)
	if err != nil {
		t.Fatalf("GetMultiMap: %v", err)
	}
	if len(mm["k"]) != 2 || mm["k"][0] != "old" || mm["k"][1] != "new" {
		t.Fatalf("expected both duplicate values preserved: %v", mm["k"])
	}

	c.Reset()
	m, err := GetMap[string, string](c)
	if err != nil {
		t.Fatalf("GetMap: %v", err)
	}
	if m["k"] != "new" {
		t.Fatalf("unique map should keep the last occurrence: got %q", m["k"])
	}
}

type point struct{ X, Y int }

func (p *point) MarshalMsgpack(c *Codec) error {
	if err := c.AddPair("x", p.X); err != nil {
		return err
	}
	return c.AddPair("y", p.Y)
}

func (p *point) UnmarshalMsgpack(c *Codec, pairs uint32) error {
	for i := uint32(0); i < pairs; i++ {
		k, err := GetValue[string](c)
		if err != nil {
			return err
		}
		v, err := GetValue[int](c)
		if err != nil {
			return err
		}
		switch k {
		case "x":
			p.X = v
		case "y":
			p.Y = v
		}
	}
	return nil
}

func TestUserAggregateRoundTripViaUnmarshaler(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, &point{X: 7, Y: -2})
	c.Deserialize(c.SerializeWithoutWipe())

	var got point
	if err := c.GetAggregate(&got); err != nil {
		t.Fatalf("GetAggregate: %v", err)
	}
	if got.X != 7 || got.Y != -2 {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestUserAggregate(t *testing.T) {
	c := New(Options{})
	mustAddValue(t, c, &point{X: 3, Y: 4})
	c.Deserialize(c.SerializeWithoutWipe())

	n, err := c.UnpackMap()
	if err != nil {
		t.Fatalf("UnpackMap: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 pairs, got %d", n)
	}
	got := map[string]int{}
	for i := uint32(0); i < n; i++ {
		k, err := GetValue[string](c)
		if err != nil {
			t.Fatalf("key: %v", err)
		}
		v, err := GetValue[int](c)
		if err != nil {
			t.Fatalf("value: %v", err)
		}
		got[k] = v
	}
	if got["x"] != 3 || got["y"] != 4 {
		t.Fatalf("unexpected aggregate contents: %v", got)
	}
}

// A nil *point reaches AddValue as a non-nil Marshaler interface value
// (its type is set, only the pointer is nil); AddValue must special-case
// this rather than calling MarshalMsgpack and dereferencing a nil p.
func TestNilPointerAggregateEncodesAsNil(t *testing.T) {
	c := New(Options{})
	var p *point
	mustAddValue(t, c, p)
	got := c.SerializeWithoutWipe()
	if !bytes.Equal(got, []byte{0xc0}) {
		t.Fatalf("expected bare nil tag, got %x", got)
	}
}
