package msgpack

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, checkable with errors.Is. Each concrete error below
// wraps exactly one of these alongside the context that produced it: a
// typed struct with a formatted Error() and an Unwrap() that exposes the
// sentinel.
var (
	// ErrInvalidCast is returned when the next tag is not in the accepted
	// tag family for the requested result type.
	ErrInvalidCast = errors.New("msgpack: invalid cast")
	// ErrEmptyStream is returned when a consume or non-skip operation is
	// attempted with the cursor at or past the end of the buffer.
	ErrEmptyStream = errors.New("msgpack: empty stream")
	// ErrInvalidFloat is returned when fewer bytes remain than the
	// declared float width requires.
	ErrInvalidFloat = errors.New("msgpack: invalid floating point")
	// ErrUnknownType is returned when the skip walker encounters a byte
	// matching no known tag family.
	ErrUnknownType = errors.New("msgpack: unknown type")
)

// CastError reports a tag-family mismatch between what was requested and
// what the stream actually held at the given cursor offset.
type CastError struct {
	Offset   int
	Tag      Format
	Wanted   string
	Sentinel error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("msgpack: invalid cast at offset %d: tag %s is not a valid %s", e.Offset, e.Tag, e.Wanted)
}

func (e *CastError) Unwrap() error { return e.Sentinel }

func newCastError(offset int, tag Format, wanted string) *CastError {
	return &CastError{Offset: offset, Tag: tag, Wanted: wanted, Sentinel: ErrInvalidCast}
}

// StreamError reports that a read was attempted past the end of the buffer.
type StreamError struct {
	Offset, Length int
	Sentinel       error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("msgpack: empty stream: cursor %d, buffer length %d", e.Offset, e.Length)
}

func (e *StreamError) Unwrap() error { return e.Sentinel }

func newStreamError(offset, length int) *StreamError {
	return &StreamError{Offset: offset, Length: length, Sentinel: ErrEmptyStream}
}

// FloatError reports a float payload truncated below its declared width.
type FloatError struct {
	Offset, Want, Have int
	Sentinel           error
}

func (e *FloatError) Error() string {
	return fmt.Sprintf("msgpack: invalid floating point at offset %d: need %d bytes, have %d", e.Offset, e.Want, e.Have)
}

func (e *FloatError) Unwrap() error { return e.Sentinel }

func newFloatError(offset, want, have int) *FloatError {
	return &FloatError{Offset: offset, Want: want, Have: have, Sentinel: ErrInvalidFloat}
}

// UnknownTypeError reports a tag byte the skip walker does not recognize.
type UnknownTypeError struct {
	Offset   int
	Tag      byte
	Sentinel error
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("msgpack: unknown type 0x%02x at offset %d", e.Tag, e.Offset)
}

func (e *UnknownTypeError) Unwrap() error { return e.Sentinel }

func newUnknownTypeError(offset int, tag byte) *UnknownTypeError {
	return &UnknownTypeError{Offset: offset, Tag: tag, Sentinel: ErrUnknownType}
}

// SizeError reports a binary payload longer than the bin32 length field can
// represent (above uint32 max); AddBin returns it instead of truncating the
// length. Unlike the errors above, it wraps no sentinel.
type SizeError struct {
	Size uint64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("msgpack: size %d exceeds uint32 length field", e.Size)
}
