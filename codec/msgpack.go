package codec

import "github.com/wirepack/wirepack/msgpack"

// Msgpack is a Codec for aggregate types that implement
// msgpack.Marshaler/msgpack.Unmarshaler, backed by wirepack's own
// MessagePack implementation rather than an external library.
//
// T is expected to be a pointer receiver type (e.g. *User) so Decode can
// allocate a zero instance and call UnmarshalMsgpack on it, mirroring how
// Protobuf handles message construction.
type Msgpack[T interface {
	msgpack.Marshaler
	msgpack.Unmarshaler
}] struct {
	// new returns a new zero value of T.
	new func() T
}

// NewMsgpack constructs a Msgpack codec for the given aggregate type T.
// Provide a constructor that returns a new instance of T.
func NewMsgpack[T interface {
	msgpack.Marshaler
	msgpack.Unmarshaler
}](ctor func() T) Msgpack[T] {
	return Msgpack[T]{new: ctor}
}

func (m Msgpack[T]) Encode(v T) ([]byte, error) {
	c := msgpack.New(msgpack.Options{})
	if err := c.AddValue(v); err != nil {
		return nil, err
	}
	return c.Serialize(), nil
}

func (m Msgpack[T]) Decode(b []byte) (T, error) {
	v := m.new()
	c := msgpack.New(msgpack.Options{})
	c.Deserialize(b)
	if err := c.GetAggregate(v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
