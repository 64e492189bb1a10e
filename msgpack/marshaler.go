package msgpack

// Marshaler is the user-aggregate extension point: a caller type
// implements MarshalMsgpack to publish its fields as key/value pairs
// against the child Codec it is handed; the parent Codec wraps the
// child's buffer in a map header whose pair count is read back from the
// child once the callback returns.
//
// MarshalMsgpack must not retain child after it returns.
type Marshaler interface {
	MarshalMsgpack(child *Codec) error
}

// writeAggregate is the Go restatement of CMessagePack::ValueToMsgPack's
// class-type overload: a fresh child Codec collects the aggregate's
// fields via AddPair, and the parent emits a map header sized from the
// child's pair counter before splicing in the child's buffer.
func (c *Codec) writeAggregate(v Marshaler) error {
	child := &Codec{}
	if err := v.MarshalMsgpack(child); err != nil {
		return err
	}
	c.AddMap(child.pairs)
	c.buf = append(c.buf, child.buf...)
	return nil
}

// Unmarshaler is the read-side counterpart of Marshaler, the Go
// restatement of CMessagePack::MsgPackToValue's class-type overload. A
// caller type implements UnmarshalMsgpack to consume the n key/value
// pairs of a map header already unpacked by the parent Codec, reading
// directly off the parent's cursor.
type Unmarshaler interface {
	UnmarshalMsgpack(c *Codec, pairs uint32) error
}

// GetAggregate consumes a map header and hands its declared pair count to
// v's UnmarshalMsgpack, which is responsible for reading exactly that
// many key/value pairs off c. This is the read-side counterpart of
// AddValue's Marshaler case.
func (c *Codec) GetAggregate(v Unmarshaler) error {
	n, err := c.UnpackMap()
	if err != nil {
		return err
	}
	return v.UnmarshalMsgpack(c, n)
}
