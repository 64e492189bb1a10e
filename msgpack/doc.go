// Package msgpack implements a self-contained encoder/decoder for the
// MessagePack binary interchange format: integers, floats, bool, nil,
// strings, raw binary, arrays, maps, and user-defined aggregates
// serialized through a small callback interface. The extension family
// (0xc7-0xc9, 0xd4-0xd8) has entries in the tag table but is never
// produced, decoded, or skipped: SkipValue reports ErrUnknownType for it.
//
// A Codec is a single, sequential, single-owner state machine: it either
// appends to a write buffer (producer mode) or advances a read cursor over
// an installed buffer (consumer mode). It is not safe for concurrent use by
// multiple goroutines; give each producer or consumer its own Codec.
//
// Writing dispatches on the Go dynamic type of the value and picks the
// narrowest tag that can hold it (AddValue). Reading validates that the
// tag at the cursor belongs to the family the caller asked for before
// decoding its payload (GetValue). PeekType classifies the next tag
// without consuming it, and SkipValue walks past whole values — including
// nested arrays and maps — without materializing them.
package msgpack
