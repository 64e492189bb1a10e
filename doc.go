// Package wirepack wires the msgpack codec into a small stack of
// consumer-facing components: a generic Codec[V] adapter so msgpack can be
// swapped for JSON, CBOR, or Protobuf without touching call sites, and a
// byte-store Provider abstraction (Ristretto, BigCache, Redis) for caching
// the encoded output.
//
// Components:
//   - msgpack.Codec: the wire-format encoder/decoder (see the msgpack
//     package).
//   - codec.Codec[V]: (de)serializes a Go value V to and from []byte,
//     with Msgpack, JSON, CBOR, and Protobuf implementations.
//   - provider.Provider: a byte store with TTL, fronting the encoded
//     payloads produced by a codec.Codec.
package wirepack
