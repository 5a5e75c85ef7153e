package ports

import "io"

// Codec serializes values for the buffer and the batch body. The client core
// is codec-agnostic: it only requires that values encoded one at a time and
// concatenated can be read back with a Decoder over the concatenation.
type Codec interface {
	// Encode serializes a single value.
	Encode(v any) ([]byte, error)

	// NewDecoder returns a Decoder that reads successive values from r.
	NewDecoder(r io.Reader) Decoder

	// ContentType identifies the serialization format on the wire,
	// e.g. "application/json".
	ContentType() string
}

// Decoder reads successive encoded values from a stream.
type Decoder interface {
	// Decode reads the next value from the stream into v.
	// Returns io.EOF when the stream is cleanly exhausted after a whole
	// number of values; any other error indicates corruption.
	Decode(v any) error
}
