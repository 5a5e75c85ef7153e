// Package codec provides the default wire codec for recship.
//
// The buffer stores a concatenation of independently encoded values, so the
// codec must support reading values back from that concatenation one at a
// time. encoding/json's stream decoder does exactly that.
package codec

import (
	"encoding/json"
	"io"

	"github.com/bft-labs/recship/internal/ports"
)

// JSON implements ports.Codec using encoding/json.
type JSON struct{}

// NewJSON creates the default JSON codec.
func NewJSON() JSON {
	return JSON{}
}

// Encode serializes v as a single JSON document.
func (JSON) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// NewDecoder returns a stream decoder over r. Decode returns io.EOF once the
// stream is cleanly exhausted.
func (JSON) NewDecoder(r io.Reader) ports.Decoder {
	return json.NewDecoder(r)
}

// ContentType identifies the format for the HTTP Content-Type header.
func (JSON) ContentType() string {
	return "application/json"
}
