// Package msgpack decodes MessagePack response bodies
// (output_type=msgpack) into untyped values.
package msgpack

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Decode deserializes a MessagePack document into untyped values.
// Integers decode as int64 or uint64, floats as float64, maps as
// map[string]any when every key is a string.
//
// Example:
//
//	v, err := msgpack.Decode(body)
//	envelope := v.([]any)
func Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty MessagePack data")
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)

	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return v, nil
}

// Encode serializes a Go value into MessagePack format.
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	return data, nil
}
