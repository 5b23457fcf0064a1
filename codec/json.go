package codec

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// JSON decodes output_type=json bodies.
type JSON struct{}

// OutputType implements Codec.
func (JSON) OutputType() OutputType { return OutputJSON }

// Decode implements Codec.
func (JSON) Decode(data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return Normalize(v), nil
}

// DecodeEnvelope implements Codec.
func (c JSON) DecodeEnvelope(data []byte) (Header, any, error) {
	v, err := c.Decode(data)
	if err != nil {
		return Header{}, nil, err
	}
	return SplitEnvelope(v)
}

// MarshalValues encodes records for the --values argument of load.
func MarshalValues(records any) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode load values: %w", err)
	}
	return string(data), nil
}
