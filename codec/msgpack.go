package codec

import (
	"github.com/hugr-lab/groonga-go/internal/msgpack"
)

// MsgPack decodes output_type=msgpack bodies.
type MsgPack struct{}

// OutputType implements Codec.
func (MsgPack) OutputType() OutputType { return OutputMsgPack }

// Decode implements Codec.
func (MsgPack) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	v, err := msgpack.Decode(data)
	if err != nil {
		return nil, err
	}
	return Normalize(v), nil
}

// DecodeEnvelope implements Codec.
func (c MsgPack) DecodeEnvelope(data []byte) (Header, any, error) {
	v, err := c.Decode(data)
	if err != nil {
		return Header{}, nil, err
	}
	return SplitEnvelope(v)
}
