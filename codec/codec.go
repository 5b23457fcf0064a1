// Package codec decodes Groonga response bodies into untyped trees.
//
// Every codec produces the same shape regardless of the wire format:
// nil, bool, int64, uint64 (only above math.MaxInt64), float64, string,
// []any and map[string]any, plus catalog.GeoPoint for Arrow geometry
// columns. A select body decodes to
//
//	[]any{
//	    []any{                      // result set
//	        []any{int64(nHits)},
//	        []any{[]any{"_id", "UInt32"}, ...},
//	        []any{int64(1), ...},   // rows
//	    },
//	    ...                         // drilldowns
//	}
//
// The HTTP interface wraps bodies in an envelope
// [[return_code, start_time, elapsed_time, message], body]; DecodeEnvelope
// splits it. GQTP carries the return code in its frame header and sends
// bare bodies, decoded by Decode.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hugr-lab/groonga-go/rc"
)

// OutputType is the value of the output_type command argument.
type OutputType string

const (
	OutputJSON    OutputType = "json"
	OutputMsgPack OutputType = "msgpack"
	OutputArrow   OutputType = "apache-arrow"
)

// Sentinel errors.
var (
	// ErrUnknownOutputType is returned for output types no codec handles.
	ErrUnknownOutputType = errors.New("unknown output type")

	// ErrMalformed is returned when a response does not have the expected shape.
	ErrMalformed = errors.New("malformed response")
)

// ParseOutputType parses an output type name. The empty string means JSON.
func ParseOutputType(s string) (OutputType, error) {
	switch OutputType(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputJSON:
		return OutputJSON, nil
	case OutputMsgPack:
		return OutputMsgPack, nil
	case OutputArrow, "arrow":
		return OutputArrow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutputType, s)
}

// Header is the status part of an HTTP envelope.
type Header struct {
	Code    rc.Code
	Start   float64
	Elapsed float64
	Message string
}

// Err converts a failing header into an *rc.Error.
func (h Header) Err(command string) error {
	return rc.Check(h.Code, h.Message, command)
}

// Codec decodes response bodies of one output type.
// Implementations MUST be safe for concurrent use.
type Codec interface {
	// OutputType returns the output_type the codec understands.
	OutputType() OutputType

	// Decode decodes a bare body.
	Decode(data []byte) (any, error)

	// DecodeEnvelope decodes an HTTP response into its header and body.
	DecodeEnvelope(data []byte) (Header, any, error)
}

// New returns the codec for t.
func New(t OutputType) (Codec, error) {
	switch t {
	case "", OutputJSON:
		return JSON{}, nil
	case OutputMsgPack:
		return MsgPack{}, nil
	case OutputArrow:
		return NewArrow(nil), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOutputType, t)
}

// SplitEnvelope splits a decoded [header, body] envelope.
func SplitEnvelope(v any) (Header, any, error) {
	env, ok := v.([]any)
	if !ok || len(env) == 0 {
		return Header{}, nil, fmt.Errorf("%w: envelope must be a non-empty array, got %T", ErrMalformed, v)
	}
	head, ok := env[0].([]any)
	if !ok || len(head) == 0 {
		return Header{}, nil, fmt.Errorf("%w: envelope header must be a non-empty array", ErrMalformed)
	}

	var h Header
	code, ok := Int64(head[0])
	if !ok {
		return Header{}, nil, fmt.Errorf("%w: return code %v is not an integer", ErrMalformed, head[0])
	}
	h.Code = rc.Code(code)
	if len(head) > 1 {
		h.Start, _ = Float64(head[1])
	}
	if len(head) > 2 {
		h.Elapsed, _ = Float64(head[2])
	}
	if len(head) > 3 {
		h.Message, _ = head[3].(string)
	}

	var body any
	if len(env) > 1 {
		body = env[1]
	}
	return h, body, nil
}
