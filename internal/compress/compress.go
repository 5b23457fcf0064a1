// Package compress decodes compressed HTTP response bodies.
package compress

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// AcceptEncoding is the Accept-Encoding header value for the supported
// encodings.
const AcceptEncoding = "zstd, gzip"

// Decompressor decodes gzip and zstd bodies.
// Create once and reuse to eliminate allocations.
type Decompressor struct {
	decoder *zstd.Decoder
}

// NewDecompressor creates a reusable decompressor.
// Caller must call Close() when done to release resources.
func NewDecompressor() (*Decompressor, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Decompressor{
		decoder: decoder,
	}, nil
}

// Decompress decodes data according to a Content-Encoding value.
// The empty encoding and identity return data unchanged.
// Safe for concurrent use from multiple goroutines.
func (d *Decompressor) Decompress(encoding string, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return data, nil
	case "zstd":
		// DecodeAll is goroutine-safe
		out, err := d.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress zstd: %w", err)
		}
		return out, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported content encoding %q", encoding)
}

// Close releases decompressor resources.
func (d *Decompressor) Close() {
	if d.decoder != nil {
		d.decoder.Close()
	}
}
