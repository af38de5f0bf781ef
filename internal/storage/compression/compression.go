package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4"
)

// Compressor compresses ledger entry payloads before they hit the
// key-value store.
type Compressor interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Get returns the compressor registered under name.
func Get(name string) (Compressor, error) {
	switch name {
	case "", "lz4":
		return &LZ4Compressor{}, nil
	case "none":
		return &NoCompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compressor %q", name)
	}
}

// NoCompressor implements a pass-through compressor that doesn't compress data.
type NoCompressor struct{}

// Name returns the name of the compressor.
func (c *NoCompressor) Name() string {
	return "none"
}

// Compress returns a copy of the data unchanged.
func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// Decompress returns a copy of the data unchanged.
func (c *NoCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// Block layout for LZ4Compressor: uvarint uncompressed length, one
// flag byte, then the body.
const (
	blockRaw = 0
	blockLZ4 = 1
)

// LZ4Compressor implements LZ4 block compression. The uncompressed
// length is stored in a uvarint prefix so decompression allocates
// exactly once; incompressible input is stored raw.
type LZ4Compressor struct{}

// Name returns the name of the compressor.
func (c *LZ4Compressor) Name() string {
	return "lz4"
}

// Compress compresses data using LZ4.
func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	header := binary.AppendUvarint(nil, uint64(len(data)))
	if len(data) == 0 {
		return append(header, blockRaw), nil
	}

	compressed := make([]byte, len(header)+1+lz4.CompressBlockBound(len(data)))
	copy(compressed, header)
	compressed[len(header)] = blockLZ4

	n, err := lz4.CompressBlock(data, compressed[len(header)+1:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if n == 0 || n >= len(data) {
		// CompressBlock signals incompressible input with a zero length.
		raw := append(header, blockRaw)
		return append(raw, data...), nil
	}
	return compressed[:len(header)+1+n], nil
}

// Decompress decompresses LZ4 data produced by Compress.
func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	size, n := binary.Uvarint(data)
	if n <= 0 || len(data) < n+1 {
		return nil, fmt.Errorf("lz4 decompression failed: bad header")
	}
	flag := data[n]
	body := data[n+1:]

	switch flag {
	case blockRaw:
		if uint64(len(body)) != size {
			return nil, fmt.Errorf("lz4 decompression failed: raw length mismatch")
		}
		return append([]byte(nil), body...), nil
	case blockLZ4:
		decompressed := make([]byte, size)
		m, err := lz4.UncompressBlock(body, decompressed)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		return decompressed[:m], nil
	default:
		return nil, fmt.Errorf("lz4 decompression failed: unknown block flag %d", flag)
	}
}
