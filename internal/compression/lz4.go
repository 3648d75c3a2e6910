package compression

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// LZ4Codec wraps LZ4 block compression. Its frame counts the stored payload
// in the first header field and the uncompressed data in the second; equal
// fields mark a raw store for incompressible input, so Decompress never
// feeds plain bytes to the block decoder.
type LZ4Codec struct{}

func (LZ4Codec) Encoding() Encoding { return EncodingLZ4 }

func lz4Frame(payload []byte, uncompressedSize int) []byte {
	out := make([]byte, FrameHeaderSize+len(payload))
	putFrameHeader(out, len(payload), uncompressedSize)
	copy(out[FrameHeaderSize:], payload)
	return out
}

func (LZ4Codec) Compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return lz4Frame(nil, 0), nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := lz4.CompressBlock(src, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 || n >= len(src) {
		// Data is incompressible, store as-is
		return lz4Frame(src, len(src)), nil
	}
	return lz4Frame(dst[:n], len(src)), nil
}

func (LZ4Codec) Decompress(src []byte) ([]byte, error) {
	payloadSize, uncompressedSize, err := readFrameHeader(src)
	if err != nil {
		return nil, err
	}
	if len(src) != FrameHeaderSize+payloadSize {
		return nil, fmt.Errorf("%w: lz4 frame declares %d payload bytes, have %d",
			ErrCorrupt, payloadSize, len(src)-FrameHeaderSize)
	}
	payload := src[FrameHeaderSize:]
	dst := make([]byte, uncompressedSize)
	if payloadSize == uncompressedSize {
		copy(dst, payload)
		return dst, nil
	}
	n, err := lz4.UncompressBlock(payload, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 block: %v", ErrCorrupt, err)
	}
	if n != uncompressedSize {
		return nil, fmt.Errorf("%w: lz4 expected %d bytes, got %d", ErrCorrupt, uncompressedSize, n)
	}
	return dst, nil
}
