package compression

import (
	"encoding/binary"
	"fmt"
)

// Bit-packed codec frames (LZW, Huffman) open with two little-endian uint32
// fields:
//
//	[compressed_size_bytes (4 LE)] [compressed_size_bits (4 LE)] [payload...]
//
// compressed_size_bytes counts the packed bitstream bytes closing the frame;
// compressed_size_bits is the exact number of valid bits inside them, so pad
// bits in the last byte are never decoded. Huffman inserts its 256-byte code
// length table between header and bitstream. The LZ4 frame reuses the same
// header shape with byte counts in both fields.

// FrameHeaderSize is the fixed byte length of the two-field frame header.
const FrameHeaderSize = 8

func putFrameHeader(dst []byte, first, second int) {
	binary.LittleEndian.PutUint32(dst[0:4], uint32(first))
	binary.LittleEndian.PutUint32(dst[4:8], uint32(second))
}

func readFrameHeader(src []byte) (first, second int, err error) {
	if len(src) < FrameHeaderSize {
		return 0, 0, fmt.Errorf("%w: frame too small: %d bytes", ErrCorrupt, len(src))
	}
	first = int(binary.LittleEndian.Uint32(src[0:4]))
	second = int(binary.LittleEndian.Uint32(src[4:8]))
	return first, second, nil
}

// newBitFrame assembles a frame from a packed bitstream and its exact bit
// count. extra carries codec bytes placed between header and stream.
func newBitFrame(extra, stream []byte, sizeBits int) []byte {
	out := make([]byte, FrameHeaderSize+len(extra)+len(stream))
	putFrameHeader(out, len(stream), sizeBits)
	copy(out[FrameHeaderSize:], extra)
	copy(out[FrameHeaderSize+len(extra):], stream)
	return out
}

// checkBitCount enforces that the declared bit count actually lands inside
// the final payload byte.
func checkBitCount(sizeBytes, sizeBits int) error {
	if sizeBits > sizeBytes*8 || (sizeBytes > 0 && sizeBits <= (sizeBytes-1)*8) {
		return fmt.Errorf("%w: %d bits do not fit %d payload bytes", ErrCorrupt, sizeBits, sizeBytes)
	}
	return nil
}
