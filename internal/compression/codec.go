package compression

import (
	"errors"
	"fmt"
	"strings"
)

// Encoding identifies a codec variant.
type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingRLE
	EncodingLZW
	EncodingHuffman
	EncodingLZ4
)

var encodingNames = []string{
	EncodingNone:    "none",
	EncodingRLE:     "rle",
	EncodingLZW:     "lzw",
	EncodingHuffman: "huff",
	EncodingLZ4:     "lz4",
}

// Encodings lists every registered encoding in declaration order.
func Encodings() []Encoding {
	out := make([]Encoding, len(encodingNames))
	for i := range encodingNames {
		out[i] = Encoding(i)
	}
	return out
}

func (e Encoding) String() string {
	if e < 0 || int(e) >= len(encodingNames) {
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
	return encodingNames[e]
}

// ParseEncoding maps a name like "rle" to its Encoding. Case-insensitive.
func ParseEncoding(s string) (Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range encodingNames {
		if n == name {
			return Encoding(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

// Codec compresses and decompresses whole in-memory buffers.
//
// Implementations are stateless apart from configuration fixed at
// construction, so one instance is safe for concurrent use. Codecs never
// modify src and always return freshly allocated results; Decompress is the
// exact inverse of Compress for every input, including empty ones. Failure
// is always reported through the error value, never as an empty buffer.
type Codec interface {
	// Encoding returns the codec's identity in the encoding registry.
	Encoding() Encoding
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

var (
	// ErrUnknownEncoding reports an encoding value or name outside the
	// registry. Seeing it from NewCodec means the call site is broken.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrCorrupt reports a frame or stream that the matching Compress
	// cannot have produced. Not recoverable.
	ErrCorrupt = errors.New("corrupt compressed data")

	// ErrOverflow reports compressed output exceeding its bounded buffer.
	// Recoverable: the caller may store the data uncompressed instead.
	ErrOverflow = errors.New("compressed output overflows buffer")
)

// NewCodec returns the codec for enc with default configuration.
func NewCodec(enc Encoding) (Codec, error) {
	switch enc {
	case EncodingNone:
		return NoOpCodec{}, nil
	case EncodingRLE:
		return NewRLECodec(RLEWord8), nil
	case EncodingLZW:
		return LZWCodec{}, nil
	case EncodingHuffman:
		return HuffmanCodec{}, nil
	case EncodingLZ4:
		return LZ4Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: Encoding(%d)", ErrUnknownEncoding, int(enc))
	}
}
