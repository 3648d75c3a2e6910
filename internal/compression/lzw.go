package compression

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// LZW parameters. Codes start one bit wider than a byte and widen at each
// power-of-two dictionary fill, up to lzwMaxWidth. A full dictionary is
// frozen rather than reset, so both sides stay in lockstep on long inputs.
const (
	lzwLiterals   = 256
	lzwStartWidth = 9
	lzwMaxWidth   = 12
	lzwMaxEntries = 1 << lzwMaxWidth
)

// LZWCodec is a variable-width dictionary codec in the classic LZW shape:
// the dictionary seeds with all single-byte sequences and grows one entry
// per emitted code.
type LZWCodec struct{}

func (LZWCodec) Encoding() Encoding { return EncodingLZW }

// Compress emits dictionary codes MSB-first through a bit writer and frames
// them with the packed byte count and the exact bit count.
func (LZWCodec) Compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return newBitFrame(nil, nil, 0), nil
	}

	var stream bytes.Buffer
	w := bitio.NewWriter(&stream)

	// Multi-byte sequences are keyed by (prefix code, next byte); the 256
	// literals need no entries.
	dict := make(map[int]int, lzwMaxEntries)
	nextCode := lzwLiterals
	width := lzwStartWidth
	sizeBits := 0

	emit := func(code int) error {
		if err := w.WriteBits(uint64(code), uint8(width)); err != nil {
			return fmt.Errorf("lzw compress: %w", err)
		}
		sizeBits += width
		return nil
	}

	prev := int(src[0])
	for _, b := range src[1:] {
		key := prev<<8 | int(b)
		if code, ok := dict[key]; ok {
			prev = code
			continue
		}
		if err := emit(prev); err != nil {
			return nil, err
		}
		if nextCode < lzwMaxEntries {
			dict[key] = nextCode
			nextCode++
			if nextCode == 1<<width && width < lzwMaxWidth {
				width++
			}
		}
		prev = int(b)
	}
	if err := emit(prev); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lzw compress: %w", err)
	}
	return newBitFrame(nil, stream.Bytes(), sizeBits), nil
}

// Decompress rebuilds dictionary entries as (prefix, suffix) chains and
// walks a chain per code. The decoder's table lags the encoder's by one
// entry, which is why it widens codes at (1<<width)-1 where the encoder
// widens at 1<<width, and why a code may name the entry being defined
// (previous sequence plus its own first byte).
func (LZWCodec) Decompress(src []byte) ([]byte, error) {
	sizeBytes, sizeBits, err := readFrameHeader(src)
	if err != nil {
		return nil, err
	}
	if len(src) != FrameHeaderSize+sizeBytes {
		return nil, fmt.Errorf("%w: lzw frame declares %d payload bytes, have %d",
			ErrCorrupt, sizeBytes, len(src)-FrameHeaderSize)
	}
	if err := checkBitCount(sizeBytes, sizeBits); err != nil {
		return nil, err
	}
	if sizeBits == 0 {
		return []byte{}, nil
	}

	r := bitio.NewReader(bytes.NewReader(src[FrameHeaderSize:]))
	var (
		prefix [lzwMaxEntries]int
		suffix [lzwMaxEntries]byte
	)
	nextCode := lzwLiterals
	width := lzwStartWidth
	bitsRead := 0

	readCode := func() (int, error) {
		v, err := r.ReadBits(uint8(width))
		if err != nil {
			return 0, fmt.Errorf("%w: lzw stream ends inside a code", ErrCorrupt)
		}
		bitsRead += width
		return int(v), nil
	}

	// Every chain bottoms out at a literal; collect suffixes backwards and
	// reverse.
	scratch := make([]byte, 0, 64)
	expand := func(code int) []byte {
		scratch = scratch[:0]
		for code >= lzwLiterals {
			scratch = append(scratch, suffix[code])
			code = prefix[code]
		}
		scratch = append(scratch, byte(code))
		for i, j := 0, len(scratch)-1; i < j; i, j = i+1, j-1 {
			scratch[i], scratch[j] = scratch[j], scratch[i]
		}
		return scratch
	}

	code, err := readCode()
	if err != nil {
		return nil, err
	}
	if code >= lzwLiterals {
		return nil, fmt.Errorf("%w: lzw leading code %d is not a literal", ErrCorrupt, code)
	}
	out := make([]byte, 0, 2*len(src))
	out = append(out, byte(code))
	prevCode := code
	prevFirst := byte(code)

	for bitsRead+width <= sizeBits {
		code, err := readCode()
		if err != nil {
			return nil, err
		}

		var seq []byte
		switch {
		case code < nextCode:
			seq = expand(code)
		case code == nextCode && nextCode < lzwMaxEntries:
			seq = append(expand(prevCode), prevFirst)
		default:
			return nil, fmt.Errorf("%w: lzw code %d beyond dictionary size %d",
				ErrCorrupt, code, nextCode)
		}

		if nextCode < lzwMaxEntries {
			prefix[nextCode] = prevCode
			suffix[nextCode] = seq[0]
			nextCode++
			if nextCode == (1<<width)-1 && width < lzwMaxWidth {
				width++
			}
		}
		out = append(out, seq...)
		prevCode = code
		prevFirst = seq[0]
	}
	if bitsRead != sizeBits {
		return nil, fmt.Errorf("%w: lzw stream leaves %d trailing bits", ErrCorrupt, sizeBits-bitsRead)
	}
	return out, nil
}
