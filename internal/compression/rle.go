package compression

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"
)

// Run counter widths accepted by NewRLECodec.
const (
	RLEWord8  = 1 // 1-byte counters, runs up to 255
	RLEWord16 = 2 // 2-byte little-endian counters, runs up to 65535
)

// RLECodec encodes byte runs as (count, value) packets. The counter width
// is fixed at construction: wider counters pay off only on data with very
// long runs, since every packet grows by a byte.
type RLECodec struct {
	wordSize int
}

// NewRLECodec returns an RLE codec using the given counter width, RLEWord8
// or RLEWord16. Any other width is a programmer error.
func NewRLECodec(wordSize int) RLECodec {
	if wordSize != RLEWord8 && wordSize != RLEWord16 {
		panic(fmt.Sprintf("compression: invalid rle word size %d", wordSize))
	}
	return RLECodec{wordSize: wordSize}
}

func (c RLECodec) Encoding() Encoding { return EncodingRLE }

func (c RLECodec) maxRun() int {
	if c.wordSize == RLEWord16 {
		return 0xFFFF
	}
	return 0xFF
}

// Compress emits (count, value) packets into a buffer capped at twice the
// input size. A run ends when the value changes or the counter saturates;
// a longer run simply continues as an adjacent packet with the same value.
// Input that expands past the cap fails with ErrOverflow, and the caller is
// expected to keep such data uncompressed.
func (c RLECodec) Compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, 2*len(src))
	w := bytewriter.New(buf)
	written := 0
	maxRun := c.maxRun()

	flush := func(count int, value byte) error {
		var packet [3]byte
		n := c.wordSize
		if c.wordSize == RLEWord16 {
			binary.LittleEndian.PutUint16(packet[0:2], uint16(count))
		} else {
			packet[0] = byte(count)
		}
		packet[n] = value
		m, err := w.Write(packet[:n+1])
		written += m
		if err != nil {
			return fmt.Errorf("%w: rle output exceeds %d bytes", ErrOverflow, len(buf))
		}
		return nil
	}

	run := 1
	value := src[0]
	for _, b := range src[1:] {
		if b == value && run < maxRun {
			run++
			continue
		}
		if err := flush(run, value); err != nil {
			return nil, err
		}
		run, value = 1, b
	}
	if err := flush(run, value); err != nil {
		return nil, err
	}
	return buf[:written], nil
}

// Decompress expands (count, value) packets. The packet layout is
// self-describing, so RLE carries no frame header.
func (c RLECodec) Decompress(src []byte) ([]byte, error) {
	packet := c.wordSize + 1
	if len(src)%packet != 0 {
		return nil, fmt.Errorf("%w: rle stream truncated mid-packet", ErrCorrupt)
	}
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i += packet {
		var count int
		if c.wordSize == RLEWord16 {
			count = int(binary.LittleEndian.Uint16(src[i : i+2]))
		} else {
			count = int(src[i])
		}
		value := src[i+c.wordSize]
		out = append(out, bytes.Repeat([]byte{value}, count)...)
	}
	return out, nil
}
