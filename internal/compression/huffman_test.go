package compression_test

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedkit/fontpack/internal/compression"
)

const huffTableSize = 256

// huffFrame assembles a Huffman frame by hand from a length table and a
// pre-packed bitstream.
func huffFrame(table [huffTableSize]byte, stream []byte, sizeBits int) []byte {
	frame := make([]byte, compression.FrameHeaderSize+huffTableSize+len(stream))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(len(stream)))
	binary.LittleEndian.PutUint32(frame[4:8], uint32(sizeBits))
	copy(frame[compression.FrameHeaderSize:], table[:])
	copy(frame[compression.FrameHeaderSize+huffTableSize:], stream)
	return frame
}

func TestHuffmanRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	random := make([]byte, 8192)
	rng.Read(random)

	inputs := map[string][]byte{
		"empty":       {},
		"single byte": {0x41},
		"skewed":      append(bytes.Repeat([]byte{'A'}, 900), bytes.Repeat([]byte{'B'}, 100)...),
		"text":        bytes.Repeat([]byte("ABRACADABRA "), 512),
		"random":      random,
	}
	codec := compression.HuffmanCodec{}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(input)
			require.NoError(t, err)
			got, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, input, got)
		})
	}
}

// An input with one distinct byte value still needs a real code: the lone
// symbol is assigned length 1, and the serialized table names exactly that
// symbol.
func TestHuffmanSingleSymbol(t *testing.T) {
	input := bytes.Repeat([]byte{0x41}, 10000)
	codec := compression.HuffmanCodec{}
	compressed, err := codec.Compress(input)
	require.NoError(t, err)

	// one bit per input byte, rounded up to whole stream bytes
	expectedLen := compression.FrameHeaderSize + huffTableSize + (10000+7)/8
	assert.Equal(t, expectedLen, len(compressed))

	table := compressed[compression.FrameHeaderSize : compression.FrameHeaderSize+huffTableSize]
	nonzero := 0
	for _, l := range table {
		if l != 0 {
			nonzero++
		}
	}
	assert.Equal(t, 1, nonzero)
	assert.EqualValues(t, 1, table[0x41])

	got, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestHuffmanDeterministicOutput(t *testing.T) {
	input := []byte("deterministic tie breaking means byte-identical frames")
	codec := compression.HuffmanCodec{}
	first, err := codec.Compress(input)
	require.NoError(t, err)
	second, err := codec.Compress(input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHuffmanCompressesSkewedData(t *testing.T) {
	input := bytes.Repeat([]byte("AAAAAAAB"), 1024)
	codec := compression.HuffmanCodec{}
	compressed, err := codec.Compress(input)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(input))
}

func TestHuffmanEmptyInputFrame(t *testing.T) {
	codec := compression.HuffmanCodec{}
	compressed, err := codec.Compress(nil)
	require.NoError(t, err)
	assert.Equal(t, compression.FrameHeaderSize+huffTableSize, len(compressed))
	got, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHuffmanCorruptFrames(t *testing.T) {
	codec := compression.HuffmanCodec{}
	valid, err := codec.Compress([]byte("ABRACADABRA"))
	require.NoError(t, err)

	t.Run("truncated header", func(t *testing.T) {
		_, err := codec.Decompress(valid[:6])
		assert.ErrorIs(t, err, compression.ErrCorrupt)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := codec.Decompress(valid[:len(valid)-1])
		assert.ErrorIs(t, err, compression.ErrCorrupt)
	})

	t.Run("oversubscribed length table", func(t *testing.T) {
		tampered := append([]byte(nil), valid...)
		for i := 0; i < huffTableSize; i++ {
			tampered[compression.FrameHeaderSize+i] = 1
		}
		_, err := codec.Decompress(tampered)
		assert.ErrorIs(t, err, compression.ErrCorrupt)
	})

	t.Run("length out of range", func(t *testing.T) {
		tampered := append([]byte(nil), valid...)
		tampered[compression.FrameHeaderSize] = 200
		_, err := codec.Decompress(tampered)
		assert.ErrorIs(t, err, compression.ErrCorrupt)
	})

	t.Run("empty table with bits to decode", func(t *testing.T) {
		var table [huffTableSize]byte
		frame := huffFrame(table, []byte{0x00}, 1)
		_, err := codec.Decompress(frame)
		assert.ErrorIs(t, err, compression.ErrCorrupt)
	})

	t.Run("code exceeds table depth", func(t *testing.T) {
		// Single symbol of length 1: the only valid code is 0. The
		// second bit below is 1, which no table entry can match.
		var table [huffTableSize]byte
		table[0x41] = 1
		frame := huffFrame(table, []byte{0x40}, 2)
		_, err := codec.Decompress(frame)
		assert.ErrorIs(t, err, compression.ErrCorrupt)
	})
}
