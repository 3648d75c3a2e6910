package compression

import (
	"bytes"
	"container/heap"
	"fmt"

	"github.com/icza/bitio"
)

const (
	huffSymbols = 256
	// Code lengths beyond this would need inputs larger than 2^63 bytes;
	// anything bigger in a frame is garbage.
	huffMaxLength = 63
)

// HuffmanCodec is a whole-buffer canonical Huffman coder. The frame carries
// one code length per symbol value ahead of the bitstream; canonical code
// assignment makes the tree shape irrelevant to the decoder.
type HuffmanCodec struct{}

func (HuffmanCodec) Encoding() Encoding { return EncodingHuffman }

// huffNode is a tree node during code length construction. seq breaks
// frequency ties by insertion order so output is deterministic.
type huffNode struct {
	freq        int
	seq         int
	symbol      int // -1 for internal nodes
	left, right *huffNode
}

type huffHeap []*huffNode

func (h huffHeap) Len() int { return len(h) }
func (h huffHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].seq < h[j].seq
}
func (h huffHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *huffHeap) Push(x interface{}) { *h = append(*h, x.(*huffNode)) }
func (h *huffHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// buildCodeLengths derives per-symbol code lengths from a byte histogram.
// A lone distinct symbol gets length 1: a single-leaf tree would otherwise
// yield a useless zero-length code.
func buildCodeLengths(freq *[huffSymbols]int) [huffSymbols]byte {
	var lengths [huffSymbols]byte
	nodes := huffHeap{}
	seq := 0
	for sym, f := range freq {
		if f == 0 {
			continue
		}
		nodes = append(nodes, &huffNode{freq: f, seq: seq, symbol: sym})
		seq++
	}
	switch len(nodes) {
	case 0:
		return lengths
	case 1:
		lengths[nodes[0].symbol] = 1
		return lengths
	}

	heap.Init(&nodes)
	for nodes.Len() > 1 {
		a := heap.Pop(&nodes).(*huffNode)
		b := heap.Pop(&nodes).(*huffNode)
		heap.Push(&nodes, &huffNode{freq: a.freq + b.freq, seq: seq, symbol: -1, left: a, right: b})
		seq++
	}

	type item struct {
		node  *huffNode
		depth int
	}
	stack := []item{{nodes[0], 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.node.symbol >= 0 {
			lengths[it.node.symbol] = byte(it.depth)
			continue
		}
		stack = append(stack,
			item{it.node.left, it.depth + 1},
			item{it.node.right, it.depth + 1})
	}
	return lengths
}

// canonicalCodes assigns codes in (length, symbol) order from a length
// table, rejecting tables that oversubscribe the code space.
func canonicalCodes(lengths *[huffSymbols]byte) (codes [huffSymbols]uint64, maxLen int, err error) {
	var count [huffMaxLength + 1]int
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if int(l) > huffMaxLength {
			return codes, 0, fmt.Errorf("%w: huffman code length %d out of range", ErrCorrupt, l)
		}
		count[l]++
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}
	if maxLen == 0 {
		return codes, 0, nil
	}

	var next [huffMaxLength + 1]uint64
	code := uint64(0)
	for l := 1; l <= maxLen; l++ {
		code = (code + uint64(count[l-1])) << 1
		next[l] = code
		if code+uint64(count[l]) > 1<<uint(l) {
			return codes, 0, fmt.Errorf("%w: huffman length table oversubscribed at length %d", ErrCorrupt, l)
		}
	}
	for sym, l := range lengths {
		if l > 0 {
			codes[sym] = next[l]
			next[l]++
		}
	}
	return codes, maxLen, nil
}

func (HuffmanCodec) Compress(src []byte) ([]byte, error) {
	var freq [huffSymbols]int
	for _, b := range src {
		freq[b]++
	}
	lengths := buildCodeLengths(&freq)
	codes, _, err := canonicalCodes(&lengths)
	if err != nil {
		return nil, fmt.Errorf("huffman compress: %w", err)
	}

	var stream bytes.Buffer
	w := bitio.NewWriter(&stream)
	sizeBits := 0
	for _, b := range src {
		l := lengths[b]
		if err := w.WriteBits(codes[b], l); err != nil {
			return nil, fmt.Errorf("huffman compress: %w", err)
		}
		sizeBits += int(l)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("huffman compress: %w", err)
	}
	return newBitFrame(lengths[:], stream.Bytes(), sizeBits), nil
}

func (HuffmanCodec) Decompress(src []byte) ([]byte, error) {
	sizeBytes, sizeBits, err := readFrameHeader(src)
	if err != nil {
		return nil, err
	}
	if len(src) != FrameHeaderSize+huffSymbols+sizeBytes {
		return nil, fmt.Errorf("%w: huffman frame declares %d payload bytes, have %d",
			ErrCorrupt, sizeBytes, len(src)-FrameHeaderSize-huffSymbols)
	}
	if err := checkBitCount(sizeBytes, sizeBits); err != nil {
		return nil, err
	}
	if sizeBits == 0 {
		return []byte{}, nil
	}

	var lengths [huffSymbols]byte
	copy(lengths[:], src[FrameHeaderSize:FrameHeaderSize+huffSymbols])
	_, maxLen, err := canonicalCodes(&lengths)
	if err != nil {
		return nil, err
	}
	if maxLen == 0 {
		return nil, fmt.Errorf("%w: huffman table has no symbols", ErrCorrupt)
	}

	// Per-length first code, count and symbol offsets for the canonical
	// decoding walk.
	var (
		first [huffMaxLength + 1]int
		count [huffMaxLength + 1]int
		index [huffMaxLength + 1]int
	)
	for _, l := range lengths {
		if l > 0 {
			count[l]++
		}
	}
	syms := make([]byte, 0, huffSymbols)
	code, total := 0, 0
	for l := 1; l <= maxLen; l++ {
		code = (code + count[l-1]) << 1
		first[l] = code
		index[l] = total
		total += count[l]
		for sym := 0; sym < huffSymbols; sym++ {
			if int(lengths[sym]) == l {
				syms = append(syms, byte(sym))
			}
		}
	}

	r := bitio.NewReader(bytes.NewReader(src[FrameHeaderSize+huffSymbols:]))
	out := make([]byte, 0, sizeBits/4)
	bitsRead := 0
	for bitsRead < sizeBits {
		code, l := 0, 0
		for {
			if bitsRead >= sizeBits {
				return nil, fmt.Errorf("%w: huffman stream ends inside a code", ErrCorrupt)
			}
			bit, err := r.ReadBool()
			if err != nil {
				return nil, fmt.Errorf("%w: huffman stream ends inside a code", ErrCorrupt)
			}
			bitsRead++
			code <<= 1
			if bit {
				code |= 1
			}
			l++
			if l > maxLen {
				return nil, fmt.Errorf("%w: huffman code exceeds max length %d", ErrCorrupt, maxLen)
			}
			if off := code - first[l]; off >= 0 && off < count[l] {
				out = append(out, syms[index[l]+off])
				break
			}
		}
	}
	return out, nil
}
