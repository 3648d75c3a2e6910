// Package compression implements the lossless codecs used to shrink glyph
// atlas pixels before they are embedded in generated source.
//
// Every codec satisfies the Codec contract: Compress and Decompress operate
// on whole in-memory buffers and are exact inverses of each other. NoOpCodec
// stores data verbatim, RLECodec packs byte runs into (count, value)
// packets, LZWCodec is a 12-bit variable-width LZW, HuffmanCodec is a
// canonical whole-buffer Huffman coder, and LZ4Codec wraps the LZ4 block
// format for comparison against the portable codecs.
//
// The bit-packed codecs frame their output with two little-endian uint32
// fields, the packed byte count and the exact valid bit count, so a decoder
// can ignore the pad bits in the final byte. RLE output is a bare packet
// sequence with no header. An embedded blob therefore only needs its
// encoding name and decompressed size carried alongside it, which is what
// the generated charset metadata does.
//
// Codecs report failure through errors only: ErrOverflow when bounded
// compression output runs out of room (store the data uncompressed instead),
// ErrCorrupt when a frame cannot have come from the matching Compress.
package compression
