// Package fnt parses AngelCode BMFont text-format glyph metrics into the
// charset structure that is embedded alongside the atlas pixels.
package fnt

// MaxChars is the size of the glyph table: one slot per extended-ASCII
// value, indexed directly by character code.
const MaxChars = 256

// Char is a glyph's pixel position inside the atlas bitmap.
type Char struct {
	X uint16
	Y uint16
}

// CharSet mirrors the metadata structure emitted into generated source:
// atlas geometry, compression bookkeeping and the glyph table.
type CharSet struct {
	BitmapWidth      int
	BitmapHeight     int
	ColorChannels    int
	DecompressedSize int // 0 when the pixels are stored uncompressed
	CharBaseHeight   int
	CharWidth        int // widest xadvance across all glyphs
	CharHeight       int // tallest glyph box across all glyphs
	CharCount        int
	Chars            [MaxChars]Char

	// Defined marks the slots the descriptor actually named. A glyph at
	// atlas position (0,0) is indistinguishable from an empty slot without
	// it. Not part of the emitted structure.
	Defined [MaxChars]bool
}
