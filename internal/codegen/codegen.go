// Package codegen renders a charset and its (possibly compressed) atlas
// pixels as C source ready to compile into firmware.
package codegen

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/embedkit/fontpack/internal/compression"
	"github.com/embedkit/fontpack/internal/fnt"
)

// Options select the flavor of source to emit.
type Options struct {
	ArrayName   string // base name for the bitmap and charset symbols
	CommandLine string // reproduced in the header comment when non-empty
	Encoding    compression.Encoding

	StaticStorage bool // prepend static to the declarations
	MutableData   bool // drop const from the declarations
	EmitStructs   bool // declare FontChar/FontCharSet before the data
	StdTypes      bool // stdint.h types instead of plain C types
	HexString     bool // escaped hex string instead of a byte array
	Align         int  // nonzero emits __attribute__((aligned(N)))
	Padding       int  // zero bytes appended in hex string mode
}

const (
	bytesPerLine   = 15
	charsPerLine   = 8
	hexStringWidth = 88
)

type writer struct {
	w    *bufio.Writer
	opts Options
}

// Write renders the full generated source: header comment, optional struct
// declarations, the bitmap array and the charset initializer.
func Write(out io.Writer, data []byte, cs *fnt.CharSet, opts Options) error {
	if opts.ArrayName == "" {
		return fmt.Errorf("empty array name")
	}
	g := &writer{w: bufio.NewWriter(out), opts: opts}

	g.writeHeader(len(data), cs)
	if opts.StdTypes {
		fmt.Fprintf(g.w, "#include <stdint.h>\n\n")
	}
	if opts.EmitStructs {
		g.writeStructs()
	}
	if err := g.writeBitmap(data); err != nil {
		return err
	}
	g.writeCharSet(cs)
	fmt.Fprintf(g.w, "\n/* ~%s of embedded data */\n",
		compression.FormatMemoryUnit(len(data), true))
	return g.w.Flush()
}

// WriteFile renders into a temporary file in the target directory and
// renames it into place, so a failed run never leaves a truncated output.
func WriteFile(path string, data []byte, cs *fnt.CharSet, opts Options) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fontpack-*")
	if err != nil {
		return fmt.Errorf("creating tmp output: %w", err)
	}

	// Clean up on failure
	success := false
	defer func() {
		tmp.Close()
		if !success {
			os.Remove(tmp.Name())
		}
	}()

	if err := Write(tmp, data, cs, opts); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing tmp output: %w", err)
	}

	// Atomic rename from tmp to final
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming output: %w", err)
	}
	success = true
	return nil
}

func (g *writer) writeHeader(dataLen int, cs *fnt.CharSet) {
	fmt.Fprintf(g.w, "/*\n")
	fmt.Fprintf(g.w, " * File generated by fontpack. Do not hand-edit.\n")
	if g.opts.CommandLine != "" {
		fmt.Fprintf(g.w, " * Command line: %s\n", g.opts.CommandLine)
	}
	fmt.Fprintf(g.w, " *\n")
	fmt.Fprintf(g.w, " * %d glyphs, %dx%d atlas, %d channel(s), encoding=%s, ~%s embedded.\n",
		cs.CharCount, cs.BitmapWidth, cs.BitmapHeight, cs.ColorChannels,
		g.opts.Encoding, compression.FormatMemoryUnit(dataLen, true))
	fmt.Fprintf(g.w, " */\n\n")
}

func (g *writer) writeStructs() {
	u16, u32 := "unsigned short", "unsigned int"
	if g.opts.StdTypes {
		u16, u32 = "uint16_t", "uint32_t"
	}
	fmt.Fprintf(g.w, "#ifndef FONTPACK_STRUCTS_DEFINED\n")
	fmt.Fprintf(g.w, "#define FONTPACK_STRUCTS_DEFINED\n\n")
	fmt.Fprintf(g.w, "typedef struct {\n")
	fmt.Fprintf(g.w, "    %s x;\n", u16)
	fmt.Fprintf(g.w, "    %s y;\n", u16)
	fmt.Fprintf(g.w, "} FontChar;\n\n")
	fmt.Fprintf(g.w, "typedef struct {\n")
	fmt.Fprintf(g.w, "    %s bitmapWidth;\n", u16)
	fmt.Fprintf(g.w, "    %s bitmapHeight;\n", u16)
	fmt.Fprintf(g.w, "    %s bitmapColorChannels;\n", u16)
	fmt.Fprintf(g.w, "    %s bitmapDecompressSize;\n", u32)
	fmt.Fprintf(g.w, "    %s charBaseHeight;\n", u16)
	fmt.Fprintf(g.w, "    %s charWidth;\n", u16)
	fmt.Fprintf(g.w, "    %s charHeight;\n", u16)
	fmt.Fprintf(g.w, "    %s charCount;\n", u16)
	fmt.Fprintf(g.w, "    FontChar chars[%d];\n", fnt.MaxChars)
	fmt.Fprintf(g.w, "} FontCharSet;\n\n")
	fmt.Fprintf(g.w, "#endif /* FONTPACK_STRUCTS_DEFINED */\n\n")
}

// qualifiers renders the storage-class prefix shared by both declarations.
func (g *writer) qualifiers() string {
	var sb strings.Builder
	if g.opts.StaticStorage {
		sb.WriteString("static ")
	}
	if !g.opts.MutableData {
		sb.WriteString("const ")
	}
	return sb.String()
}

func (g *writer) alignAttr() string {
	if g.opts.Align > 0 {
		return fmt.Sprintf(" __attribute__((aligned(%d)))", g.opts.Align)
	}
	return ""
}

func (g *writer) writeBitmap(data []byte) error {
	if g.opts.HexString {
		return g.writeBitmapString(data)
	}

	u8 := "unsigned char"
	if g.opts.StdTypes {
		u8 = "uint8_t"
	}
	fmt.Fprintf(g.w, "%s%s %sBitmap[]%s = {\n",
		g.qualifiers(), u8, g.opts.ArrayName, g.alignAttr())
	for i, b := range data {
		if i%bytesPerLine == 0 {
			g.w.WriteString("  ")
		}
		fmt.Fprintf(g.w, "0x%02X", b)
		if i != len(data)-1 {
			g.w.WriteByte(',')
		}
		if (i+1)%bytesPerLine == 0 || i == len(data)-1 {
			g.w.WriteByte('\n')
		} else {
			g.w.WriteByte(' ')
		}
	}
	fmt.Fprintf(g.w, "};\n\n")
	return nil
}

func (g *writer) writeBitmapString(data []byte) error {
	body, err := escapedHexString(data, hexStringWidth, g.opts.Padding)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.w, "%schar %sBitmap[]%s =\n",
		g.qualifiers(), g.opts.ArrayName, g.alignAttr())
	fmt.Fprintf(g.w, "%s;\n\n", body)
	return nil
}

// escapedHexString renders data as adjacent C string literals, one "\xNN"
// escape per byte and at most maxColumns escape characters per line.
// padding appends that many zero bytes so the stored size can be rounded
// for aligned word reads.
func escapedHexString(data []byte, maxColumns, padding int) (string, error) {
	if maxColumns <= 0 || maxColumns%4 != 0 {
		return "", fmt.Errorf("hex string column limit %d is not a multiple of 4", maxColumns)
	}
	if padding < 0 || padding%2 != 0 {
		return "", fmt.Errorf("hex string padding %d is not a multiple of 2", padding)
	}

	perLine := maxColumns / 4
	total := len(data) + padding
	var sb strings.Builder
	for i := 0; i < total; i++ {
		if i%perLine == 0 {
			sb.WriteString("  \"")
		}
		var b byte
		if i < len(data) {
			b = data[i]
		}
		fmt.Fprintf(&sb, "\\x%02X", b)
		if (i+1)%perLine == 0 || i == total-1 {
			sb.WriteByte('"')
			if i != total-1 {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String(), nil
}

func (g *writer) writeCharSet(cs *fnt.CharSet) {
	fmt.Fprintf(g.w, "%sFontCharSet %sCharSet = {\n", g.qualifiers(), g.opts.ArrayName)
	fmt.Fprintf(g.w, "  /* bitmapWidth          = */ %d,\n", cs.BitmapWidth)
	fmt.Fprintf(g.w, "  /* bitmapHeight         = */ %d,\n", cs.BitmapHeight)
	fmt.Fprintf(g.w, "  /* bitmapColorChannels  = */ %d,\n", cs.ColorChannels)
	fmt.Fprintf(g.w, "  /* bitmapDecompressSize = */ %d,\n", cs.DecompressedSize)
	fmt.Fprintf(g.w, "  /* charBaseHeight       = */ %d,\n", cs.CharBaseHeight)
	fmt.Fprintf(g.w, "  /* charWidth            = */ %d,\n", cs.CharWidth)
	fmt.Fprintf(g.w, "  /* charHeight           = */ %d,\n", cs.CharHeight)
	fmt.Fprintf(g.w, "  /* charCount            = */ %d,\n", cs.CharCount)
	fmt.Fprintf(g.w, "  /* chars                = */ {\n")
	for i := 0; i < fnt.MaxChars; i++ {
		if i%charsPerLine == 0 {
			g.w.WriteString("    ")
		}
		fmt.Fprintf(g.w, "{ %d, %d }", cs.Chars[i].X, cs.Chars[i].Y)
		if i != fnt.MaxChars-1 {
			g.w.WriteByte(',')
		}
		if (i+1)%charsPerLine == 0 {
			g.w.WriteByte('\n')
		} else {
			g.w.WriteByte(' ')
		}
	}
	fmt.Fprintf(g.w, "  }\n};\n")
}
