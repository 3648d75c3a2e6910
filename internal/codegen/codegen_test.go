package codegen_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedkit/fontpack/internal/codegen"
	"github.com/embedkit/fontpack/internal/compression"
	"github.com/embedkit/fontpack/internal/fnt"
)

func sampleCharSet() *fnt.CharSet {
	cs := &fnt.CharSet{
		BitmapWidth:    256,
		BitmapHeight:   128,
		ColorChannels:  1,
		CharBaseHeight: 30,
		CharWidth:      19,
		CharHeight:     24,
		CharCount:      2,
	}
	cs.Chars['A'] = fnt.Char{X: 10, Y: 20}
	cs.Chars['B'] = fnt.Char{X: 30, Y: 40}
	return cs
}

func render(t *testing.T, data []byte, opts codegen.Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, codegen.Write(&buf, data, sampleCharSet(), opts))
	return buf.String()
}

func TestWriteDefaults(t *testing.T) {
	data := make([]byte, 17)
	for i := range data {
		data[i] = byte(i)
	}
	out := render(t, data, codegen.Options{ArrayName: "Consolas"})

	assert.Contains(t, out, "File generated by fontpack")
	assert.Contains(t, out, "encoding=none")
	assert.Contains(t, out, "const unsigned char ConsolasBitmap[] = {")
	assert.Contains(t, out, "0x0E,\n")
	assert.Contains(t, out, "0x0F, 0x10\n};")
	assert.Contains(t, out, "const FontCharSet ConsolasCharSet = {")
	assert.Contains(t, out, "/* charCount            = */ 2,")
	assert.Contains(t, out, "{ 10, 20 }")
	assert.Contains(t, out, "{ 30, 40 }")
	assert.Contains(t, out, "/* ~17 B of embedded data */")

	assert.NotContains(t, out, "static ")
	assert.NotContains(t, out, "#include")
	assert.NotContains(t, out, "typedef")
	assert.NotContains(t, out, "aligned")
}

func TestWriteBytesPerLine(t *testing.T) {
	out := render(t, make([]byte, 45), codegen.Options{ArrayName: "F"})
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "0x") {
			continue
		}
		assert.Equal(t, 15, strings.Count(line, "0x"), "line %q", line)
	}
}

func TestWriteStorageQualifiers(t *testing.T) {
	out := render(t, []byte{1}, codegen.Options{
		ArrayName:     "F",
		StaticStorage: true,
		MutableData:   true,
	})
	assert.Contains(t, out, "static unsigned char FBitmap[]")
	assert.Contains(t, out, "static FontCharSet FCharSet")
	assert.NotContains(t, out, "const")
}

func TestWriteStdTypesAndStructs(t *testing.T) {
	out := render(t, []byte{1}, codegen.Options{
		ArrayName:   "F",
		EmitStructs: true,
		StdTypes:    true,
	})
	assert.Contains(t, out, "#include <stdint.h>")
	assert.Contains(t, out, "#ifndef FONTPACK_STRUCTS_DEFINED")
	assert.Contains(t, out, "uint16_t x;")
	assert.Contains(t, out, "uint32_t bitmapDecompressSize;")
	assert.Contains(t, out, "FontChar chars[256];")
	assert.Contains(t, out, "const uint8_t FBitmap[]")
}

func TestWritePlainStructTypes(t *testing.T) {
	out := render(t, []byte{1}, codegen.Options{ArrayName: "F", EmitStructs: true})
	assert.Contains(t, out, "unsigned short x;")
	assert.Contains(t, out, "unsigned int bitmapDecompressSize;")
	assert.NotContains(t, out, "stdint")
}

func TestWriteAligned(t *testing.T) {
	out := render(t, []byte{1}, codegen.Options{ArrayName: "F", Align: 16})
	assert.Contains(t, out, "FBitmap[] __attribute__((aligned(16))) = {")
}

func TestWriteEncodingInHeader(t *testing.T) {
	out := render(t, []byte{1}, codegen.Options{
		ArrayName: "F",
		Encoding:  compression.EncodingRLE,
	})
	assert.Contains(t, out, "encoding=rle")
}

func TestWriteCommandLine(t *testing.T) {
	out := render(t, []byte{1}, codegen.Options{
		ArrayName:   "F",
		CommandLine: "fontpack -c consolas.fnt",
	})
	assert.Contains(t, out, " * Command line: fontpack -c consolas.fnt\n")
}

func TestWriteHexString(t *testing.T) {
	out := render(t, bytes.Repeat([]byte{0x41}, 50), codegen.Options{
		ArrayName: "F",
		HexString: true,
	})
	assert.Contains(t, out, "const char FBitmap[] =\n")
	assert.Equal(t, 50, strings.Count(out, `\x41`))
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, `\x`) {
			// 22 escapes plus the surrounding quotes and indent.
			assert.LessOrEqual(t, len(line), 92, "line %q", line)
		}
	}
}

func TestWriteHexStringPadding(t *testing.T) {
	out := render(t, []byte{0xAA, 0xBB}, codegen.Options{
		ArrayName: "F",
		HexString: true,
		Padding:   4,
	})
	assert.Equal(t, 4, strings.Count(out, `\x00`))

	var buf bytes.Buffer
	err := codegen.Write(&buf, []byte{0xAA}, sampleCharSet(), codegen.Options{
		ArrayName: "F",
		HexString: true,
		Padding:   3,
	})
	assert.ErrorContains(t, err, "padding")
}

func TestWriteEmptyArrayName(t *testing.T) {
	var buf bytes.Buffer
	err := codegen.Write(&buf, []byte{1}, sampleCharSet(), codegen.Options{})
	assert.ErrorContains(t, err, "array name")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "consolas.h")
	require.NoError(t, codegen.WriteFile(path, []byte{1, 2, 3}, sampleCharSet(),
		codegen.Options{ArrayName: "Consolas"}))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "ConsolasCharSet")

	// The tmp file must be gone after the rename.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "consolas.h", entries[0].Name())
}
