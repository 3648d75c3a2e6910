// Package fontgen runs the conversion pipeline: parse the fnt descriptor,
// load the atlas, optionally compress the pixels and emit generated source.
package fontgen

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/embedkit/fontpack/internal/atlas"
	"github.com/embedkit/fontpack/internal/codegen"
	"github.com/embedkit/fontpack/internal/compression"
	"github.com/embedkit/fontpack/internal/fnt"
)

// ErrCompressionRegression reports that the selected codec produced at
// least as many bytes as the raw pixels. The run aborts instead of
// embedding a blob that costs flash twice; rerun without compression or
// with another encoding.
var ErrCompressionRegression = errors.New("compression would grow the bitmap")

// Result reports what a conversion produced.
type Result struct {
	OutputPath       string
	Encoding         compression.Encoding // EncodingNone when stored raw
	UncompressedSize int
	CompressedSize   int // equals UncompressedSize when stored raw
	Saved            string
	Ratio            float64
}

// Generate converts one font. The returned Result is nil on error.
func Generate(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cs, bitmapFile, err := fnt.ParseFile(cfg.FNTPath)
	if err != nil {
		return nil, fmt.Errorf("parsing fnt: %w", err)
	}
	if cs.CharCount == 0 {
		return nil, fmt.Errorf("parsing fnt: %s defines no characters", cfg.FNTPath)
	}
	cfg.debugf("fnt: %d glyphs, base height %d", cs.CharCount, cs.CharBaseHeight)

	bitmapPath := cfg.BitmapPath
	if bitmapPath == "" {
		if bitmapFile == "" {
			return nil, fmt.Errorf("parsing fnt: %s names no bitmap file and none was given", cfg.FNTPath)
		}
		bitmapPath = filepath.Join(filepath.Dir(cfg.FNTPath), bitmapFile)
	}

	bm, err := atlas.Load(bitmapPath, cfg.KeepRGBA)
	if err != nil {
		return nil, fmt.Errorf("loading atlas: %w", err)
	}
	if bm.Width == 0 || bm.Height == 0 {
		return nil, fmt.Errorf("loading atlas: %s has no pixels", bitmapPath)
	}
	cfg.debugf("atlas: %dx%d, %d channel(s), %s", bm.Width, bm.Height, bm.Channels,
		compression.FormatMemoryUnit(bm.Size(), true))

	data, compressed, err := cfg.encodePixels(bm)
	if err != nil {
		return nil, err
	}

	cs.BitmapWidth = bm.Width
	cs.BitmapHeight = bm.Height
	cs.ColorChannels = bm.Channels
	if compressed {
		cs.DecompressedSize = bm.Size()
	}

	res := &Result{
		OutputPath:       cfg.outputPath(),
		Encoding:         compression.EncodingNone,
		UncompressedSize: bm.Size(),
		CompressedSize:   len(data),
		Saved:            compression.MemorySaved(data, bm.Pixels),
		Ratio:            compression.CompressionRatio(data, bm.Pixels),
	}
	if compressed {
		res.Encoding = cfg.Encoding
		cfg.debugf("%s: %s -> %s, saved %s (ratio %.2f)", cfg.Encoding,
			compression.FormatMemoryUnit(res.UncompressedSize, true),
			compression.FormatMemoryUnit(res.CompressedSize, true),
			res.Saved, res.Ratio)
	}

	opts := codegen.Options{
		ArrayName:     cfg.arrayName(),
		CommandLine:   cfg.CommandLine,
		Encoding:      res.Encoding,
		StaticStorage: cfg.StaticStorage,
		MutableData:   cfg.MutableData,
		EmitStructs:   cfg.EmitStructs,
		StdTypes:      cfg.StdTypes,
		HexString:     cfg.HexString,
		Align:         cfg.Align,
	}
	if err := codegen.WriteFile(res.OutputPath, data, cs, opts); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}
	cfg.debugf("wrote %s", res.OutputPath)
	return res, nil
}

// encodePixels compresses the atlas when enabled. Raw pixels pass through
// untouched so the charset keeps a zero decompressed size.
func (c *Config) encodePixels(bm *atlas.Bitmap) ([]byte, bool, error) {
	if !c.Compress || c.Encoding == compression.EncodingNone {
		return bm.Pixels, false, nil
	}
	codec, err := c.newCodec()
	if err != nil {
		return nil, false, err
	}

	out, err := codec.Compress(bm.Pixels)
	if errors.Is(err, compression.ErrOverflow) {
		return nil, false, fmt.Errorf("%s: %w", c.Encoding, ErrCompressionRegression)
	}
	if err != nil {
		return nil, false, fmt.Errorf("compressing pixels: %w", err)
	}
	if len(out) >= len(bm.Pixels) {
		return nil, false, fmt.Errorf("%s: %w", c.Encoding, ErrCompressionRegression)
	}

	// Prove the blob decodes back to the exact pixels before it is baked
	// into firmware.
	back, err := codec.Decompress(out)
	if err != nil {
		return nil, false, fmt.Errorf("verifying round trip: %w", err)
	}
	if !bytes.Equal(back, bm.Pixels) {
		return nil, false, errors.New("verifying round trip: decompressed pixels differ")
	}
	return out, true, nil
}

func (c *Config) newCodec() (compression.Codec, error) {
	if c.Encoding == compression.EncodingRLE && c.RLEWordSize == compression.RLEWord16 {
		return compression.NewRLECodec(compression.RLEWord16), nil
	}
	return compression.NewCodec(c.Encoding)
}
