package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/embedkit/fontpack/internal/atlas"
	"github.com/embedkit/fontpack/internal/compression"
	"github.com/embedkit/fontpack/internal/fnt"
)

type glyphJSON struct {
	ID   int    `json:"id"`
	Char string `json:"char,omitempty"`
	X    uint16 `json:"x"`
	Y    uint16 `json:"y"`
}

type bitmapJSON struct {
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
	Size     string `json:"size"`
}

type encodingJSON struct {
	Encoding       string  `json:"encoding"`
	CompressedSize int     `json:"compressed_size,omitempty"`
	Saved          string  `json:"saved,omitempty"`
	Ratio          float64 `json:"ratio,omitempty"`
	Error          string  `json:"error,omitempty"`
}

type dumpJSON struct {
	FNT            string         `json:"fnt"`
	BitmapFile     string         `json:"bitmap_file"`
	CharBaseHeight int            `json:"char_base_height"`
	CharWidth      int            `json:"char_width"`
	CharHeight     int            `json:"char_height"`
	CharCount      int            `json:"char_count"`
	Glyphs         []glyphJSON    `json:"glyphs"`
	Bitmap         *bitmapJSON    `json:"bitmap,omitempty"`
	Encodings      []encodingJSON `json:"encodings,omitempty"`
}

func main() {
	fntPath := flag.String("fnt", "", "Path to the .fnt descriptor")
	bitmapPath := flag.String("bitmap", "", "Atlas image (default: the file= attribute next to the fnt)")
	rgba := flag.Bool("rgba", false, "Keep RGBA pixels instead of collapsing to grayscale")
	stats := flag.Bool("stats", false, "Dry-run every codec against the atlas and report sizes")
	flag.Parse()

	if *fntPath == "" {
		fatalf("missing required -fnt")
	}

	cs, bitmapFile, err := fnt.ParseFile(*fntPath)
	if err != nil {
		fatalf("parse fnt: %v", err)
	}

	out := dumpJSON{
		FNT:            *fntPath,
		BitmapFile:     bitmapFile,
		CharBaseHeight: cs.CharBaseHeight,
		CharWidth:      cs.CharWidth,
		CharHeight:     cs.CharHeight,
		CharCount:      cs.CharCount,
		Glyphs:         make([]glyphJSON, 0, cs.CharCount),
	}
	for id, ch := range cs.Chars {
		if !cs.Defined[id] {
			continue
		}
		g := glyphJSON{ID: id, X: ch.X, Y: ch.Y}
		if id >= 0x20 && id < 0x7F {
			g.Char = string(rune(id))
		}
		out.Glyphs = append(out.Glyphs, g)
	}

	path := *bitmapPath
	if path == "" && bitmapFile != "" {
		path = filepath.Join(filepath.Dir(*fntPath), bitmapFile)
	}
	if path != "" {
		bm, err := atlas.Load(path, *rgba)
		if err != nil {
			fatalf("load atlas: %v", err)
		}
		out.Bitmap = &bitmapJSON{
			Path:     path,
			Width:    bm.Width,
			Height:   bm.Height,
			Channels: bm.Channels,
			Size:     compression.FormatMemoryUnit(bm.Size(), true),
		}
		if *stats {
			out.Encodings = encodingStats(bm.Pixels)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatalf("encode json: %v", err)
	}
}

// encodingStats compresses the pixels with every codec without writing
// anything, so encodings can be compared before committing to one.
func encodingStats(pixels []byte) []encodingJSON {
	all := compression.Encodings()
	stats := make([]encodingJSON, 0, len(all))
	for _, e := range all {
		if e == compression.EncodingNone {
			continue
		}
		codec, err := compression.NewCodec(e)
		if err != nil {
			fatalf("new codec: %v", err)
		}
		entry := encodingJSON{Encoding: e.String()}
		compressed, err := codec.Compress(pixels)
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.CompressedSize = len(compressed)
			entry.Saved = compression.MemorySaved(compressed, pixels)
			ratio := compression.CompressionRatio(compressed, pixels)
			entry.Ratio = math.Round(ratio*100) / 100
		}
		stats = append(stats, entry)
	}
	return stats
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
