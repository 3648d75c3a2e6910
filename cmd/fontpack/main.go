package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/embedkit/fontpack/internal/compression"
	"github.com/embedkit/fontpack/internal/fontgen"
)

func main() {
	app := &cli.App{
		Name:      "fontpack",
		Usage:     "Convert a bitmap font (.fnt + atlas image) into embeddable C source",
		ArgsUsage: "FNT_FILE [BITMAP_FILE] [OUTPUT_FILE] [ARRAY_NAME]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print progress and compression stats"},
			&cli.BoolFlag{Name: "compress", Aliases: []string{"c"}, Usage: "compress the atlas pixels with --encoding"},
			&cli.StringFlag{Name: "encoding", Aliases: []string{"e"}, Value: "rle", Usage: "codec for --compress: none, rle, lzw, huff or lz4"},
			&cli.IntFlag{Name: "rle-word", Value: 8, Usage: "rle run counter width in bits, 8 or 16"},
			&cli.BoolFlag{Name: "static", Aliases: []string{"s"}, Usage: "declare the generated arrays static"},
			&cli.BoolFlag{Name: "mutable", Aliases: []string{"m"}, Usage: "drop const from the generated arrays"},
			&cli.BoolFlag{Name: "structs", Aliases: []string{"S"}, Usage: "emit the FontChar/FontCharSet declarations"},
			&cli.BoolFlag{Name: "stdtypes", Aliases: []string{"T"}, Usage: "use stdint.h types in declarations"},
			&cli.BoolFlag{Name: "hex", Aliases: []string{"x"}, Usage: "emit the bitmap as an escaped hex string"},
			&cli.BoolFlag{Name: "rgba", Usage: "keep RGBA pixels instead of collapsing to grayscale"},
			&cli.IntFlag{Name: "align", Aliases: []string{"a"}, Usage: "align the bitmap array to `N` bytes"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fontpack: %v", err)
	}
}

func run(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		cli.ShowAppHelp(ctx)
		return fmt.Errorf("missing FNT_FILE argument")
	}

	encoding, err := compression.ParseEncoding(ctx.String("encoding"))
	if err != nil {
		return err
	}

	var rleWord int
	switch ctx.Int("rle-word") {
	case 8:
		rleWord = compression.RLEWord8
	case 16:
		rleWord = compression.RLEWord16
	default:
		return fmt.Errorf("rle word width %d not supported, use 8 or 16", ctx.Int("rle-word"))
	}

	cfg := fontgen.Config{
		FNTPath:    ctx.Args().Get(0),
		BitmapPath: ctx.Args().Get(1),
		OutputPath: ctx.Args().Get(2),
		ArrayName:  ctx.Args().Get(3),

		Compress:    ctx.Bool("compress"),
		Encoding:    encoding,
		RLEWordSize: rleWord,
		KeepRGBA:    ctx.Bool("rgba"),

		StaticStorage: ctx.Bool("static"),
		MutableData:   ctx.Bool("mutable"),
		EmitStructs:   ctx.Bool("structs"),
		StdTypes:      ctx.Bool("stdtypes"),
		HexString:     ctx.Bool("hex"),
		Align:         ctx.Int("align"),

		CommandLine: "fontpack " + strings.Join(os.Args[1:], " "),
	}

	if ctx.Bool("verbose") {
		cfg.DebugPrint = func(msg string) { fmt.Fprintf(os.Stderr, "> %s\n", msg) }
		printInputs(&cfg)
	}

	_, err = fontgen.Generate(cfg)
	return err
}

func printInputs(cfg *fontgen.Config) {
	orDerived := func(s string) string {
		if s == "" {
			return "(derived)"
		}
		return s
	}
	fmt.Fprintf(os.Stderr, "fontpack - bitmap font to embedded source converter\n")
	fmt.Fprintf(os.Stderr, "FNT file:   %s\n", cfg.FNTPath)
	fmt.Fprintf(os.Stderr, "Bitmap:     %s\n", orDerived(cfg.BitmapPath))
	fmt.Fprintf(os.Stderr, "Output:     %s\n", orDerived(cfg.OutputPath))
	fmt.Fprintf(os.Stderr, "Array name: %s\n", orDerived(cfg.ArrayName))
	if cfg.Compress {
		fmt.Fprintf(os.Stderr, "Encoding:   %s\n", cfg.Encoding)
	}
}
