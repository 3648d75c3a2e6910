// Package atlas loads glyph atlas images into the byte layouts embedded by
// the code generator.
package atlas

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"

	// Decoders for the accepted atlas formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Bitmap is a decoded atlas: tightly packed rows, Channels bytes per pixel.
type Bitmap struct {
	Pixels   []byte
	Width    int
	Height   int
	Channels int
}

// Size returns the pixel payload length in bytes.
func (b *Bitmap) Size() int { return b.Width * b.Height * b.Channels }

// Luminosity weights for the grayscale collapse. Applied to
// non-premultiplied channels and scaled by alpha, so fully transparent
// pixels always land on zero.
const (
	lumR = 0.21
	lumG = 0.72
	lumB = 0.07
)

// Decode reads an atlas image (PNG, JPEG, BMP or TIFF). Pixels collapse to
// one grayscale byte each unless keepRGBA asks for 4 bytes per pixel.
func Decode(r io.Reader, keepRGBA bool) (*Bitmap, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode atlas: %w", err)
	}

	bounds := src.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)

	bm := &Bitmap{Width: bounds.Dx(), Height: bounds.Dy()}
	if keepRGBA {
		bm.Channels = 4
		bm.Pixels = nrgba.Pix
		return bm, nil
	}

	bm.Channels = 1
	bm.Pixels = make([]byte, bm.Width*bm.Height)
	for i, p := 0, 0; p < len(nrgba.Pix); i, p = i+1, p+4 {
		r := float64(nrgba.Pix[p]) / 255
		g := float64(nrgba.Pix[p+1]) / 255
		b := float64(nrgba.Pix[p+2]) / 255
		a := float64(nrgba.Pix[p+3]) / 255
		bm.Pixels[i] = floatToByte((lumR*r + lumG*g + lumB*b) * a)
	}
	return bm, nil
}

// Load opens path and decodes it.
func Load(path string, keepRGBA bool) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open atlas: %w", err)
	}
	defer f.Close()
	bm, err := Decode(f, keepRGBA)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bm, nil
}

func floatToByte(f float64) byte {
	return byte(f*255.0 + 0.5)
}
