package atlas_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedkit/fontpack/internal/atlas"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{255, 255, 255, 128})
	img.SetNRGBA(1, 1, color.NRGBA{0, 0, 0, 0})
	return img
}

func TestDecodeGrayscale(t *testing.T) {
	bm, err := atlas.Decode(bytes.NewReader(encodePNG(t, testImage())), false)
	require.NoError(t, err)

	assert.Equal(t, 2, bm.Width)
	assert.Equal(t, 2, bm.Height)
	assert.Equal(t, 1, bm.Channels)
	assert.Equal(t, 4, bm.Size())

	// White collapses to full intensity, red to its 0.21 luminosity
	// weight, and alpha scales the result.
	assert.Equal(t, []byte{255, 54, 128, 0}, bm.Pixels)
}

func TestDecodeKeepRGBA(t *testing.T) {
	bm, err := atlas.Decode(bytes.NewReader(encodePNG(t, testImage())), true)
	require.NoError(t, err)

	assert.Equal(t, 4, bm.Channels)
	assert.Equal(t, 16, bm.Size())
	assert.Equal(t, []byte{
		255, 255, 255, 255,
		255, 0, 0, 255,
		255, 255, 255, 128,
		0, 0, 0, 0,
	}, bm.Pixels)
}

func TestDecodeChannelWeights(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 255})
	img.SetNRGBA(2, 0, color.NRGBA{0, 0, 255, 255})

	bm, err := atlas.Decode(bytes.NewReader(encodePNG(t, img)), false)
	require.NoError(t, err)
	assert.Equal(t, []byte{54, 184, 18}, bm.Pixels)
}

func TestDecodeNotAnImage(t *testing.T) {
	_, err := atlas.Decode(bytes.NewReader([]byte("not an image")), false)
	assert.ErrorContains(t, err, "decode atlas")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, testImage()), 0o644))

	bm, err := atlas.Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, 2, bm.Width)
	assert.Equal(t, 2, bm.Height)

	_, err = atlas.Load(filepath.Join(t.TempDir(), "missing.png"), false)
	assert.ErrorContains(t, err, "open atlas")
}
