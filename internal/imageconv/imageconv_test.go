package imageconv

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvert_PNGPassthrough(t *testing.T) {
	data := samplePNG(t, 8, 8)
	out, ext, err := Convert(data, Options{Format: PNG})
	require.NoError(t, err)
	assert.Equal(t, "png", ext)
	assert.Equal(t, data, out)
}

func TestConvert_WebP(t *testing.T) {
	out, ext, err := Convert(samplePNG(t, 16, 12), Options{Format: WebP})
	require.NoError(t, err)
	assert.Equal(t, "webp", ext)
	require.Greater(t, len(out), 12)
	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, "WEBP", string(out[8:12]))
}

func TestConvert_TGA(t *testing.T) {
	out, ext, err := Convert(samplePNG(t, 16, 12), Options{Format: TGA})
	require.NoError(t, err)
	assert.Equal(t, "tga", ext)

	img, err := tga.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 12), img.Bounds())
}

func TestConvert_PNGResized(t *testing.T) {
	out, _, err := Convert(samplePNG(t, 40, 20), Options{Format: PNG, MaxSize: 10})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())
}

func TestConvert_Errors(t *testing.T) {
	_, _, err := Convert(samplePNG(t, 4, 4), Options{Format: "bmp"})
	assert.Error(t, err)

	_, _, err = Convert([]byte("not a png"), Options{Format: WebP})
	assert.Error(t, err)
}

func TestFitWithin(t *testing.T) {
	small := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	assert.Same(t, small, FitWithin(small, 16))

	tall := image.NewNRGBA(image.Rect(0, 0, 10, 100))
	got := FitWithin(tall, 50)
	assert.Equal(t, image.Rect(0, 0, 5, 50), got.Bounds())
}

func TestFitWithin_TransparentStaysTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	got := FitWithin(img, 8)
	for i := 3; i < len(got.Pix); i += 4 {
		assert.Zero(t, got.Pix[i])
	}
}
