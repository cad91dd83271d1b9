package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngDataURI(t *testing.T, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return EncodeDataURI("image/png", buf.Bytes())
}

func TestParseDataURIRoundTrip(t *testing.T) {
	uri := EncodeDataURI("image/png", []byte{1, 2, 3})
	mime, data, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestParseDataURIRejectsGarbage(t *testing.T) {
	_, _, err := ParseDataURI("https://example.com/shot.png")
	assert.Error(t, err)

	_, _, err = ParseDataURI("data:image/png;base64")
	assert.Error(t, err)

	_, _, err = ParseDataURI("data:image/png;base64,!!!not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeImage(t *testing.T) {
	uri := pngDataURI(t, 4, 6, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img, err := DecodeImage(uri)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestCacheReturnsSameDecode(t *testing.T) {
	cache := NewCache()
	uri := pngDataURI(t, 2, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	first, err := cache.Image(uri)
	require.NoError(t, err)
	second, err := cache.Image(uri)
	require.NoError(t, err)

	// Same instance on the second hit
	assert.Same(t, first, second)

	_, err = cache.Image("data:image/png;base64,broken")
	assert.Error(t, err)
}
