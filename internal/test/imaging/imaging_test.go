package imaging_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trash-classifier-backend/internal/imaging"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeRGB_PNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 6))
	decoded, err := imaging.DecodeRGB(encodePNG(t, src))

	require.NoError(t, err)
	assert.Equal(t, 10, decoded.Bounds().Dx())
	assert.Equal(t, 6, decoded.Bounds().Dy())
}

func TestDecodeRGB_TransparencyOverWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	// Fully transparent image.
	decoded, err := imaging.DecodeRGB(encodePNG(t, src))
	require.NoError(t, err)

	r, g, b, _ := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestDecodeRGB_InvalidBytes(t *testing.T) {
	_, err := imaging.DecodeRGB([]byte("definitely not an image"))

	assert.ErrorIs(t, err, imaging.ErrInvalidImage)
}

func TestEncodeJPEG_RoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.Set(x, y, color.RGBA{R: 30, G: 144, B: 255, A: 255})
		}
	}

	encoded, err := imaging.EncodeJPEG(src)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, 16, decoded.Bounds().Dx())
	assert.Equal(t, 16, decoded.Bounds().Dy())
}
