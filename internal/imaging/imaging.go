package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"
)

// ErrInvalidImage marks upload bytes that could not be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// jpegQuality is the fixed quality used for storage re-encoding. Stored
// bytes are not byte-identical to the original upload.
const jpegQuality = 85

// DecodeRGB decodes JPEG, PNG or GIF bytes and normalizes the result to a
// 3-channel RGBA canvas. Transparent pixels are composited over white.
func DecodeRGB(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)

	return canvas, nil
}

// EncodeJPEG re-encodes an image into the storage format.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
