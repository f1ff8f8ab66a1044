// Package imaging normalizes uploaded avatar images to a fixed square PNG.
package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

var ErrUnsupportedFormat = errors.New("invalid format files uploaded")

type Normalizer struct {
	size int
}

// NewNormalizer returns a Normalizer that scales every image to a
// size x size PNG.
func NewNormalizer(size int) *Normalizer {
	return &Normalizer{size: size}
}

// Transform decodes raw image bytes (png, jpeg or gif), scales them to the
// fixed square dimension and re-encodes as PNG. Undecodable input fails
// with ErrUnsupportedFormat.
func (n *Normalizer) Transform(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedFormat
	}

	dst := image.NewRGBA(image.Rect(0, 0, n.size, n.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
