package inkseparator

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
)

// EncodeChannel turns a density buffer into a film-positive raster: every
// pixel is black with alpha equal to the ink density. The channel's
// representative color is metadata only and is never written into pixels.
func EncodeChannel(density *image.Gray) *image.NRGBA {
	b := density.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		so := density.PixOffset(b.Min.X, b.Min.Y+y)
		do := out.PixOffset(0, y)
		for xi := 0; xi < w; xi++ {
			out.Pix[do+3] = density.Pix[so]
			so++
			do += 4
		}
	}
	return out
}

// RasterCodec converts between container bytes and pixel buffers. The core
// never touches a windowing or rendering subsystem; this is its only
// boundary with the outer raster format.
type RasterCodec interface {
	Decode(data []byte) (*image.NRGBA, error)
	Encode(img *image.NRGBA) ([]byte, error)
}

// PNGCodec is the default RasterCodec. Decode accepts any registered
// format (PNG, JPEG, GIF); Encode always writes lossless RGBA PNG so no
// chroma or alpha compression artifacts reach the printed film.
type PNGCodec struct{}

func (PNGCodec) Decode(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if n, ok := img.(*image.NRGBA); ok {
		return n, nil
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out, nil
}

func (PNGCodec) Encode(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
