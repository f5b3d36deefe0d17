package inkseparator

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// maxRGBDistance is the Euclidean distance between opposite corners of the
// 8-bit RGB cube (sqrt(3*255*255) ≈ 441.67, rounded up). Background
// tolerance and spot similarity are both normalized against it.
const maxRGBDistance = 442.0

// ParseHex parses a "#rrggbb" (or "#rgb") string into an opaque NRGBA color.
func ParseHex(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Hex formats c as a lowercase "#rrggbb" string. Alpha is ignored.
func Hex(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

func distanceRGB(r1, g1, b1, r2, g2, b2 uint8) float64 {
	return math.Sqrt(distanceSqRGB(r1, g1, b1, r2, g2, b2))
}

func distanceSqRGB(r1, g1, b1, r2, g2, b2 uint8) float64 {
	dr := float64(r1) - float64(r2)
	dg := float64(g1) - float64(g2)
	db := float64(b1) - float64(b2)
	return dr*dr + dg*dg + db*db
}

// luma is the Rec. 601 perceptual brightness estimate in [0,255].
func luma(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// quantize24 rounds v to the nearest multiple of quantStep, clamped to
// [0,255].
func quantize24(v uint8) uint8 {
	q := math.Round(float64(v)/quantStep) * quantStep
	return uint8(min(255.0, q))
}
