package inkseparator

import (
	"image"
	"image/color"
	"math"
)

// Process channel order is fixed: Cyan, Magenta, Yellow, Black.
var (
	cmykNames  = [4]string{"Cyan", "Magenta", "Yellow", "Black"}
	cmykColors = [4]color.NRGBA{
		{R: 0, G: 255, B: 255, A: 255},
		{R: 255, G: 0, B: 255, A: 255},
		{R: 255, G: 255, B: 0, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
	}
	underbaseColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// SeparateCMYK decomposes img into four ink density buffers in fixed
// C, M, Y, K order. Fully transparent pixels stay at zero density; partial
// alpha scales the density down.
func SeparateCMYK(img *image.NRGBA) [4]*image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var out [4]*image.Gray
	for i := range out {
		out[i] = image.NewGray(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		so := img.PixOffset(b.Min.X, b.Min.Y+y)
		do := y * w
		for xi := 0; xi < w; xi++ {
			a := img.Pix[so+3]
			if a > 0 {
				rf := float64(img.Pix[so]) / 255.0
				gf := float64(img.Pix[so+1]) / 255.0
				bf := float64(img.Pix[so+2]) / 255.0
				k := 1.0 - max(rf, gf, bf)
				var c, m, yv float64
				if k < 1.0 { // k == 1 is pure black: C = M = Y = 0
					c = (1.0 - rf - k) / (1.0 - k)
					m = (1.0 - gf - k) / (1.0 - k)
					yv = (1.0 - bf - k) / (1.0 - k)
				}
				an := float64(a) / 255.0
				out[0].Pix[do] = uint8(math.Round(c * 255.0 * an))
				out[1].Pix[do] = uint8(math.Round(m * 255.0 * an))
				out[2].Pix[do] = uint8(math.Round(yv * 255.0 * an))
				out[3].Pix[do] = uint8(math.Round(k * 255.0 * an))
			}
			so += 4
			do++
		}
	}
	return out
}

// SeparateSpot maps img against one configured spot ink. Similarity decays
// linearly with RGB distance and is then cubed, which suppresses near-miss
// matches; Threshold widens the matching radius. Targets are independent:
// a pixel may register density on several spot channels at once.
func SeparateSpot(img *image.NRGBA, target SpotColorTarget) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	sensitivity := 1.0 + float64(target.Threshold)/20.0
	radius := maxRGBDistance / sensitivity
	for y := 0; y < h; y++ {
		so := img.PixOffset(b.Min.X, b.Min.Y+y)
		do := y * w
		for xi := 0; xi < w; xi++ {
			a := img.Pix[so+3]
			if a > 0 {
				dist := distanceRGB(img.Pix[so], img.Pix[so+1], img.Pix[so+2],
					target.Color.R, target.Color.G, target.Color.B)
				sim := max(0.0, 1.0-dist/radius)
				sim = sim * sim * sim
				out.Pix[do] = uint8(math.Round(sim * 255.0 * float64(a) / 255.0))
			}
			so += 4
			do++
		}
	}
	return out
}

// SeparateUnderbase estimates white ink coverage. The branch is a
// document-level decision made before the per-pixel loop: artwork with any
// transparency uses alpha itself as the coverage signal, a fully opaque
// image gets more underbase under darker colors (dark-substrate printing).
func SeparateUnderbase(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	hasTransparency := false
	for y := 0; y < h; y++ {
		so := img.PixOffset(b.Min.X, b.Min.Y+y)
		for xi := 0; xi < w; xi++ {
			if img.Pix[so+3] < 250 {
				hasTransparency = true
				break
			}
			so += 4
		}
		if hasTransparency {
			break
		}
	}

	for y := 0; y < h; y++ {
		so := img.PixOffset(b.Min.X, b.Min.Y+y)
		do := y * w
		for xi := 0; xi < w; xi++ {
			if hasTransparency {
				out.Pix[do] = img.Pix[so+3]
			} else {
				out.Pix[do] = uint8(math.Round(255.0 - luma(img.Pix[so], img.Pix[so+1], img.Pix[so+2])))
			}
			so += 4
			do++
		}
	}
	return out
}
