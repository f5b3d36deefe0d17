package inkseparator

import (
	"image"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mask channel semantics: red forces erase, green forces keep. Values at or
// below maskThreshold are treated as unpainted.
const maskThreshold = 10

// Composite applies background removal and the freehand mask to adjusted,
// returning a new buffer. Only alpha changes, and it only ever decreases.
//
// Per-pixel precedence, highest first:
//
//  1. mask red   > 10  -> alpha = 0 (force erase)
//  2. mask green > 10  -> alpha unchanged (force keep)
//  3. RemoveBg false   -> alpha unchanged
//  4. mode test        -> alpha = 0 on match
//
// A nil mask or one whose geometry differs from adjusted is ignored
// wholesale; rules 3-4 then apply unmodified.
func Composite(adjusted *image.NRGBA, s AdjustmentSettings, mask *image.NRGBA) *image.NRGBA {
	b := adjusted.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	if mask != nil {
		mb := mask.Bounds()
		if mb.Dx() != w || mb.Dy() != h {
			mask = nil
		}
	}

	// Resolve the removal target once per call, never per pixel.
	var lumaCutoff float64
	var target color.NRGBA
	var tolSq float64
	if s.RemoveBg {
		if s.BgMode == BgRemoveWhite {
			lumaCutoff = 255.0 - float64(s.BgThreshold)*2.5
		} else {
			target = resolveBackground(adjusted, s)
			tol := float64(s.BgThreshold) / 100.0 * maxRGBDistance
			tolSq = tol * tol
		}
	}

	for y := 0; y < h; y++ {
		so := adjusted.PixOffset(b.Min.X, b.Min.Y+y)
		do := out.PixOffset(0, y)
		var mo int
		if mask != nil {
			mb := mask.Bounds()
			mo = mask.PixOffset(mb.Min.X, mb.Min.Y+y)
		}
		for xi := 0; xi < w; xi++ {
			r := adjusted.Pix[so]
			g := adjusted.Pix[so+1]
			bl := adjusted.Pix[so+2]
			a := adjusted.Pix[so+3]
			out.Pix[do] = r
			out.Pix[do+1] = g
			out.Pix[do+2] = bl

			keep := false
			if mask != nil {
				if mask.Pix[mo] > maskThreshold {
					a = 0
					keep = true // erase wins over every later rule
				} else if mask.Pix[mo+1] > maskThreshold {
					keep = true
				}
				mo += 4
			}
			if !keep && s.RemoveBg {
				if s.BgMode == BgRemoveWhite {
					if luma(r, g, bl) > lumaCutoff {
						a = 0
					}
				} else if distanceSqRGB(r, g, bl, target.R, target.G, target.B) <= tolSq {
					a = 0
				}
			}
			out.Pix[do+3] = a
			so += 4
			do += 4
		}
	}
	return out
}

// resolveBackground picks the removal target for the distance-based modes.
func resolveBackground(img *image.NRGBA, s AdjustmentSettings) color.NRGBA {
	switch s.BgMode {
	case BgRemoveBlack:
		return color.NRGBA{A: 255}
	case BgRemoveCustom:
		return s.CustomBgColor
	case BgRemoveBorder:
		return borderBackground(img)
	default: // BgRemoveAuto
		b := img.Bounds()
		return img.NRGBAAt(b.Min.X, b.Min.Y)
	}
}

// borderBackground returns the most common quantized color on the
// one-pixel border ring of img.
func borderBackground(img *image.NRGBA) color.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	keys := make([]float64, 0, 2*(w+h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y != 0 && y != h-1 && x != 0 && x != w-1 {
				continue
			}
			c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			qr := quantize24(c.R)
			qg := quantize24(c.G)
			qb := quantize24(c.B)
			keys = append(keys, float64(uint32(qr)<<16|uint32(qg)<<8|uint32(qb)))
		}
	}
	if len(keys) == 0 {
		return color.NRGBA{A: 255}
	}
	sort.Float64s(keys) // stat.Mode wants sorted input
	mode, _ := stat.Mode(keys, nil)
	k := uint32(mode)
	return color.NRGBA{R: uint8(k >> 16), G: uint8(k >> 8), B: uint8(k), A: 255}
}
