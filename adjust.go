package inkseparator

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// BgRemoveMode selects how the background color is determined before
// automatic removal.
type BgRemoveMode int

const (
	// BgRemoveWhite removes bright pixels by a luma cutoff.
	BgRemoveWhite BgRemoveMode = iota
	// BgRemoveBlack removes pixels near pure black.
	BgRemoveBlack
	// BgRemoveCustom removes pixels near CustomBgColor.
	BgRemoveCustom
	// BgRemoveAuto samples the adjusted buffer's top-left pixel as the
	// background estimate. A single-sample heuristic: it fails when the
	// corner is not background.
	BgRemoveAuto
	// BgRemoveBorder estimates the background as the most common quantized
	// color on the one-pixel border ring. Robust alternative to BgRemoveAuto.
	BgRemoveBorder
)

// AdjustmentSettings controls the tone stage and background removal.
// Ranges are a documented contract; the math clamps per stage instead of
// rejecting, see Validate for strict checking.
type AdjustmentSettings struct {
	Brightness int     // [-100,100], additive
	Contrast   int     // [-100,100]
	Gamma      float64 // [0.1,3.0]; 1 is a no-op
	RemoveBg   bool
	BgMode     BgRemoveMode
	// CustomBgColor is the removal target when BgMode is BgRemoveCustom.
	CustomBgColor color.NRGBA
	// BgThreshold widens the removal tolerance. [0,100].
	BgThreshold int
}

// DefaultAdjustments returns neutral settings: the tone stage is an
// identity and no background is removed.
func DefaultAdjustments() AdjustmentSettings {
	return AdjustmentSettings{
		Gamma:       1.0,
		BgMode:      BgRemoveWhite,
		BgThreshold: 10,
	}
}

// Validate reports the first setting outside its documented range.
// Adjust and Composite never call it; they clamp instead.
func (s AdjustmentSettings) Validate() error {
	if s.Brightness < -100 || s.Brightness > 100 {
		return fmt.Errorf("invalid brightness %d, want [-100,100]", s.Brightness)
	}
	if s.Contrast < -100 || s.Contrast > 100 {
		return fmt.Errorf("invalid contrast %d, want [-100,100]", s.Contrast)
	}
	if s.Gamma < 0.1 || s.Gamma > 3.0 {
		return fmt.Errorf("invalid gamma %g, want [0.1,3.0]", s.Gamma)
	}
	if s.BgThreshold < 0 || s.BgThreshold > 100 {
		return fmt.Errorf("invalid background threshold %d, want [0,100]", s.BgThreshold)
	}
	if s.BgMode < BgRemoveWhite || s.BgMode > BgRemoveBorder {
		return fmt.Errorf("invalid background mode %d", s.BgMode)
	}
	return nil
}

// toneLUT folds brightness, contrast and gamma into one 256-entry table.
// Per-stage order and clamping: brightness (additive), contrast
// (factor around 128), gamma (skipped at 1), each result clamped to
// [0,255] before the next stage.
func toneLUT(s AdjustmentSettings) [256]uint8 {
	factor := (259.0 * (float64(s.Contrast) + 255.0)) / (255.0 * (259.0 - float64(s.Contrast)))
	var lut [256]uint8
	for v := 0; v < 256; v++ {
		c := float64(v) + float64(s.Brightness)
		c = min(255.0, max(0.0, c))
		c = factor*(c-128.0) + 128.0
		c = min(255.0, max(0.0, c))
		if s.Gamma != 1.0 && s.Gamma > 0 {
			c = 255.0 * math.Pow(c/255.0, 1.0/s.Gamma)
			c = min(255.0, max(0.0, c))
		}
		lut[v] = uint8(math.Round(c))
	}
	return lut
}

// Adjust applies brightness, contrast and gamma to every pixel's RGB
// channels and returns a new buffer. Alpha passes through untouched and
// src is never mutated.
func Adjust(src *image.NRGBA, s AdjustmentSettings) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	lut := toneLUT(s)
	for y := 0; y < h; y++ {
		so := src.PixOffset(b.Min.X, b.Min.Y+y)
		do := out.PixOffset(0, y)
		for xi := 0; xi < w; xi++ {
			out.Pix[do] = lut[src.Pix[so]]
			out.Pix[do+1] = lut[src.Pix[so+1]]
			out.Pix[do+2] = lut[src.Pix[so+2]]
			out.Pix[do+3] = src.Pix[so+3]
			so += 4
			do += 4
		}
	}
	return out
}
