// Package inkseparator decomposes a raster image into screen-printable ink
// channels: process color (CMYK), arbitrary spot colors, and an optional
// white underbase. Every stage is a pure function over explicit buffers —
// no state survives between invocations and inputs are never mutated, so
// calls are safe to run concurrently for independent images.
package inkseparator

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/sync/errgroup"
)

// SeparationMode selects the channel separation algorithm.
type SeparationMode int

const (
	// ModeCMYK produces exactly four channels in fixed C, M, Y, K order.
	ModeCMYK SeparationMode = iota
	// ModeSpot produces one channel per configured target, in
	// configuration order.
	ModeSpot
)

// MaskPolicy decides what happens when a mask's geometry differs from the
// source.
type MaskPolicy int

const (
	// MaskIgnoreMismatched silently discards a mismatched mask; automatic
	// removal rules then apply unmodified.
	MaskIgnoreMismatched MaskPolicy = iota
	// MaskStrict fails the invocation with a DimensionMismatchError.
	MaskStrict
)

// SpotColorTarget is one configured spot ink.
type SpotColorTarget struct {
	ID    string
	Name  string
	Color color.NRGBA
	// Threshold in [0,100] widens classification: higher matches more
	// of the image.
	Threshold int
}

// Config drives a single Separate invocation.
type Config struct {
	Mode             SeparationMode
	SpotColors       []SpotColorTarget
	IncludeWhiteBase bool
	MaskPolicy       MaskPolicy
	Adjustments      AdjustmentSettings
}

// DefaultConfig returns a CMYK separation with neutral adjustments.
func DefaultConfig() Config {
	return Config{
		Mode:        ModeCMYK,
		Adjustments: DefaultAdjustments(),
	}
}

// ChannelResult is one produced ink channel. Color is a caller-facing hint
// for labeling and preview; the raster itself is always black with alpha
// carrying the ink density.
type ChannelResult struct {
	Name   string
	Color  color.NRGBA
	Raster *image.NRGBA
}

// Separate runs the full pipeline: tone adjustment, background removal and
// mask compositing, channel separation, raster encoding. The white
// underbase channel, when requested, is prepended. Either the complete
// result set is returned or an error; no partial results.
func Separate(src *image.NRGBA, mask *image.NRGBA, cfg Config) ([]ChannelResult, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, fmt.Errorf("separate: %w", ErrResourceUnavailable)
	}
	if mask != nil {
		sb, mb := src.Bounds(), mask.Bounds()
		if mb.Dx() != sb.Dx() || mb.Dy() != sb.Dy() {
			if cfg.MaskPolicy == MaskStrict {
				return nil, &DimensionMismatchError{
					SrcW: sb.Dx(), SrcH: sb.Dy(),
					MaskW: mb.Dx(), MaskH: mb.Dy(),
				}
			}
			mask = nil
		}
	}

	var n int
	switch cfg.Mode {
	case ModeCMYK:
		n = 4
	case ModeSpot:
		n = len(cfg.SpotColors)
	default:
		return nil, fmt.Errorf("separate: unknown mode %d", cfg.Mode)
	}
	base := 0
	if cfg.IncludeWhiteBase {
		base = 1
	}
	results := make([]ChannelResult, base+n)

	processed := Composite(Adjust(src, cfg.Adjustments), cfg.Adjustments, mask)

	// Channels are independent; produce them concurrently and place each
	// by index so output order never depends on scheduling.
	var g errgroup.Group
	if cfg.IncludeWhiteBase {
		g.Go(func() error {
			results[0] = ChannelResult{
				Name:   "White Underbase",
				Color:  underbaseColor,
				Raster: EncodeChannel(SeparateUnderbase(processed)),
			}
			return nil
		})
	}
	switch cfg.Mode {
	case ModeCMYK:
		g.Go(func() error {
			channels := SeparateCMYK(processed)
			for i := range channels {
				results[base+i] = ChannelResult{
					Name:   cmykNames[i],
					Color:  cmykColors[i],
					Raster: EncodeChannel(channels[i]),
				}
			}
			return nil
		})
	case ModeSpot:
		for i, target := range cfg.SpotColors {
			i, target := i, target
			g.Go(func() error {
				name := target.Name
				if name == "" {
					name = Hex(target.Color)
				}
				results[base+i] = ChannelResult{
					Name:   name,
					Color:  target.Color,
					Raster: EncodeChannel(SeparateSpot(processed, target)),
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("separate: %w", err)
	}
	return results, nil
}

// Preview alpha-composites the produced channels bottom to top over an
// opaque substrate color, approximating the printed result. Channel order
// is stacking order, so a prepended underbase ends up underneath.
func Preview(results []ChannelResult, substrate color.NRGBA) *image.RGBA {
	if len(results) == 0 || results[0].Raster == nil {
		return nil
	}
	b := results[0].Raster.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			outR := float64(substrate.R)
			outG := float64(substrate.G)
			outB := float64(substrate.B)
			for _, res := range results {
				a := float64(res.Raster.NRGBAAt(x, y).A) / 255.0
				if a == 0 {
					continue
				}
				oneMinusA := 1 - a
				outR = a*float64(res.Color.R) + oneMinusA*outR
				outG = a*float64(res.Color.G) + oneMinusA*outG
				outB = a*float64(res.Color.B) + oneMinusA*outB
			}
			out.SetRGBA(x, y, color.RGBA{
				uint8(max(0, min(255, outR))),
				uint8(max(0, min(255, outG))),
				uint8(max(0, min(255, outB))),
				255, // Opaque result over fixed substrate.
			})
		}
	}
	return out
}
