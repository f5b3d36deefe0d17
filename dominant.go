package inkseparator

import (
	"image"
	"image/color"
	"slices"

	"golang.org/x/image/draw"
)

const (
	// Source images are downsampled to sampleSize² before counting, so
	// extraction cost is bounded regardless of input resolution.
	sampleSize = 100
	// Channels are rounded to the nearest multiple of quantStep before
	// entering the histogram; nearby shades collapse into one bucket.
	quantStep = 24
	// Accepted colors must be at least minDistinct apart in RGB distance.
	minDistinct = 60.0
	// Pixels below sampleAlphaCutoff are too transparent to count.
	sampleAlphaCutoff = 128
)

// ExtractDominant returns up to count dominant colors of img, most frequent
// first. Intended to run on the original decoded image to suggest spot-color
// candidates; near-duplicates are filtered by a minimum mutual distance.
func ExtractDominant(img image.Image, count int) []color.NRGBA {
	if img == nil || count <= 0 {
		return nil
	}
	b := img.Bounds()
	if b.Empty() {
		return nil
	}

	down := image.NewNRGBA(image.Rect(0, 0, sampleSize, sampleSize))
	draw.ApproxBiLinear.Scale(down, down.Bounds(), img, b, draw.Src, nil)

	hist := make(map[uint32]int)
	for i := 0; i < len(down.Pix); i += 4 {
		if down.Pix[i+3] < sampleAlphaCutoff {
			continue
		}
		qr := quantize24(down.Pix[i])
		qg := quantize24(down.Pix[i+1])
		qb := quantize24(down.Pix[i+2])
		hist[uint32(qr)<<16|uint32(qg)<<8|uint32(qb)]++
	}
	if len(hist) == 0 {
		return nil
	}

	type bucket struct {
		key uint32
		n   int
	}
	buckets := make([]bucket, 0, len(hist))
	for k, n := range hist {
		buckets = append(buckets, bucket{key: k, n: n})
	}
	// Descending frequency; key order breaks ties so output is stable.
	slices.SortFunc(buckets, func(a, b bucket) int {
		if a.n != b.n {
			return b.n - a.n
		}
		if a.key < b.key {
			return -1
		}
		if a.key > b.key {
			return 1
		}
		return 0
	})

	out := make([]color.NRGBA, 0, count)
	for _, bk := range buckets {
		c := color.NRGBA{
			R: uint8(bk.key >> 16),
			G: uint8(bk.key >> 8),
			B: uint8(bk.key),
			A: 255,
		}
		distinct := true
		for _, acc := range out {
			if distanceRGB(c.R, c.G, c.B, acc.R, acc.G, acc.B) < minDistinct {
				distinct = false
				break
			}
		}
		if !distinct {
			continue
		}
		out = append(out, c)
		if len(out) == count {
			break
		}
	}
	return out
}
