// Package utils holds caller-side helpers around the separation core:
// image file I/O and spot-color suggestion backends.
package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/setanarut/inkseparator"
)

type PaletteMethod int

const (
	// PaletteMethodHistogram uses the core quantized-histogram extractor.
	PaletteMethodHistogram PaletteMethod = iota
	PaletteMethodDominantColor
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodDominantColor:
		return "dominantcolor"
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "histogram"
	}
}

// SuggestSpotColors extracts up to k candidate ink colors from img using
// the chosen method. The alternative backends fall back to the histogram
// extractor when they come up empty.
func SuggestSpotColors(img image.Image, k int, method PaletteMethod) []color.NRGBA {
	switch method {
	case PaletteMethodDominantColor:
		p := extractDominantColorPalette(img, k)
		if len(p) != 0 {
			return p
		}
		log.Println("palette warning: dominantcolor returned empty palette, falling back to histogram")
	case PaletteMethodKMeans:
		p := extractKMeansPalette(img, k)
		if len(p) != 0 {
			return p
		}
		log.Println("palette warning: kmeans returned empty palette, falling back to histogram")
	}
	return inkseparator.ExtractDominant(img, k)
}

func extractDominantColorPalette(img image.Image, k int) []color.NRGBA {
	if k <= 0 {
		return nil
	}
	nCandidates := max(24, k*8)
	candidates := dominantcolor.FindWeight(img, nCandidates)
	cands := make([]color.NRGBA, 0, len(candidates))
	for _, c := range candidates {
		cands = append(cands, color.NRGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: 255})
	}
	return selectDistinct(cands, k)
}

func extractKMeansPalette(img image.Image, k int) []color.NRGBA {
	if k <= 0 {
		return nil
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large images.
	maxSamples := 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(max(k*4, k+2), len(dataset))
	if workK <= 0 {
		return nil
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}

	// Sort by cluster population so dominant colors come first.
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	cands := make([]color.NRGBA, 0, len(cc))
	for _, c := range cc {
		center := c.Center
		if len(center) < 3 {
			continue
		}
		cands = append(cands, color.NRGBA{
			R: uint8(max(0, min(255, center[0]*255))),
			G: uint8(max(0, min(255, center[1]*255))),
			B: uint8(max(0, min(255, center[2]*255))),
			A: 255,
		})
	}
	return selectDistinct(cands, k)
}

// selectDistinct keeps candidate order but drops colors closer than the
// core extractor's distinctness floor, so every backend suggests inks a
// press can actually tell apart.
func selectDistinct(cands []color.NRGBA, k int) []color.NRGBA {
	out := make([]color.NRGBA, 0, k)
	for _, c := range cands {
		ok := true
		for _, acc := range out {
			dr := float64(c.R) - float64(acc.R)
			dg := float64(c.G) - float64(acc.G)
			db := float64(c.B) - float64(acc.B)
			if math.Sqrt(dr*dr+dg*dg+db*db) < 60 {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		out = append(out, c)
		if len(out) == k {
			break
		}
	}
	return out
}

// SortPaletteByBrightness orders colors from darkest to brightest, so the
// first suggested ink is the one closest to a dark substrate.
func SortPaletteByBrightness(palette []color.NRGBA) {
	slices.SortFunc(palette, func(a, b color.NRGBA) int {
		ca, _ := colorful.MakeColor(a)
		cb, _ := colorful.MakeColor(b)
		ri, gi, bi := ca.LinearRgb()
		rj, gj, bj := cb.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// SpotTargetsFromPalette wraps suggested colors as spot targets sharing one
// threshold. Names default to the hex notation of the color.
func SpotTargetsFromPalette(palette []color.NRGBA, threshold int) []inkseparator.SpotColorTarget {
	targets := make([]inkseparator.SpotColorTarget, 0, len(palette))
	for i, c := range palette {
		targets = append(targets, inkseparator.SpotColorTarget{
			ID:        fmt.Sprintf("spot-%d", i+1),
			Name:      inkseparator.Hex(c),
			Color:     c,
			Threshold: threshold,
		})
	}
	return targets
}

func ReadImage(path string) *image.NRGBA {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	img, err := inkseparator.PNGCodec{}.Decode(data)
	if err != nil {
		panic(err)
	}
	return img
}

// SaveChannels writes one PNG per channel into dir, named after the
// channel with spaces replaced so files stay shell-friendly.
func SaveChannels(results []inkseparator.ChannelResult, dir string) error {
	for _, res := range results {
		name := strings.ReplaceAll(strings.ToLower(res.Name), " ", "_")
		name = strings.TrimPrefix(name, "#")
		if err := SaveImage(res.Raster, dir+name+".png"); err != nil {
			return err
		}
	}
	return nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// SavePalette writes suggested colors as a horizontal strip of tiles.
func SavePalette(palette []color.NRGBA, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i, c := range palette {
		x0 := i * tileSize
		x1 := x0 + tileSize
		for y := 0; y < h; y++ {
			for x := x0; x < x1; x++ {
				img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
			}
		}
	}

	return SaveImage(img, filename)
}
