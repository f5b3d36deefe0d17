package inkseparator

import (
	"image"
	"image/color"
	"testing"
)

func TestExtractDominantTwoHalves(t *testing.T) {
	// Left two thirds red, right third blue: both far above the 25%
	// sampling floor and ≈360 apart in RGB distance.
	img := image.NewNRGBA(image.Rect(0, 0, 90, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 90; x++ {
			c := color.NRGBA{B: 255, A: 255}
			if x < 60 {
				c = color.NRGBA{R: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	got := ExtractDominant(img, 4)
	if len(got) < 2 {
		t.Fatalf("got %d colors, want at least 2: %v", len(got), got)
	}
	if got[0].R < got[0].B {
		t.Errorf("first color %v, want the larger red area first", got[0])
	}
	foundBlue := false
	for _, c := range got {
		if c.B > c.R {
			foundBlue = true
			break
		}
	}
	if !foundBlue {
		t.Errorf("no blue-dominant color in %v", got)
	}
}

func TestExtractDominantRespectsCount(t *testing.T) {
	img := gradient(64, 64)
	got := ExtractDominant(img, 3)
	if len(got) > 3 {
		t.Errorf("got %d colors, want at most 3", len(got))
	}
}

func TestExtractDominantSkipsTransparent(t *testing.T) {
	img := uniform(32, 32, color.NRGBA{R: 200, G: 10, B: 10, A: 0})
	if got := ExtractDominant(img, 4); got != nil {
		t.Errorf("got %v from fully transparent image, want nil", got)
	}
}

func TestExtractDominantMergesNearShades(t *testing.T) {
	// Two dark shades land in adjacent quantization buckets ≈41 apart,
	// inside the 60 distinctness floor: only one may survive.
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := color.NRGBA{R: 10, G: 10, B: 10, A: 255}
			if x >= 20 {
				c = color.NRGBA{R: 14, G: 14, B: 14, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	got := ExtractDominant(img, 4)
	if len(got) != 1 {
		t.Errorf("got %d colors, want 1 after distinctness filtering: %v", len(got), got)
	}
}

func TestExtractDominantNilAndEmpty(t *testing.T) {
	if got := ExtractDominant(nil, 4); got != nil {
		t.Errorf("nil image: got %v, want nil", got)
	}
	if got := ExtractDominant(gradient(8, 8), 0); got != nil {
		t.Errorf("count 0: got %v, want nil", got)
	}
}
