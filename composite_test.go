package inkseparator

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompositeAlphaNeverIncreases(t *testing.T) {
	src := gradient(16, 16)
	s := DefaultAdjustments()
	s.RemoveBg = true
	s.BgMode = BgRemoveWhite
	s.BgThreshold = 40
	out := Composite(src, s, nil)
	for i := 3; i < len(src.Pix); i += 4 {
		if out.Pix[i] > src.Pix[i] {
			t.Fatalf("alpha increased at offset %d: %d -> %d", i, src.Pix[i], out.Pix[i])
		}
	}
}

func TestCompositeNoRemovalIsIdentity(t *testing.T) {
	src := gradient(12, 12)
	out := Composite(src, DefaultAdjustments(), nil)
	if diff := cmp.Diff(src.Pix, out.Pix); diff != "" {
		t.Errorf("composite without removal changed pixels (-want +got):\n%s", diff)
	}
}

func TestMaskEraseWinsOverKeep(t *testing.T) {
	src := uniform(1, 1, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	// Red and green both painted: erase must win.
	mask := uniform(1, 1, color.NRGBA{R: 200, G: 200, A: 255})
	out := Composite(src, DefaultAdjustments(), mask)
	if got := out.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("alpha = %d, want 0 (erase before keep)", got)
	}
}

func TestMaskKeepBlocksAutoRemoval(t *testing.T) {
	src := uniform(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	mask := uniform(1, 1, color.NRGBA{G: 200, A: 255})
	s := DefaultAdjustments()
	s.RemoveBg = true
	s.BgMode = BgRemoveWhite
	s.BgThreshold = 50
	out := Composite(src, s, mask)
	if got := out.NRGBAAt(0, 0).A; got != 255 {
		t.Errorf("alpha = %d, want 255 (keep blocks removal)", got)
	}
	// Without the mask the same pixel is removed.
	out = Composite(src, s, nil)
	if got := out.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("alpha = %d, want 0 without mask", got)
	}
}

func TestMaskBelowThresholdIgnored(t *testing.T) {
	src := uniform(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	mask := uniform(1, 1, color.NRGBA{R: 10, G: 10, A: 255}) // exactly at threshold
	s := DefaultAdjustments()
	s.RemoveBg = true
	s.BgMode = BgRemoveWhite
	s.BgThreshold = 50
	out := Composite(src, s, mask)
	if got := out.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("alpha = %d, want 0 (faint mask must not force keep)", got)
	}
}

func TestMismatchedMaskFallsBackToNoMask(t *testing.T) {
	src := gradient(10, 10)
	mask := uniform(4, 4, color.NRGBA{R: 255, A: 255})
	s := DefaultAdjustments()
	s.RemoveBg = true
	s.BgMode = BgRemoveWhite
	s.BgThreshold = 30
	withMask := Composite(src, s, mask)
	without := Composite(src, s, nil)
	if diff := cmp.Diff(without.Pix, withMask.Pix); diff != "" {
		t.Errorf("mismatched mask changed output (-want +got):\n%s", diff)
	}
}

func TestWhiteModeLumaCutoff(t *testing.T) {
	s := DefaultAdjustments()
	s.RemoveBg = true
	s.BgMode = BgRemoveWhite
	s.BgThreshold = 20 // cutoff = 255 - 50 = 205
	out := Composite(uniform(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), s, nil)
	if got := out.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("white pixel alpha = %d, want 0", got)
	}
	out = Composite(uniform(1, 1, color.NRGBA{R: 200, G: 200, B: 200, A: 255}), s, nil)
	if got := out.NRGBAAt(0, 0).A; got != 255 {
		t.Errorf("gray pixel alpha = %d, want 255 (luma 200 below cutoff)", got)
	}
}

func TestBlackModeDistance(t *testing.T) {
	s := DefaultAdjustments()
	s.RemoveBg = true
	s.BgMode = BgRemoveBlack
	s.BgThreshold = 10 // tolerance ≈ 44.2
	out := Composite(uniform(1, 1, color.NRGBA{R: 20, G: 20, B: 20, A: 255}), s, nil)
	if got := out.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("near-black alpha = %d, want 0", got)
	}
	out = Composite(uniform(1, 1, color.NRGBA{R: 120, G: 120, B: 120, A: 255}), s, nil)
	if got := out.NRGBAAt(0, 0).A; got != 255 {
		t.Errorf("mid-gray alpha = %d, want 255", got)
	}
}

func TestCustomModeDistance(t *testing.T) {
	s := DefaultAdjustments()
	s.RemoveBg = true
	s.BgMode = BgRemoveCustom
	s.CustomBgColor = color.NRGBA{R: 0, G: 128, B: 255, A: 255}
	s.BgThreshold = 5
	out := Composite(uniform(1, 1, color.NRGBA{R: 0, G: 128, B: 255, A: 255}), s, nil)
	if got := out.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("exact custom color alpha = %d, want 0", got)
	}
}

func TestAutoModeSamplesTopLeft(t *testing.T) {
	src := uniform(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(2, 2, color.NRGBA{R: 200, G: 50, B: 50, A: 255})
	s := DefaultAdjustments()
	s.RemoveBg = true
	s.BgMode = BgRemoveAuto
	s.BgThreshold = 10
	out := Composite(src, s, nil)
	if got := out.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("corner-colored alpha = %d, want 0", got)
	}
	if got := out.NRGBAAt(2, 2).A; got != 255 {
		t.Errorf("foreground alpha = %d, want 255", got)
	}
}

func TestBorderModeSurvivesForeignCorner(t *testing.T) {
	// Border is red except the very corner; a single-sample heuristic
	// would lock onto the wrong color, the border mode must not.
	src := uniform(8, 8, color.NRGBA{R: 50, G: 60, B: 200, A: 255})
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if y == 0 || y == 7 || x == 0 || x == 7 {
				src.SetNRGBA(x, y, color.NRGBA{R: 220, G: 30, B: 30, A: 255})
			}
		}
	}
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 250, B: 10, A: 255})

	s := DefaultAdjustments()
	s.RemoveBg = true
	s.BgMode = BgRemoveBorder
	s.BgThreshold = 10
	out := Composite(src, s, nil)
	if got := out.NRGBAAt(3, 0).A; got != 0 {
		t.Errorf("border alpha = %d, want 0", got)
	}
	if got := out.NRGBAAt(3, 3).A; got != 255 {
		t.Errorf("interior alpha = %d, want 255", got)
	}
}
