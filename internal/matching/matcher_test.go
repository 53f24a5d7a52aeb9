package matching

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/imaging"
	"github.com/ironsheep/card-vision/internal/testutil"
)

func TestProfiles(t *testing.T) {
	tilted := TiltedProfile()
	if tilted.Binarize || !tilted.Smooth || len(tilted.Scales) != 7 {
		t.Errorf("unexpected tilted profile %+v", tilted)
	}
	if tilted.Scales[0] != 0.80 || tilted.Scales[6] != 1.10 {
		t.Errorf("tilted sweep = %v", tilted.Scales)
	}

	straight := StraightProfile()
	if !straight.Binarize || straight.InkThreshold != 150 || len(straight.Scales) != 8 {
		t.Errorf("unexpected straight profile %+v", straight)
	}
	if straight.Scales[0] != 0.6 || straight.Scales[7] != 1.3 {
		t.Errorf("straight sweep = %v", straight.Scales)
	}

	if ProfileFor(cards.Left).Name != "tilted" || ProfileFor(cards.Right).Name != "tilted" {
		t.Error("tilted orientations should use the tilted profile")
	}
	if ProfileFor(cards.Straight).Name != "straight" {
		t.Error("straight orientation should use the straight profile")
	}
}

func TestMatch_SelfMatchIsNearPerfect(t *testing.T) {
	sym := cards.RankSymbol(cards.Eight)
	region := testutil.Region(sym)
	tpl := testutil.Glyph(sym)

	for _, p := range []Profile{TiltedProfile(), StraightProfile()} {
		t.Run(p.Name, func(t *testing.T) {
			score, ok := NewMatcher(p).Match(region, tpl)
			if !ok {
				t.Fatal("expected a usable scale")
			}
			if score < 0.9 || score > 1 {
				t.Errorf("self match score = %.4f, want in [0.9, 1]", score)
			}
		})
	}
}

func TestMatch_Sentinel(t *testing.T) {
	m := NewMatcher(TiltedProfile())
	tpl := testutil.Glyph(cards.SuitSymbol(cards.Heart))

	tests := []struct {
		name   string
		region *image.Gray
		tpl    *image.Gray
	}{
		{"empty region", image.NewGray(image.Rect(0, 0, 0, 0)), tpl},
		{"nil template", testutil.Canvas(40, 40, 255), nil},
		{"region below min size", testutil.Canvas(4, 4, 255), tpl},
		// Every scale makes the template wider than the region.
		{"template too wide", testutil.Canvas(6, 60, 255), testutil.Canvas(60, 10, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := m.Match(tt.region, tt.tpl)
			if ok {
				t.Error("expected no usable scale")
			}
			if score != Sentinel {
				t.Errorf("score = %v, want Sentinel", score)
			}
		})
	}
	if Sentinel >= -1 {
		t.Error("Sentinel must be below every valid correlation")
	}
}

func TestMatch_UniformRegionScoresZero(t *testing.T) {
	region := testutil.Canvas(40, 40, 255)
	score, ok := NewMatcher(TiltedProfile()).Match(region, testutil.Glyph(cards.SuitSymbol(cards.Club)))
	if !ok {
		t.Fatal("expected usable scales")
	}
	if score != 0 {
		t.Errorf("uniform region scored %v, want 0", score)
	}
}

func TestMatch_ScoreBounded(t *testing.T) {
	region := testutil.Region(cards.RankSymbol(cards.King))
	for _, sym := range cards.RankSymbols() {
		score, ok := NewMatcher(StraightProfile()).Match(region, testutil.Glyph(sym))
		if ok && (score < -1 || score > 1) {
			t.Errorf("%s scored %v outside [-1, 1]", sym, score)
		}
	}
}

func TestCorrelate(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetGray(2, 1, color.Gray{Y: 10})
	img.SetGray(3, 1, color.Gray{Y: 10})

	tpl := image.NewGray(image.Rect(0, 0, 2, 1))
	tpl.Pix = []uint8{10, 10}
	// Zero template variance.
	if got := correlate(img, tpl); got != 0 {
		t.Errorf("flat template scored %v, want 0", got)
	}

	tpl = image.NewGray(image.Rect(0, 0, 2, 2))
	tpl.Pix = []uint8{200, 200, 10, 10}
	if got := correlate(img, tpl); got < 0.9999 {
		t.Errorf("exact pattern scored %v, want 1", got)
	}

	diag := image.NewGray(image.Rect(0, 0, 2, 2))
	diag.Pix = []uint8{10, 200, 200, 10}
	if got := correlate(img, diag); got >= 0.9999 {
		t.Errorf("absent pattern scored %v, want below 1", got)
	}
}

func TestCorrelate_OffsetBounds(t *testing.T) {
	// Sub-images share Pix with their parent; correlation must honour Min.
	parent := testutil.Canvas(20, 20, 255)
	testutil.FillRect(parent, image.Rect(12, 12, 15, 15), 0)
	sub := parent.SubImage(image.Rect(10, 10, 20, 20)).(*image.Gray)

	tpl := testutil.Canvas(5, 5, 255)
	testutil.FillRect(tpl, image.Rect(1, 1, 4, 4), 0)
	if got := correlate(sub, tpl); got < 0.9999 {
		t.Errorf("offset sub-image scored %v, want 1", got)
	}
}

func TestFitScore(t *testing.T) {
	marker := testutil.Glyph(cards.SuitSymbol(cards.Spade))
	region := testutil.Pad(imaging.Resize(marker, marker.Bounds().Dx()*2, marker.Bounds().Dy()*2), 1, 1, 1, 1, 255)

	score, ok := FitScore(region, marker)
	if !ok {
		t.Fatal("FitScore failed")
	}
	if score < 0.8 {
		t.Errorf("present indicator scored %.3f", score)
	}

	blank, ok := FitScore(testutil.Canvas(region.Bounds().Dx(), region.Bounds().Dy(), 255), marker)
	if !ok || blank != 0 {
		t.Errorf("blank region = %v, %v; want 0, true", blank, ok)
	}

	if _, ok := FitScore(testutil.Canvas(1, 1, 255), marker); ok {
		t.Error("a 1x1 region cannot hold the indicator")
	}
	if s, ok := FitScore(image.NewGray(image.Rect(0, 0, 0, 0)), marker); ok || s != Sentinel {
		t.Errorf("empty region = %v, %v", s, ok)
	}
}
