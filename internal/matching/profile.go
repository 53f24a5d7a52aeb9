package matching

import (
	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/imaging"
)

// Profile parameterizes the multi-scale matcher for one kind of card
// rendering. Scales are fractions of the region height the template is
// resized to.
type Profile struct {
	Name   string
	Scales []float64

	// MinSize rejects resized templates narrower or shorter than this.
	MinSize int

	// Smooth applies a Gaussian blur to region and template before
	// correlating them.
	Smooth      bool
	SmoothSigma float64

	// Binarize adds a second correlation of the ink masks of region and
	// template; the better of the two passes counts.
	Binarize     bool
	InkThreshold uint8
}

// TiltedProfile is used for own cards, which are drawn rotated and
// anti-aliased: a narrow scale sweep on smoothed pixels.
func TiltedProfile() Profile {
	return Profile{
		Name:        "tilted",
		Scales:      []float64{0.80, 0.85, 0.90, 0.95, 1.00, 1.05, 1.10},
		MinSize:     5,
		Smooth:      true,
		SmoothSigma: imaging.DefaultSigma,
	}
}

// StraightProfile is used for community cards: a wider scale sweep, since the
// segmented region only loosely bounds the symbol, plus a binarized pass.
func StraightProfile() Profile {
	return Profile{
		Name:         "straight",
		Scales:       []float64{0.6, 0.7, 0.8, 0.9, 1.0, 1.1, 1.2, 1.3},
		MinSize:      5,
		Smooth:       true,
		SmoothSigma:  imaging.DefaultSigma,
		Binarize:     true,
		InkThreshold: 150,
	}
}

// ProfileFor returns the profile for templates of the given orientation.
func ProfileFor(o cards.Orientation) Profile {
	if o == cards.Straight {
		return StraightProfile()
	}
	return TiltedProfile()
}
