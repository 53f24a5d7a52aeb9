package detection

import (
	"errors"
	"image"
	"sort"

	"github.com/ironsheep/card-vision/internal/imaging"
)

// Footprint describes what a face-up community card looks like on the table:
// a bright blob of bounded size and portrait aspect ratio. All comparisons
// are strict.
type Footprint struct {
	// BrightThreshold: pixels strictly brighter than this are card surface.
	BrightThreshold uint8 `json:"bright_threshold" yaml:"bright_threshold"`

	MinWidth  int `json:"min_width" yaml:"min_width"`
	MinHeight int `json:"min_height" yaml:"min_height"`
	MinArea   int `json:"min_area" yaml:"min_area"`
	MaxArea   int `json:"max_area" yaml:"max_area"`

	// MinAspect and MaxAspect bound height/width.
	MinAspect float64 `json:"min_aspect" yaml:"min_aspect"`
	MaxAspect float64 `json:"max_aspect" yaml:"max_aspect"`
}

// DefaultFootprint matches community cards on the reference table layout.
func DefaultFootprint() Footprint {
	return Footprint{
		BrightThreshold: 200,
		MinWidth:        60,
		MinHeight:       80,
		MinArea:         5000,
		MaxArea:         20000,
		MinAspect:       1.2,
		MaxAspect:       2.0,
	}
}

// Validate reports footprints that can never accept a box.
func (f Footprint) Validate() error {
	switch {
	case f.MinWidth < 0 || f.MinHeight < 0 || f.MinArea < 0:
		return errors.New("footprint minimums must not be negative")
	case f.MaxArea <= f.MinArea:
		return errors.New("footprint max_area must exceed min_area")
	case f.MinAspect < 0 || f.MaxAspect <= f.MinAspect:
		return errors.New("footprint max_aspect must exceed min_aspect")
	}
	return nil
}

// Accepts reports whether a candidate box has the footprint of a card.
func (f Footprint) Accepts(b Bounds) bool {
	w, h := b.Width(), b.Height()
	if w <= f.MinWidth || h <= f.MinHeight {
		return false
	}
	area := w * h
	if area <= f.MinArea || area >= f.MaxArea {
		return false
	}
	aspect := float64(h) / float64(w)
	return aspect > f.MinAspect && aspect < f.MaxAspect
}

// LocateCards finds face-up cards inside area of frame.
//
// The area is clipped to the frame and binarized at fp.BrightThreshold; every
// 8-connected bright region whose bounding box passes the footprint is a card.
// When two accepted boxes overlap only the larger is kept, so a box never
// nests inside another. Boxes are returned in frame coordinates ordered left
// to right (ties top to bottom). No cards yields an empty, non-nil slice.
func LocateCards(frame *image.Gray, area Bounds, fp Footprint) []Bounds {
	boxes := make([]Bounds, 0)

	area = area.Intersect(FromRect(frame.Bounds()))
	if area.Empty() {
		return boxes
	}

	roi := imaging.Crop(frame, area.Rect())
	mask := imaging.Mask(imaging.Threshold(roi, fp.BrightThreshold))

	var candidates []Bounds
	for _, c := range findComponents(mask) {
		if fp.Accepts(c.Bounds) {
			candidates = append(candidates, c.Bounds.Translate(area.X1, area.Y1))
		}
	}

	// Larger boxes claim their space first.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Area() > candidates[j].Area()
	})
	for _, c := range candidates {
		overlapping := false
		for _, kept := range boxes {
			if c.Overlaps(kept) {
				overlapping = true
				break
			}
		}
		if !overlapping {
			boxes = append(boxes, c)
		}
	}

	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].X1 != boxes[j].X1 {
			return boxes[i].X1 < boxes[j].X1
		}
		return boxes[i].Y1 < boxes[j].Y1
	})
	return boxes
}
