package detection

import (
	"image"
	"sort"

	"github.com/ironsheep/card-vision/internal/imaging"
)

// SegmentOptions controls how a card box is split into rank and suit regions.
type SegmentOptions struct {
	// InkThreshold: pixels at or below this intensity are ink.
	InkThreshold uint8 `json:"ink_threshold" yaml:"ink_threshold"`

	// MinComponentArea discards ink blobs whose bounding box area is not
	// strictly greater than this (specks, border shadows).
	MinComponentArea int `json:"min_component_area" yaml:"min_component_area"`

	// MergeTolerance joins consecutive blobs whose vertical centres differ by
	// less than this many pixels, so both digits of "10" form one symbol.
	MergeTolerance float64 `json:"merge_tolerance" yaml:"merge_tolerance"`

	// Padding is added around each merged cluster, clipped to the card.
	Padding int `json:"padding" yaml:"padding"`
}

// DefaultSegmentOptions matches the reference card artwork.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		InkThreshold:     150,
		MinComponentArea: 50,
		MergeTolerance:   20,
		Padding:          3,
	}
}

// CardBox is a located card and the two symbol regions inside it, all in
// frame coordinates.
type CardBox struct {
	Card Bounds `json:"card"`
	Rank Bounds `json:"rank"`
	Suit Bounds `json:"suit"`

	// Fallback is set when the ink did not separate into two clusters and the
	// fixed proportional split was used instead.
	Fallback bool `json:"fallback,omitempty"`
}

// Segment splits a located card into its rank and suit regions.
//
// Ink blobs inside the card are ordered top to bottom and chained into
// clusters: a blob joins the current cluster when its centre is within
// MergeTolerance of the previous blob's centre. The first cluster is the rank
// and the second the suit. Cards whose ink forms fewer than two clusters use
// a fixed split of the card's top-left corner.
func Segment(frame *image.Gray, card Bounds, opts SegmentOptions) CardBox {
	card = card.Intersect(FromRect(frame.Bounds()))
	if card.Empty() {
		return CardBox{Card: card, Fallback: true}
	}

	roi := imaging.Crop(frame, card.Rect())
	mask := imaging.Mask(imaging.ThresholdInv(roi, opts.InkThreshold))

	var blobs []Component
	for _, c := range findComponents(mask) {
		if c.Bounds.Area() > opts.MinComponentArea {
			blobs = append(blobs, c)
		}
	}
	sort.SliceStable(blobs, func(i, j int) bool {
		return blobs[i].CenterY() < blobs[j].CenterY()
	})

	clusters := groupByRow(blobs, opts.MergeTolerance)
	if len(clusters) < 2 {
		return fallbackSplit(card)
	}

	local := Bounds{X2: card.Width(), Y2: card.Height()}
	return CardBox{
		Card: card,
		Rank: clusters[0].Pad(opts.Padding).Intersect(local).Translate(card.X1, card.Y1),
		Suit: clusters[1].Pad(opts.Padding).Intersect(local).Translate(card.X1, card.Y1),
	}
}

// groupByRow chains vertically sorted blobs into clusters and returns the
// bounding box of each cluster, top to bottom.
func groupByRow(blobs []Component, tolerance float64) []Bounds {
	if len(blobs) == 0 {
		return nil
	}

	var clusters []Bounds
	current := blobs[0].Bounds
	prev := blobs[0].CenterY()
	for _, b := range blobs[1:] {
		cy := b.CenterY()
		if abs(cy-prev) < tolerance {
			current = current.Union(b.Bounds)
		} else {
			clusters = append(clusters, current)
			current = b.Bounds
		}
		prev = cy
	}
	return append(clusters, current)
}

// fallbackSplit assigns the rank to the top 35% and the suit to the next
// 30% of the card's left 40%.
func fallbackSplit(card Bounds) CardBox {
	w, h := card.Width(), card.Height()
	x, y := card.X1, card.Y1
	return CardBox{
		Card:     card,
		Rank:     Bounds{X1: x + 5, Y1: y + 5, X2: x + int(float64(w)*0.40), Y2: y + int(float64(h)*0.35)},
		Suit:     Bounds{X1: x + 5, Y1: y + int(float64(h)*0.35), X2: x + int(float64(w)*0.40), Y2: y + int(float64(h)*0.65)},
		Fallback: true,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
