package pipeline

import (
	"fmt"
	"image"

	"github.com/ironsheep/card-vision/internal/detection"
	"github.com/ironsheep/card-vision/internal/imaging"
)

// Overlay colors per calibrated element.
const (
	colorSlot      = "#00ff00"
	colorCommunity = "#00ffff"
	colorCard      = "#ffff00"
	colorTurn      = "#ff00ff"
	colorButton    = "#ff8000"
)

const buttonMarker = 8

// Annotations lists the calibrated regions of the frame together with the
// community cards located in it.
func (p *Pipeline) Annotations(frame image.Image) []imaging.Annotation {
	anns := []imaging.Annotation{
		{Label: "community", Rect: p.cal.CommunityArea.Rect(), Color: colorCommunity},
	}
	for _, s := range p.cal.SelfSlots {
		anns = append(anns,
			imaging.Annotation{Label: s.Name + " rank", Rect: s.Rank.Rect(), Color: colorSlot},
			imaging.Annotation{Label: s.Name + " suit", Rect: s.Suit.Rect(), Color: colorSlot},
		)
	}
	for i, box := range p.Locate(imaging.AsGray(frame)) {
		anns = append(anns, imaging.Annotation{Label: fmt.Sprintf("card %d", i+1), Rect: box.Card.Rect(), Color: colorCard})
	}
	if p.cal.Turn.Asset != "" {
		anns = append(anns, imaging.Annotation{Label: "turn", Rect: p.cal.Turn.Region.Rect(), Color: colorTurn})
	}

	// Button points are drawn in frame coordinates, without the monitor offset.
	b := p.cal.Buttons
	for _, btn := range []struct {
		name string
		at   detection.Point
	}{{"fold", b.Fold}, {"check/call", b.Check}, {"raise", b.Raise}} {
		r := image.Rect(btn.at.X-buttonMarker, btn.at.Y-buttonMarker, btn.at.X+buttonMarker, btn.at.Y+buttonMarker)
		anns = append(anns, imaging.Annotation{Label: btn.name, Rect: r, Color: colorButton})
	}
	return anns
}

// Overlay draws Annotations onto a copy of frame over a coordinate grid
// every spacing pixels. It is the calibration aid for new table layouts.
func (p *Pipeline) Overlay(frame image.Image, spacing int) *image.RGBA {
	return imaging.Overlay(frame, spacing, p.Annotations(frame))
}
