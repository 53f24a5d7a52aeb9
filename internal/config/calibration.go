package config

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/card-vision/internal/actions"
	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/detection"
	"github.com/ironsheep/card-vision/internal/templates"
)

// ErrInvalidCalibration is returned for calibrations that cannot drive
// recognition.
var ErrInvalidCalibration = errors.New("invalid calibration")

// Slot is one of the player's own card positions. The rank and suit
// rectangles are fixed; the orientation selects the template sub-library.
type Slot struct {
	Name        string            `yaml:"name" json:"name"`
	Orientation cards.Orientation `yaml:"orientation" json:"orientation"`
	Rank        detection.Bounds  `yaml:"rank" json:"rank"`
	Suit        detection.Bounds  `yaml:"suit" json:"suit"`
}

// TurnIndicator is the marker shown while the table waits for the player.
type TurnIndicator struct {
	// Asset is resolved against the template root when relative. Empty
	// disables turn detection.
	Asset     string           `yaml:"asset" json:"asset"`
	Region    detection.Bounds `yaml:"region" json:"region"`
	Threshold float64          `yaml:"threshold" json:"threshold"`
}

// Calibration describes where things are on the captured screen.
type Calibration struct {
	SelfSlots     []Slot                   `yaml:"self_slots" json:"self_slots"`
	CommunityArea detection.Bounds         `yaml:"community_area" json:"community_area"`
	Footprint     detection.Footprint      `yaml:"footprint" json:"footprint"`
	Segment       detection.SegmentOptions `yaml:"segment" json:"segment"`
	Turn          TurnIndicator            `yaml:"turn" json:"turn"`
	Buttons       actions.ButtonMap        `yaml:"buttons" json:"buttons"`

	// Layout overrides template path patterns, keyed "category/orientation"
	// such as "rank/left".
	Layout map[string]string `yaml:"layout,omitempty" json:"layout,omitempty"`
}

// DefaultCalibration is the layout of a 1920x1080 table on the second monitor.
func DefaultCalibration() Calibration {
	return Calibration{
		SelfSlots: []Slot{
			{
				Name:        "left",
				Orientation: cards.Left,
				Rank:        detection.Bounds{X1: 1045, Y1: 758, X2: 1098, Y2: 805},
				Suit:        detection.Bounds{X1: 1065, Y1: 810, X2: 1105, Y2: 854},
			},
			{
				Name:        "right",
				Orientation: cards.Right,
				Rank:        detection.Bounds{X1: 1132, Y1: 735, X2: 1200, Y2: 790},
				Suit:        detection.Bounds{X1: 1126, Y1: 789, X2: 1169, Y2: 836},
			},
		},
		CommunityArea: detection.Bounds{X1: 737, Y1: 433, X2: 1253, Y2: 560},
		Footprint:     detection.DefaultFootprint(),
		Segment:       detection.DefaultSegmentOptions(),
		Turn: TurnIndicator{
			Asset:     "palo.png",
			Region:    detection.Bounds{X1: 752, Y1: 929, X2: 1742, Y2: 1014},
			Threshold: 0.8,
		},
		Buttons: actions.DefaultButtons(),
	}
}

// LoadCalibration reads a YAML calibration file. Keys present in the file
// replace the defaults; lists such as self_slots are replaced as a whole.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Calibration{}, fmt.Errorf("read calibration: %w", err)
	}
	return ParseCalibration(data)
}

// ParseCalibration decodes YAML calibration data over DefaultCalibration.
func ParseCalibration(data []byte) (Calibration, error) {
	cal := DefaultCalibration()
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return Calibration{}, fmt.Errorf("%w: %v", ErrInvalidCalibration, err)
	}
	if err := cal.Validate(); err != nil {
		return Calibration{}, err
	}
	return cal, nil
}

// Validate checks every region and option.
func (c Calibration) Validate() error {
	if len(c.SelfSlots) > cards.MaxHoleCards {
		return fmt.Errorf("%w: %d self slots, at most %d", ErrInvalidCalibration, len(c.SelfSlots), cards.MaxHoleCards)
	}
	for i, s := range c.SelfSlots {
		if s.Orientation.String() == "unknown" {
			return fmt.Errorf("%w: self slot %d (%s) has no orientation", ErrInvalidCalibration, i, s.Name)
		}
		if s.Rank.Empty() || s.Suit.Empty() {
			return fmt.Errorf("%w: self slot %d (%s) has an empty region", ErrInvalidCalibration, i, s.Name)
		}
	}
	if c.CommunityArea.Empty() {
		return fmt.Errorf("%w: empty community area", ErrInvalidCalibration)
	}
	if err := c.Footprint.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCalibration, err)
	}
	if c.Segment.MergeTolerance <= 0 || c.Segment.Padding < 0 || c.Segment.MinComponentArea < 0 {
		return fmt.Errorf("%w: segmentation options %+v", ErrInvalidCalibration, c.Segment)
	}
	if c.Turn.Asset != "" {
		if c.Turn.Region.Empty() {
			return fmt.Errorf("%w: empty turn indicator region", ErrInvalidCalibration)
		}
		if c.Turn.Threshold <= 0 || c.Turn.Threshold > 1 {
			return fmt.Errorf("%w: turn threshold %v outside (0, 1]", ErrInvalidCalibration, c.Turn.Threshold)
		}
	}
	if err := c.Buttons.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCalibration, err)
	}
	if _, err := c.TemplateLayout(); err != nil {
		return err
	}
	return nil
}

// Extent is the bottom-right corner of everything the calibration
// addresses: self slots, community area, turn region and buttons.
func (c Calibration) Extent() image.Point {
	var u detection.Bounds
	for _, s := range c.SelfSlots {
		u = u.Union(s.Rank).Union(s.Suit)
	}
	u = u.Union(c.CommunityArea)
	if c.Turn.Asset != "" {
		u = u.Union(c.Turn.Region)
	}
	for _, p := range []detection.Point{c.Buttons.Fold, c.Buttons.Check, c.Buttons.Raise} {
		u = u.Union(detection.Bounds{X1: p.X, Y1: p.Y, X2: p.X + 1, Y2: p.Y + 1})
	}
	return image.Pt(u.X2, u.Y2)
}

// TemplateLayout returns the default template layout with the calibration's
// overrides applied.
func (c Calibration) TemplateLayout() (templates.Layout, error) {
	override := make(templates.Layout, len(c.Layout))
	for key, pattern := range c.Layout {
		cat, orient, ok := strings.Cut(key, "/")
		if !ok {
			return nil, fmt.Errorf("%w: layout key %q is not category/orientation", ErrInvalidCalibration, key)
		}
		category, err := cards.ParseCategory(cat)
		if err != nil {
			return nil, fmt.Errorf("%w: layout key %q: %v", ErrInvalidCalibration, key, err)
		}
		o, err := cards.ParseOrientation(orient)
		if err != nil {
			return nil, fmt.Errorf("%w: layout key %q: %v", ErrInvalidCalibration, key, err)
		}
		override[templates.Key{Category: category, Orientation: o}] = pattern
	}
	layout := templates.DefaultLayout().Merge(override)
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCalibration, err)
	}
	return layout, nil
}
