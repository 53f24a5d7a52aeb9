// Package pipeline turns one captured frame into the hand it shows.
package pipeline

import (
	"image"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/config"
	"github.com/ironsheep/card-vision/internal/detection"
	"github.com/ironsheep/card-vision/internal/imaging"
	"github.com/ironsheep/card-vision/internal/matching"
	"github.com/ironsheep/card-vision/internal/metrics"
	"github.com/ironsheep/card-vision/internal/templates"
)

// Pipeline recognizes frames against a fixed template library and screen
// calibration. It holds no per-frame state and is safe for concurrent use.
type Pipeline struct {
	lib        *templates.Library
	cal        config.Calibration
	classifier *matching.Classifier
	indicator  *image.Gray

	logger   *zap.Logger
	metrics  *metrics.Recorder
	minScore *float64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. It is also handed to the classifier.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records frame timings and card counts.
func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = r }
}

// WithMinScore sets the classifier acceptance floor.
func WithMinScore(v float64) Option {
	return func(p *Pipeline) { p.minScore = &v }
}

// WithIndicator enables IsOurTurn with the given marker image.
func WithIndicator(img *image.Gray) Option {
	return func(p *Pipeline) { p.indicator = img }
}

// New returns a pipeline over lib laid out as described by cal.
func New(lib *templates.Library, cal config.Calibration, opts ...Option) *Pipeline {
	p := &Pipeline{
		lib:    lib,
		cal:    cal,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}

	copts := []matching.Option{matching.WithLogger(p.logger.Named("classifier"))}
	if p.minScore != nil {
		copts = append(copts, matching.WithMinScore(*p.minScore))
	}
	p.classifier = matching.NewClassifier(copts...)
	p.metrics.SetTemplates(lib.Len())
	return p
}

// Calibration returns the calibration the pipeline was built with.
func (p *Pipeline) Calibration() config.Calibration { return p.cal }

// Library returns the template library.
func (p *Pipeline) Library() *templates.Library { return p.lib }

// Classifier returns the classifier used for every region.
func (p *Pipeline) Classifier() *matching.Classifier { return p.classifier }

// Located is one card found in the community area.
type Located struct {
	Box detection.CardBox `json:"box"`
	// Label is empty when the card could not be classified. Cards right of
	// the fifth keep their label but are left out of the hand.
	Label string `json:"label,omitempty"`
}

// Result is the outcome of recognizing one frame.
type Result struct {
	FrameID   uuid.UUID       `json:"frame_id"`
	Hand      cards.HandState `json:"hand"`
	Community []Located       `json:"community"`
	Duration  time.Duration   `json:"duration_ns"`
}

// Recognize reads the player's own cards from the calibrated slots and the
// community cards from the community area. Cards that cannot be resolved
// are left out of the hand; degraded input never causes an error.
func (p *Pipeline) Recognize(frame image.Image) Result {
	start := time.Now()
	res := Result{FrameID: uuid.New()}
	log := p.logger.With(zap.Stringer("frame", res.FrameID))

	gray := imaging.AsGray(frame)

	for _, slot := range p.cal.SelfSlots {
		card, ok := p.classify(gray, slot.Rank, slot.Suit, slot.Orientation)
		if !ok {
			log.Debug("self card unresolved", zap.String("slot", slot.Name))
			continue
		}
		res.Hand.HoleCards = append(res.Hand.HoleCards, card)
	}

	for _, box := range p.Locate(gray) {
		loc := Located{Box: box}
		if card, ok := p.classify(gray, box.Rank, box.Suit, cards.Straight); !ok {
			log.Debug("community card unresolved", zap.Stringer("card", box.Card))
		} else if len(res.Hand.Community) >= cards.MaxCommunityCards {
			// Boxes arrive left to right, so the board keeps its first five.
			loc.Label = card.Label()
			log.Debug("community card beyond the board ignored",
				zap.String("label", loc.Label), zap.Stringer("card", box.Card))
		} else {
			loc.Label = card.Label()
			res.Hand.Community = append(res.Hand.Community, card)
		}
		res.Community = append(res.Community, loc)
	}

	res.Duration = time.Since(start)
	p.metrics.ObserveFrame(res.Duration, len(res.Hand.HoleCards), len(res.Hand.Community))
	log.Debug("frame recognized",
		zap.Strings("hole", cards.Labels(res.Hand.HoleCards)),
		zap.Strings("community", cards.Labels(res.Hand.Community)),
		zap.Duration("took", res.Duration))
	return res
}

// Locate finds the community cards and their symbol regions, left to right.
func (p *Pipeline) Locate(gray *image.Gray) []detection.CardBox {
	found := detection.LocateCards(gray, p.cal.CommunityArea, p.cal.Footprint)
	boxes := make([]detection.CardBox, 0, len(found))
	for _, b := range found {
		boxes = append(boxes, detection.Segment(gray, b, p.cal.Segment))
	}
	return boxes
}

// MatchRegion scores every template of one sub-library against a frame
// region, best first.
func (p *Pipeline) MatchRegion(gray *image.Gray, region detection.Bounds, c cards.Category, o cards.Orientation) []matching.Match {
	return p.classifier.Rank(imaging.Crop(gray, region.Rect()), p.lib.Set(c, o))
}

func (p *Pipeline) classify(gray *image.Gray, rank, suit detection.Bounds, o cards.Orientation) (cards.Card, bool) {
	return p.classifier.Card(
		imaging.Crop(gray, rank.Rect()),
		imaging.Crop(gray, suit.Rect()),
		p.lib.Set(cards.CategoryRank, o),
		p.lib.Set(cards.CategorySuit, o),
	)
}

// IsOurTurn correlates the turn indicator with its calibrated region. ok is
// true when the score reaches the calibrated threshold. Without an indicator
// every frame counts as our turn.
func (p *Pipeline) IsOurTurn(frame image.Image) (float64, bool) {
	if p.indicator == nil {
		return 0, true
	}
	gray := imaging.AsGray(frame)
	score, ok := matching.FitScore(imaging.Crop(gray, p.cal.Turn.Region.Rect()), p.indicator)
	if !ok {
		p.logger.Debug("turn indicator region unusable", zap.Stringer("region", p.cal.Turn.Region))
		return score, false
	}
	p.metrics.ObserveTurnScore(score)
	return score, score >= p.cal.Turn.Threshold
}

// HasIndicator reports whether turn detection is enabled.
func (p *Pipeline) HasIndicator() bool { return p.indicator != nil }
