package matching

import (
	"image"
	"sort"

	"go.uber.org/zap"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/imaging"
	"github.com/ironsheep/card-vision/internal/templates"
)

// Match is the outcome of classifying one region: the winning symbol and its
// correlation score.
type Match struct {
	Symbol cards.Symbol `json:"symbol"`
	Score  float64      `json:"score"`
}

// Classifier picks the best matching symbol of a template set for a region.
type Classifier struct {
	logger   *zap.Logger
	minScore float64
	floor    bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used for per-region debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMinScore rejects winners scoring below v. Without it the best template
// always wins, however poor the match.
func WithMinScore(v float64) Option {
	return func(c *Classifier) {
		c.minScore = v
		c.floor = true
	}
}

// NewClassifier returns a classifier with the given options.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MinScore returns the configured score floor, if any.
func (c *Classifier) MinScore() (float64, bool) {
	return c.minScore, c.floor
}

// Classify returns the symbol of set that best matches region.
//
// Every template is evaluated with the profile of its orientation. The
// strictly highest score wins; on a tie the template that comes first in the
// set is kept. ok is false when the set is empty, the region is degenerate,
// no template could be evaluated, or the winner falls below the score floor.
func (c *Classifier) Classify(region *image.Gray, set templates.Set) (Match, bool) {
	if len(set) == 0 || imaging.Empty(region) {
		return Match{}, false
	}

	var (
		best  Match
		found bool
	)
	c.each(region, set, func(tpl templates.Template, score float64, ok bool) {
		if ok && (!found || score > best.Score) {
			best, found = Match{Symbol: tpl.Symbol, Score: score}, true
		}
	})
	if !found {
		return Match{}, false
	}

	if c.floor && best.Score < c.minScore {
		c.logger.Debug("best match below floor",
			zap.Stringer("symbol", best.Symbol),
			zap.Float64("score", best.Score),
			zap.Float64("min_score", c.minScore))
		return Match{}, false
	}
	return best, true
}

// Rank scores every template of set against region and returns the results
// ordered from best to worst. Templates that could not be evaluated carry
// the Sentinel score. Useful for calibration and diagnostics.
func (c *Classifier) Rank(region *image.Gray, set templates.Set) []Match {
	out := make([]Match, 0, len(set))
	if imaging.Empty(region) {
		for _, tpl := range set {
			out = append(out, Match{Symbol: tpl.Symbol, Score: Sentinel})
		}
		return out
	}
	c.each(region, set, func(tpl templates.Template, score float64, _ bool) {
		out = append(out, Match{Symbol: tpl.Symbol, Score: score})
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Card classifies a rank region and a suit region and composes the card.
// ok is false unless both resolve.
func (c *Classifier) Card(rankRegion, suitRegion *image.Gray, ranks, suits templates.Set) (cards.Card, bool) {
	r, ok := c.Classify(rankRegion, ranks)
	if !ok || r.Symbol.Category != cards.CategoryRank {
		return cards.Card{}, false
	}
	s, ok := c.Classify(suitRegion, suits)
	if !ok || s.Symbol.Category != cards.CategorySuit {
		return cards.Card{}, false
	}

	card := cards.Compose(r.Symbol.Rank, s.Symbol.Suit)
	c.logger.Debug("card classified",
		zap.String("card", card.Label()),
		zap.Float64("rank_score", r.Score),
		zap.Float64("suit_score", s.Score))
	return card, true
}

// each evaluates every template of set, preparing the region once per
// orientation.
func (c *Classifier) each(region *image.Gray, set templates.Set, fn func(templates.Template, float64, bool)) {
	matchers := make(map[cards.Orientation]*Matcher)
	views := make(map[cards.Orientation]prepared)
	for _, tpl := range set {
		m, ok := matchers[tpl.Orientation]
		if !ok {
			m = NewMatcher(ProfileFor(tpl.Orientation))
			matchers[tpl.Orientation] = m
			views[tpl.Orientation] = m.prepare(region)
		}
		score, ok := m.match(views[tpl.Orientation], tpl.Pixels)
		fn(tpl, score, ok)
	}
}
