package decision

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/paulhankin/poker"
	"go.uber.org/zap"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/metrics"
)

// DefaultSimulations is the number of Monte Carlo deals per equity estimate.
const DefaultSimulations = 500

// Engine turns a recognized hand into a table decision.
//
// Decide never fails: hands it cannot judge get Neutral. The engine is safe
// for concurrent use.
type Engine struct {
	logger      *zap.Logger
	metrics     *metrics.Recorder
	simulations int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics counts every decision by action.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

// WithSimulations sets the Monte Carlo sample count. Values below 1 are ignored.
func WithSimulations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.simulations = n
		}
	}
}

// WithRand replaces the random source, for reproducible equity estimates.
func WithRand(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = rand.New(src)
		}
	}
}

// NewEngine returns an engine with 500 simulations and a randomly seeded source.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:      zap.NewNop(),
		simulations: DefaultSimulations,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Simulations returns the Monte Carlo sample count.
func (e *Engine) Simulations() int { return e.simulations }

// Decide judges a hand.
//
// With no board the preflop table applies; on the flop and turn the decision
// follows the estimated equity against one random hand; on the river the
// made hand's strength sizes the bet. One or two board cards, anything other
// than two hole cards, and duplicated cards give Neutral.
func (e *Engine) Decide(h cards.HandState) Decision {
	d, reason, err := e.decide(h)
	if err != nil {
		e.logger.Debug("neutral decision",
			zap.Strings("hole", cards.Labels(h.HoleCards)),
			zap.Strings("board", cards.Labels(h.Community)),
			zap.Error(err))
		d = Neutral
	} else {
		e.logger.Debug("decision",
			zap.Strings("hole", cards.Labels(h.HoleCards)),
			zap.Strings("board", cards.Labels(h.Community)),
			zap.String("reason", reason),
			zap.Stringer("decision", d))
	}
	e.metrics.ObserveDecision(d.Action.String())
	return d
}

// DecideLabels parses the labels and judges the hand. Malformed labels give
// Neutral.
func (e *Engine) DecideLabels(hole, board []string) Decision {
	h, err := parseHand(hole, board)
	if err != nil {
		e.logger.Debug("neutral decision", zap.Strings("hole", hole), zap.Strings("board", board), zap.Error(err))
		e.metrics.ObserveDecision(Neutral.Action.String())
		return Neutral
	}
	return e.Decide(h)
}

func parseHand(hole, board []string) (cards.HandState, error) {
	hc, err := cards.ParseLabels(hole)
	if err != nil {
		return cards.HandState{}, err
	}
	bc, err := cards.ParseLabels(board)
	if err != nil {
		return cards.HandState{}, err
	}
	return cards.HandState{HoleCards: hc, Community: bc}, nil
}

var errIncompleteBoard = errors.New("incomplete board")

func (e *Engine) decide(h cards.HandState) (Decision, string, error) {
	if len(h.HoleCards) != 2 {
		return Decision{}, "", fmt.Errorf("%w: %d hole cards", ErrInvalidHand, len(h.HoleCards))
	}
	all := append(append([]cards.Card{}, h.HoleCards...), h.Community...)
	if _, err := toPoker(all); err != nil {
		return Decision{}, "", err
	}
	hole := [2]cards.Card{h.HoleCards[0], h.HoleCards[1]}

	switch street := StreetOf(len(h.Community)); street {
	case Preflop:
		d, name := preflop(hole)
		return d, name, nil
	case Flop, Turn:
		eq, err := e.Equity(h.HoleCards, h.Community)
		if err != nil {
			return Decision{}, "", err
		}
		return fromEquity(eq), fmt.Sprintf("%s equity %.3f", street, eq), nil
	case River:
		hr, err := Evaluate(all)
		if err != nil {
			return Decision{}, "", err
		}
		return river(hr), fmt.Sprintf("%s rank %d", hr.Class, hr.Rank), nil
	default:
		return Decision{}, "", fmt.Errorf("%w: %d board cards", errIncompleteBoard, len(h.Community))
	}
}

// Equity estimates the share of pots the hole cards win against one random
// opponent hand, dealing the rest of the board at random. Ties count half.
func (e *Engine) Equity(hole, board []cards.Card) (float64, error) {
	if len(hole) != 2 {
		return 0, fmt.Errorf("%w: %d hole cards", ErrInvalidHand, len(hole))
	}
	if len(board) > 5 {
		return 0, fmt.Errorf("%w: %d board cards", ErrInvalidHand, len(board))
	}
	known, err := toPoker(append(append([]cards.Card{}, hole...), board...))
	if err != nil {
		return 0, err
	}
	deck := remainingDeck(known)
	need := 5 - len(board)

	ours := make([]poker.Card, 7)
	theirs := make([]poker.Card, 7)
	copy(ours, known)
	copy(theirs[2:], known[2:])

	var wins, ties int
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < e.simulations; i++ {
		// Partial shuffle: only the first need+2 cards are dealt.
		for j := 0; j < need+2; j++ {
			k := j + e.rng.IntN(len(deck)-j)
			deck[j], deck[k] = deck[k], deck[j]
		}
		copy(ours[2+len(board):], deck[:need])
		copy(theirs[2+len(board):], deck[:need])
		theirs[0], theirs[1] = deck[need], deck[need+1]

		a, b := score(ours), score(theirs)
		switch {
		case a > b:
			wins++
		case a == b:
			ties++
		}
	}
	return (float64(wins) + 0.5*float64(ties)) / float64(e.simulations), nil
}

func remainingDeck(known []poker.Card) []poker.Card {
	used := make(map[poker.Card]bool, len(known))
	for _, c := range known {
		used[c] = true
	}
	deck := make([]poker.Card, 0, 52-len(known))
	for _, s := range cards.Suits {
		for _, r := range cards.Ranks {
			c, _ := poker.MakeCard(pokerSuits[s], pokerRank(r))
			if !used[c] {
				deck = append(deck, c)
			}
		}
	}
	return deck
}
