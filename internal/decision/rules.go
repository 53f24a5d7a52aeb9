package decision

import (
	"math"

	"github.com/ironsheep/card-vision/internal/cards"
)

// preflopHand summarises two hole cards.
type preflopHand struct {
	pair, suited bool
	high, low    int
}

func summarise(a, b cards.Card) preflopHand {
	h := preflopHand{
		pair:   a.Rank == b.Rank,
		suited: a.Suit == b.Suit,
		high:   a.Rank.Value(),
		low:    b.Rank.Value(),
	}
	if h.low > h.high {
		h.high, h.low = h.low, h.high
	}
	return h
}

// preflopRule raises by Bet when Match holds. Rules are tried in order.
type preflopRule struct {
	Name  string
	Match func(preflopHand) bool
	Bet   float64
}

var preflopRules = []preflopRule{
	{"premium pair", func(h preflopHand) bool { return h.pair && h.high >= 13 }, 0.75},
	{"high pair", func(h preflopHand) bool { return h.pair && h.high >= 10 }, 0.5},
	{"ace king", func(h preflopHand) bool { return h.high == 14 && h.low >= 13 }, 0.5},
	{"broadway", func(h preflopHand) bool { return h.high >= 13 && h.low >= 12 }, 0.3},
	{"middle pair", func(h preflopHand) bool { return h.pair && h.high >= 7 }, 0.25},
	{"big ace", func(h preflopHand) bool { return h.high == 14 && h.low >= 10 }, 0.2},
	{"suited broadway", func(h preflopHand) bool { return h.suited && h.high >= 12 && h.low >= 10 }, 0.15},
}

// preflop looks the hole cards up in the rule table; anything unlisted calls.
func preflop(hole [2]cards.Card) (Decision, string) {
	h := summarise(hole[0], hole[1])
	for _, r := range preflopRules {
		if r.Match(h) {
			return Decision{Action: Raise, BetFraction: r.Bet}, r.Name
		}
	}
	return Decision{Action: Call}, "unlisted"
}

// fromEquity maps Monte Carlo equity on the flop and turn to a decision.
func fromEquity(eq float64) Decision {
	switch {
	case eq > 0.70:
		return Decision{Action: Raise, BetFraction: math.Min(0.8, eq)}
	case eq > 0.60:
		return Decision{Action: Raise, BetFraction: math.Min(0.5, eq*0.8)}
	case eq > 0.40:
		return Decision{Action: Call}
	default:
		return Decision{Action: Fold}
	}
}

// river sizes the bet from the made hand once every board card is known.
func river(hr HandRank) Decision {
	rank := hr.Rank
	switch {
	case hr.Class <= FourOfAKind:
		bet := 0.8
		if rank <= 10 {
			bet += 0.2
		}
		return Decision{Action: Raise, BetFraction: bet}
	case hr.Class <= Flush:
		return Decision{Action: Raise, BetFraction: 0.5 + float64(2000-min(rank, 2000))/2000*0.25}
	case hr.Class == Straight:
		return Decision{Action: Raise, BetFraction: 0.3 + float64(3000-min(rank, 3000))/3000*0.2}
	case rank <= 2000:
		return Decision{Action: Raise, BetFraction: 0.2 + float64(2000-rank)/2000*0.2}
	case rank <= 4000:
		return Decision{Action: Call}
	default:
		return Decision{Action: Fold}
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
