package decision

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/paulhankin/poker"

	"github.com/ironsheep/card-vision/internal/cards"
)

// HandClass is the category of a five-card poker hand, strongest first.
type HandClass int

const (
	StraightFlush HandClass = iota + 1
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	OnePair
	HighCard
)

var classNames = map[HandClass]string{
	StraightFlush: "Straight Flush",
	FourOfAKind:   "Four of a Kind",
	FullHouse:     "Full House",
	Flush:         "Flush",
	Straight:      "Straight",
	ThreeOfAKind:  "Three of a Kind",
	TwoPair:       "Two Pair",
	OnePair:       "Pair",
	HighCard:      "High Card",
}

func (c HandClass) String() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return "Unknown"
}

// DistinctHands is the number of distinct five-card hand values.
const DistinctHands = 7462

// classLimits holds the worst rank of each class on the 1..7462 scale.
var classLimits = []struct {
	worst int
	class HandClass
}{
	{10, StraightFlush},
	{166, FourOfAKind},
	{322, FullHouse},
	{1599, Flush},
	{1609, Straight},
	{2467, ThreeOfAKind},
	{3325, TwoPair},
	{6185, OnePair},
	{7462, HighCard},
}

// ClassOf returns the hand class of a rank on the 1 (royal flush) to 7462
// (7-5-4-3-2 offsuit) scale.
func ClassOf(rank int) HandClass {
	for _, l := range classLimits {
		if rank <= l.worst {
			return l.class
		}
	}
	return HighCard
}

// HandRank is the strength of the best five-card hand from a set of cards.
type HandRank struct {
	// Rank is 1 for a royal flush up to 7462 for the weakest high card.
	Rank  int
	Class HandClass
	// Best is the five cards making the hand.
	Best [5]cards.Card
}

// ErrInvalidHand is returned for card sets that cannot be evaluated.
var ErrInvalidHand = errors.New("invalid hand")

// Evaluate ranks the best five-card hand that can be made from 5 to 7 cards.
func Evaluate(cs []cards.Card) (HandRank, error) {
	if len(cs) < 5 || len(cs) > 7 {
		return HandRank{}, fmt.Errorf("%w: %d cards", ErrInvalidHand, len(cs))
	}
	pcs, err := toPoker(cs)
	if err != nil {
		return HandRank{}, err
	}

	scale := rankScale()
	best, bestIdx := int16(-1), [5]int{}
	forEachFive(len(pcs), func(idx [5]int) {
		hand := [5]poker.Card{pcs[idx[0]], pcs[idx[1]], pcs[idx[2]], pcs[idx[3]], pcs[idx[4]]}
		if v := poker.Eval5(&hand); v > best {
			best, bestIdx = v, idx
		}
	})

	rank, ok := scale[best]
	if !ok {
		return HandRank{}, fmt.Errorf("%w: unexpected hand value %d", ErrInvalidHand, best)
	}
	hr := HandRank{Rank: rank, Class: ClassOf(rank)}
	for i, j := range bestIdx {
		hr.Best[i] = cs[j]
	}
	return hr, nil
}

// Describe names the best hand in words, such as "Pair of Aces".
func Describe(hr HandRank) string {
	pcs, err := toPoker(hr.Best[:])
	if err != nil {
		return hr.Class.String()
	}
	s, err := poker.Describe(pcs)
	if err != nil {
		return hr.Class.String()
	}
	return s
}

// score compares hands quickly: higher is better. cs must hold 5 to 7
// distinct valid cards already converted.
func score(pcs []poker.Card) int16 {
	best := int16(-1)
	forEachFive(len(pcs), func(idx [5]int) {
		hand := [5]poker.Card{pcs[idx[0]], pcs[idx[1]], pcs[idx[2]], pcs[idx[3]], pcs[idx[4]]}
		if v := poker.Eval5(&hand); v > best {
			best = v
		}
	})
	return best
}

// forEachFive calls fn with every 5-element index combination of n items.
func forEachFive(n int, fn func([5]int)) {
	var idx [5]int
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == 5 {
			fn(idx)
			return
		}
		for i := start; i <= n-(5-depth); i++ {
			idx[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
}

var pokerSuits = map[cards.Suit]poker.Suit{
	cards.Club:    poker.Club,
	cards.Diamond: poker.Diamond,
	cards.Heart:   poker.Heart,
	cards.Spade:   poker.Spade,
}

// pokerRank maps a card rank to the evaluator's 1 (ace) .. 13 (king) scale.
func pokerRank(r cards.Rank) poker.Rank {
	if r == cards.Ace {
		return 1
	}
	return poker.Rank(r.Value())
}

func toPoker(cs []cards.Card) ([]poker.Card, error) {
	out := make([]poker.Card, 0, len(cs))
	seen := make(map[cards.Card]bool, len(cs))
	for _, c := range cs {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: card %v", ErrInvalidHand, c)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: duplicate card %s", ErrInvalidHand, c.Label())
		}
		seen[c] = true
		pc, err := poker.MakeCard(pokerSuits[c.Suit], pokerRank(c.Rank))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHand, err)
		}
		out = append(out, pc)
	}
	return out, nil
}

var (
	scaleOnce sync.Once
	scale     map[int16]int
)

// rankScale maps every evaluator value to its position on the 1..7462 scale.
//
// One representative hand is built for each distinct rank multiset, plus
// the flush variant of every five distinct ranks, and the evaluator values
// are ranked from best to worst.
func rankScale() map[int16]int {
	scaleOnce.Do(func() {
		values := make(map[int16]bool, DistinctHands)
		var counts [13]int

		var rec func(rank, left int)
		rec = func(rank, left int) {
			if left == 0 {
				for _, v := range representatives(counts) {
					values[v] = true
				}
				return
			}
			if rank == 13 {
				return
			}
			for n := min(4, left); n >= 0; n-- {
				counts[rank] = n
				rec(rank+1, left-n)
			}
			counts[rank] = 0
		}
		rec(0, 5)

		sorted := make([]int16, 0, len(values))
		for v := range values {
			sorted = append(sorted, v)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

		scale = make(map[int16]int, len(sorted))
		for i, v := range sorted {
			scale[v] = i + 1
		}
	})
	return scale
}

// representatives evaluates the hands with the given count per rank
// (index 0 is the ace): the offsuit hand, and also the flush when all five
// ranks differ.
func representatives(counts [13]int) []int16 {
	var offsuit, flush [5]poker.Card
	i := 0
	distinct := true
	for r, n := range counts {
		if n > 1 {
			distinct = false
		}
		for k := 0; k < n; k++ {
			s := poker.Suit(k)
			if n == 1 && i == 0 {
				// Break the flush: one card of a different suit.
				s = poker.Diamond
			}
			offsuit[i], _ = poker.MakeCard(s, poker.Rank(r+1))
			flush[i], _ = poker.MakeCard(poker.Club, poker.Rank(r+1))
			i++
		}
	}

	out := []int16{poker.Eval5(&offsuit)}
	if distinct {
		out = append(out, poker.Eval5(&flush))
	}
	return out
}
