package cards

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLabel is returned when a card label cannot be decomposed into a
// rank and a suit.
var ErrInvalidLabel = errors.New("invalid card label")

// Rank is one of the 13 card ranks. The zero value is not a valid rank.
//
// The numeric value is the comparison order used by the decision engine:
// Two=2 through Ace=14.
type Rank uint8

// Card ranks in comparison order.
const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank in template library order (ace first, as the
// reference asset tree is authored).
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankLabels = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "T", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

var rankAssets = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

// Valid reports whether r is one of the 13 ranks.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Value returns the comparison value of the rank (2-14, ace high).
func (r Rank) Value() int {
	return int(r)
}

// Label returns the single-character label of the rank. Ten is "T".
func (r Rank) Label() string {
	if l, ok := rankLabels[r]; ok {
		return l
	}
	return "?"
}

// AssetName returns the stem used for the rank in template file names.
// Ten is spelled "10" there.
func (r Rank) AssetName() string {
	if n, ok := rankAssets[r]; ok {
		return n
	}
	return "?"
}

func (r Rank) String() string {
	return r.Label()
}

// Suit is one of the four card suits. The zero value is not a valid suit.
type Suit uint8

// Card suits in template library order.
const (
	Club Suit = iota + 1
	Diamond
	Heart
	Spade
)

// Suits lists every suit in template library order.
var Suits = []Suit{Club, Diamond, Heart, Spade}

var suitNames = map[Suit]string{
	Club:    "Club",
	Diamond: "Diamond",
	Heart:   "Heart",
	Spade:   "Spade",
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s >= Club && s <= Spade
}

// Label returns the suit's initial letter.
func (s Suit) Label() string {
	if n, ok := suitNames[s]; ok {
		return n[:1]
	}
	return "?"
}

// AssetName returns the stem used for the suit in template file names.
func (s Suit) AssetName() string {
	if n, ok := suitNames[s]; ok {
		return n
	}
	return "?"
}

func (s Suit) String() string {
	return s.AssetName()
}

// Card is a fully resolved playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

// Compose builds the card for a resolved rank and suit.
func Compose(r Rank, s Suit) Card {
	return Card{Rank: r, Suit: s}
}

// Label returns the canonical two-character label, e.g. "AS" or "TH".
func (c Card) Label() string {
	return c.Rank.Label() + c.Suit.Label()
}

func (c Card) String() string {
	return c.Label()
}

// Valid reports whether both rank and suit are valid.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// ParseLabel decomposes a card label into its rank and suit.
//
// The canonical form is rank character plus suit character ("AS", "TH").
// The legacy form "10H" is accepted for ten, and the suit letter may be
// lower case ("Th").
func ParseLabel(label string) (Card, error) {
	s := strings.TrimSpace(label)
	if len(s) < 2 || len(s) > 3 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	rankPart := strings.ToUpper(s[:len(s)-1])
	suitPart := strings.ToUpper(s[len(s)-1:])

	var rank Rank
	if rankPart == "10" {
		rank = Ten
	} else {
		for r, l := range rankLabels {
			if l == rankPart {
				rank = r
				break
			}
		}
	}
	if !rank.Valid() {
		return Card{}, fmt.Errorf("%w: unknown rank %q in %q", ErrInvalidLabel, rankPart, label)
	}

	var suit Suit
	for _, candidate := range Suits {
		if candidate.Label() == suitPart {
			suit = candidate
			break
		}
	}
	if !suit.Valid() {
		return Card{}, fmt.Errorf("%w: unknown suit %q in %q", ErrInvalidLabel, suitPart, label)
	}

	return Compose(rank, suit), nil
}

// ParseLabels parses every label, stopping at the first invalid one.
func ParseLabels(labels []string) ([]Card, error) {
	out := make([]Card, 0, len(labels))
	for _, l := range labels {
		c, err := ParseLabel(l)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
