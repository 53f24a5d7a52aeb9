package cards

import "fmt"

// Category says whether a template depicts a rank or a suit symbol.
type Category uint8

const (
	CategoryRank Category = iota + 1
	CategorySuit
)

func (c Category) String() string {
	switch c {
	case CategoryRank:
		return "rank"
	case CategorySuit:
		return "suit"
	default:
		return "unknown"
	}
}

// ParseCategory parses "rank" or "suit".
func ParseCategory(s string) (Category, error) {
	switch s {
	case "rank":
		return CategoryRank, nil
	case "suit":
		return CategorySuit, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Orientation is the presentation style of a card on screen. Own cards are
// dealt tilted to the left or right; community cards lie straight.
type Orientation uint8

const (
	Left Orientation = iota + 1
	Right
	Straight
)

// Orientations lists every orientation.
var Orientations = []Orientation{Left, Right, Straight}

func (o Orientation) String() string {
	switch o {
	case Left:
		return "left"
	case Right:
		return "right"
	case Straight:
		return "straight"
	default:
		return "unknown"
	}
}

// ParseOrientation parses "left", "right" or "straight".
func ParseOrientation(s string) (Orientation, error) {
	for _, o := range Orientations {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}

// MarshalText implements encoding.TextMarshaler so orientations read
// naturally in YAML and JSON.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Symbol identifies the content of one template: a rank or a suit.
// Exactly one of Rank and Suit is set, according to Category.
type Symbol struct {
	Category Category
	Rank     Rank
	Suit     Suit
}

// RankSymbol returns the symbol for a rank.
func RankSymbol(r Rank) Symbol {
	return Symbol{Category: CategoryRank, Rank: r}
}

// SuitSymbol returns the symbol for a suit.
func SuitSymbol(s Suit) Symbol {
	return Symbol{Category: CategorySuit, Suit: s}
}

// RankSymbols returns the 13 rank symbols in library order.
func RankSymbols() []Symbol {
	out := make([]Symbol, 0, len(Ranks))
	for _, r := range Ranks {
		out = append(out, RankSymbol(r))
	}
	return out
}

// SuitSymbols returns the 4 suit symbols in library order.
func SuitSymbols() []Symbol {
	out := make([]Symbol, 0, len(Suits))
	for _, s := range Suits {
		out = append(out, SuitSymbol(s))
	}
	return out
}

// SymbolsOf returns the symbols of a category in library order.
func SymbolsOf(c Category) []Symbol {
	if c == CategorySuit {
		return SuitSymbols()
	}
	return RankSymbols()
}

// AssetName returns the file-name stem of the symbol.
func (s Symbol) AssetName() string {
	if s.Category == CategorySuit {
		return s.Suit.AssetName()
	}
	return s.Rank.AssetName()
}

func (s Symbol) String() string {
	if s.Category == CategorySuit {
		return s.Suit.String()
	}
	return s.Rank.String()
}

// MarshalText renders the symbol as its asset name ("10", "Heart").
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.AssetName()), nil
}
