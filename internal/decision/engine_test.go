package decision

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/ironsheep/card-vision/internal/cards"
)

func seeded(opts ...Option) *Engine {
	return NewEngine(append([]Option{WithRand(rand.NewPCG(1, 2))}, opts...)...)
}

func TestDecide_Preflop(t *testing.T) {
	tests := []struct {
		hole []string
		want Decision
	}{
		{[]string{"AS", "AH"}, Decision{Raise, 0.75}},
		{[]string{"KD", "KC"}, Decision{Raise, 0.75}},
		{[]string{"QD", "QC"}, Decision{Raise, 0.5}},
		{[]string{"TD", "10C"}, Decision{Raise, 0.5}},
		{[]string{"AS", "KD"}, Decision{Raise, 0.5}},
		{[]string{"KS", "AD"}, Decision{Raise, 0.5}},
		{[]string{"AS", "QD"}, Decision{Raise, 0.3}},
		{[]string{"KH", "QC"}, Decision{Raise, 0.3}},
		{[]string{"8D", "8C"}, Decision{Raise, 0.25}},
		{[]string{"7D", "7C"}, Decision{Raise, 0.25}},
		{[]string{"AH", "JC"}, Decision{Raise, 0.2}},
		{[]string{"TH", "AC"}, Decision{Raise, 0.2}},
		{[]string{"QH", "JH"}, Decision{Raise, 0.15}},
		{[]string{"QH", "JC"}, Decision{Call, 0}},
		{[]string{"6D", "6C"}, Decision{Call, 0}},
		{[]string{"7H", "2C"}, Decision{Call, 0}},
	}
	e := seeded()
	for _, tt := range tests {
		if got := e.DecideLabels(tt.hole, nil); got != tt.want {
			t.Errorf("%v: got %v, want %v", tt.hole, got, tt.want)
		}
	}
}

func TestDecide_River(t *testing.T) {
	tests := []struct {
		name   string
		hole   []string
		board  []string
		action Action
		minBet float64
		maxBet float64
	}{
		{"royal flush", []string{"KD", "QD"}, []string{"AD", "JD", "10D", "9H", "5S"}, Raise, 1.0, 1.0},
		{"four of a kind", []string{"KD", "KC"}, []string{"KS", "KH", "10D", "9H", "5S"}, Raise, 0.8, 0.8},
		{"full house", []string{"KD", "KC"}, []string{"KS", "10H", "10D", "9H", "5S"}, Raise, 0.5, 0.75},
		{"flush", []string{"KH", "8H"}, []string{"4H", "JH", "9H", "7S", "5S"}, Raise, 0.5, 0.75},
		{"straight", []string{"8D", "9C"}, []string{"6H", "7S", "10D", "KC", "2H"}, Raise, 0.3, 0.5},
		{"three of a kind", []string{"KD", "9C"}, []string{"KS", "KH", "7D", "3H", "2S"}, Raise, 0.2, 0.4},
		{"two pair", []string{"KD", "10C"}, []string{"KS", "10H", "7D", "3H", "2S"}, Call, 0, 0},
		{"pair of aces", []string{"AD", "KC"}, []string{"AS", "10H", "7D", "3H", "2S"}, Call, 0, 0},
		{"high card", []string{"KD", "JC"}, []string{"9S", "7H", "5D", "3H", "2S"}, Fold, 0, 0},
	}
	e := seeded()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.DecideLabels(tt.hole, tt.board)
			if got.Action != tt.action {
				t.Fatalf("action = %s, want %s", got.Action, tt.action)
			}
			if got.BetFraction < tt.minBet-1e-9 || got.BetFraction > tt.maxBet+1e-9 {
				t.Errorf("bet = %.4f, want in [%.2f, %.2f]", got.BetFraction, tt.minBet, tt.maxBet)
			}
		})
	}
}

func TestDecide_RiverStraightSizing(t *testing.T) {
	got := seeded().DecideLabels([]string{"8D", "9C"}, []string{"6H", "7S", "10D", "KC", "2H"})
	want := 0.3 + 0.2*float64(3000-1604)/3000
	if got.Action != Raise || math.Abs(got.BetFraction-want) > 1e-9 {
		t.Errorf("got %v, want RAISE %.4f", got, want)
	}
}

func TestDecide_Neutral(t *testing.T) {
	tests := []struct {
		name  string
		hole  []string
		board []string
	}{
		{"one board card", []string{"AS", "AH"}, []string{"2C"}},
		{"two board cards", []string{"AS", "AH"}, []string{"2C", "3D"}},
		{"one hole card", []string{"AS"}, nil},
		{"no hole cards", nil, []string{"2C", "3D", "4H"}},
		{"three hole cards", []string{"AS", "AH", "AD"}, nil},
		{"malformed hole", []string{"XS", "AH"}, nil},
		{"malformed board", []string{"AS", "AH"}, []string{"2C", "3D", "1H"}},
		{"duplicate hole", []string{"AS", "AS"}, nil},
		{"duplicate across board", []string{"AS", "KH"}, []string{"AS", "3D", "4H", "5C", "9S"}},
	}
	e := seeded()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.DecideLabels(tt.hole, tt.board); got != Neutral {
				t.Errorf("got %v, want %v", got, Neutral)
			}
		})
	}
}

func TestEquity(t *testing.T) {
	e := seeded(WithSimulations(1000))

	quads, err := e.Equity(mustParse(t, "AS", "AH"), mustParse(t, "AD", "AC", "KS"))
	if err != nil {
		t.Fatal(err)
	}
	if quads < 0.95 {
		t.Errorf("flopped quads equity = %.3f", quads)
	}

	junk, err := e.Equity(mustParse(t, "7H", "2C"), mustParse(t, "AS", "KS", "QD"))
	if err != nil {
		t.Fatal(err)
	}
	if junk > 0.4 {
		t.Errorf("seven-deuce on ace-king-queen equity = %.3f", junk)
	}

	// With the full board only the opponent's cards are random.
	nuts, err := e.Equity(mustParse(t, "KD", "QD"), mustParse(t, "AD", "JD", "TD", "9H", "5S"))
	if err != nil {
		t.Fatal(err)
	}
	if nuts != 1 {
		t.Errorf("royal flush equity = %v, want 1", nuts)
	}

	if _, err := e.Equity(mustParse(t, "AS"), nil); err == nil {
		t.Error("expected error for one hole card")
	}
}

func TestEquity_Reproducible(t *testing.T) {
	hole := mustParse(t, "JH", "TH")
	board := mustParse(t, "9H", "2C", "KD")

	a, _ := NewEngine(WithRand(rand.NewPCG(42, 42))).Equity(hole, board)
	b, _ := NewEngine(WithRand(rand.NewPCG(42, 42))).Equity(hole, board)
	if a != b {
		t.Errorf("same seed gave %v and %v", a, b)
	}
	if a <= 0 || a >= 1 {
		t.Errorf("drawing hand equity = %v, want strictly between 0 and 1", a)
	}
}

func TestDecide_FlopUsesEquity(t *testing.T) {
	e := seeded()
	if got := e.DecideLabels([]string{"AS", "AH"}, []string{"AD", "AC", "KS"}); got.Action != Raise || got.BetFraction != 0.8 {
		t.Errorf("flopped quads: got %v, want RAISE 0.8", got)
	}
	if got := e.DecideLabels([]string{"7H", "2C"}, []string{"AS", "KS", "QD", "JD"}); got.Action != Fold {
		t.Errorf("dead hand on the turn: got %v, want FOLD", got)
	}
}

func TestFromEquity(t *testing.T) {
	tests := []struct {
		eq   float64
		want Decision
	}{
		{0.95, Decision{Raise, 0.8}},
		{0.75, Decision{Raise, 0.75}},
		{0.65, Decision{Raise, 0.5}},
		{0.61, Decision{Raise, 0.61 * 0.8}},
		{0.60, Decision{Call, 0}},
		{0.41, Decision{Call, 0}},
		{0.40, Decision{Fold, 0}},
		{0, Decision{Fold, 0}},
	}
	for _, tt := range tests {
		if got := fromEquity(tt.eq); got != tt.want {
			t.Errorf("fromEquity(%v) = %v, want %v", tt.eq, got, tt.want)
		}
	}
}

func TestDecision_JSON(t *testing.T) {
	b, err := json.Marshal(Decision{Action: Raise, BetFraction: 0.3930666})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"action":"RAISE","bet_fraction":0.3931}` {
		t.Errorf("got %s", b)
	}

	var d Decision
	if err := json.Unmarshal([]byte(`{"action":"call","bet_fraction":0}`), &d); err != nil {
		t.Fatal(err)
	}
	if d != (Decision{Action: Call}) {
		t.Errorf("decoded %v", d)
	}
}

func TestStreetOf(t *testing.T) {
	want := []Street{Preflop, Incomplete, Incomplete, Flop, Turn, River, Incomplete}
	for n, s := range want {
		if got := StreetOf(n); got != s {
			t.Errorf("StreetOf(%d) = %s, want %s", n, got, s)
		}
	}
}

func TestDecide_HandState(t *testing.T) {
	h := cards.HandState{HoleCards: mustParse(t, "AS", "AH")}
	if got := seeded().Decide(h); got != (Decision{Raise, 0.75}) {
		t.Errorf("got %v", got)
	}
}
