package decision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is what the player should do at the table.
type Action uint8

const (
	Fold Action = iota + 1
	Check
	Call
	Raise
)

var actionNames = map[Action]string{
	Fold:  "FOLD",
	Check: "CHECK",
	Call:  "CALL",
	Raise: "RAISE",
}

// Actions lists every action.
var Actions = []Action{Fold, Check, Call, Raise}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction accepts an action name in any case.
func ParseAction(s string) (Action, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for a, n := range actionNames {
		if n == up {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Decision is an action plus the fraction of the stack to bet with it.
// BetFraction is only non-zero for RAISE.
type Decision struct {
	Action      Action  `json:"action"`
	BetFraction float64 `json:"bet_fraction"`
}

// Neutral is returned whenever the hand cannot be judged.
var Neutral = Decision{Action: Check}

func (d Decision) String() string {
	if d.BetFraction > 0 {
		return fmt.Sprintf("%s %.1f%%", d.Action, d.BetFraction*100)
	}
	return d.Action.String()
}

// Street is the betting round implied by the number of board cards.
type Street uint8

const (
	Preflop Street = iota
	Flop
	Turn
	River
	// Incomplete covers 1 or 2 visible board cards.
	Incomplete
)

// StreetOf maps the number of community cards to a street.
func StreetOf(board int) Street {
	switch board {
	case 0:
		return Preflop
	case 3:
		return Flop
	case 4:
		return Turn
	case 5:
		return River
	default:
		return Incomplete
	}
}

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	}
	return "incomplete"
}

// MarshalJSON rounds the bet fraction to four decimals.
func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Action      string  `json:"action"`
		BetFraction float64 `json:"bet_fraction"`
	}{d.Action.String(), roundTo(d.BetFraction, 4)})
}
