package cards

import "encoding/json"

// MaxHoleCards and MaxCommunityCards bound a HandState.
const (
	MaxHoleCards      = 2
	MaxCommunityCards = 5
)

// HandState is what one frame shows: the player's own cards and the
// community cards in deal order (left to right).
//
// Only fully recognized cards appear; an unresolved card is omitted rather
// than represented by a placeholder.
type HandState struct {
	HoleCards []Card
	Community []Card
}

type handStateJSON struct {
	HoleCards      []string `json:"hole_cards"`
	CommunityCards []string `json:"community_cards"`
}

// Labels returns the canonical labels of cs.
func Labels(cs []Card) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Label())
	}
	return out
}

// MarshalJSON encodes the hand as {"hole_cards": [...], "community_cards": [...]}.
func (h HandState) MarshalJSON() ([]byte, error) {
	return json.Marshal(handStateJSON{
		HoleCards:      Labels(h.HoleCards),
		CommunityCards: Labels(h.Community),
	})
}

// UnmarshalJSON decodes the label form produced by MarshalJSON.
func (h *HandState) UnmarshalJSON(b []byte) error {
	var raw handStateJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	hole, err := ParseLabels(raw.HoleCards)
	if err != nil {
		return err
	}
	community, err := ParseLabels(raw.CommunityCards)
	if err != nil {
		return err
	}
	h.HoleCards = hole
	h.Community = community
	return nil
}

// Empty reports whether no card was recognized.
func (h HandState) Empty() bool {
	return len(h.HoleCards) == 0 && len(h.Community) == 0
}
