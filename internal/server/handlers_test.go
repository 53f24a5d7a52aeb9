package server

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/decision"
	"github.com/ironsheep/card-vision/internal/imaging"
	"github.com/ironsheep/card-vision/internal/pipeline"
)

func TestCardRecognize(t *testing.T) {
	s, path := newTestServer(t)

	var res pipeline.Result
	callTool(t, s, "card_recognize", map[string]string{"path": path}, &res)

	if got := cards.Labels(res.Hand.HoleCards); !reflect.DeepEqual(got, []string{"AS", "KH"}) {
		t.Errorf("hole cards = %v", got)
	}
	if got := cards.Labels(res.Hand.Community); !reflect.DeepEqual(got, []string{"TH", "7D", "AC"}) {
		t.Errorf("community = %v", got)
	}
	if len(res.Community) != 3 {
		t.Errorf("located %d community cards, want 3", len(res.Community))
	}
	if s.cache.Len() != 1 {
		t.Errorf("frame not cached, cache has %d entries", s.cache.Len())
	}
}

func TestCardLocate(t *testing.T) {
	s, path := newTestServer(t)

	var res locateResult
	callTool(t, s, "card_locate", map[string]string{"path": path}, &res)
	if res.Count != 3 || len(res.Cards) != 3 {
		t.Fatalf("located %d cards: %+v", res.Count, res.Cards)
	}
	for i := 1; i < len(res.Cards); i++ {
		if res.Cards[i].Card.X1 <= res.Cards[i-1].Card.X1 {
			t.Errorf("cards not ordered left to right: %+v", res.Cards)
		}
	}
}

func TestCardMatchRegion(t *testing.T) {
	s, path := newTestServer(t)
	slot := s.pipeline.Calibration().SelfSlots[0]

	var res struct {
		Category    string `json:"category"`
		Orientation string `json:"orientation"`
		Matches     []struct {
			Symbol string  `json:"symbol"`
			Score  float64 `json:"score"`
		} `json:"matches"`
	}
	callTool(t, s, "card_match_region", map[string]interface{}{
		"path":        path,
		"x1":          slot.Rank.X1,
		"y1":          slot.Rank.Y1,
		"x2":          slot.Rank.X2,
		"y2":          slot.Rank.Y2,
		"category":    "rank",
		"orientation": "left",
	}, &res)

	if res.Category != "rank" || res.Orientation != "left" {
		t.Errorf("echoed %s/%s", res.Category, res.Orientation)
	}
	// The queen template is missing from the test library.
	if len(res.Matches) != len(cards.Ranks)-1 {
		t.Fatalf("got %d matches", len(res.Matches))
	}
	if want := cards.RankSymbol(cards.Ace).AssetName(); res.Matches[0].Symbol != want {
		t.Errorf("best match %s, want %s", res.Matches[0].Symbol, want)
	}
	for i := 1; i < len(res.Matches); i++ {
		if res.Matches[i].Score > res.Matches[i-1].Score {
			t.Errorf("matches not sorted by score: %+v", res.Matches)
			break
		}
	}
}

func TestCardMatchRegion_InvalidArgs(t *testing.T) {
	s, path := newTestServer(t)
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"bad category", map[string]interface{}{"path": path, "x2": 10, "y2": 10, "category": "colour"}},
		{"bad orientation", map[string]interface{}{"path": path, "x2": 10, "y2": 10, "category": "suit", "orientation": "upside"}},
		{"empty region", map[string]interface{}{"path": path, "x1": 10, "x2": 10, "y2": 10, "category": "suit"}},
		{"missing file", map[string]interface{}{"path": filepath.Join(t.TempDir(), "nope.png"), "x2": 10, "y2": 10, "category": "suit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "card_match_region", tt.args, nil)
			if resp.Error == nil || resp.Error.Code != -32000 {
				t.Errorf("expected tool error, got %+v", resp)
			}
		})
	}
}

func TestCardTurn_WithoutIndicator(t *testing.T) {
	s, path := newTestServer(t)

	var res turnResult
	callTool(t, s, "card_turn", map[string]string{"path": path}, &res)
	if res.Enabled || !res.OurTurn || res.Score != 0 {
		t.Errorf("got %+v, want disabled indicator reporting our turn", res)
	}
}

func TestCardDecide(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		args   decideArgs
		want   decision.Action
		bet    float64
		street string
	}{
		{"pocket aces", decideArgs{HoleCards: []string{"AS", "AH"}}, decision.Raise, 0.75, "preflop"},
		{"river royal", decideArgs{
			HoleCards:      []string{"AS", "KS"},
			CommunityCards: []string{"QS", "JS", "TS", "2D", "3C"},
		}, decision.Raise, 1.0, "river"},
		{"incomplete board", decideArgs{HoleCards: []string{"AS", "KS"}, CommunityCards: []string{"QS"}}, decision.Check, 0, "incomplete"},
		{"malformed label", decideArgs{HoleCards: []string{"AS", "ZZ"}}, decision.Check, 0, "preflop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res decideResult
			callTool(t, s, "card_decide", tt.args, &res)
			if res.Decision.Action != tt.want || res.Decision.BetFraction != tt.bet {
				t.Errorf("decision = %s, want %s %.2f", res.Decision, tt.want, tt.bet)
			}
			if !strings.EqualFold(res.Street, tt.street) {
				t.Errorf("street = %s, want %s", res.Street, tt.street)
			}
		})
	}
}

func TestCardLibraryInfo(t *testing.T) {
	s, _ := newTestServer(t)

	var res libraryInfo
	callTool(t, s, "card_library_info", map[string]string{}, &res)

	if res.Templates != 48 {
		t.Errorf("templates = %d, want 48", res.Templates)
	}
	if len(res.Missing) != 3 {
		t.Fatalf("missing = %v, want the three queen assets", res.Missing)
	}
	for _, m := range res.Missing {
		if !strings.Contains(m, cards.RankSymbol(cards.Queen).AssetName()) {
			t.Errorf("unexpected missing asset %s", m)
		}
	}
	total := 0
	for _, n := range res.Sets {
		total += n
	}
	if total != res.Templates {
		t.Errorf("sets add up to %d, want %d", total, res.Templates)
	}
}

func TestToolsCall_Errors(t *testing.T) {
	s, _ := newTestServer(t)

	resp := callTool(t, s, "card_unknown", map[string]string{}, nil)
	if resp.Error == nil || resp.Error.Code != -32000 || !strings.Contains(fmt.Sprint(resp.Error.Data), "unknown tool") {
		t.Errorf("unknown tool: %+v", resp.Error)
	}

	resp = callTool(t, s, "card_recognize", map[string]string{}, nil)
	if resp.Error == nil || !strings.Contains(fmt.Sprint(resp.Error.Data), "path is required") {
		t.Errorf("missing path: %+v", resp.Error)
	}

	resp = callTool(t, s, "card_locate", map[string]string{"path": filepath.Join(t.TempDir(), "missing.png")}, nil)
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("missing file: %+v", resp.Error)
	}

	resp = s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 3, Method: "tools/call", Params: []byte(`[1,2]`)})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("invalid params: %+v", resp.Error)
	}
}

func TestCardOverlay(t *testing.T) {
	s, path := newTestServer(t)

	var res overlayResult
	callTool(t, s, "card_overlay", map[string]interface{}{"path": path, "grid_spacing": 50}, &res)
	if res.Width != 600 || res.Height != 260 || res.MimeType != "image/png" {
		t.Errorf("overlay = %dx%d %s", res.Width, res.Height, res.MimeType)
	}
	img, err := imaging.DecodeBase64(res.ImageBase64)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 600 {
		t.Errorf("decoded width %d", img.Bounds().Dx())
	}

	out := filepath.Join(t.TempDir(), "overlay.png")
	res = overlayResult{}
	callTool(t, s, "card_overlay", map[string]interface{}{"path": path, "output": out}, &res)
	if res.Output != out || res.ImageBase64 != "" {
		t.Errorf("written overlay result %+v", res)
	}
	if _, err := imaging.Open(out); err != nil {
		t.Errorf("overlay not written: %v", err)
	}

	resp := callTool(t, s, "card_overlay", map[string]interface{}{"path": path, "grid_spacing": -1}, nil)
	if resp.Error == nil {
		t.Error("negative spacing accepted")
	}
}
