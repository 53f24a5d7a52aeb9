package server

import (
	"encoding/json"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/config"
	"github.com/ironsheep/card-vision/internal/decision"
	"github.com/ironsheep/card-vision/internal/detection"
	"github.com/ironsheep/card-vision/internal/pipeline"
	"github.com/ironsheep/card-vision/internal/templates"
	"github.com/ironsheep/card-vision/internal/testutil"
)

// tableFrame draws AS and KH as own cards and TH 7D AC on the board, and
// returns it with the matching calibration.
func tableFrame(t *testing.T) (*image.Gray, config.Calibration) {
	t.Helper()
	frame := testutil.Canvas(600, 260, 40)
	cal := config.DefaultCalibration()
	cal.SelfSlots = nil
	cal.Turn = config.TurnIndicator{}

	hole := []cards.Card{cards.Compose(cards.Ace, cards.Spade), cards.Compose(cards.King, cards.Heart)}
	for i, c := range hole {
		o := []cards.Orientation{cards.Left, cards.Right}[i]
		x := 20 + i*60
		rank := testutil.Region(cards.RankSymbol(c.Rank))
		suit := testutil.Region(cards.SuitSymbol(c.Suit))
		testutil.Paste(frame, rank, x, 20)
		testutil.Paste(frame, suit, x, 70)
		cal.SelfSlots = append(cal.SelfSlots, config.Slot{
			Name:        o.String(),
			Orientation: o,
			Rank:        detection.FromRect(rank.Bounds()).Translate(x, 20),
			Suit:        detection.FromRect(suit.Bounds()).Translate(x, 70),
		})
	}

	cal.CommunityArea = detection.Bounds{X1: 160, Y1: 30, X2: 600, Y2: 230}
	for i, label := range []string{"TH", "7D", "AC"} {
		c, err := cards.ParseLabel(label)
		if err != nil {
			t.Fatal(err)
		}
		testutil.Paste(frame, testutil.CardFace(c), 180+i*95, 70)
	}
	return frame, cal
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	frame, cal := tableFrame(t)
	lib, err := templates.LoadFS(testutil.AssetFS(cards.RankSymbol(cards.Queen)), templates.DefaultLayout(), nil)
	if err != nil {
		t.Fatal(err)
	}
	p := pipeline.New(lib, cal)
	e := decision.NewEngine(decision.WithRand(rand.NewPCG(3, 5)))

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := os.WriteFile(path, testutil.PNG(frame), 0o600); err != nil {
		t.Fatal(err)
	}
	return New(p, e, nil), path
}

// callTool runs a tools/call request and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args interface{}, out interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatal(err)
	}
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil || out == nil {
		return resp
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Result should be a map, got %T", resp.Result)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content %v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("tool result is not JSON: %v\n%s", err, text)
	}
	return resp
}
