package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/decision"
	"github.com/ironsheep/card-vision/internal/detection"
	"github.com/ironsheep/card-vision/internal/imaging"
	"github.com/ironsheep/card-vision/internal/matching"
	"github.com/ironsheep/card-vision/internal/templates"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "card_recognize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Recognition
	case "card_recognize":
		return s.handleRecognize(args)
	case "card_locate":
		return s.handleLocate(args)
	case "card_match_region":
		return s.handleMatchRegion(args)
	case "card_turn":
		return s.handleTurn(args)
	case "card_overlay":
		return s.handleOverlay(args)

	// Decision
	case "card_decide":
		return s.handleDecide(args)

	// Library
	case "card_library_info":
		return s.libraryInfo(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Recognition Handlers ===

type frameArgs struct {
	Path string `json:"path"`
}

func (a frameArgs) validate() error {
	if a.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

func (s *Server) parseFrameArgs(args json.RawMessage) (frameArgs, error) {
	var a frameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, err
	}
	return a, a.validate()
}

func (s *Server) handleRecognize(args json.RawMessage) (interface{}, error) {
	a, err := s.parseFrameArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Recognize(img), nil
}

type locateResult struct {
	Cards []detection.CardBox `json:"cards"`
	Count int                 `json:"count"`
}

func (s *Server) handleLocate(args json.RawMessage) (interface{}, error) {
	a, err := s.parseFrameArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	boxes := s.pipeline.Locate(img)
	return locateResult{Cards: boxes, Count: len(boxes)}, nil
}

type matchRegionArgs struct {
	Path        string `json:"path"`
	X1          int    `json:"x1"`
	Y1          int    `json:"y1"`
	X2          int    `json:"x2"`
	Y2          int    `json:"y2"`
	Category    string `json:"category"`
	Orientation string `json:"orientation"`
}

type matchRegionResult struct {
	Region      detection.Bounds `json:"region"`
	Category    string           `json:"category"`
	Orientation string           `json:"orientation"`
	Matches     []matching.Match `json:"matches"`
}

func (s *Server) handleMatchRegion(args json.RawMessage) (interface{}, error) {
	var a matchRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Orientation == "" {
		a.Orientation = cards.Straight.String()
	}
	category, err := cards.ParseCategory(a.Category)
	if err != nil {
		return nil, err
	}
	orientation, err := cards.ParseOrientation(a.Orientation)
	if err != nil {
		return nil, err
	}
	region := detection.Bounds{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2}
	if region.Empty() {
		return nil, fmt.Errorf("invalid region: %s", region)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return matchRegionResult{
		Region:      region,
		Category:    category.String(),
		Orientation: orientation.String(),
		Matches:     s.pipeline.MatchRegion(img, region, category, orientation),
	}, nil
}

type turnResult struct {
	Enabled bool    `json:"enabled"`
	Score   float64 `json:"score"`
	OurTurn bool    `json:"our_turn"`
}

func (s *Server) handleTurn(args json.RawMessage) (interface{}, error) {
	a, err := s.parseFrameArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	score, ok := s.pipeline.IsOurTurn(img)
	return turnResult{Enabled: s.pipeline.HasIndicator(), Score: score, OurTurn: ok}, nil
}

// DefaultGridSpacing is the card_overlay grid spacing when none is given.
const DefaultGridSpacing = 100

type overlayArgs struct {
	Path        string `json:"path"`
	GridSpacing *int   `json:"grid_spacing"`
	Output      string `json:"output"`
}

type overlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MimeType    string `json:"mime_type"`
	ImageBase64 string `json:"image_base64,omitempty"`
	Output      string `json:"output,omitempty"`
}

func (s *Server) handleOverlay(args json.RawMessage) (interface{}, error) {
	var a overlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := (frameArgs{Path: a.Path}).validate(); err != nil {
		return nil, err
	}
	spacing := DefaultGridSpacing
	if a.GridSpacing != nil {
		spacing = *a.GridSpacing
	}
	if spacing < 0 {
		return nil, fmt.Errorf("grid_spacing must not be negative")
	}

	img, err := imaging.Open(a.Path)
	if err != nil {
		return nil, err
	}
	out := s.pipeline.Overlay(img, spacing)
	res := overlayResult{
		Width:    out.Bounds().Dx(),
		Height:   out.Bounds().Dy(),
		MimeType: "image/png",
	}
	if a.Output != "" {
		if err := imaging.SavePNG(a.Output, out); err != nil {
			return nil, err
		}
		res.Output = a.Output
		return res, nil
	}
	if res.ImageBase64, err = imaging.EncodePNGBase64(out); err != nil {
		return nil, err
	}
	return res, nil
}

// === Decision Handlers ===

type decideArgs struct {
	HoleCards      []string `json:"hole_cards"`
	CommunityCards []string `json:"community_cards"`
}

type decideResult struct {
	Decision decision.Decision `json:"decision"`
	Street   string            `json:"street"`
}

func (s *Server) handleDecide(args json.RawMessage) (interface{}, error) {
	var a decideArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.decide(a), nil
}

func (s *Server) decide(a decideArgs) decideResult {
	return decideResult{
		Decision: s.engine.DecideLabels(a.HoleCards, a.CommunityCards),
		Street:   decision.StreetOf(len(a.CommunityCards)).String(),
	}
}

// === Library Handlers ===

type libraryInfo struct {
	Templates int            `json:"templates"`
	Sets      map[string]int `json:"sets"`
	Missing   []string       `json:"missing"`
}

func (s *Server) libraryInfo() libraryInfo {
	lib := s.pipeline.Library()
	info := libraryInfo{
		Templates: lib.Len(),
		Sets:      make(map[string]int),
		Missing:   []string{},
	}
	for _, k := range templates.Keys() {
		info.Sets[k.String()] = len(lib.Set(k.Category, k.Orientation))
	}
	for _, m := range lib.Missing() {
		info.Missing = append(info.Missing, m.Path)
	}
	return info
}
