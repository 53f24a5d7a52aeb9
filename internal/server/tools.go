package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the captured frame",
	}
}

func coordProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": desc,
	}
}

func labelsProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": desc,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Recognition
		{
			Name:        "card_recognize",
			Description: "Recognize the player's own cards and the community cards in a captured table frame. Unresolved cards are left out.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "card_locate",
			Description: "Locate the community cards in a frame and return each card's rectangle with its rank and suit regions, left to right.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "card_match_region",
			Description: "Score every template of one category and orientation against a frame region, best first. Use this to calibrate slot rectangles.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1":   coordProperty("Left edge X coordinate (0-based)"),
					"y1":   coordProperty("Top edge Y coordinate (0-based)"),
					"x2":   coordProperty("Right edge X coordinate (exclusive)"),
					"y2":   coordProperty("Bottom edge Y coordinate (exclusive)"),
					"category": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rank", "suit"},
						"description": "Symbol category to match",
					},
					"orientation": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"left", "right", "straight"},
						"description": "Template orientation. Default straight",
						"default":     "straight",
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2", "category"},
			},
		},
		{
			Name:        "card_turn",
			Description: "Correlate the turn indicator with its calibrated region and report whether the table is waiting for the player.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		{
			Name:        "card_overlay",
			Description: "Draw the calibration onto a frame: own card regions, community area, located cards, turn region and action buttons over a coordinate grid. Returns a base64 PNG, or writes it to output.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Grid line spacing in pixels; 0 disables the grid. Default 100",
						"default":     100,
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the PNG to instead of returning it",
					},
				},
				"required": []string{"path"},
			},
		},

		// Decision
		{
			Name:        "card_decide",
			Description: "Decide an action (FOLD, CHECK, CALL, RAISE) and bet fraction for a hand given as card labels such as \"AS\" or \"10H\".",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hole_cards":      labelsProperty("The player's two cards"),
					"community_cards": labelsProperty("Board cards in deal order; empty before the flop"),
				},
				"required": []string{"hole_cards"},
			},
		},

		// Library
		{
			Name:        "card_library_info",
			Description: "Report how many templates were loaded per category and orientation and which assets are missing.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
