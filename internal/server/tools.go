package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Coordinate Resolution
		{
			Name: "locate_element",
			Description: "Find the on-screen position of the UI element a question describes. " +
				"Returns physical screen pixel coordinates plus the logical (toolkit) coordinates, " +
				"a confidence of high, medium or low, the method that produced it, and whether it was visually verified.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"screenshot_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a full-screen screenshot (PNG or JPEG)",
					},
					"question": map[string]interface{}{
						"type":        "string",
						"description": "Natural-language description of the element, e.g. \"Where is the Save button?\"",
					},
					"model": map[string]interface{}{
						"type":        "string",
						"description": "Optional vision model, e.g. \"gpt-4o\" or \"openai/gpt-4o\". Defaults to the configured model.",
					},
					"temperature": map[string]interface{}{
						"type":        "number",
						"description": "Optional sampling temperature for this request",
					},
				},
				"required": []string{"screenshot_path", "question"},
			},
		},
		{
			Name:        "screenshot_info",
			Description: "Load a screenshot and report its dimensions and how they relate to the physical screen.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Feedback
		{
			Name:        "detection_statistics",
			Description: "Summarise all recorded detections: total count, method and confidence distributions, verification rate and correction rate.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Screen Geometry
		{
			Name:        "screen_info",
			Description: "Report the physical and logical screen size, DPI and scale factors. fallback is true when the display could not be queried.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "convert_to_logical",
			Description: "Convert a physical screen pixel coordinate to logical (GUI toolkit) coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Physical X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Physical Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
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
