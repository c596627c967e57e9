package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "locate_element", "screen_info").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	ctx = logger.With(ctx, zap.String("tool", params.Name))
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		logger.L(ctx).Warn("tool execution failed", zap.Error(err))
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "locate_element":
		return s.handleLocateElement(ctx, args)
	case "screenshot_info":
		return s.handleScreenshotInfo(ctx, args)
	case "detection_statistics":
		return s.locator.Statistics(), nil
	case "screen_info":
		return s.locator.Converter().Refresh(ctx), nil
	case "convert_to_logical":
		return s.handleConvertToLogical(args)
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

// unmarshalArgs decodes tool arguments; a missing arguments object is empty.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Coordinate Resolution Handlers ===

type locateElementArgs struct {
	ScreenshotPath string   `json:"screenshot_path"`
	Question       string   `json:"question"`
	Model          string   `json:"model"`
	Temperature    *float64 `json:"temperature"`
}

// FailureInfo names one strategy that could not produce a coordinate.
type FailureInfo struct {
	Method detection.Method `json:"method"`
	Reason detection.Reason `json:"reason"`
	Error  string           `json:"error,omitempty"`
}

// LocateResult is the locate_element reply.
type LocateResult struct {
	Found             bool                 `json:"found"`
	X                 int                  `json:"x"`
	Y                 int                  `json:"y"`
	LogicalX          int                  `json:"logical_x"`
	LogicalY          int                  `json:"logical_y"`
	Confidence        detection.Confidence `json:"confidence,omitempty"`
	Method            detection.Method     `json:"method,omitempty"`
	Verified          bool                 `json:"verified"`
	CorrectionApplied bool                 `json:"correction_applied"`
	ElementType       string               `json:"element_type,omitempty"`
	Model             string               `json:"model,omitempty"`
	DurationMS        int64                `json:"duration_ms"`
	Metadata          map[string]any       `json:"metadata,omitempty"`
	Error             string               `json:"error,omitempty"`
	Failures          []FailureInfo        `json:"failures,omitempty"`
}

func (s *Server) handleLocateElement(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a locateElementArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ScreenshotPath == "" {
		return nil, errors.New("screenshot_path is required")
	}
	if strings.TrimSpace(a.Question) == "" {
		return nil, errors.New("question is required")
	}

	img, err := s.cache.Load(a.ScreenshotPath)
	if err != nil {
		return nil, err
	}

	model := s.model
	if a.Model != "" {
		model.Model = a.Model
		if strings.Contains(a.Model, "/") {
			model.Provider = ""
		}
	}
	if a.Temperature != nil {
		model.Temperature = *a.Temperature
	}

	res, err := s.locator.ResolveWithModel(ctx, img, a.Question, model)
	if errors.Is(err, detection.ErrNoCoordinate) {
		// Not finding the element is an answer, not a tool failure.
		return &LocateResult{
			Found:    false,
			Error:    detection.ErrNoCoordinate.Error(),
			Failures: failuresOf(err),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	logical := s.locator.Converter().PhysicalToLogical(res.Point())
	return &LocateResult{
		Found:             true,
		X:                 res.X,
		Y:                 res.Y,
		LogicalX:          logical.X,
		LogicalY:          logical.Y,
		Confidence:        res.Confidence,
		Method:            res.Method,
		Verified:          res.Verified,
		CorrectionApplied: res.CorrectionApplied,
		ElementType:       string(res.ElementType),
		Model:             res.Model,
		DurationMS:        res.Duration.Milliseconds(),
		Metadata:          res.Metadata,
	}, nil
}

// failuresOf walks an error tree and collects every strategy failure.
func failuresOf(err error) []FailureInfo {
	var out []FailureInfo
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if f, ok := e.(*detection.Failure); ok {
			info := FailureInfo{Method: f.Method, Reason: f.Reason}
			if f.Err != nil {
				info.Error = f.Err.Error()
			}
			out = append(out, info)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

type screenshotInfoArgs struct {
	Path string `json:"path"`
}

// ScreenshotInfo describes a screenshot relative to the physical screen.
type ScreenshotInfo struct {
	Path           string  `json:"path"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	PhysicalWidth  int     `json:"physical_width"`
	PhysicalHeight int     `json:"physical_height"`
	ScaleX         float64 `json:"scale_x"`
	ScaleY         float64 `json:"scale_y"`
	MatchesScreen  bool    `json:"matches_screen"`
}

func (s *Server) handleScreenshotInfo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a screenshotInfoArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	w, h := imaging.Size(img)
	screen := s.locator.Converter().Refresh(ctx)
	info := &ScreenshotInfo{
		Path:           a.Path,
		Width:          w,
		Height:         h,
		PhysicalWidth:  screen.PhysicalWidth,
		PhysicalHeight: screen.PhysicalHeight,
		MatchesScreen:  w == screen.PhysicalWidth && h == screen.PhysicalHeight,
	}
	if w > 0 && h > 0 {
		info.ScaleX = float64(screen.PhysicalWidth) / float64(w)
		info.ScaleY = float64(screen.PhysicalHeight) / float64(h)
	}
	return info, nil
}

// === Screen Geometry Handlers ===

type convertArgs struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// ConvertResult is the convert_to_logical reply.
type ConvertResult struct {
	Physical geometry.Point `json:"physical"`
	Logical  geometry.Point `json:"logical"`
	ScaleX   float64        `json:"scale_x"`
	ScaleY   float64        `json:"scale_y"`
}

func (s *Server) handleConvertToLogical(args json.RawMessage) (interface{}, error) {
	var a convertArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.X == nil || a.Y == nil {
		return nil, errors.New("x and y are required")
	}

	conv := s.locator.Converter()
	screen := conv.Screen()
	// Report the point that was actually converted.
	physical := conv.Clamp(geometry.Point{X: *a.X, Y: *a.Y})
	return &ConvertResult{
		Physical: physical,
		Logical:  conv.PhysicalToLogical(physical),
		ScaleX:   screen.ScaleX,
		ScaleY:   screen.ScaleY,
	}, nil
}
