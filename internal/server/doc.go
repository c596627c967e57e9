// Package server implements the MCP (Model Context Protocol) server for the
// UI element locator.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Coordinate Resolution:
//   - locate_element: Resolve a question about a screenshot to screen coordinates
//   - screenshot_info: Screenshot size relative to the physical screen
//
// Feedback:
//   - detection_statistics: Method, confidence, verification and correction rates
//
// Screen Geometry:
//   - screen_info: Physical/logical size, DPI and scale
//   - convert_to_logical: Physical to logical pixel conversion
//
// # Image Caching
//
// Screenshots are decoded once and cached by path until the file changes.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// An element that cannot be found is not an error: locate_element answers
// with found=false and the reason each strategy gave up.
package server
