package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	want := []string{"locate_element", "screenshot_info", "detection_statistics", "screen_info", "convert_to_logical"}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}

	seen := make(map[string]bool)
	for i, tool := range tools {
		if tool.Name != want[i] {
			t.Errorf("tool %d: got %s, want %s", i, tool.Name, want[i])
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool name: %s", tool.Name)
		}
		seen[tool.Name] = true

		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("tool %s schema type: got %v", tool.Name, tool.InputSchema["type"])
		}
		if _, err := json.Marshal(tool); err != nil {
			t.Errorf("tool %s does not marshal: %v", tool.Name, err)
		}
	}
}

func TestGetToolDefinitions_RequiredFields(t *testing.T) {
	required := map[string][]string{
		"locate_element":     {"screenshot_path", "question"},
		"screenshot_info":    {"path"},
		"convert_to_logical": {"x", "y"},
	}

	for _, tool := range GetToolDefinitions() {
		want, ok := required[tool.Name]
		if !ok {
			if _, has := tool.InputSchema["required"]; has {
				t.Errorf("tool %s should not require arguments", tool.Name)
			}
			continue
		}

		got, _ := tool.InputSchema["required"].([]string)
		if len(got) != len(want) {
			t.Fatalf("tool %s required: got %v, want %v", tool.Name, got, want)
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		for i, name := range want {
			if got[i] != name {
				t.Errorf("tool %s required[%d]: got %s, want %s", tool.Name, i, got[i], name)
			}
			if _, ok := props[name]; !ok {
				t.Errorf("tool %s: required field %s has no property schema", tool.Name, name)
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s, _ := newTestServer(t)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 3, Method: "tools/list"})

	if resp.ID != 3 {
		t.Errorf("ID: got %v", resp.ID)
	}
	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatalf("tools: unexpected type %T", result["tools"])
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools", len(tools))
	}
}
