// ABOUTME: Tests for MCP server construction and tool registration
// ABOUTME: Verifies the tool roster exposed for introspection
package mcp

import (
	"path/filepath"
	"testing"
)

func TestNewServerRegistersTools(t *testing.T) {
	server := NewServer(filepath.Join(t.TempDir(), "test.db"))

	want := []string{
		"get_project_settings",
		"create_entities",
		"add_observations",
		"create_relations",
		"delete_entities",
		"delete_observations",
		"delete_relations",
		"search_nodes",
		"open_nodes",
		"read_graph",
		"get_mermaid_diagram",
	}

	tools := server.Tools()
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}

	byName := make(map[string]ToolInfo)
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	for _, name := range want {
		info, ok := byName[name]
		if !ok {
			t.Errorf("tool %s not registered", name)
			continue
		}
		if info.Description == "" {
			t.Errorf("tool %s has no description", name)
		}
	}
}
