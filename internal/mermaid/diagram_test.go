// ABOUTME: Tests for Mermaid flowchart rendering
// ABOUTME: Covers direction, filtering, focus neighborhoods, and escaping
package mermaid

import (
	"strings"
	"testing"

	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

func testGraph() *db.Graph {
	return &db.Graph{
		Entities: []db.Entity{
			{Name: "auth-epic", Type: "epic"},
			{Name: "login-story", Type: "story"},
			{Name: "signup-story", Type: "story"},
			{Name: "db-note", Type: "note"},
		},
		Relations: []db.Relation{
			{From: "login-story", To: "auth-epic", Type: "belongs_to"},
			{From: "signup-story", To: "auth-epic", Type: "belongs_to"},
			{From: "db-note", To: "signup-story", Type: "documents"},
		},
	}
}

func TestRender(t *testing.T) {
	t.Run("default direction", func(t *testing.T) {
		out, err := Render(testGraph(), Options{})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.HasPrefix(out, "graph TD\n") {
			t.Errorf("expected TD header, got %q", out)
		}
		if !strings.Contains(out, `auth_epic["auth-epic<br/><i>epic</i>"]`) {
			t.Errorf("missing entity node:\n%s", out)
		}
		if !strings.Contains(out, "login_story -->|belongs_to| auth_epic") {
			t.Errorf("missing relation edge:\n%s", out)
		}
	})

	t.Run("lowercase direction accepted", func(t *testing.T) {
		out, err := Render(testGraph(), Options{Direction: "lr"})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.HasPrefix(out, "graph LR\n") {
			t.Errorf("expected LR header, got %q", out)
		}
	})

	t.Run("invalid direction", func(t *testing.T) {
		if _, err := Render(testGraph(), Options{Direction: "XX"}); err == nil {
			t.Error("expected error for invalid direction")
		}
	})

	t.Run("type filter", func(t *testing.T) {
		out, err := Render(testGraph(), Options{Types: []string{"story"}})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if strings.Contains(out, "auth-epic") {
			t.Errorf("filtered type present:\n%s", out)
		}
		if !strings.Contains(out, "login-story") || !strings.Contains(out, "signup-story") {
			t.Errorf("stories missing:\n%s", out)
		}
		// Edges touching excluded entities are dropped too
		if strings.Contains(out, "belongs_to") {
			t.Errorf("edge to filtered entity present:\n%s", out)
		}
	})

	t.Run("focus depth 1", func(t *testing.T) {
		out, err := Render(testGraph(), Options{Focus: "auth-epic"})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(out, "auth-epic") || !strings.Contains(out, "login-story") || !strings.Contains(out, "signup-story") {
			t.Errorf("neighborhood incomplete:\n%s", out)
		}
		if strings.Contains(out, "db-note") {
			t.Errorf("entity two hops away present at depth 1:\n%s", out)
		}
	})

	t.Run("focus depth 2", func(t *testing.T) {
		out, err := Render(testGraph(), Options{Focus: "auth-epic", Depth: 2})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(out, "db-note") {
			t.Errorf("entity two hops away missing at depth 2:\n%s", out)
		}
	})

	t.Run("label escaping", func(t *testing.T) {
		graph := &db.Graph{
			Entities: []db.Entity{{Name: `say "hi"`, Type: "note"}},
		}
		out, err := Render(graph, Options{})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if strings.Contains(out, `"hi"`) {
			t.Errorf("quote not escaped:\n%s", out)
		}
		if !strings.Contains(out, "#quot;hi#quot;") {
			t.Errorf("escaped quote missing:\n%s", out)
		}
	})

	t.Run("node id collision", func(t *testing.T) {
		graph := &db.Graph{
			Entities: []db.Entity{
				{Name: "a b", Type: "note"},
				{Name: "a_b", Type: "note"},
			},
		}
		out, err := Render(graph, Options{})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(out, "a_b[") || !strings.Contains(out, "a_b_2[") {
			t.Errorf("collision not disambiguated:\n%s", out)
		}
	})

	t.Run("numeric-leading name", func(t *testing.T) {
		graph := &db.Graph{
			Entities: []db.Entity{{Name: "3d-model", Type: "note"}},
		}
		out, err := Render(graph, Options{})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(out, "n3d_model[") {
			t.Errorf("numeric prefix not handled:\n%s", out)
		}
	})
}

func TestTypeLegend(t *testing.T) {
	legend := TypeLegend(testGraph())
	if legend != "epic: 1, note: 1, story: 2" {
		t.Errorf("got %q", legend)
	}

	if legend := TypeLegend(&db.Graph{}); legend != "" {
		t.Errorf("expected empty legend for empty graph, got %q", legend)
	}
}
