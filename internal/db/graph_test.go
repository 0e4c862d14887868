// ABOUTME: Tests for full graph reads and statistics
// ABOUTME: Validates hydration of observations and relation ordering
package db

import (
	"path/filepath"
	"testing"
)

func TestReadGraph(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := InitDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer func() { _ = database.Close() }()

	t.Run("empty graph", func(t *testing.T) {
		graph, err := ReadGraph(database)
		if err != nil {
			t.Fatalf("ReadGraph failed: %v", err)
		}
		if len(graph.Entities) != 0 || len(graph.Relations) != 0 {
			t.Errorf("expected empty graph, got %+v", graph)
		}
	})

	_, err = CreateEntities(database, []Entity{
		{Name: "auth-epic", Type: "epic", Observations: []string{"Q3 priority"}},
		{Name: "login-story", Type: "story"},
	})
	if err != nil {
		t.Fatalf("CreateEntities failed: %v", err)
	}
	_, _, err = CreateRelations(database, []Relation{
		{From: "login-story", To: "auth-epic", Type: "belongs_to"},
	})
	if err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	graph, err := ReadGraph(database)
	if err != nil {
		t.Fatalf("ReadGraph failed: %v", err)
	}

	if len(graph.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(graph.Entities))
	}
	if len(graph.Relations) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(graph.Relations))
	}
	byName := make(map[string]Entity)
	for _, entity := range graph.Entities {
		byName[entity.Name] = entity
	}
	if len(byName["auth-epic"].Observations) != 1 {
		t.Errorf("expected observations hydrated, got %v", byName["auth-epic"].Observations)
	}
}

func TestStats(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := InitDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer func() { _ = database.Close() }()

	_, err = CreateEntities(database, []Entity{
		{Name: "auth-epic", Type: "epic", Observations: []string{"a", "b"}},
		{Name: "login-story", Type: "story"},
		{Name: "signup-story", Type: "story"},
	})
	if err != nil {
		t.Fatalf("CreateEntities failed: %v", err)
	}
	_, _, err = CreateRelations(database, []Relation{
		{From: "login-story", To: "auth-epic", Type: "belongs_to"},
	})
	if err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	stats, err := Stats(database)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.EntityCount != 3 {
		t.Errorf("got %d entities, want 3", stats.EntityCount)
	}
	if stats.RelationCount != 1 {
		t.Errorf("got %d relations, want 1", stats.RelationCount)
	}
	if stats.ObservationCount != 2 {
		t.Errorf("got %d observations, want 2", stats.ObservationCount)
	}
	if stats.EntityTypes["story"] != 2 {
		t.Errorf("got %d stories, want 2", stats.EntityTypes["story"])
	}
}
