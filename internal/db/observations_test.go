// ABOUTME: Tests for observation management
// ABOUTME: Validates append/dedupe semantics and deletions
package db

import (
	"path/filepath"
	"testing"
)

func TestAddObservations(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := InitDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer func() { _ = database.Close() }()

	_, err = CreateEntities(database, []Entity{
		{Name: "sprint-42", Type: "sprint", Observations: []string{"started monday"}},
	})
	if err != nil {
		t.Fatalf("CreateEntities failed: %v", err)
	}

	added, err := AddObservations(database, "sprint-42", []string{
		"started monday", // duplicate
		"velocity target 30",
		"velocity target 30", // duplicate within batch
	})
	if err != nil {
		t.Fatalf("AddObservations failed: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("expected 1 observation added, got %d: %v", len(added), added)
	}
	if added[0] != "velocity target 30" {
		t.Errorf("got %q, want 'velocity target 30'", added[0])
	}

	t.Run("unknown entity is an error", func(t *testing.T) {
		_, err := AddObservations(database, "missing", []string{"x"})
		if err == nil {
			t.Fatal("expected error for unknown entity")
		}
	})
}

func TestDeleteObservations(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := InitDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer func() { _ = database.Close() }()

	_, err = CreateEntities(database, []Entity{
		{Name: "sprint-42", Type: "sprint", Observations: []string{"a", "b", "c"}},
	})
	if err != nil {
		t.Fatalf("CreateEntities failed: %v", err)
	}

	deleted, err := DeleteObservations(database, "sprint-42", []string{"a", "c", "not-there"})
	if err != nil {
		t.Fatalf("DeleteObservations failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 observations deleted, got %d", deleted)
	}

	entity, err := GetEntity(database, "sprint-42")
	if err != nil {
		t.Fatalf("GetEntity failed: %v", err)
	}
	if len(entity.Observations) != 1 || entity.Observations[0] != "b" {
		t.Errorf("got observations %v, want [b]", entity.Observations)
	}
}
