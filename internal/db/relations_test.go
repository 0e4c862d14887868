// ABOUTME: Tests for relation creation and deletion
// ABOUTME: Validates duplicate and unknown-endpoint skipping
package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func setupRelationsDB(t *testing.T) *sql.DB {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := InitDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	_, err = CreateEntities(database, []Entity{
		{Name: "auth-epic", Type: "epic"},
		{Name: "login-story", Type: "story"},
		{Name: "signup-story", Type: "story"},
	})
	if err != nil {
		t.Fatalf("CreateEntities failed: %v", err)
	}

	return database
}

func TestCreateRelations(t *testing.T) {
	database := setupRelationsDB(t)

	created, skipped, err := CreateRelations(database, []Relation{
		{From: "login-story", To: "auth-epic", Type: "belongs_to"},
		{From: "login-story", To: "auth-epic", Type: "belongs_to"}, // duplicate
		{From: "login-story", To: "ghost", Type: "blocks"},         // unknown endpoint
	})
	if err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	if len(created) != 1 {
		t.Fatalf("expected 1 relation created, got %d", len(created))
	}
	if created[0].ID == "" {
		t.Error("expected relation to get an ID")
	}
	if len(skipped) != 2 {
		t.Errorf("expected 2 relations skipped, got %d", len(skipped))
	}

	t.Run("self relation is allowed", func(t *testing.T) {
		created, skipped, err := CreateRelations(database, []Relation{
			{From: "auth-epic", To: "auth-epic", Type: "supersedes"},
		})
		if err != nil {
			t.Fatalf("CreateRelations failed: %v", err)
		}
		if len(created) != 1 || len(skipped) != 0 {
			t.Errorf("expected self relation to be created, got created=%d skipped=%d", len(created), len(skipped))
		}
	})
}

func TestDeleteRelations(t *testing.T) {
	database := setupRelationsDB(t)

	_, _, err := CreateRelations(database, []Relation{
		{From: "login-story", To: "auth-epic", Type: "belongs_to"},
		{From: "login-story", To: "auth-epic", Type: "blocks"},
		{From: "signup-story", To: "auth-epic", Type: "belongs_to"},
	})
	if err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	t.Run("typed delete removes one relation", func(t *testing.T) {
		deleted, err := DeleteRelations(database, []Relation{
			{From: "signup-story", To: "auth-epic", Type: "belongs_to"},
		})
		if err != nil {
			t.Fatalf("DeleteRelations failed: %v", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 relation deleted, got %d", deleted)
		}
	})

	t.Run("untyped delete removes all types between endpoints", func(t *testing.T) {
		deleted, err := DeleteRelations(database, []Relation{
			{From: "login-story", To: "auth-epic"},
		})
		if err != nil {
			t.Fatalf("DeleteRelations failed: %v", err)
		}
		if deleted != 2 {
			t.Errorf("expected 2 relations deleted, got %d", deleted)
		}
	})
}
