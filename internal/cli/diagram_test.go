// ABOUTME: Tests for the diagram command output
// ABOUTME: Verifies the rendered flowchart carries a type legend comment
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

// captureStdout runs fn with os.Stdout redirected and returns what it printed.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	if err := fn(); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close pipe: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	return string(data)
}

func TestDiagramCommandLegend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	t.Setenv(config.EnvDBPath, dbPath)

	database, err := db.InitDB(dbPath)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	_, err = db.CreateEntities(database, []db.Entity{
		{Name: "auth-epic", Type: "epic"},
		{Name: "login-story", Type: "story"},
	})
	if err != nil {
		t.Fatalf("CreateEntities failed: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	out := captureStdout(t, func() error {
		return diagramCmd.RunE(diagramCmd, nil)
	})

	if !strings.Contains(out, "graph TD\n") {
		t.Errorf("diagram missing:\n%s", out)
	}
	if !strings.Contains(out, "%% epic: 1, story: 1") {
		t.Errorf("type legend comment missing:\n%s", out)
	}
}
