// ABOUTME: Tests for .agileflow marker discovery and config parsing
// ABOUTME: Covers upward traversal and TOML defaults
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindProjectRoot(t *testing.T) {
	t.Run("marker in current dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(tmpDir, MarkerFile), []byte(""), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}

		root, err := FindProjectRoot(tmpDir)
		if err != nil {
			t.Fatalf("FindProjectRoot failed: %v", err)
		}
		if root != tmpDir {
			t.Errorf("got %s, want %s", root, tmpDir)
		}
	})

	t.Run("marker in ancestor", func(t *testing.T) {
		tmpDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(tmpDir, MarkerFile), []byte(""), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}
		nested := filepath.Join(tmpDir, "src", "api")
		if err := os.MkdirAll(nested, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}

		root, err := FindProjectRoot(nested)
		if err != nil {
			t.Fatalf("FindProjectRoot failed: %v", err)
		}
		if root != tmpDir {
			t.Errorf("got %s, want %s", root, tmpDir)
		}
	})

	t.Run("no marker", func(t *testing.T) {
		root, err := FindProjectRoot(t.TempDir())
		if err != nil {
			t.Fatalf("FindProjectRoot failed: %v", err)
		}
		if root != "" {
			t.Errorf("expected empty root, got %s", root)
		}
	})
}

func TestLoadProjectConfig(t *testing.T) {
	t.Run("defaults for empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), MarkerFile)
		if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}

		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("LoadProjectConfig failed: %v", err)
		}
		if cfg.AIDocsDir != "ai-docs" {
			t.Errorf("got ai_docs_dir %s, want ai-docs", cfg.AIDocsDir)
		}
		if cfg.LogFormat != "markdown" {
			t.Errorf("got log_format %s, want markdown", cfg.LogFormat)
		}
		if cfg.DiagramDirection != "TD" {
			t.Errorf("got diagram_direction %s, want TD", cfg.DiagramDirection)
		}
	})

	t.Run("values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), MarkerFile)
		content := `project_type = "web"
ai_docs_dir = "docs/ai"
local_logging = true
log_format = "json"
diagram_direction = "LR"
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}

		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("LoadProjectConfig failed: %v", err)
		}
		if cfg.ProjectType != "web" {
			t.Errorf("got project_type %s, want web", cfg.ProjectType)
		}
		if cfg.AIDocsDir != "docs/ai" {
			t.Errorf("got ai_docs_dir %s, want docs/ai", cfg.AIDocsDir)
		}
		if !cfg.LocalLogging {
			t.Error("expected local_logging true")
		}
		if cfg.LogFormat != "json" {
			t.Errorf("got log_format %s, want json", cfg.LogFormat)
		}
		if cfg.DiagramDirection != "LR" {
			t.Errorf("got diagram_direction %s, want LR", cfg.DiagramDirection)
		}
	})

	t.Run("invalid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), MarkerFile)
		if err := os.WriteFile(path, []byte("project_type = ["), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}
		if _, err := LoadProjectConfig(path); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}
