// ABOUTME: Project settings aggregation for the get_project_settings tool
// ABOUTME: Resolves project path, database path, and per-project config
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variable overrides.
const (
	EnvProjectPath = "AGILE_FLOW_PROJECT_PATH"
	EnvDBPath      = "AGILE_FLOW_DB_PATH"
)

// Settings is what get_project_settings and `agileflow settings` report.
type Settings struct {
	ProjectPath         string         `json:"project_path"`
	CurrentDirectory    string         `json:"current_directory"`
	IsProjectPathManual bool           `json:"is_project_path_manually_set"`
	ProjectType         string         `json:"project_type"`
	AIDocsDirectory     string         `json:"ai_docs_directory"`
	KnowledgeGraphPath  string         `json:"knowledge_graph_path"`
	HasProjectConfig    bool           `json:"has_project_config"`
	ProjectConfig       *ProjectConfig `json:"project_config,omitempty"`
}

// DefaultDBPath returns the knowledge graph database location, honoring the
// AGILE_FLOW_DB_PATH override.
func DefaultDBPath() string {
	if path := os.Getenv(EnvDBPath); path != "" {
		return path
	}
	return filepath.Join(GetDataHome(), "agileflow", "agileflow.db")
}

// BuildSettings resolves project settings for dir. An explicit projectPath
// (flag or tool argument) wins over the AGILE_FLOW_PROJECT_PATH environment
// variable, which wins over walking up from dir for a .agileflow marker.
func BuildSettings(dir, projectPath string) (*Settings, error) {
	cwd, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve current directory: %w", err)
	}

	settings := &Settings{
		CurrentDirectory: cwd,
		ProjectType:      "generic",
	}

	switch {
	case projectPath != "":
		settings.ProjectPath, err = filepath.Abs(projectPath)
		if err != nil {
			return nil, fmt.Errorf("resolve project path: %w", err)
		}
		settings.IsProjectPathManual = true
	case os.Getenv(EnvProjectPath) != "":
		settings.ProjectPath, err = filepath.Abs(os.Getenv(EnvProjectPath))
		if err != nil {
			return nil, fmt.Errorf("resolve project path: %w", err)
		}
		settings.IsProjectPathManual = true
	default:
		root, err := FindProjectRoot(cwd)
		if err != nil {
			return nil, err
		}
		if root != "" {
			settings.ProjectPath = root
		} else {
			settings.ProjectPath = cwd
		}
	}

	if info, err := os.Stat(settings.ProjectPath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("project path %s is not a directory", settings.ProjectPath)
	}

	settings.KnowledgeGraphPath = DefaultDBPath()
	settings.AIDocsDirectory = filepath.Join(settings.ProjectPath, "ai-docs")

	markerPath := filepath.Join(settings.ProjectPath, MarkerFile)
	if _, err := os.Stat(markerPath); err == nil {
		cfg, err := LoadProjectConfig(markerPath)
		if err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
		settings.HasProjectConfig = true
		settings.ProjectConfig = cfg
		if cfg.ProjectType != "" {
			settings.ProjectType = cfg.ProjectType
		}
		settings.AIDocsDirectory = filepath.Join(settings.ProjectPath, cfg.AIDocsDir)
	}

	return settings, nil
}
