// ABOUTME: Project .agileflow file detection and config loading
// ABOUTME: Walks directory tree to find project root
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// MarkerFile is the per-project configuration file name.
const MarkerFile = ".agileflow"

type ProjectConfig struct {
	ProjectType      string `toml:"project_type"`
	AIDocsDir        string `toml:"ai_docs_dir"`
	LocalLogging     bool   `toml:"local_logging"`
	LogDir           string `toml:"log_dir"`
	LogFormat        string `toml:"log_format"`
	DiagramDirection string `toml:"diagram_direction"`
}

// FindProjectRoot walks up from dir looking for a .agileflow file
// Returns empty string if not found
func FindProjectRoot(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	current := absDir
	for {
		markerPath := filepath.Join(current, MarkerFile)
		if _, err := os.Stat(markerPath); err == nil {
			return current, nil
		}

		parent := filepath.Dir(current)

		// Stop at filesystem root or home directory
		if parent == current || current == homeDir {
			return "", nil
		}

		current = parent
	}
}

// LoadProjectConfig loads .agileflow config from path
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	var cfg ProjectConfig

	// Set defaults
	cfg.AIDocsDir = "ai-docs"
	cfg.LogDir = "logs"
	cfg.LogFormat = "markdown"
	cfg.DiagramDirection = "TD"

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
