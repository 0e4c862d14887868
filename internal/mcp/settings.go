// ABOUTME: get_project_settings tool implementation
// ABOUTME: Reports project path, config, and knowledge graph location
package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
)

// GetProjectSettingsInput defines the input for get_project_settings.
type GetProjectSettingsInput struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema:"Explicit project path; overrides environment and marker-file discovery"`
}

// GetProjectSettingsOutput defines the output for get_project_settings.
type GetProjectSettingsOutput struct {
	Settings config.Settings `json:"settings"`
}

func (s *Server) registerSettingsTool() {
	addTool(s, &mcp.Tool{
		Name:        "get_project_settings",
		Description: "Resolve project settings: project path, project type, ai-docs directory, knowledge graph location, and per-project configuration from the nearest .agileflow file.",
	}, s.handleGetProjectSettings)
}

func (s *Server) handleGetProjectSettings(ctx context.Context, req *mcp.CallToolRequest, input GetProjectSettingsInput) (*mcp.CallToolResult, GetProjectSettingsOutput, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, GetProjectSettingsOutput{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	settings, err := config.BuildSettings(cwd, input.ProjectPath)
	if err != nil {
		return nil, GetProjectSettingsOutput{}, fmt.Errorf("failed to build settings: %w", err)
	}

	output := GetProjectSettingsOutput{Settings: *settings}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Project %s (type: %s)", settings.ProjectPath, settings.ProjectType),
			},
		},
	}

	return result, output, nil
}
