// ABOUTME: MCP resource implementations for agileflow
// ABOUTME: Provides dynamic queryable context about the knowledge graph
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

// registerResources adds all MCP resources to the server.
func (s *Server) registerResources() {
	// graph-summary resource
	graphSummary := &mcp.Resource{
		URI:         "agileflow://graph-summary",
		Name:        "Graph Summary",
		Description: "Knowledge graph statistics and the 10 most recent entities",
		MIMEType:    "application/json",
	}
	s.mcpServer.AddResource(graphSummary, s.handleGraphSummary)

	// entity-types resource
	entityTypes := &mcp.Resource{
		URI:         "agileflow://entity-types",
		Name:        "Entity Types",
		Description: "All entity types sorted by frequency with usage counts",
		MIMEType:    "application/json",
	}
	s.mcpServer.AddResource(entityTypes, s.handleEntityTypes)

	// recent-activity resource
	recentActivity := &mcp.Resource{
		URI:         "agileflow://recent-activity",
		Name:        "Recent Activity",
		Description: "Recently created entities grouped by type",
		MIMEType:    "text/markdown",
	}
	s.mcpServer.AddResource(recentActivity, s.handleRecentActivity)

	// project-context resource
	projectResource := &mcp.Resource{
		URI:         "agileflow://project-context",
		Name:        "Project Context",
		Description: "Current directory's .agileflow config discovery result",
		MIMEType:    "application/json",
	}
	s.mcpServer.AddResource(projectResource, s.handleProjectContext)
}

// handleGraphSummary implements the graph-summary resource.
func (s *Server) handleGraphSummary(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	stats, err := db.Stats(database)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	recent, err := db.SearchNodes(database, db.SearchParams{Limit: 10})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent entities: %w", err)
	}

	summary := struct {
		Stats  *db.GraphStats `json:"stats"`
		Recent []db.Entity    `json:"recent_entities"`
	}{
		Stats:  stats,
		Recent: recent.Entities,
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, err
	}

	result := &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      "agileflow://graph-summary",
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}

	return result, nil
}

// handleEntityTypes implements the entity-types resource.
func (s *Server) handleEntityTypes(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	stats, err := db.Stats(database)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	data, err := json.MarshalIndent(stats.EntityTypes, "", "  ")
	if err != nil {
		return nil, err
	}

	result := &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      "agileflow://entity-types",
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}

	return result, nil
}

// handleRecentActivity implements the recent-activity resource.
func (s *Server) handleRecentActivity(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	recent, err := db.SearchNodes(database, db.SearchParams{Limit: 25})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent entities: %w", err)
	}

	byType := make(map[string][]db.Entity)
	var order []string
	for _, entity := range recent.Entities {
		if _, seen := byType[entity.Type]; !seen {
			order = append(order, entity.Type)
		}
		byType[entity.Type] = append(byType[entity.Type], entity)
	}

	var summary strings.Builder
	summary.WriteString("# Recent Activity\n\n")

	if len(recent.Entities) == 0 {
		summary.WriteString("The knowledge graph is empty.\n")
	}

	for _, typ := range order {
		summary.WriteString(fmt.Sprintf("## %s\n\n", typ))
		for _, entity := range byType[typ] {
			summary.WriteString(fmt.Sprintf("- **%s** (%s)\n", entity.Name, entity.CreatedAt.Format("2006-01-02 15:04:05")))
			for _, obs := range entity.Observations {
				summary.WriteString(fmt.Sprintf("  - %s\n", obs))
			}
		}
		summary.WriteString("\n")
	}

	result := &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      "agileflow://recent-activity",
				MIMEType: "text/markdown",
				Text:     summary.String(),
			},
		},
	}

	return result, nil
}

// handleProjectContext implements the project-context resource.
func (s *Server) handleProjectContext(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// Find project root
	projectRoot, err := config.FindProjectRoot(cwd)
	if err != nil {
		return nil, err
	}

	var contextData struct {
		HasProjectConfig bool                  `json:"has_project_config"`
		ProjectRoot      string                `json:"project_root,omitempty"`
		Config           *config.ProjectConfig `json:"config,omitempty"`
		Message          string                `json:"message"`
	}

	if projectRoot == "" {
		contextData.Message = "No .agileflow project configuration found in current directory tree"
	} else {
		contextData.HasProjectConfig = true
		contextData.ProjectRoot = projectRoot

		markerPath := filepath.Join(projectRoot, config.MarkerFile)
		cfg, err := config.LoadProjectConfig(markerPath)
		if err == nil {
			contextData.Config = cfg
			contextData.Message = "Project-specific agileflow configuration found"
		}
	}

	data, err := json.MarshalIndent(contextData, "", "  ")
	if err != nil {
		return nil, err
	}

	result := &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      "agileflow://project-context",
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}

	return result, nil
}
