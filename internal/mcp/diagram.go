// ABOUTME: get_mermaid_diagram tool implementation
// ABOUTME: Renders the knowledge graph as a Mermaid flowchart
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
	"github.com/smian0/mcp-agile-flow-sub001/internal/mermaid"
)

// GetMermaidDiagramInput defines the input for get_mermaid_diagram.
type GetMermaidDiagramInput struct {
	Direction string   `json:"direction,omitempty" jsonschema:"Flow direction: TD, LR, BT, or RL (default TD)"`
	Types     []string `json:"types,omitempty" jsonschema:"Restrict the diagram to these entity types"`
	Focus     string   `json:"focus,omitempty" jsonschema:"Limit the diagram to the neighborhood of this entity"`
	Depth     int      `json:"depth,omitempty" jsonschema:"Neighborhood radius around the focus entity (default 1)"`
}

// GetMermaidDiagramOutput defines the output for get_mermaid_diagram.
type GetMermaidDiagramOutput struct {
	Diagram   string `json:"diagram"`
	Entities  int    `json:"entities"`
	Relations int    `json:"relations"`
}

func (s *Server) registerDiagramTool() {
	addTool(s, &mcp.Tool{
		Name:        "get_mermaid_diagram",
		Description: "Render the knowledge graph as a Mermaid flowchart. Supports direction, entity type filters, and a depth-limited neighborhood around a focus entity.",
	}, s.handleGetMermaidDiagram)
}

func (s *Server) handleGetMermaidDiagram(ctx context.Context, req *mcp.CallToolRequest, input GetMermaidDiagramInput) (*mcp.CallToolResult, GetMermaidDiagramOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, GetMermaidDiagramOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	graph, err := db.ReadGraph(database)
	if err != nil {
		return nil, GetMermaidDiagramOutput{}, fmt.Errorf("failed to read graph: %w", err)
	}

	diagram, err := mermaid.Render(graph, mermaid.Options{
		Direction: input.Direction,
		Types:     input.Types,
		Focus:     input.Focus,
		Depth:     input.Depth,
	})
	if err != nil {
		return nil, GetMermaidDiagramOutput{}, fmt.Errorf("failed to render diagram: %w", err)
	}

	output := GetMermaidDiagramOutput{
		Diagram:   diagram,
		Entities:  len(graph.Entities),
		Relations: len(graph.Relations),
	}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: diagram,
			},
		},
	}

	return result, output, nil
}
