// ABOUTME: MCP prompt definitions for agileflow
// ABOUTME: Provides static context to AI assistants about agileflow capabilities
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts adds static prompts to the MCP server.
func (s *Server) registerPrompts() {
	prompt := &mcp.Prompt{
		Name:        "agile-flow-getting-started",
		Description: "Introduction to agileflow and how AI assistants should use it",
	}

	handler := func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		content := `Agileflow is a persistent knowledge graph for agile workflow context: epics, stories, sprints, people, decisions, and the relations between them.

When to use agileflow:
- A new epic, story, or decision comes up: create_entities
- Something notable happens to an existing record: add_observations
- Work items depend on or implement each other: create_relations
- You need context on past work: search_nodes or open_nodes
- The user asks for a picture of how things connect: get_mermaid_diagram
- At the start of a session: get_project_settings, then read_graph or search_nodes to load context

Best practices:
- Entity names are unique identifiers; keep them short and stable ("sprint-42", "auth-epic")
- Use consistent entity types (epic, story, sprint, person, decision)
- Prefer small focused observations over one long paragraph
- Record relations in active voice: story implements epic, bug blocks story

The user has configured agileflow to track their team's agile workflow across sessions.`

		result := &mcp.GetPromptResult{
			Description: "Getting started with agileflow",
			Messages: []*mcp.PromptMessage{
				{
					Role: "user",
					Content: &mcp.TextContent{
						Text: content,
					},
				},
			},
		}

		return result, nil
	}

	s.mcpServer.AddPrompt(prompt, handler)
}
