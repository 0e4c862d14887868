// ABOUTME: MCP tool implementations for the knowledge graph
// ABOUTME: Create, search, open, and delete entities, relations, and observations
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

// EntityInput describes one entity to create.
type EntityInput struct {
	Name         string   `json:"name" jsonschema:"Unique entity name" jsonschema_extras:"required=true"`
	EntityType   string   `json:"entity_type" jsonschema:"Entity type (e.g. epic, story, sprint, decision)" jsonschema_extras:"required=true"`
	Observations []string `json:"observations,omitempty" jsonschema:"Free-text annotations attached to the entity"`
}

// RelationInput describes one relation between two entities.
type RelationInput struct {
	From         string `json:"from" jsonschema:"Source entity name" jsonschema_extras:"required=true"`
	To           string `json:"to" jsonschema:"Target entity name" jsonschema_extras:"required=true"`
	RelationType string `json:"relation_type" jsonschema:"Relation type (e.g. blocks, implements, belongs_to)"`
}

// EntityData is an entity as returned by graph tools.
type EntityData struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	EntityType   string   `json:"entity_type"`
	Observations []string `json:"observations,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

// RelationData is a relation as returned by graph tools.
type RelationData struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relation_type"`
}

// GraphData is a subgraph returned by search, open, and read tools.
type GraphData struct {
	Entities  []EntityData   `json:"entities"`
	Relations []RelationData `json:"relations"`
}

// addTool registers a typed tool handler and records it for introspection.
func addTool[In, Out any](s *Server, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) {
	mcp.AddTool(s.mcpServer, tool, handler)
	s.tools = append(s.tools, ToolInfo{Name: tool.Name, Description: tool.Description})
}

// registerTools adds all tools to the server.
func (s *Server) registerTools() {
	s.registerSettingsTool()
	s.registerGraphTools()
	s.registerDiagramTool()
}

// registerGraphTools adds the knowledge graph tools.
func (s *Server) registerGraphTools() {
	addTool(s, &mcp.Tool{
		Name:        "create_entities",
		Description: "Create entities in the agile knowledge graph. Existing names are left untouched. Use for epics, stories, sprints, people, decisions, and other workflow records.",
	}, s.handleCreateEntities)

	addTool(s, &mcp.Tool{
		Name:        "add_observations",
		Description: "Append free-text observations to an existing entity. Duplicate observations are skipped.",
	}, s.handleAddObservations)

	addTool(s, &mcp.Tool{
		Name:        "create_relations",
		Description: "Create typed directed relations between existing entities (e.g. story belongs_to epic). Duplicates and relations with unknown endpoints are skipped and reported.",
	}, s.handleCreateRelations)

	addTool(s, &mcp.Tool{
		Name:        "delete_entities",
		Description: "Delete entities by name, removing their observations and any relations that reference them.",
	}, s.handleDeleteEntities)

	addTool(s, &mcp.Tool{
		Name:        "delete_observations",
		Description: "Remove specific observations from an entity.",
	}, s.handleDeleteObservations)

	addTool(s, &mcp.Tool{
		Name:        "delete_relations",
		Description: "Delete relations by from/to/type. Omitting the type removes all relations between the two entities.",
	}, s.handleDeleteRelations)

	addTool(s, &mcp.Tool{
		Name:        "search_nodes",
		Description: "Search the knowledge graph. Matches entity names, types, and observation text (case-insensitive substring). Supports type filters and natural-language date ranges.",
	}, s.handleSearchNodes)

	addTool(s, &mcp.Tool{
		Name:        "open_nodes",
		Description: "Open entities by exact name, including relations between the opened entities. Unknown names are skipped.",
	}, s.handleOpenNodes)

	addTool(s, &mcp.Tool{
		Name:        "read_graph",
		Description: "Read the entire knowledge graph: all entities with observations plus all relations.",
	}, s.handleReadGraph)
}

// CreateEntitiesInput defines the input for create_entities.
type CreateEntitiesInput struct {
	Entities []EntityInput `json:"entities" jsonschema:"Entities to create" jsonschema_extras:"required=true"`
}

// CreateEntitiesOutput defines the output for create_entities.
type CreateEntitiesOutput struct {
	Created []EntityData `json:"created"`
	Skipped []string     `json:"skipped,omitempty"`
}

func (s *Server) handleCreateEntities(ctx context.Context, req *mcp.CallToolRequest, input CreateEntitiesInput) (*mcp.CallToolResult, CreateEntitiesOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, CreateEntitiesOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	entities := make([]db.Entity, 0, len(input.Entities))
	for _, in := range input.Entities {
		if in.Name == "" {
			return nil, CreateEntitiesOutput{}, fmt.Errorf("entity name is required")
		}
		entities = append(entities, db.Entity{
			Name:         in.Name,
			Type:         in.EntityType,
			Observations: in.Observations,
		})
	}

	created, err := db.CreateEntities(database, entities)
	if err != nil {
		return nil, CreateEntitiesOutput{}, fmt.Errorf("failed to create entities: %w", err)
	}

	output := CreateEntitiesOutput{Created: toEntityData(created)}
	createdNames := make(map[string]bool)
	for _, entity := range created {
		createdNames[entity.Name] = true
		s.logEvent("entity created", entity.Name, entity.Type)
	}
	for _, in := range input.Entities {
		if !createdNames[in.Name] {
			output.Skipped = append(output.Skipped, in.Name)
		}
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Created %d entities (%d skipped as existing)", len(output.Created), len(output.Skipped)),
			},
		},
	}

	return result, output, nil
}

// AddObservationsInput defines the input for add_observations.
type AddObservationsInput struct {
	Name         string   `json:"name" jsonschema:"Entity to annotate" jsonschema_extras:"required=true"`
	Observations []string `json:"observations" jsonschema:"Observations to append" jsonschema_extras:"required=true"`
}

// AddObservationsOutput defines the output for add_observations.
type AddObservationsOutput struct {
	Name  string   `json:"name"`
	Added []string `json:"added"`
}

func (s *Server) handleAddObservations(ctx context.Context, req *mcp.CallToolRequest, input AddObservationsInput) (*mcp.CallToolResult, AddObservationsOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, AddObservationsOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	added, err := db.AddObservations(database, input.Name, input.Observations)
	if err != nil {
		return nil, AddObservationsOutput{}, fmt.Errorf("failed to add observations: %w", err)
	}

	if len(added) > 0 {
		s.logEvent("observations added", input.Name, strings.Join(added, "; "))
	}

	output := AddObservationsOutput{Name: input.Name, Added: added}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Added %d observations to %s", len(added), input.Name),
			},
		},
	}

	return result, output, nil
}

// CreateRelationsInput defines the input for create_relations.
type CreateRelationsInput struct {
	Relations []RelationInput `json:"relations" jsonschema:"Relations to create" jsonschema_extras:"required=true"`
}

// CreateRelationsOutput defines the output for create_relations.
type CreateRelationsOutput struct {
	Created []RelationData `json:"created"`
	Skipped []RelationData `json:"skipped,omitempty"`
}

func (s *Server) handleCreateRelations(ctx context.Context, req *mcp.CallToolRequest, input CreateRelationsInput) (*mcp.CallToolResult, CreateRelationsOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, CreateRelationsOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	relations := make([]db.Relation, 0, len(input.Relations))
	for _, in := range input.Relations {
		relations = append(relations, db.Relation{
			From: in.From,
			To:   in.To,
			Type: in.RelationType,
		})
	}

	created, skipped, err := db.CreateRelations(database, relations)
	if err != nil {
		return nil, CreateRelationsOutput{}, fmt.Errorf("failed to create relations: %w", err)
	}

	for _, rel := range created {
		s.logEvent("relation created", rel.From, fmt.Sprintf("%s -> %s (%s)", rel.From, rel.To, rel.Type))
	}

	output := CreateRelationsOutput{
		Created: toRelationData(created),
		Skipped: toRelationData(skipped),
	}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Created %d relations (%d skipped)", len(output.Created), len(output.Skipped)),
			},
		},
	}

	return result, output, nil
}

// DeleteEntitiesInput defines the input for delete_entities.
type DeleteEntitiesInput struct {
	Names []string `json:"names" jsonschema:"Entity names to delete" jsonschema_extras:"required=true"`
}

// DeleteEntitiesOutput defines the output for delete_entities.
type DeleteEntitiesOutput struct {
	Deleted int `json:"deleted"`
}

func (s *Server) handleDeleteEntities(ctx context.Context, req *mcp.CallToolRequest, input DeleteEntitiesInput) (*mcp.CallToolResult, DeleteEntitiesOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, DeleteEntitiesOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	deleted, err := db.DeleteEntities(database, input.Names)
	if err != nil {
		return nil, DeleteEntitiesOutput{}, fmt.Errorf("failed to delete entities: %w", err)
	}

	if deleted > 0 {
		s.logEvent("entities deleted", strings.Join(input.Names, ", "), "")
	}

	output := DeleteEntitiesOutput{Deleted: deleted}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Deleted %d entities", deleted),
			},
		},
	}

	return result, output, nil
}

// DeleteObservationsInput defines the input for delete_observations.
type DeleteObservationsInput struct {
	Name         string   `json:"name" jsonschema:"Entity to edit" jsonschema_extras:"required=true"`
	Observations []string `json:"observations" jsonschema:"Observations to remove" jsonschema_extras:"required=true"`
}

// DeleteObservationsOutput defines the output for delete_observations.
type DeleteObservationsOutput struct {
	Name    string `json:"name"`
	Deleted int    `json:"deleted"`
}

func (s *Server) handleDeleteObservations(ctx context.Context, req *mcp.CallToolRequest, input DeleteObservationsInput) (*mcp.CallToolResult, DeleteObservationsOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, DeleteObservationsOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	deleted, err := db.DeleteObservations(database, input.Name, input.Observations)
	if err != nil {
		return nil, DeleteObservationsOutput{}, fmt.Errorf("failed to delete observations: %w", err)
	}

	output := DeleteObservationsOutput{Name: input.Name, Deleted: deleted}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Deleted %d observations from %s", deleted, input.Name),
			},
		},
	}

	return result, output, nil
}

// DeleteRelationsInput defines the input for delete_relations.
type DeleteRelationsInput struct {
	Relations []RelationInput `json:"relations" jsonschema:"Relations to delete (empty relation_type matches all types)" jsonschema_extras:"required=true"`
}

// DeleteRelationsOutput defines the output for delete_relations.
type DeleteRelationsOutput struct {
	Deleted int `json:"deleted"`
}

func (s *Server) handleDeleteRelations(ctx context.Context, req *mcp.CallToolRequest, input DeleteRelationsInput) (*mcp.CallToolResult, DeleteRelationsOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, DeleteRelationsOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	relations := make([]db.Relation, 0, len(input.Relations))
	for _, in := range input.Relations {
		relations = append(relations, db.Relation{From: in.From, To: in.To, Type: in.RelationType})
	}

	deleted, err := db.DeleteRelations(database, relations)
	if err != nil {
		return nil, DeleteRelationsOutput{}, fmt.Errorf("failed to delete relations: %w", err)
	}

	output := DeleteRelationsOutput{Deleted: deleted}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Deleted %d relations", deleted),
			},
		},
	}

	return result, output, nil
}

// SearchNodesInput defines the input for search_nodes.
type SearchNodesInput struct {
	Query string   `json:"query,omitempty" jsonschema:"Text matched against names, types, and observations"`
	Types []string `json:"types,omitempty" jsonschema:"Restrict results to these entity types"`
	Since string   `json:"since,omitempty" jsonschema:"Only entities created after this date (natural language or ISO)"`
	Until string   `json:"until,omitempty" jsonschema:"Only entities created before this date (natural language or ISO)"`
	Limit int      `json:"limit,omitempty" jsonschema:"Maximum entities to return (default 50)"`
}

// SearchNodesOutput defines the output for search_nodes.
type SearchNodesOutput struct {
	Graph GraphData `json:"graph"`
	Count int       `json:"count"`
}

func (s *Server) handleSearchNodes(ctx context.Context, req *mcp.CallToolRequest, input SearchNodesInput) (*mcp.CallToolResult, SearchNodesOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, SearchNodesOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	params := db.SearchParams{
		Query: input.Query,
		Types: input.Types,
		Limit: input.Limit,
	}
	if params.Limit <= 0 {
		params.Limit = 50
	}

	if input.Since != "" {
		since, err := dateparse.ParseAny(input.Since)
		if err != nil {
			return nil, SearchNodesOutput{}, fmt.Errorf("invalid since date: %w", err)
		}
		params.Since = &since
	}
	if input.Until != "" {
		until, err := dateparse.ParseAny(input.Until)
		if err != nil {
			return nil, SearchNodesOutput{}, fmt.Errorf("invalid until date: %w", err)
		}
		params.Until = &until
	}

	graph, err := db.SearchNodes(database, params)
	if err != nil {
		return nil, SearchNodesOutput{}, fmt.Errorf("failed to search nodes: %w", err)
	}

	output := SearchNodesOutput{Graph: toGraphData(graph), Count: len(graph.Entities)}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Found %d entities and %d relations", len(graph.Entities), len(graph.Relations)),
			},
		},
	}

	return result, output, nil
}

// OpenNodesInput defines the input for open_nodes.
type OpenNodesInput struct {
	Names []string `json:"names" jsonschema:"Exact entity names to open" jsonschema_extras:"required=true"`
}

// OpenNodesOutput defines the output for open_nodes.
type OpenNodesOutput struct {
	Graph GraphData `json:"graph"`
	Count int       `json:"count"`
}

func (s *Server) handleOpenNodes(ctx context.Context, req *mcp.CallToolRequest, input OpenNodesInput) (*mcp.CallToolResult, OpenNodesOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, OpenNodesOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	graph, err := db.OpenNodes(database, input.Names)
	if err != nil {
		return nil, OpenNodesOutput{}, fmt.Errorf("failed to open nodes: %w", err)
	}

	output := OpenNodesOutput{Graph: toGraphData(graph), Count: len(graph.Entities)}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Opened %d of %d requested entities", len(graph.Entities), len(input.Names)),
			},
		},
	}

	return result, output, nil
}

// ReadGraphInput defines the (empty) input for read_graph.
type ReadGraphInput struct{}

// ReadGraphOutput defines the output for read_graph.
type ReadGraphOutput struct {
	Graph GraphData `json:"graph"`
}

func (s *Server) handleReadGraph(ctx context.Context, req *mcp.CallToolRequest, input ReadGraphInput) (*mcp.CallToolResult, ReadGraphOutput, error) {
	database, err := db.InitDB(s.dbPath)
	if err != nil {
		return nil, ReadGraphOutput{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	graph, err := db.ReadGraph(database)
	if err != nil {
		return nil, ReadGraphOutput{}, fmt.Errorf("failed to read graph: %w", err)
	}

	output := ReadGraphOutput{Graph: toGraphData(graph)}
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Graph has %d entities and %d relations", len(graph.Entities), len(graph.Relations)),
			},
		},
	}

	return result, output, nil
}

func toEntityData(entities []db.Entity) []EntityData {
	out := make([]EntityData, 0, len(entities))
	for _, entity := range entities {
		created := ""
		if !entity.CreatedAt.IsZero() {
			created = entity.CreatedAt.Format("2006-01-02 15:04:05")
		}
		out = append(out, EntityData{
			ID:           entity.ID,
			Name:         entity.Name,
			EntityType:   entity.Type,
			Observations: entity.Observations,
			CreatedAt:    created,
		})
	}
	return out
}

func toRelationData(relations []db.Relation) []RelationData {
	out := make([]RelationData, 0, len(relations))
	for _, rel := range relations {
		out = append(out, RelationData{From: rel.From, To: rel.To, RelationType: rel.Type})
	}
	return out
}

func toGraphData(graph *db.Graph) GraphData {
	return GraphData{
		Entities:  toEntityData(graph.Entities),
		Relations: toRelationData(graph.Relations),
	}
}
