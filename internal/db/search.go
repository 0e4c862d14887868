// ABOUTME: Knowledge graph search and exact-name lookup
// ABOUTME: Case-insensitive substring match over names, types, and observations
package db

import (
	"database/sql"
	"strings"
	"time"
)

type SearchParams struct {
	Query string
	Types []string
	Since *time.Time
	Until *time.Time
	Limit int
}

// SearchNodes returns the subgraph of entities matching the parameters,
// including relations between the matched entities.
func SearchNodes(db *sql.DB, params SearchParams) (*Graph, error) {
	query := "SELECT DISTINCT e.id, e.name, e.entity_type, e.created_at, e.updated_at FROM entities e"
	var conditions []string
	var args []interface{}

	// Substring search over name, type, and observation content
	if params.Query != "" {
		query += " LEFT JOIN observations o ON o.entity_name = e.name"
		pattern := "%" + escapeLike(params.Query) + "%"
		conditions = append(conditions,
			"(e.name LIKE ? ESCAPE '\\' OR e.entity_type LIKE ? ESCAPE '\\' OR o.content LIKE ? ESCAPE '\\')")
		args = append(args, pattern, pattern, pattern)
	}

	// Entity type filter
	if len(params.Types) > 0 {
		placeholders := make([]string, len(params.Types))
		for i, typ := range params.Types {
			placeholders[i] = "?"
			args = append(args, typ)
		}
		conditions = append(conditions, "e.entity_type IN ("+strings.Join(placeholders, ",")+")")
	}

	// Date range
	if params.Since != nil {
		conditions = append(conditions, "e.created_at >= ?")
		args = append(args, params.Since)
	}
	if params.Until != nil {
		conditions = append(conditions, "e.created_at <= ?")
		args = append(args, params.Until)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY e.created_at DESC"

	if params.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, params.Limit)
	}

	return queryGraph(db, query, args)
}

// OpenNodes retrieves entities by exact name. Unknown names are silently
// skipped. Only relations between the returned entities are included.
func OpenNodes(db *sql.DB, names []string) (*Graph, error) {
	if len(names) == 0 {
		return &Graph{}, nil
	}

	placeholders := make([]string, len(names))
	args := make([]interface{}, len(names))
	for i, name := range names {
		placeholders[i] = "?"
		args[i] = name
	}

	query := "SELECT id, name, entity_type, created_at, updated_at FROM entities WHERE name IN (" +
		strings.Join(placeholders, ",") + ") ORDER BY created_at"

	return queryGraph(db, query, args)
}

// queryGraph runs an entity query and hydrates observations and relations.
func queryGraph(db *sql.DB, query string, args []interface{}) (*Graph, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	graph := &Graph{}
	var names []string
	for rows.Next() {
		var entity Entity
		err := rows.Scan(&entity.ID, &entity.Name, &entity.Type, &entity.CreatedAt, &entity.UpdatedAt)
		if err != nil {
			return nil, err
		}
		graph.Entities = append(graph.Entities, entity)
		names = append(names, entity.Name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return graph, nil
	}

	// Load all observations in one query instead of N queries
	obs, err := loadObservationsForEntities(db, names)
	if err != nil {
		return nil, err
	}
	for i := range graph.Entities {
		graph.Entities[i].Observations = obs[graph.Entities[i].Name]
	}

	graph.Relations, err = loadRelationsBetween(db, names)
	if err != nil {
		return nil, err
	}

	return graph, nil
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
