// ABOUTME: Full graph reads and statistics
// ABOUTME: Backs the read_graph tool and the graph-summary resource
package db

import (
	"database/sql"
)

// ReadGraph returns the entire knowledge graph, entities ordered by creation.
func ReadGraph(db *sql.DB) (*Graph, error) {
	query := "SELECT id, name, entity_type, created_at, updated_at FROM entities ORDER BY created_at"

	rows, err := db.Query(query)
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

	if len(names) > 0 {
		obs, err := loadObservationsForEntities(db, names)
		if err != nil {
			return nil, err
		}
		for i := range graph.Entities {
			graph.Entities[i].Observations = obs[graph.Entities[i].Name]
		}
	}

	relQuery := "SELECT id, from_entity, to_entity, relation_type, created_at FROM relations ORDER BY created_at"
	relRows, err := db.Query(relQuery)
	if err != nil {
		return nil, err
	}
	defer relRows.Close()

	for relRows.Next() {
		var rel Relation
		if err := relRows.Scan(&rel.ID, &rel.From, &rel.To, &rel.Type, &rel.CreatedAt); err != nil {
			return nil, err
		}
		graph.Relations = append(graph.Relations, rel)
	}
	if err := relRows.Err(); err != nil {
		return nil, err
	}

	return graph, nil
}

type GraphStats struct {
	EntityCount      int            `json:"entity_count"`
	RelationCount    int            `json:"relation_count"`
	ObservationCount int            `json:"observation_count"`
	EntityTypes      map[string]int `json:"entity_types"`
}

// Stats returns counts for the graph-summary resource and the CLI.
func Stats(db *sql.DB) (*GraphStats, error) {
	stats := &GraphStats{EntityTypes: make(map[string]int)}

	if err := db.QueryRow("SELECT COUNT(*) FROM entities").Scan(&stats.EntityCount); err != nil {
		return nil, err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM relations").Scan(&stats.RelationCount); err != nil {
		return nil, err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM observations").Scan(&stats.ObservationCount); err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT entity_type, COUNT(*) FROM entities GROUP BY entity_type ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, err
		}
		stats.EntityTypes[typ] = count
	}

	return stats, rows.Err()
}
