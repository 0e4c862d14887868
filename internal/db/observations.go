// ABOUTME: Observation management for entities
// ABOUTME: Handles appending and deleting free-text annotations
package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// AddObservations appends observations to an existing entity, skipping any
// that are already present. Returns the observations actually added.
func AddObservations(db *sql.DB, entityName string, observations []string) ([]string, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM entities WHERE name = ?", entityName).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("entity %q not found", entityName)
	}

	existing, err := loadObservationsForEntities(db, []string{entityName})
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool)
	for _, obs := range existing[entityName] {
		present[obs] = true
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var added []string
	for _, obs := range dedupe(observations) {
		if present[obs] {
			continue
		}
		_, err := tx.Exec("INSERT INTO observations (entity_name, content) VALUES (?, ?)", entityName, obs)
		if err != nil {
			return nil, err
		}
		added = append(added, obs)
	}

	if len(added) > 0 {
		_, err = tx.Exec("UPDATE entities SET updated_at = CURRENT_TIMESTAMP WHERE name = ?", entityName)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return added, nil
}

// DeleteObservations removes the given observations from an entity.
// Returns the number of observations deleted.
func DeleteObservations(db *sql.DB, entityName string, observations []string) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(observations))
	args := []interface{}{entityName}
	for i, obs := range observations {
		placeholders[i] = "?"
		args = append(args, obs)
	}

	result, err := db.Exec(
		"DELETE FROM observations WHERE entity_name = ? AND content IN ("+strings.Join(placeholders, ",")+")",
		args...,
	)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		if err := touchEntity(db, entityName); err != nil {
			return 0, err
		}
	}

	return int(affected), nil
}

// loadObservationsForEntities loads observations for multiple entities in a single query
func loadObservationsForEntities(db *sql.DB, names []string) (map[string][]string, error) {
	if len(names) == 0 {
		return make(map[string][]string), nil
	}

	// Build IN clause with placeholders
	placeholders := make([]string, len(names))
	args := make([]interface{}, len(names))
	for i, name := range names {
		placeholders[i] = "?"
		args[i] = name
	}

	query := "SELECT entity_name, content FROM observations WHERE entity_name IN (" +
		strings.Join(placeholders, ",") + ") ORDER BY id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Group observations by entity name
	obsMap := make(map[string][]string)
	for rows.Next() {
		var name, content string
		if err := rows.Scan(&name, &content); err != nil {
			return nil, err
		}
		obsMap[name] = append(obsMap[name], content)
	}

	return obsMap, rows.Err()
}
