// ABOUTME: Entity creation and management
// ABOUTME: Handles inserting entities with observations and deleting them
package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Entity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"entity_type"`
	Observations []string  `json:"observations"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Relation struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Type      string    `json:"relation_type"`
	CreatedAt time.Time `json:"created_at"`
}

type Graph struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}

// CreateEntities inserts new entities with their observations.
// Entities whose name already exists are skipped; only the entities
// actually created are returned.
func CreateEntities(db *sql.DB, entities []Entity) ([]Entity, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var created []Entity
	for _, entity := range entities {
		var exists int
		err := tx.QueryRow("SELECT COUNT(*) FROM entities WHERE name = ?", entity.Name).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if exists > 0 {
			continue
		}

		if entity.ID == "" {
			entity.ID = uuid.New().String()
		}

		_, err = tx.Exec(
			"INSERT INTO entities (id, name, entity_type) VALUES (?, ?, ?)",
			entity.ID, entity.Name, entity.Type,
		)
		if err != nil {
			return nil, err
		}

		entity.Observations = dedupe(entity.Observations)
		for _, obs := range entity.Observations {
			_, err := tx.Exec("INSERT INTO observations (entity_name, content) VALUES (?, ?)", entity.Name, obs)
			if err != nil {
				return nil, err
			}
		}

		created = append(created, entity)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return created, nil
}

// GetEntity retrieves a single entity by exact name.
// Returns nil (no error) when the entity does not exist.
func GetEntity(db *sql.DB, name string) (*Entity, error) {
	var entity Entity
	err := db.QueryRow(
		"SELECT id, name, entity_type, created_at, updated_at FROM entities WHERE name = ?", name,
	).Scan(&entity.ID, &entity.Name, &entity.Type, &entity.CreatedAt, &entity.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	obs, err := loadObservationsForEntities(db, []string{entity.Name})
	if err != nil {
		return nil, err
	}
	entity.Observations = obs[entity.Name]

	return &entity, nil
}

// DeleteEntities removes entities by name, cascading observations and
// relations. Returns the number of entities deleted.
func DeleteEntities(db *sql.DB, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(names))
	args := make([]interface{}, len(names))
	for i, name := range names {
		placeholders[i] = "?"
		args[i] = name
	}

	result, err := db.Exec(
		"DELETE FROM entities WHERE name IN ("+strings.Join(placeholders, ",")+")", args...,
	)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

// SetEntityType updates the type of an existing entity.
func SetEntityType(db *sql.DB, name, entityType string) error {
	_, err := db.Exec(
		"UPDATE entities SET entity_type = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?",
		entityType, name,
	)
	return err
}

// touchEntity bumps the updated_at timestamp for an entity.
func touchEntity(db *sql.DB, name string) error {
	_, err := db.Exec("UPDATE entities SET updated_at = CURRENT_TIMESTAMP WHERE name = ?", name)
	return err
}

// dedupe returns values with duplicates removed, order preserved.
func dedupe(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
