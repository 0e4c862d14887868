// ABOUTME: Relation creation and management
// ABOUTME: Handles typed directed links between entities
package db

import (
	"database/sql"

	"github.com/google/uuid"
)

// CreateRelations inserts new relations. Duplicates (same from/to/type) and
// relations referencing unknown entities are skipped, not errors; the skipped
// ones are reported back so callers can surface them.
func CreateRelations(db *sql.DB, relations []Relation) (created []Relation, skipped []Relation, err error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, rel := range relations {
		var endpoints int
		err := tx.QueryRow(
			"SELECT COUNT(*) FROM entities WHERE name IN (?, ?)", rel.From, rel.To,
		).Scan(&endpoints)
		if err != nil {
			return nil, nil, err
		}
		// Self-relations count one endpoint row
		want := 2
		if rel.From == rel.To {
			want = 1
		}
		if endpoints < want {
			skipped = append(skipped, rel)
			continue
		}

		var exists int
		err = tx.QueryRow(
			"SELECT COUNT(*) FROM relations WHERE from_entity = ? AND to_entity = ? AND relation_type = ?",
			rel.From, rel.To, rel.Type,
		).Scan(&exists)
		if err != nil {
			return nil, nil, err
		}
		if exists > 0 {
			skipped = append(skipped, rel)
			continue
		}

		if rel.ID == "" {
			rel.ID = uuid.New().String()
		}

		_, err = tx.Exec(
			"INSERT INTO relations (id, from_entity, to_entity, relation_type) VALUES (?, ?, ?, ?)",
			rel.ID, rel.From, rel.To, rel.Type,
		)
		if err != nil {
			return nil, nil, err
		}

		created = append(created, rel)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return created, skipped, nil
}

// DeleteRelations removes relations matching from/to/type. An empty Type
// matches all relation types between the two entities.
func DeleteRelations(db *sql.DB, relations []Relation) (int, error) {
	total := 0
	for _, rel := range relations {
		var result sql.Result
		var err error
		if rel.Type == "" {
			result, err = db.Exec(
				"DELETE FROM relations WHERE from_entity = ? AND to_entity = ?", rel.From, rel.To,
			)
		} else {
			result, err = db.Exec(
				"DELETE FROM relations WHERE from_entity = ? AND to_entity = ? AND relation_type = ?",
				rel.From, rel.To, rel.Type,
			)
		}
		if err != nil {
			return total, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, err
		}
		total += int(affected)
	}
	return total, nil
}

// loadRelationsBetween returns relations whose endpoints are both in names.
func loadRelationsBetween(db *sql.DB, names []string) ([]Relation, error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := ""
	args := make([]interface{}, 0, len(names)*2)
	for i, name := range names {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args = append(args, name)
	}
	for _, name := range names {
		args = append(args, name)
	}

	query := "SELECT id, from_entity, to_entity, relation_type, created_at FROM relations" +
		" WHERE from_entity IN (" + placeholders + ") AND to_entity IN (" + placeholders + ")" +
		" ORDER BY created_at"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []Relation
	for rows.Next() {
		var rel Relation
		if err := rows.Scan(&rel.ID, &rel.From, &rel.To, &rel.Type, &rel.CreatedAt); err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}

	return relations, rows.Err()
}
