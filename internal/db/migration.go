// ABOUTME: One-time import of legacy JSONL memory files
// ABOUTME: Converts line-delimited entity/relation records into SQLite
package db

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

const legacyMemoryFile = "memory.jsonl"

// legacyRecord matches the line format of the old file-backed memory store:
// one JSON object per line, discriminated by a "type" field.
type legacyRecord struct {
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	EntityType   string   `json:"entityType"`
	Observations []string `json:"observations"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	RelationType string   `json:"relationType"`
}

// importLegacyMemory imports a legacy memory.jsonl file into an empty
// database, then renames the file so the import runs only once.
// Missing file or non-empty database are both no-ops.
func importLegacyMemory(db *sql.DB, path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open legacy memory file: %w", err)
	}
	defer f.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM entities").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var entities []Entity
	var relations []Relation

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		var rec legacyRecord
		if err := json.Unmarshal(text, &rec); err != nil {
			return fmt.Errorf("parse legacy memory line %d: %w", line, err)
		}

		switch rec.Type {
		case "entity":
			entities = append(entities, Entity{
				Name:         rec.Name,
				Type:         rec.EntityType,
				Observations: rec.Observations,
			})
		case "relation":
			relations = append(relations, Relation{
				From: rec.From,
				To:   rec.To,
				Type: rec.RelationType,
			})
		default:
			// Unknown record types are skipped, not fatal
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read legacy memory file: %w", err)
	}

	if _, err := CreateEntities(db, entities); err != nil {
		return fmt.Errorf("import legacy entities: %w", err)
	}
	if _, _, err := CreateRelations(db, relations); err != nil {
		return fmt.Errorf("import legacy relations: %w", err)
	}

	if err := os.Rename(path, path+".imported"); err != nil {
		return fmt.Errorf("rename legacy memory file: %w", err)
	}

	return nil
}
