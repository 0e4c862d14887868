// ABOUTME: Knowledge graph record layout in the Charm KV store
// ABOUTME: Uses type-prefixed keys (entity:name, relation:from|type|to)
package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// EntityRecord is the KV payload for one entity.
type EntityRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"entity_type"`
	Observations []string  `json:"observations"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RelationRecord is the KV payload for one relation.
type RelationRecord struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Type      string    `json:"relation_type"`
	CreatedAt time.Time `json:"created_at"`
}

// escapeKeyPart escapes the relation key separator so names containing
// "|" cannot collide two distinct relation identities.
func escapeKeyPart(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	return s
}

// entityKey returns the KV key for an entity.
func entityKey(name string) []byte {
	return []byte(EntityPrefix + name)
}

// relationKey returns the KV key for a relation. The key encodes the
// relation identity so repeated pushes stay idempotent.
func relationKey(rec RelationRecord) []byte {
	return []byte(RelationPrefix +
		escapeKeyPart(rec.From) + "|" + escapeKeyPart(rec.Type) + "|" + escapeKeyPart(rec.To))
}

// PutEntity stores an entity record.
func (c *Client) PutEntity(rec EntityRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("entity name required")
	}
	if err := c.SetJSON(entityKey(rec.Name), rec); err != nil {
		return fmt.Errorf("put entity: %w", err)
	}
	return nil
}

// PutRelation stores a relation record.
func (c *Client) PutRelation(rec RelationRecord) error {
	if rec.From == "" || rec.To == "" {
		return fmt.Errorf("relation endpoints required")
	}
	if err := c.SetJSON(relationKey(rec), rec); err != nil {
		return fmt.Errorf("put relation: %w", err)
	}
	return nil
}

// GetEntityRecord retrieves an entity record by name.
// Returns nil (no error) when the record does not exist.
func (c *Client) GetEntityRecord(name string) (*EntityRecord, error) {
	var rec EntityRecord
	err := c.GetJSON(entityKey(name), &rec)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}
	return &rec, nil
}

// DeleteRelation removes a relation record by its identity.
func (c *Client) DeleteRelation(rec RelationRecord) error {
	if err := c.Delete(relationKey(rec)); err != nil {
		return fmt.Errorf("delete relation: %w", err)
	}
	return nil
}

// DeleteEntity removes an entity record by name.
func (c *Client) DeleteEntity(name string) error {
	if err := c.Delete(entityKey(name)); err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	return nil
}

// PutGraph writes all records in a single KV transaction.
func (c *Client) PutGraph(entities []EntityRecord, relations []RelationRecord) error {
	return c.Do(func(k *kv.KV) error {
		for _, rec := range entities {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal entity %s: %w", rec.Name, err)
			}
			if err := k.Set(entityKey(rec.Name), data); err != nil {
				return fmt.Errorf("set entity %s: %w", rec.Name, err)
			}
		}
		for _, rec := range relations {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal relation: %w", err)
			}
			if err := k.Set(relationKey(rec), data); err != nil {
				return fmt.Errorf("set relation: %w", err)
			}
		}
		return nil
	})
}

// ListGraph reads all entity and relation records from the KV store.
func (c *Client) ListGraph() ([]EntityRecord, []RelationRecord, error) {
	var entities []EntityRecord
	var relations []RelationRecord

	err := c.DoReadOnly(func(k *kv.KV) error {
		return k.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()

			for it.Rewind(); it.Valid(); it.Next() {
				item := it.Item()
				key := string(item.Key())
				err := item.Value(func(val []byte) error {
					switch {
					case strings.HasPrefix(key, EntityPrefix):
						var rec EntityRecord
						if err := json.Unmarshal(val, &rec); err != nil {
							// Skip invalid records (corrupted data) - intentionally ignoring error
							return nil //nolint:nilerr
						}
						entities = append(entities, rec)
					case strings.HasPrefix(key, RelationPrefix):
						var rec RelationRecord
						if err := json.Unmarshal(val, &rec); err != nil {
							return nil //nolint:nilerr
						}
						relations = append(relations, rec)
					}
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	})

	if err != nil {
		return nil, nil, fmt.Errorf("list graph: %w", err)
	}

	return entities, relations, nil
}
