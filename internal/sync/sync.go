// ABOUTME: Cloud sync between the local SQLite graph and the Charm KV store
// ABOUTME: Push mirrors local records to KV; pull merges KV records back
package sync

import (
	"database/sql"
	"fmt"

	"github.com/smian0/mcp-agile-flow-sub001/internal/charm"
	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

// Syncer moves knowledge graph records between SQLite and the Charm KV store.
type Syncer struct {
	client *charm.Client
	appDB  *sql.DB
}

// NewSyncer creates a syncer over an open database.
func NewSyncer(client *charm.Client, appDB *sql.DB) *Syncer {
	return &Syncer{client: client, appDB: appDB}
}

// PushResult reports what a push wrote to the KV store.
type PushResult struct {
	Entities  int
	Relations int
}

// Push mirrors the full local graph into the KV store. Record keys encode
// identity, so repeated pushes are idempotent; charm handles cloud sync.
func (s *Syncer) Push() (*PushResult, error) {
	graph, err := db.ReadGraph(s.appDB)
	if err != nil {
		return nil, fmt.Errorf("read local graph: %w", err)
	}

	entities := make([]charm.EntityRecord, 0, len(graph.Entities))
	for _, entity := range graph.Entities {
		entities = append(entities, charm.EntityRecord{
			ID:           entity.ID,
			Name:         entity.Name,
			Type:         entity.Type,
			Observations: entity.Observations,
			CreatedAt:    entity.CreatedAt,
			UpdatedAt:    entity.UpdatedAt,
		})
	}

	relations := make([]charm.RelationRecord, 0, len(graph.Relations))
	for _, rel := range graph.Relations {
		relations = append(relations, charm.RelationRecord{
			ID:        rel.ID,
			From:      rel.From,
			To:        rel.To,
			Type:      rel.Type,
			CreatedAt: rel.CreatedAt,
		})
	}

	if err := s.client.PutGraph(entities, relations); err != nil {
		return nil, fmt.Errorf("push graph: %w", err)
	}

	return &PushResult{Entities: len(entities), Relations: len(relations)}, nil
}

// PushEntity mirrors a single entity and the relations it participates in
// to the KV store. Returns an error when the entity does not exist locally.
func (s *Syncer) PushEntity(name string) (*PushResult, error) {
	graph, err := db.ReadGraph(s.appDB)
	if err != nil {
		return nil, fmt.Errorf("read local graph: %w", err)
	}

	entity, relations, ok := recordsForEntity(graph, name)
	if !ok {
		return nil, fmt.Errorf("entity %q not found", name)
	}

	if err := s.client.PutEntity(entity); err != nil {
		return nil, err
	}
	for _, rel := range relations {
		if err := s.client.PutRelation(rel); err != nil {
			return nil, err
		}
	}

	return &PushResult{Entities: 1, Relations: len(relations)}, nil
}

// RemoveEntity deletes an entity record and the relation records touching
// it from the KV store. Returns false when no record existed remotely.
// The local graph is not touched.
func (s *Syncer) RemoveEntity(name string) (bool, error) {
	remote, err := s.client.GetEntityRecord(name)
	if err != nil {
		return false, err
	}
	if remote == nil {
		return false, nil
	}

	_, remoteRelations, err := s.client.ListGraph()
	if err != nil {
		return false, err
	}
	for _, rel := range remoteRelations {
		if rel.From != name && rel.To != name {
			continue
		}
		if err := s.client.DeleteRelation(rel); err != nil {
			return false, err
		}
	}

	if err := s.client.DeleteEntity(name); err != nil {
		return false, err
	}
	return true, nil
}

// recordsForEntity extracts one entity and the relations it participates
// in from a graph, as KV records.
func recordsForEntity(graph *db.Graph, name string) (charm.EntityRecord, []charm.RelationRecord, bool) {
	var entity charm.EntityRecord
	found := false
	for _, e := range graph.Entities {
		if e.Name != name {
			continue
		}
		entity = charm.EntityRecord{
			ID:           e.ID,
			Name:         e.Name,
			Type:         e.Type,
			Observations: e.Observations,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.UpdatedAt,
		}
		found = true
		break
	}
	if !found {
		return charm.EntityRecord{}, nil, false
	}

	var relations []charm.RelationRecord
	for _, rel := range graph.Relations {
		if rel.From != name && rel.To != name {
			continue
		}
		relations = append(relations, charm.RelationRecord{
			ID:        rel.ID,
			From:      rel.From,
			To:        rel.To,
			Type:      rel.Type,
			CreatedAt: rel.CreatedAt,
		})
	}

	return entity, relations, true
}

// PullResult reports what a pull changed locally.
type PullResult struct {
	EntitiesCreated   int
	EntitiesUpdated   int
	ObservationsAdded int
	RelationsCreated  int
}

// Pull merges KV records into the local database. Entities merge by name
// with union-of-observations; the newer updated_at wins for the entity type.
// Relations merge by (from, type, to) identity.
func (s *Syncer) Pull() (*PullResult, error) {
	remoteEntities, remoteRelations, err := s.client.ListGraph()
	if err != nil {
		return nil, err
	}

	result := &PullResult{}

	for _, remote := range remoteEntities {
		local, err := db.GetEntity(s.appDB, remote.Name)
		if err != nil {
			return nil, fmt.Errorf("load entity %s: %w", remote.Name, err)
		}

		if local == nil {
			_, err := db.CreateEntities(s.appDB, []db.Entity{{
				ID:           remote.ID,
				Name:         remote.Name,
				Type:         remote.Type,
				Observations: remote.Observations,
			}})
			if err != nil {
				return nil, fmt.Errorf("create entity %s: %w", remote.Name, err)
			}
			result.EntitiesCreated++
			continue
		}

		plan := planEntityMerge(local, remote)
		if plan.SetType != "" {
			if err := db.SetEntityType(s.appDB, remote.Name, plan.SetType); err != nil {
				return nil, fmt.Errorf("update entity %s: %w", remote.Name, err)
			}
			result.EntitiesUpdated++
		}
		if len(plan.AddObservations) > 0 {
			added, err := db.AddObservations(s.appDB, remote.Name, plan.AddObservations)
			if err != nil {
				return nil, fmt.Errorf("merge observations for %s: %w", remote.Name, err)
			}
			result.ObservationsAdded += len(added)
		}
	}

	relations := make([]db.Relation, 0, len(remoteRelations))
	for _, rel := range remoteRelations {
		relations = append(relations, db.Relation{
			ID:   rel.ID,
			From: rel.From,
			To:   rel.To,
			Type: rel.Type,
		})
	}
	created, _, err := db.CreateRelations(s.appDB, relations)
	if err != nil {
		return nil, fmt.Errorf("merge relations: %w", err)
	}
	result.RelationsCreated = len(created)

	return result, nil
}
