// ABOUTME: Pure merge planning for pulled entity records
// ABOUTME: Union-of-observations, newest updated_at wins for entity type
package sync

import (
	"github.com/smian0/mcp-agile-flow-sub001/internal/charm"
	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

// mergePlan describes the local changes needed to absorb a remote entity.
type mergePlan struct {
	// SetType is the new entity type, empty when the local type stands.
	SetType string
	// AddObservations are remote observations missing locally.
	AddObservations []string
}

// planEntityMerge compares a local entity with its remote record.
func planEntityMerge(local *db.Entity, remote charm.EntityRecord) mergePlan {
	plan := mergePlan{}

	if remote.Type != "" && remote.Type != local.Type && remote.UpdatedAt.After(local.UpdatedAt) {
		plan.SetType = remote.Type
	}

	present := make(map[string]bool, len(local.Observations))
	for _, obs := range local.Observations {
		present[obs] = true
	}
	for _, obs := range remote.Observations {
		if !present[obs] {
			plan.AddObservations = append(plan.AddObservations, obs)
		}
	}

	return plan
}
