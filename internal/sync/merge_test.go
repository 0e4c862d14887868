// ABOUTME: Tests for entity merge planning during pull
// ABOUTME: Covers type precedence and observation set differences
package sync

import (
	"reflect"
	"testing"
	"time"

	"github.com/smian0/mcp-agile-flow-sub001/internal/charm"
	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

func TestPlanEntityMerge(t *testing.T) {
	now := time.Now()

	t.Run("newer remote type wins", func(t *testing.T) {
		local := &db.Entity{Type: "story", UpdatedAt: now.Add(-time.Hour)}
		remote := charm.EntityRecord{Type: "epic", UpdatedAt: now}

		plan := planEntityMerge(local, remote)
		if plan.SetType != "epic" {
			t.Errorf("got %q, want epic", plan.SetType)
		}
	})

	t.Run("older remote type ignored", func(t *testing.T) {
		local := &db.Entity{Type: "story", UpdatedAt: now}
		remote := charm.EntityRecord{Type: "epic", UpdatedAt: now.Add(-time.Hour)}

		plan := planEntityMerge(local, remote)
		if plan.SetType != "" {
			t.Errorf("expected local type to stand, got %q", plan.SetType)
		}
	})

	t.Run("same type no change", func(t *testing.T) {
		local := &db.Entity{Type: "story", UpdatedAt: now.Add(-time.Hour)}
		remote := charm.EntityRecord{Type: "story", UpdatedAt: now}

		plan := planEntityMerge(local, remote)
		if plan.SetType != "" {
			t.Errorf("expected no type change, got %q", plan.SetType)
		}
	})

	t.Run("empty remote type ignored", func(t *testing.T) {
		local := &db.Entity{Type: "story", UpdatedAt: now.Add(-time.Hour)}
		remote := charm.EntityRecord{UpdatedAt: now}

		plan := planEntityMerge(local, remote)
		if plan.SetType != "" {
			t.Errorf("expected no type change, got %q", plan.SetType)
		}
	})

	t.Run("missing observations added", func(t *testing.T) {
		local := &db.Entity{Observations: []string{"a", "b"}}
		remote := charm.EntityRecord{Observations: []string{"b", "c", "d"}}

		plan := planEntityMerge(local, remote)
		if !reflect.DeepEqual(plan.AddObservations, []string{"c", "d"}) {
			t.Errorf("got %v, want [c d]", plan.AddObservations)
		}
	})

	t.Run("no missing observations", func(t *testing.T) {
		local := &db.Entity{Observations: []string{"a", "b"}}
		remote := charm.EntityRecord{Observations: []string{"a"}}

		plan := planEntityMerge(local, remote)
		if len(plan.AddObservations) != 0 {
			t.Errorf("expected empty plan, got %v", plan.AddObservations)
		}
	})
}
