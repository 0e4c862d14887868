// ABOUTME: Tests for the KV key codec
// ABOUTME: Verifies prefixing and separator escaping in relation keys
package charm

import (
	"bytes"
	"testing"
)

func TestEntityKey(t *testing.T) {
	key := entityKey("auth-epic")
	if string(key) != "entity:auth-epic" {
		t.Errorf("got %q", key)
	}
}

func TestRelationKey(t *testing.T) {
	rec := RelationRecord{From: "login-story", To: "auth-epic", Type: "belongs_to"}
	key := relationKey(rec)
	if string(key) != `relation:login-story|belongs_to|auth-epic` {
		t.Errorf("got %q", key)
	}

	t.Run("stable across pushes", func(t *testing.T) {
		if !bytes.Equal(relationKey(rec), key) {
			t.Error("expected identical key for identical relation")
		}
	})

	t.Run("pipe in name does not collide", func(t *testing.T) {
		a := relationKey(RelationRecord{From: "a|b", Type: "c", To: "d"})
		b := relationKey(RelationRecord{From: "a", Type: "b|c", To: "d"})
		if bytes.Equal(a, b) {
			t.Errorf("distinct relations share key %q", a)
		}
	})

	t.Run("backslash is escaped", func(t *testing.T) {
		a := relationKey(RelationRecord{From: `a\`, Type: `|b`, To: "c"})
		b := relationKey(RelationRecord{From: "a", Type: `\|b`, To: "c"})
		if bytes.Equal(a, b) {
			t.Errorf("distinct relations share key %q", a)
		}
	})
}
