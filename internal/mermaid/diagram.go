// ABOUTME: Mermaid flowchart rendering for the knowledge graph
// ABOUTME: Supports direction, type filters, and focus-entity neighborhoods
package mermaid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

// Options controls diagram rendering.
type Options struct {
	// Direction is the Mermaid flow direction: TD, LR, BT, or RL.
	Direction string
	// Types limits the diagram to entities of these types.
	Types []string
	// Focus limits the diagram to the neighborhood of this entity.
	Focus string
	// Depth is the neighborhood radius around Focus (default 1).
	Depth int
}

var validDirections = map[string]bool{"TD": true, "LR": true, "BT": true, "RL": true}

// Render produces a Mermaid flowchart for the graph.
func Render(graph *db.Graph, opts Options) (string, error) {
	direction := strings.ToUpper(opts.Direction)
	if direction == "" {
		direction = "TD"
	}
	if !validDirections[direction] {
		return "", fmt.Errorf("invalid diagram direction %q (want TD, LR, BT, or RL)", opts.Direction)
	}

	include := selectEntities(graph, opts)

	var sb strings.Builder
	sb.WriteString("graph " + direction + "\n")

	// Stable node ids: entities in graph order
	ids := make(map[string]string)
	for _, entity := range graph.Entities {
		if !include[entity.Name] {
			continue
		}
		id := nodeID(entity.Name, ids)
		ids[entity.Name] = id
		label := entity.Name
		if entity.Type != "" {
			label = fmt.Sprintf("%s<br/><i>%s</i>", entity.Name, entity.Type)
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, escapeLabel(label)))
	}

	for _, rel := range graph.Relations {
		from, okFrom := ids[rel.From]
		to, okTo := ids[rel.To]
		if !okFrom || !okTo {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", from, escapeLabel(rel.Type), to))
	}

	return sb.String(), nil
}

// selectEntities applies the type filter and focus neighborhood.
func selectEntities(graph *db.Graph, opts Options) map[string]bool {
	include := make(map[string]bool)

	typeFilter := make(map[string]bool)
	for _, typ := range opts.Types {
		typeFilter[strings.ToLower(typ)] = true
	}

	for _, entity := range graph.Entities {
		if len(typeFilter) > 0 && !typeFilter[strings.ToLower(entity.Type)] {
			continue
		}
		include[entity.Name] = true
	}

	if opts.Focus == "" {
		return include
	}

	depth := opts.Depth
	if depth <= 0 {
		depth = 1
	}

	// Undirected adjacency over the included entities
	adjacent := make(map[string][]string)
	for _, rel := range graph.Relations {
		if !include[rel.From] || !include[rel.To] {
			continue
		}
		adjacent[rel.From] = append(adjacent[rel.From], rel.To)
		adjacent[rel.To] = append(adjacent[rel.To], rel.From)
	}

	// BFS from the focus entity
	reached := map[string]bool{opts.Focus: true}
	frontier := []string{opts.Focus}
	for hop := 0; hop < depth; hop++ {
		var next []string
		for _, name := range frontier {
			for _, neighbor := range adjacent[name] {
				if reached[neighbor] {
					continue
				}
				reached[neighbor] = true
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	for name := range include {
		if !reached[name] {
			delete(include, name)
		}
	}

	return include
}

// nodeID derives a stable Mermaid identifier from an entity name.
func nodeID(name string, taken map[string]string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	id := sb.String()
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = "n" + id
	}

	// Disambiguate collisions (e.g. "a b" vs "a_b")
	existing := make(map[string]bool, len(taken))
	for _, v := range taken {
		existing[v] = true
	}
	candidate := id
	for i := 2; existing[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d", id, i)
	}
	return candidate
}

// escapeLabel makes a string safe inside a Mermaid node or edge label.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	s = strings.ReplaceAll(s, "|", "/")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// TypeLegend returns a sorted "type: count" summary line for a graph.
// Empty for an empty graph.
func TypeLegend(graph *db.Graph) string {
	counts := make(map[string]int)
	for _, entity := range graph.Entities {
		counts[entity.Type]++
	}

	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, typ)
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, typ := range types {
		parts = append(parts, fmt.Sprintf("%s: %d", typ, counts[typ]))
	}
	return strings.Join(parts, ", ")
}
