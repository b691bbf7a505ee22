// Package derive turns the event history into the relationship edge set.
package derive

import (
	"sort"

	"github.com/agenthands/deepmemory/internal/core/model"
)

// Edges recomputes the authoritative edge set.
//
// Every event contributes one interaction to (root, p) for each non-root
// participant p and to every pair of non-root participants. Weight counts those
// interactions and LastInteraction is the lexically greatest event date.
//
// current is only consulted for labels and the manual flag, keyed by canonical
// pair. Manual edges no event supports are carried over unchanged; any other
// edge without event support is dropped. The result is canonical and sorted.
func Edges(events []model.Event, current []model.Edge) []model.Edge {
	cache := make(map[model.PairKey]model.Edge, len(current))
	for _, e := range current {
		k := e.Key()
		if k.Loop() {
			continue
		}
		prev, seen := cache[k]
		if !seen {
			cache[k] = e.Canonical()
			continue
		}
		// Hand-edited stores can hold both orderings; keep any label and manual flag.
		if prev.RelationType == "" {
			prev.RelationType = e.RelationType
		}
		prev.Manual = prev.Manual || e.Manual
		cache[k] = prev
	}

	derived := make(map[model.PairKey]*model.Edge)
	touch := func(a, b, date string) {
		k := model.NewPairKey(a, b)
		if k.Loop() {
			return
		}
		e, ok := derived[k]
		if !ok {
			old := cache[k]
			e = &model.Edge{
				Source:       k.A,
				Target:       k.B,
				RelationType: old.RelationType,
				Manual:       old.Manual,
			}
			derived[k] = e
		}
		e.Weight++
		if date > e.LastInteraction {
			e.LastInteraction = date
		}
	}

	for _, ev := range events {
		participants := ev.Participants()

		var others []string
		for _, p := range participants {
			if p == model.RootID {
				continue
			}
			others = append(others, p)
			touch(model.RootID, p, ev.Date)
		}

		for i := 0; i < len(others); i++ {
			for j := i + 1; j < len(others); j++ {
				touch(others[i], others[j], ev.Date)
			}
		}
	}

	out := make([]model.Edge, 0, len(derived))
	for _, e := range derived {
		out = append(out, *e)
	}
	for k, e := range cache {
		if _, ok := derived[k]; ok || !e.Manual {
			continue
		}
		out = append(out, e)
	}

	Sort(out)
	return out
}

// Sort orders edges by (source, target).
func Sort(edges []model.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
}

// Find returns the index of the edge for the pair, or -1.
func Find(edges []model.Edge, k model.PairKey) int {
	for i, e := range edges {
		if e.Key() == k {
			return i
		}
	}
	return -1
}
