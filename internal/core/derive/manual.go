package derive

import (
	"time"

	"github.com/agenthands/deepmemory/internal/core/model"
)

// AddEdge upserts the edge for the pair. A new edge starts with weight 1 and
// the given interaction date; an existing one only has its label replaced.
// Either way the edge is marked manual. Self-loops are ignored; the second
// return value reports whether anything changed.
func AddEdge(edges []model.Edge, source, target, label, today string) ([]model.Edge, bool) {
	k := model.NewPairKey(source, target)
	if k.Loop() {
		return edges, false
	}

	if i := Find(edges, k); i >= 0 {
		edges[i] = edges[i].Canonical()
		edges[i].RelationType = label
		edges[i].Manual = true
		return edges, true
	}

	return append(edges, model.Edge{
		Source:          k.A,
		Target:          k.B,
		Weight:          1,
		LastInteraction: today,
		RelationType:    label,
		Manual:          true,
	}), true
}

// RemoveEdge drops every stored ordering of the pair.
func RemoveEdge(edges []model.Edge, source, target string) ([]model.Edge, bool) {
	k := model.NewPairKey(source, target)
	out := edges[:0]
	removed := false
	for _, e := range edges {
		if e.Key() == k {
			removed = true
			continue
		}
		out = append(out, e)
	}
	return out, removed
}

// Edge attributes settable through SetAttribute.
const (
	AttrRelationType    = "relation_type"
	AttrWeight          = "weight"
	AttrLastInteraction = "last_interaction"
)

// SetAttribute sets one named field on an existing edge. It reports false when
// the edge does not exist; an unknown attribute or a value of the wrong type
// returns an error. last_interaction must be a YYYY-MM-DD date.
func SetAttribute(edges []model.Edge, source, target, attr string, value interface{}) ([]model.Edge, bool, error) {
	i := Find(edges, model.NewPairKey(source, target))
	if i < 0 {
		return edges, false, nil
	}

	e := edges[i]
	switch attr {
	case AttrRelationType:
		s, ok := value.(string)
		if !ok {
			return edges, false, &AttributeError{Attr: attr, Value: value}
		}
		e.RelationType = s
	case AttrLastInteraction:
		s, ok := value.(string)
		if !ok {
			return edges, false, &AttributeError{Attr: attr, Value: value}
		}
		if _, err := time.Parse(model.DateLayout, s); err != nil {
			return edges, false, &AttributeError{Attr: attr, Value: value}
		}
		e.LastInteraction = s
	case AttrWeight:
		n, ok := toInt(value)
		if !ok || n < 0 {
			return edges, false, &AttributeError{Attr: attr, Value: value}
		}
		e.Weight = n
	default:
		return edges, false, &AttributeError{Attr: attr, Value: value}
	}

	edges[i] = e
	return edges, true, nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

type AttributeError struct {
	Attr  string
	Value interface{}
}

func (e *AttributeError) Error() string {
	return "invalid edge attribute " + e.Attr
}
