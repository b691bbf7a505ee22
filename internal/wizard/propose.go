package wizard

import (
	"strings"

	"github.com/agenthands/deepmemory/internal/core/model"
)

// Propose pre-fills one decision per entity. A suggested name that already
// belongs to someone, ignoring case, selects that person, any other suggested name becomes a
// new person, and failing that an identity match selects the matched person.
// matches is index-aligned with entities and may be shorter.
func Propose(entities []model.DetectedEntity, matches []model.MatchResult, known []model.Node) []model.Decision {
	if model.FailedAnalysis(entities) {
		return []model.Decision{}
	}

	byName := make(map[string]string, len(known))
	for _, n := range known {
		if n.IsRoot() {
			continue
		}
		key := strings.ToLower(n.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = n.ID
		}
	}

	out := make([]model.Decision, 0, len(entities))
	for i, e := range entities {
		d := model.Decision{
			Action:      model.DecisionNew,
			Relation:    e.RelationType,
			Description: e.Description,
			Box:         e.Box,
			ConnectToMe: true,
		}

		switch {
		case e.SuggestedName != "":
			if id, ok := byName[strings.ToLower(e.SuggestedName)]; ok {
				d.Action = model.DecisionExisting
				d.NodeID = id
			} else {
				d.Name = e.SuggestedName
			}
		case i < len(matches) && matches[i].MatchFound:
			d.Action = model.DecisionExisting
			d.NodeID = matches[i].SuggestedID
		}

		out = append(out, d)
	}
	return out
}
