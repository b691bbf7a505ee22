package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/avatar"
	"github.com/agenthands/deepmemory/internal/core/derive"
	"github.com/agenthands/deepmemory/internal/core/model"
)

type pendingRelation struct {
	id    string
	label string
}

// CommitMemory turns a reviewed draft into graph records: new people are
// created, manual connections added, and the event is upserted under the
// draft's id. Everything is validated before the first write.
func (m *Manager) CommitMemory(ctx context.Context, mem model.Memory, decisions []model.Decision) (model.Event, error) {
	if err := m.validateCommit(ctx, mem, decisions); err != nil {
		return model.Event{}, err
	}

	participants := []string{}
	var relations []pendingRelation

	for i, d := range decisions {
		switch d.Action {
		case model.DecisionNew:
			if d.Name == "" {
				continue
			}
			node, err := m.SaveNode(ctx, m.newPerson(mem, i, d))
			if err != nil {
				return model.Event{}, err
			}

			if d.ConnectToMe {
				label := d.Relation
				if label == "" {
					label = model.DefaultRelation
				}
				participants = append(participants, model.RootID)
				if _, err := m.AddEdge(ctx, model.RootID, node.ID, label); err != nil {
					return model.Event{}, err
				}
			}
			for _, c := range d.Connections {
				if _, err := m.AddEdge(ctx, node.ID, c.Target, c.Label); err != nil {
					return model.Event{}, err
				}
			}
			participants = append(participants, node.ID)

		case model.DecisionExisting:
			participants = append(participants, model.RootID, d.NodeID)
			if d.Relation != "" {
				relations = append(relations, pendingRelation{id: d.NodeID, label: d.Relation})
			}
		}
	}

	// Every memory is the root's memory
	participants = append(participants, model.RootID)

	title := mem.Title
	if title == "" {
		title = mem.Date + " Memory"
	}
	images := []string{}
	if mem.ImagePath != "" {
		images = append(images, mem.ImagePath)
	}

	event, err := m.SaveEvent(ctx, model.Event{
		ID:           mem.EventID,
		Title:        title,
		Date:         mem.Date,
		Content:      mem.Content,
		JournalText:  mem.Content,
		Images:       images,
		RelatedNodes: participants,
	})
	if err != nil {
		return model.Event{}, err
	}

	// The derived root edges exist now
	for _, r := range relations {
		if _, err := m.UpdateEdgeAttribute(ctx, model.RootID, r.id, derive.AttrRelationType, r.label); err != nil {
			return model.Event{}, err
		}
	}

	m.Log.Info("memory committed",
		zap.String("event", event.ID),
		zap.Int("participants", len(event.RelatedNodes)))
	return event, nil
}

func (m *Manager) validateCommit(ctx context.Context, mem model.Memory, decisions []model.Decision) error {
	if err := model.Validate(mem); err != nil {
		return invalid(err)
	}

	nodes, err := m.Store.Nodes(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	for i, d := range decisions {
		if err := model.Validate(d); err != nil {
			return invalid(fmt.Errorf("decision %d: %v", i, err))
		}
		if d.Action == model.DecisionExisting && !known[d.NodeID] {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, d.NodeID)
		}
		if d.Action != model.DecisionNew {
			continue
		}
		for _, c := range d.Connections {
			if !known[c.Target] {
				return fmt.Errorf("%w: %s", ErrNodeNotFound, c.Target)
			}
		}
	}
	return nil
}

// newPerson builds the node for a "new" decision. Its id is derived from the
// event id and the decision position, so a retried commit finds the same node.
func (m *Manager) newPerson(mem model.Memory, index int, d model.Decision) model.Node {
	id := personID(mem.EventID, index)
	n := model.Node{
		ID:          id,
		Name:        d.Name,
		Type:        model.NodeTypePerson,
		Description: d.Description,
		CreatedAt:   m.today(),
		AvatarType:  model.AvatarImage,
	}

	if m.AvatarDir != "" && mem.ImagePath != "" && len(d.Box) == 4 {
		path := filepath.Join(m.AvatarDir, id+".png")
		if err := avatar.Crop(mem.ImagePath, d.Box, path); err != nil {
			m.Log.Warn("failed to save avatar", zap.String("node", id), zap.Error(err))
		} else {
			n.AvatarValue = path
		}
	}
	return n
}

func personID(eventID string, index int) string {
	ns, err := uuid.Parse(eventID)
	if err != nil {
		ns = uuid.NameSpaceURL
	}
	return uuid.NewSHA1(ns, []byte(eventID+"/"+strconv.Itoa(index))).String()
}
