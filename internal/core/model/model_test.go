package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPairKey_IsUnordered(t *testing.T) {
	assert.Equal(t, NewPairKey("bob", "alice"), NewPairKey("alice", "bob"))
	k := NewPairKey("bob", "alice")
	assert.Equal(t, "alice", k.A)
	assert.True(t, k.Has("bob"))
	assert.False(t, k.Has("carol"))
	assert.True(t, NewPairKey("x", "x").Loop())
	assert.Equal(t, k, Edge{Source: "bob", Target: "alice"}.Key())
}

func TestParticipants(t *testing.T) {
	e := Event{RelatedNodes: []string{"b", "", "a", "b", RootID}}
	assert.Equal(t, []string{"b", "a", RootID}, e.Participants())
	assert.True(t, e.Involves("a"))
	assert.False(t, e.Involves("c"))
}

func TestEventPatch_Apply(t *testing.T) {
	title := "Beach"
	content := "Sunset swim"
	people := []string{"a"}
	orig := Event{ID: "e1", Title: "Old", Date: "2024-01-01", Content: "old", JournalText: "old", RelatedNodes: []string{"a", "b"}}

	got := EventPatch{Title: &title, Content: &content, RelatedNodes: &people}.Apply(orig)

	assert.Equal(t, "Beach", got.Title)
	assert.Equal(t, "2024-01-01", got.Date)
	assert.Equal(t, "Sunset swim", got.Content)
	assert.Equal(t, "Sunset swim", got.JournalText)
	assert.Equal(t, []string{"a"}, got.RelatedNodes)

	// The patch slice is copied, not shared.
	people[0] = "z"
	assert.Equal(t, []string{"a"}, got.RelatedNodes)
	assert.Equal(t, []string{"a", "b"}, orig.RelatedNodes)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  interface{}
		wantErr bool
	}{
		{"root node", NewRootNode("2024-01-01"), false},
		{"node without name", Node{ID: "a", Type: NodeTypePerson}, true},
		{"node with unknown type", Node{ID: "a", Name: "A", Type: "place"}, true},
		{"color avatar without value", Node{ID: "a", Name: "A", Type: NodeTypePerson, AvatarType: AvatarColor}, true},
		{"node with bad date", Node{ID: "a", Name: "A", Type: NodeTypePerson, CreatedAt: "15/03/2024"}, true},
		{"event", Event{ID: "e", Date: "2024-03-15"}, false},
		{"event with bad date", Event{ID: "e", Date: "March 15"}, true},
		{"event with blank participant", Event{ID: "e", Date: "2024-03-15", RelatedNodes: []string{""}}, true},
		{"self loop edge", Edge{Source: "a", Target: "a"}, true},
		{"negative weight", Edge{Source: "a", Target: "b", Weight: -1}, true},
		{"existing decision without node", Decision{Action: DecisionExisting}, true},
		{"new decision", Decision{Action: DecisionNew, Name: "Ann", Box: []float64{1, 2, 3, 4}}, false},
		{"short box", Decision{Action: DecisionNew, Box: []float64{1, 2}}, true},
		{"unknown action", Decision{Action: "merge"}, true},
		{"connection without target", Decision{Action: DecisionNew, Connections: []Connection{{Label: "Friend"}}}, true},
		{"memory without event id", Memory{Date: "2024-03-15"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.record)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
