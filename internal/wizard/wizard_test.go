package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/deepmemory/internal/core/model"
)

type recordingCommitter struct {
	mem       model.Memory
	decisions []model.Decision
	calls     int
	err       error
}

func (r *recordingCommitter) CommitMemory(ctx context.Context, mem model.Memory, decisions []model.Decision) (model.Event, error) {
	r.calls++
	r.mem = mem
	r.decisions = decisions
	if r.err != nil {
		return model.Event{}, r.err
	}
	return model.Event{ID: mem.EventID, Date: mem.Date}, nil
}

func TestNewDraft_AssignsEventID(t *testing.T) {
	a := NewDraft("2024-05-01", "", "picnic", "", "")
	b := NewDraft("2024-05-01", "", "picnic", "", "")
	assert.NotEmpty(t, a.EventID)
	assert.NotEqual(t, a.EventID, b.EventID)
}

func TestSession_HappyPath(t *testing.T) {
	s := NewSession("s1")
	assert.Equal(t, StateInput, s.State())

	draft := NewDraft("2024-05-01", "Picnic", "Lunch in the park", "Tom in red", "uploads/p.jpg")
	entities := []model.DetectedEntity{{Description: "Man in red", Box: []float64{1, 2, 3, 4}}}
	require.NoError(t, s.Analyze(draft, entities, nil))
	assert.Equal(t, StateReview, s.State())

	c := &recordingCommitter{}
	event, err := s.Commit(context.Background(), c, []model.Decision{{Action: model.DecisionNew, Name: "Tom"}})
	require.NoError(t, err)

	assert.Equal(t, draft.EventID, event.ID)
	assert.Equal(t, draft.Memory(), c.mem)
	require.Len(t, c.decisions, 1)
	assert.Equal(t, "Man in red", c.decisions[0].Description)
	assert.Equal(t, []float64{1, 2, 3, 4}, c.decisions[0].Box)

	assert.Equal(t, StateInput, s.State())
	assert.Nil(t, s.Snapshot().Draft)
}

func TestSession_CommitFailureStaysInReview(t *testing.T) {
	s := NewSession("s1")
	draft := NewDraft("2024-05-01", "", "x", "", "")
	require.NoError(t, s.Analyze(draft, nil, nil))

	c := &recordingCommitter{err: errors.New("disk full")}
	_, err := s.Commit(context.Background(), c, nil)
	require.Error(t, err)
	assert.Equal(t, StateReview, s.State())

	c.err = nil
	_, err = s.Commit(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, draft.EventID, c.mem.EventID, "retry targets the same event")
}

func TestSession_FailedAnalysisCannotCommit(t *testing.T) {
	s := NewSession("s1")
	require.NoError(t, s.Analyze(NewDraft("2024-05-01", "", "", "", ""), model.ErrorEntities("model down"), nil))

	snap := s.Snapshot()
	assert.True(t, snap.Failed)
	assert.Equal(t, StateReview, snap.State)

	c := &recordingCommitter{}
	_, err := s.Commit(context.Background(), c, nil)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Zero(t, c.calls)

	require.NoError(t, s.Back())
	assert.Equal(t, StateInput, s.State())
}

func TestSession_IllegalTransitions(t *testing.T) {
	s := NewSession("s1")

	assert.ErrorIs(t, s.Back(), ErrWrongState)
	_, err := s.Commit(context.Background(), &recordingCommitter{}, nil)
	assert.ErrorIs(t, err, ErrWrongState)

	require.NoError(t, s.Analyze(NewDraft("2024-05-01", "", "", "", ""), nil, nil))
	assert.ErrorIs(t, s.Analyze(NewDraft("2024-05-02", "", "", "", ""), nil, nil), ErrWrongState)
}

func TestSession_BackClearsDraft(t *testing.T) {
	s := NewSession("s1")
	require.NoError(t, s.Analyze(NewDraft("2024-05-01", "", "", "", ""), []model.DetectedEntity{{Description: "a"}}, nil))
	require.NoError(t, s.Back())

	snap := s.Snapshot()
	assert.Nil(t, snap.Draft)
	assert.Empty(t, snap.Entities)
}

func TestPropose(t *testing.T) {
	known := []model.Node{
		model.NewRootNode("2024-01-01"),
		{ID: "n-alice", Name: "Alice"},
	}
	entities := []model.DetectedEntity{
		{Description: "d0", SuggestedName: "Alice", RelationType: "Sister"},
		{Description: "d1", SuggestedName: "Zed"},
		{Description: "d2"},
		{Description: "d3"},
	}
	matches := []model.MatchResult{{}, {}, {MatchFound: true, SuggestedID: "n-alice"}}

	got := Propose(entities, matches, known)
	require.Len(t, got, 4)

	assert.Equal(t, model.DecisionExisting, got[0].Action)
	assert.Equal(t, "n-alice", got[0].NodeID)
	assert.Equal(t, "Sister", got[0].Relation)

	assert.Equal(t, model.DecisionNew, got[1].Action)
	assert.Equal(t, "Zed", got[1].Name)

	assert.Equal(t, model.DecisionExisting, got[2].Action)
	assert.Equal(t, "n-alice", got[2].NodeID)

	assert.Equal(t, model.DecisionNew, got[3].Action)
	assert.Empty(t, got[3].Name)
	assert.True(t, got[3].ConnectToMe)
}

func TestPropose_NameMatchIgnoresCase(t *testing.T) {
	known := []model.Node{{ID: "n-alice", Name: "Alice"}}
	entities := []model.DetectedEntity{{Description: "Mentioned in text", SuggestedName: "alice"}}

	got := Propose(entities, nil, known)
	require.Len(t, got, 1)
	assert.Equal(t, model.DecisionExisting, got[0].Action)
	assert.Equal(t, "n-alice", got[0].NodeID)
	assert.Empty(t, got[0].Name)
}

func TestPropose_FailedAnalysis(t *testing.T) {
	assert.Empty(t, Propose(model.ErrorEntities("x"), nil, nil))
}
