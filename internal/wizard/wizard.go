// Package wizard is the two-step memory capture flow: a draft is analysed
// (input -> review), then either committed or abandoned (review -> input).
// Sessions belong to the UI layer; the core only sees the final commit.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/agenthands/deepmemory/internal/core/model"
)

type State string

const (
	StateInput  State = "input"
	StateReview State = "review"
)

var (
	ErrWrongState     = errors.New("operation not allowed in current state")
	ErrAnalysisFailed = errors.New("analysis failed, go back and retry")
)

// Draft is the memory being captured. EventID is fixed when the draft is
// created, so every commit of it targets the same event.
type Draft struct {
	EventID      string `json:"event_id"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	ContextClues string `json:"context_clues"`
	ImagePath    string `json:"image_path,omitempty"`
}

func NewDraft(date, title, content, clues, imagePath string) Draft {
	return Draft{
		EventID:      uuid.New().String(),
		Date:         date,
		Title:        title,
		Content:      content,
		ContextClues: clues,
		ImagePath:    imagePath,
	}
}

func (d Draft) Memory() model.Memory {
	return model.Memory{
		EventID:   d.EventID,
		Date:      d.Date,
		Title:     d.Title,
		Content:   d.Content,
		ImagePath: d.ImagePath,
	}
}

// Committer persists a reviewed memory.
type Committer interface {
	CommitMemory(ctx context.Context, mem model.Memory, decisions []model.Decision) (model.Event, error)
}

type Session struct {
	mu sync.Mutex

	id        string
	state     State
	draft     *Draft
	entities  []model.DetectedEntity
	proposals []model.Decision
}

// Snapshot is a read-only copy of a session for the UI.
type Snapshot struct {
	ID        string                 `json:"id"`
	State     State                  `json:"state"`
	Draft     *Draft                 `json:"draft,omitempty"`
	Entities  []model.DetectedEntity `json:"entities"`
	Proposals []model.Decision       `json:"proposals"`
	Failed    bool                   `json:"failed"`
}

func NewSession(id string) *Session {
	return &Session{id: id, state: StateInput}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Analyze stores the analysis outcome and moves to review. A failed
// analysis still moves to review so the error can be shown; it just cannot
// be committed.
func (s *Session) Analyze(d Draft, entities []model.DetectedEntity, proposals []model.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInput {
		return fmt.Errorf("%w: analyze in %s", ErrWrongState, s.state)
	}
	if d.EventID == "" {
		d.EventID = uuid.New().String()
	}
	if entities == nil {
		entities = []model.DetectedEntity{}
	}
	if proposals == nil {
		proposals = []model.Decision{}
	}

	s.draft = &d
	s.entities = entities
	s.proposals = proposals
	s.state = StateReview
	return nil
}

// Back abandons the review and clears the draft.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReview {
		return fmt.Errorf("%w: back in %s", ErrWrongState, s.state)
	}
	s.reset()
	return nil
}

// Commit hands the draft and decisions to c. Decisions are index-aligned
// with the detected entities; description and box are filled in from the
// entity when the decision leaves them out. On success the session returns
// to input; on failure it stays in review so the commit can be retried.
func (s *Session) Commit(ctx context.Context, c Committer, decisions []model.Decision) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReview {
		return model.Event{}, fmt.Errorf("%w: commit in %s", ErrWrongState, s.state)
	}
	if model.FailedAnalysis(s.entities) {
		return model.Event{}, ErrAnalysisFailed
	}

	filled := make([]model.Decision, len(decisions))
	for i, d := range decisions {
		if i < len(s.entities) {
			e := s.entities[i]
			if d.Description == "" {
				d.Description = e.Description
			}
			if d.Box == nil {
				d.Box = e.Box
			}
		}
		filled[i] = d
	}

	event, err := c.CommitMemory(ctx, s.draft.Memory(), filled)
	if err != nil {
		return model.Event{}, err
	}
	s.reset()
	return event, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		Entities:  append([]model.DetectedEntity{}, s.entities...),
		Proposals: append([]model.Decision{}, s.proposals...),
		Failed:    model.FailedAnalysis(s.entities),
	}
	if s.draft != nil {
		d := *s.draft
		snap.Draft = &d
	}
	return snap
}

func (s *Session) reset() {
	s.state = StateInput
	s.draft = nil
	s.entities = nil
	s.proposals = nil
}
