package model

// DateLayout is the only accepted date format. Dates compare lexically.
const DateLayout = "2006-01-02"

type Event struct {
	ID           string   `json:"id" yaml:"id" validate:"required"`
	Title        string   `json:"title" yaml:"title"`
	Date         string   `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Content      string   `json:"content" yaml:"content"`
	JournalText  string   `json:"journal_text" yaml:"journal_text"`
	Images       []string `json:"images" yaml:"images"`
	RelatedNodes []string `json:"related_nodes" yaml:"related_nodes" validate:"dive,required"`
}

// Involves reports whether id is among the event participants.
func (e Event) Involves(id string) bool {
	for _, p := range e.RelatedNodes {
		if p == id {
			return true
		}
	}
	return false
}

// Participants returns the related nodes with duplicates and blanks removed,
// keeping first-seen order.
func (e Event) Participants() []string {
	seen := make(map[string]bool, len(e.RelatedNodes))
	out := make([]string, 0, len(e.RelatedNodes))
	for _, p := range e.RelatedNodes {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// EventPatch holds the fields of a partial event update. Nil fields are left
// untouched.
type EventPatch struct {
	Title        *string   `json:"title,omitempty"`
	Date         *string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Content      *string   `json:"content,omitempty"`
	Images       *[]string `json:"images,omitempty"`
	RelatedNodes *[]string `json:"related_nodes,omitempty"`
}

// Apply merges the patch into e. Content and JournalText stay in sync.
func (p EventPatch) Apply(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Content != nil {
		e.Content = *p.Content
		e.JournalText = *p.Content
	}
	if p.Images != nil {
		e.Images = append([]string(nil), (*p.Images)...)
	}
	if p.RelatedNodes != nil {
		e.RelatedNodes = append([]string(nil), (*p.RelatedNodes)...)
	}
	return e
}
