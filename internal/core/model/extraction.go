package model

// DetectedEntity is one person the analysis collaborator found in an image or
// a journal text. The collaborator is untrusted; records are validated before
// anything derived from them reaches the store.
type DetectedEntity struct {
	Description      string `json:"description" validate:"required_without=Error"`
	SuggestedName    string `json:"suggested_name,omitempty"`
	RelationType     string `json:"relation_type,omitempty"`
	ConfidenceReason string `json:"confidence_reason,omitempty"`
	// Box is [ymin, xmin, ymax, xmax] on a 0-1000 scale.
	Box []float64 `json:"box_2d,omitempty" validate:"omitempty,len=4,dive,gte=0,lte=1000"`
	// Error is set on the single sentinel record returned when the call failed.
	Error string `json:"error,omitempty"`
}

// ErrorEntities wraps a collaborator failure into the sentinel sequence.
func ErrorEntities(msg string) []DetectedEntity {
	return []DetectedEntity{{Error: msg}}
}

// FailedAnalysis reports whether the sequence is the error sentinel.
func FailedAnalysis(entities []DetectedEntity) bool {
	return len(entities) > 0 && entities[0].Error != ""
}

// Matches the reply of the text diary prompt.
type MentionedPerson struct {
	Name        string `json:"name"`
	Relation    string `json:"relation"`
	Description string `json:"description"`
	Error       string `json:"error,omitempty"`
}

// MatchResult is the identity matcher's suggestion. It is never written to
// the store by itself.
type MatchResult struct {
	MatchFound    bool   `json:"match_found"`
	SuggestedID   string `json:"suggested_id,omitempty"`
	SuggestedName string `json:"suggested_name,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// NoMatch is the zero suggestion.
func NoMatch() MatchResult {
	return MatchResult{}
}
