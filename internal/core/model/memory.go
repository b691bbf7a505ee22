package model

// Choices offered for each detected person when a memory is committed.
const (
	DecisionNew      = "new"
	DecisionExisting = "existing"
	DecisionIgnore   = "ignore"
)

// DefaultRelation labels a new person connected to the root without a typed
// relation.
const DefaultRelation = "Friend"

// Memory is a reviewed draft ready to become an event. EventID is assigned
// when the draft is created, so committing it twice updates one event.
type Memory struct {
	EventID   string `json:"event_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImagePath string `json:"image_path,omitempty"`
}

type Connection struct {
	Target string `json:"target" validate:"required"`
	Label  string `json:"label"`
}

// Decision is what the user chose for one detected person.
type Decision struct {
	Action string `json:"action" validate:"oneof=new existing ignore"`
	// Name of the person to create (new).
	Name string `json:"name,omitempty"`
	// NodeID of the person picked from the graph (existing).
	NodeID      string       `json:"node_id,omitempty" validate:"required_if=Action existing"`
	Relation    string       `json:"relation,omitempty"`
	Description string       `json:"description,omitempty"`
	Box         []float64    `json:"box_2d,omitempty" validate:"omitempty,len=4"`
	ConnectToMe bool         `json:"connect_to_me"`
	Connections []Connection `json:"connections,omitempty" validate:"dive"`
}
