package model

// RootID is the id of the permanent "Me" node at the center of the graph.
const RootID = "root_me"

const (
	NodeTypePerson = "person"

	AvatarImage = "image"
	AvatarColor = "color"
)

type Node struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Type        string `json:"type" yaml:"type" validate:"oneof=person"`
	Description string `json:"description" yaml:"description"`
	CreatedAt   string `json:"created_at" yaml:"created_at" validate:"omitempty,datetime=2006-01-02"`
	AvatarType  string `json:"avatar_type" yaml:"avatar_type" validate:"omitempty,oneof=image color"`
	AvatarValue string `json:"avatar_value,omitempty" yaml:"avatar_value,omitempty" validate:"required_if=AvatarType color"`
}

// IsRoot reports whether n is the "Me" node.
func (n Node) IsRoot() bool {
	return n.ID == RootID
}

// NewRootNode returns the node a factory reset seeds the graph with.
func NewRootNode(createdAt string) Node {
	return Node{
		ID:          RootID,
		Name:        "Me",
		Type:        NodeTypePerson,
		Description: "The center of the universe",
		CreatedAt:   createdAt,
		AvatarType:  AvatarColor,
		AvatarValue: "#2C3E50",
	}
}
