package model

// Graph is the read-only view handed to the renderer.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Stats mirrors the sidebar counters.
type Stats struct {
	Nodes  int `json:"nodes"`
	Edges  int `json:"edges"`
	Events int `json:"events"`
}
