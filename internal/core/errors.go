package core

import "errors"

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrEventNotFound = errors.New("event not found")
	ErrEdgeNotFound  = errors.New("edge not found")
	// ErrRootNode is returned when deleting the permanent root node.
	ErrRootNode = errors.New("root node cannot be deleted")
	ErrInvalid  = errors.New("invalid record")
)
