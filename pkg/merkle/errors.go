package merkle

import "errors"

var (
	// ErrInvalidIndex is returned when a leaf index falls outside the tree.
	ErrInvalidIndex = errors.New("invalid leaf index")

	// ErrEmptyTree is returned when a proof is requested from a tree with no leaves.
	ErrEmptyTree = errors.New("merkle tree is empty")
)
