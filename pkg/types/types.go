package types

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Layr-Labs/merkletree-go/pkg/merkle"
)

// treeIDNamespace scopes the name-based UUIDs derived by TreeID.
var treeIDNamespace = uuid.MustParse("6f1b3c2e-8d4a-5e7f-9a0b-1c2d3e4f5a6b")

// TreeID derives a stable ID from the tree's hash algorithm and root, so the
// same records hashed the same way always get the same ID.
func TreeID(mt *merkle.MerkleTree) uuid.UUID {
	return uuid.NewSHA1(treeIDNamespace, []byte(mt.Hasher().Algorithm().String()+":"+mt.Root().String()))
}

// TreeReport is the read-only view of a built tree handed to renderers.
type TreeReport struct {
	// ID correlates a tree with the proofs cut from it
	ID            uuid.UUID            `json:"id"`
	HashAlgorithm merkle.HashAlgorithm `json:"hash_algorithm"`
	LeafCount     int                  `json:"leaf_count"`

	// Depth is the number of layers above the leaves
	Depth  int               `json:"depth"`
	Layers [][]merkle.Digest `json:"layers"`
	Root   merkle.Digest     `json:"root"`
}

// ProofReport is an inclusion proof plus everything needed to check it.
type ProofReport struct {
	TreeID        uuid.UUID            `json:"tree_id,omitempty"`
	HashAlgorithm merkle.HashAlgorithm `json:"hash_algorithm"`
	LeafIndex     int                  `json:"leaf_index"`
	Leaf          merkle.Digest        `json:"leaf"`
	Root          merkle.Digest        `json:"root"`
	Proof         merkle.Proof         `json:"proof"`
	Path          []merkle.PathNode    `json:"path,omitempty"`
}

type VerificationReport struct {
	HashAlgorithm merkle.HashAlgorithm `json:"hash_algorithm"`
	Leaf          merkle.Digest        `json:"leaf"`
	Root          merkle.Digest        `json:"root"`
	Steps         int                  `json:"steps"`
	Valid         bool                 `json:"valid"`
}

// NewTreeReport snapshots a tree under its TreeID.
func NewTreeReport(mt *merkle.MerkleTree) *TreeReport {
	depth := 0
	if mt.LayerCount() > 0 {
		depth = mt.LayerCount() - 1
	}
	return &TreeReport{
		ID:            TreeID(mt),
		HashAlgorithm: mt.Hasher().Algorithm(),
		LeafCount:     mt.LeafCount(),
		Depth:         depth,
		Layers:        mt.Layers(),
		Root:          mt.Root(),
	}
}

// NewProofReport generates the proof and path for leafIndex.
func NewProofReport(mt *merkle.MerkleTree, leafIndex int) (*ProofReport, error) {
	proof, err := mt.GenerateProof(leafIndex)
	if err != nil {
		return nil, err
	}
	path, err := mt.Path(leafIndex)
	if err != nil {
		return nil, err
	}
	return &ProofReport{
		TreeID:        TreeID(mt),
		HashAlgorithm: mt.Hasher().Algorithm(),
		LeafIndex:     proof.LeafIndex,
		Leaf:          proof.Leaf,
		Root:          proof.Root,
		Proof:         proof.Steps,
		Path:          path,
	}, nil
}

// Verify checks the report's proof with the hash algorithm it names.
// An empty algorithm means the default.
func (r *ProofReport) Verify() (*VerificationReport, error) {
	alg := r.HashAlgorithm
	if alg == "" {
		alg = merkle.DefaultHashAlgorithm
	}
	h, err := merkle.NewHasher(alg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hasher: %w", err)
	}
	for i, step := range r.Proof {
		if !step.Side.Valid() {
			return nil, fmt.Errorf("proof step %d has invalid side %q", i, step.Side)
		}
	}
	return &VerificationReport{
		HashAlgorithm: h.Algorithm(),
		Leaf:          r.Leaf,
		Root:          r.Root,
		Steps:         len(r.Proof),
		Valid:         merkle.VerifyProofWithHasher(h, r.Proof, r.Leaf, r.Root),
	}, nil
}
