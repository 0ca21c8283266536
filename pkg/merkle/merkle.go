package merkle

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the smallest layer that is split across workers.
const parallelThreshold = 1024

type buildOptions struct {
	hasher  Hasher
	workers int
	logger  *zap.Logger
}

// Option configures BuildMerkleTree.
type Option func(*buildOptions)

// WithHasher sets the digest function. Defaults to SHA-256.
func WithHasher(h Hasher) Option {
	return func(o *buildOptions) {
		if h != nil {
			o.hasher = h
		}
	}
}

// WithWorkers hashes the pairs of large layers on up to n goroutines.
// The resulting tree is identical for every n.
func WithWorkers(n int) Option {
	return func(o *buildOptions) {
		o.workers = n
	}
}

// WithLogger sets the logger for build summaries. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// BuildMerkleTree creates a binary merkle tree from records, keeping their order.
//
// Each record is hashed into a leaf, then layers are folded pairwise until a
// single root remains. If a layer has an odd number of nodes, the last node is
// paired with itself. An empty record list yields an empty tree whose root is
// EmptyRoot.
func BuildMerkleTree(records [][]byte, opts ...Option) *MerkleTree {
	o := &buildOptions{
		hasher:  DefaultHasher(),
		workers: 1,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	mt := &MerkleTree{hasher: o.hasher}
	if len(records) == 0 {
		o.logger.Sugar().Debugw("Built empty merkle tree", "hash_algorithm", o.hasher.Algorithm())
		return mt
	}

	leaves := make([]Digest, len(records))
	for i, r := range records {
		leaves[i] = DigestOf(o.hasher, r)
	}

	levels := make([][]Digest, 0, treeHeight(len(leaves))+1)
	levels = append(levels, leaves)

	currentLevel := leaves
	for len(currentLevel) > 1 {
		var nextLevel []Digest
		if o.workers > 1 && len(currentLevel) >= parallelThreshold {
			nextLevel = foldLevelParallel(o.hasher, currentLevel, o.workers)
		} else {
			nextLevel = foldLevel(o.hasher, currentLevel)
		}
		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	mt.levels = levels
	o.logger.Sugar().Debugw("Built merkle tree",
		"hash_algorithm", o.hasher.Algorithm(),
		"leaves", len(leaves),
		"layers", len(levels),
		"root", mt.Root(),
	)
	return mt
}

// foldLevel derives the parent layer of level.
func foldLevel(h Hasher, level []Digest) []Digest {
	next := make([]Digest, (len(level)+1)/2)
	foldRange(h, level, next, 0, len(next))
	return next
}

// foldLevelParallel splits the parent indices of level into contiguous chunks.
func foldLevelParallel(h Hasher, level []Digest, workers int) []Digest {
	next := make([]Digest, (len(level)+1)/2)
	chunk := (len(next) + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(next); start += chunk {
		start, end := start, min(start+chunk, len(next))
		g.Go(func() error {
			foldRange(h, level, next, start, end)
			return nil
		})
	}
	// hashing cannot fail
	_ = g.Wait()
	return next
}

// foldRange fills next[from:to] from the pairs of level.
func foldRange(h Hasher, level, next []Digest, from, to int) {
	for i := from; i < to; i++ {
		left := level[2*i]
		right := left
		if 2*i+1 < len(level) {
			right = level[2*i+1]
		}
		next[i] = hashPair(h, left, right)
	}
}

// treeHeight is ceil(log2(n)), the number of layers above n leaves.
func treeHeight(n int) int {
	height := 0
	for width := 1; width < n; width <<= 1 {
		height++
	}
	return height
}

// Hasher returns the digest function the tree was built with.
func (mt *MerkleTree) Hasher() Hasher {
	return mt.hasher
}

// Root returns the merkle root, or EmptyRoot when the tree has no leaves.
func (mt *MerkleTree) Root() Digest {
	if len(mt.levels) == 0 {
		return EmptyRoot
	}
	return mt.levels[len(mt.levels)-1][0]
}

// IsEmpty reports whether the tree was built from zero records.
func (mt *MerkleTree) IsEmpty() bool {
	return len(mt.levels) == 0
}

// LeafCount returns the number of records the tree was built from.
func (mt *MerkleTree) LeafCount() int {
	if len(mt.levels) == 0 {
		return 0
	}
	return len(mt.levels[0])
}

// LayerCount returns the number of layers including leaves and root.
func (mt *MerkleTree) LayerCount() int {
	return len(mt.levels)
}

// Leaves returns a copy of the leaf layer.
func (mt *MerkleTree) Leaves() []Digest {
	if len(mt.levels) == 0 {
		return nil
	}
	return append([]Digest(nil), mt.levels[0]...)
}

// Layers returns a copy of every layer, leaves first.
func (mt *MerkleTree) Layers() [][]Digest {
	layers := make([][]Digest, len(mt.levels))
	for i, level := range mt.levels {
		layers[i] = append([]Digest(nil), level...)
	}
	return layers
}

func (mt *MerkleTree) checkLeafIndex(leafIndex int) error {
	if len(mt.levels) == 0 {
		return ErrEmptyTree
	}
	if leafIndex < 0 || leafIndex >= len(mt.levels[0]) {
		return fmt.Errorf("%w: leaf index %d out of bounds (tree has %d leaves)", ErrInvalidIndex, leafIndex, len(mt.levels[0]))
	}
	return nil
}

// GenerateProof creates a merkle proof for the leaf at the given index.
// The proof consists of sibling digests along the path from leaf to root.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*MerkleProof, error) {
	if err := mt.checkLeafIndex(leafIndex); err != nil {
		return nil, err
	}

	steps := make(Proof, 0, len(mt.levels)-1)
	index := leafIndex

	for level := 0; level < len(mt.levels)-1; level++ {
		currentLevel := mt.levels[level]

		if index%2 == 1 {
			steps = append(steps, ProofStep{Side: SideLeft, Digest: currentLevel[index-1]})
		} else if index+1 < len(currentLevel) {
			steps = append(steps, ProofStep{Side: SideRight, Digest: currentLevel[index+1]})
		} else {
			// odd tail: the node was paired with itself
			steps = append(steps, ProofStep{Side: SideRight, Digest: currentLevel[index]})
		}

		index /= 2
	}

	return &MerkleProof{
		LeafIndex: leafIndex,
		Leaf:      mt.levels[0][leafIndex],
		Root:      mt.Root(),
		Steps:     steps,
	}, nil
}

// Path returns the node positions visited from the leaf up to the root, with
// the sibling each proof step was taken from.
func (mt *MerkleTree) Path(leafIndex int) ([]PathNode, error) {
	if err := mt.checkLeafIndex(leafIndex); err != nil {
		return nil, err
	}

	path := make([]PathNode, len(mt.levels))
	for level := range mt.levels {
		index := leafIndex >> level
		sibling := index ^ 1
		switch {
		case level == len(mt.levels)-1:
			sibling = -1
		case sibling >= len(mt.levels[level]):
			sibling = index
		}
		path[level] = PathNode{Layer: level, Index: index, Sibling: sibling}
	}
	return path, nil
}

// VerifyProof checks a SHA-256 proof. See VerifyProofWithHasher.
func VerifyProof(steps Proof, leaf, root Digest) bool {
	return VerifyProofWithHasher(DefaultHasher(), steps, leaf, root)
}

// VerifyProofWithHasher recomputes the root from leaf and steps and compares it
// with root. It needs nothing from the tree the proof was generated from.
func VerifyProofWithHasher(h Hasher, steps Proof, leaf, root Digest) bool {
	if h == nil {
		return false
	}

	currentHash := leaf
	for _, step := range steps {
		switch step.Side {
		case SideLeft:
			currentHash = hashPair(h, step.Digest, currentHash)
		case SideRight:
			currentHash = hashPair(h, currentHash, step.Digest)
		default:
			return false
		}
	}

	return currentHash == root
}

// Verify checks the proof against its own Root using h.
func (p *MerkleProof) Verify(h Hasher) bool {
	if p == nil {
		return false
	}
	return VerifyProofWithHasher(h, p.Steps, p.Leaf, p.Root)
}
