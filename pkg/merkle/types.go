package merkle

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Digest is the lowercase hex encoding of a hash output.
type Digest string

// EmptyRoot is the root of a tree built from zero records.
const EmptyRoot Digest = ""

func (d Digest) String() string {
	return string(d)
}

// Bytes decodes the digest back into raw hash bytes.
func (d Digest) Bytes() ([]byte, error) {
	return hex.DecodeString(string(d))
}

// ParseDigest accepts a hex string (optionally 0x prefixed, any case) and
// returns it in canonical lowercase form.
func ParseDigest(s string) (Digest, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return EmptyRoot, fmt.Errorf("digest cannot be empty")
	}
	if _, err := hex.DecodeString(s); err != nil {
		return EmptyRoot, fmt.Errorf("invalid digest %q: %w", s, err)
	}
	return Digest(strings.ToLower(s)), nil
}

// UnmarshalText canonicalizes decoded digests the same way ParseDigest does,
// so hex case and a 0x prefix do not change what is compared. An empty value
// decodes to EmptyRoot.
func (d *Digest) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*d = EmptyRoot
		return nil
	}
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Side tells the verifier which side of the running hash a sibling goes on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

func (s Side) String() string {
	return string(s)
}

// Valid reports whether s is SideLeft or SideRight.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// ProofStep is one sibling on the path from a leaf to the root.
type ProofStep struct {
	Side   Side   `json:"side"`
	Digest Digest `json:"digest"`
}

// Proof is the ordered list of sibling steps, leaf first, root excluded.
type Proof []ProofStep

// MerkleTree is a binary merkle tree over an ordered list of records.
// It is immutable once built; a different record set needs a new tree.
type MerkleTree struct {
	hasher Hasher

	// levels[0] = leaves, levels[len-1] = [root]
	levels [][]Digest
}

// MerkleProof represents a proof that a leaf is included in the tree.
type MerkleProof struct {
	// LeafIndex is the position of the leaf in the input order
	LeafIndex int `json:"leaf_index"`

	// Leaf is the digest of the record being proven
	Leaf Digest `json:"leaf"`

	// Root is the root the proof was cut from
	Root Digest `json:"root"`

	// Steps contains the siblings from leaf to root
	// Steps[0] is the sibling of the leaf, Steps[len-1] is just below the root
	Steps Proof `json:"proof"`
}

// PathNode is the position of a node on the leaf-to-root path together with
// the position of the sibling the proof carries for that layer.
type PathNode struct {
	Layer int `json:"layer"`
	Index int `json:"index"`

	// Sibling equals Index for an odd tail and is -1 on the root layer.
	Sibling int `json:"sibling"`
}
