package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

type HashAlgorithm string

func (a HashAlgorithm) String() string {
	return string(a)
}

const (
	HashAlgorithmSHA256     HashAlgorithm = "sha256" // default, used by the published test vectors
	HashAlgorithmKeccak256  HashAlgorithm = "keccak256"
	HashAlgorithmSHA3_256   HashAlgorithm = "sha3-256"
	HashAlgorithmBlake2b256 HashAlgorithm = "blake2b-256"
)

const DefaultHashAlgorithm = HashAlgorithmSHA256

// Hasher is the single digest function a tree is built with.
// The same Hasher must be used to verify proofs against that tree's root.
//
// Implementations must be safe to call concurrently.
type Hasher interface {
	Algorithm() HashAlgorithm
	Sum(data []byte) []byte
}

type hashFunc struct {
	alg HashAlgorithm
	sum func([]byte) []byte
}

func (h hashFunc) Algorithm() HashAlgorithm { return h.alg }
func (h hashFunc) Sum(data []byte) []byte   { return h.sum(data) }

var hashers = map[HashAlgorithm]Hasher{
	HashAlgorithmSHA256: hashFunc{alg: HashAlgorithmSHA256, sum: func(b []byte) []byte {
		s := sha256.Sum256(b)
		return s[:]
	}},
	HashAlgorithmKeccak256: hashFunc{alg: HashAlgorithmKeccak256, sum: func(b []byte) []byte {
		return crypto.Keccak256(b)
	}},
	HashAlgorithmSHA3_256: hashFunc{alg: HashAlgorithmSHA3_256, sum: func(b []byte) []byte {
		s := sha3.Sum256(b)
		return s[:]
	}},
	HashAlgorithmBlake2b256: hashFunc{alg: HashAlgorithmBlake2b256, sum: func(b []byte) []byte {
		s := blake2b.Sum256(b)
		return s[:]
	}},
}

// NewHasher returns the registered hasher for the given algorithm name.
func NewHasher(alg HashAlgorithm) (Hasher, error) {
	h, ok := hashers[HashAlgorithm(strings.ToLower(string(alg)))]
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm %q. Supported: %s", alg, strings.Join(supportedNames(), ", "))
	}
	return h, nil
}

// DefaultHasher returns the SHA-256 hasher.
func DefaultHasher() Hasher {
	return hashers[DefaultHashAlgorithm]
}

// SupportedHashAlgorithms returns every registered algorithm in name order.
func SupportedHashAlgorithms() []HashAlgorithm {
	algs := make([]HashAlgorithm, 0, len(hashers))
	for alg := range hashers {
		algs = append(algs, alg)
	}
	sort.Slice(algs, func(i, j int) bool {
		return algs[i] < algs[j]
	})
	return algs
}

func supportedNames() []string {
	algs := SupportedHashAlgorithms()
	names := make([]string, len(algs))
	for i, alg := range algs {
		names[i] = alg.String()
	}
	return names
}

// DigestOf hashes data with h and hex encodes the result.
func DigestOf(h Hasher, data []byte) Digest {
	return Digest(hex.EncodeToString(h.Sum(data)))
}

// hashPair computes digest(left || right) over the hex text of both digests.
// The order must match between construction and verification.
func hashPair(h Hasher, left, right Digest) Digest {
	data := make([]byte, 0, len(left)+len(right))
	data = append(data, left...)
	data = append(data, right...)
	return DigestOf(h, data)
}
