package merkle

import (
	"fmt"
	"testing"
)

// BenchmarkMerkleTreeBuild benchmarks merkle tree construction with various sizes
func BenchmarkMerkleTreeBuild(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Records_%d", size), func(b *testing.B) {
			records := createTestRecords(size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = BuildMerkleTree(records)
			}
		})
	}
}

// BenchmarkMerkleTreeBuildParallel compares worker counts on a large input
func BenchmarkMerkleTreeBuildParallel(b *testing.B) {
	records := createTestRecords(100000)

	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("Workers_%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = BuildMerkleTree(records, WithWorkers(workers))
			}
		})
	}
}

// BenchmarkMerkleProofGeneration benchmarks proof generation
func BenchmarkMerkleProofGeneration(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		tree := BuildMerkleTree(createTestRecords(size))

		b.Run(fmt.Sprintf("Records_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = tree.GenerateProof(i % size)
			}
		})
	}
}

// BenchmarkMerkleProofVerification benchmarks proof verification
func BenchmarkMerkleProofVerification(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		tree := BuildMerkleTree(createTestRecords(size))
		proof, _ := tree.GenerateProof(0)

		b.Run(fmt.Sprintf("Records_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = VerifyProof(proof.Steps, proof.Leaf, tree.Root())
			}
		})
	}
}

func BenchmarkHashers(b *testing.B) {
	data := []byte("0bdf27bf7ec894ca7cadfe491ec1a3ece840f117989e8c5e9bd7086467bf6c38")

	for _, alg := range SupportedHashAlgorithms() {
		h, _ := NewHasher(alg)
		b.Run(alg.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = DigestOf(h, data)
			}
		})
	}
}
