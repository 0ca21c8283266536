package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzBuildProveVerify(f *testing.F) {
	f.Add([]byte("tx1\ntx2\ntx3\ntx4"), uint8(1))
	f.Add([]byte("a"), uint8(0))
	f.Add([]byte("a\nb\nc"), uint8(2))
	f.Add([]byte{0x00, 0xff, '\n', 0x10}, uint8(7))

	f.Fuzz(func(t *testing.T, data []byte, pick uint8) {
		// Keep memory bounded for fuzzing.
		if len(data) > 4096 {
			data = data[:4096]
		}

		// one record per byte pair keeps the leaf count varied
		var records [][]byte
		for i := 0; i < len(data); i += 2 {
			records = append(records, data[i:min(i+2, len(data))])
		}

		tree := BuildMerkleTree(records)
		if len(records) == 0 {
			require.Equal(t, EmptyRoot, tree.Root())
			return
		}

		index := int(pick) % len(records)
		proof, err := tree.GenerateProof(index)
		require.NoError(t, err)
		require.Equal(t, DigestOf(DefaultHasher(), records[index]), proof.Leaf)
		require.True(t, VerifyProof(proof.Steps, proof.Leaf, tree.Root()))
	})
}
