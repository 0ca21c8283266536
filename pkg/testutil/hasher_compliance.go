package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/merkletree-go/pkg/merkle"
)

// TestHasherCompliance runs the checks every merkle.Hasher must pass.
// size is the raw output length in bytes.
func TestHasherCompliance(t *testing.T, h merkle.Hasher, size int) {
	t.Helper()

	t.Run("output size", func(t *testing.T) {
		for _, in := range [][]byte{nil, {}, []byte("a"), make([]byte, 4096)} {
			require.Len(t, h.Sum(in), size)
			require.Len(t, merkle.DigestOf(h, in), 2*size)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		in := []byte("deterministic input")
		require.Equal(t, h.Sum(in), h.Sum(in))
		require.Equal(t, merkle.DigestOf(h, in), merkle.DigestOf(h, append([]byte(nil), in...)))
	})

	t.Run("distinct inputs", func(t *testing.T) {
		seen := make(map[merkle.Digest]int)
		for i, rec := range CreateTestRecords(256) {
			d := merkle.DigestOf(h, rec)
			prev, dup := seen[d]
			require.False(t, dup, "records %d and %d collide", prev, i)
			seen[d] = i
		}
	})

	t.Run("lowercase hex", func(t *testing.T) {
		d := merkle.DigestOf(h, []byte("case"))
		parsed, err := merkle.ParseDigest(d.String())
		require.NoError(t, err)
		require.Equal(t, d, parsed)
	})

	t.Run("registered", func(t *testing.T) {
		registered, err := merkle.NewHasher(h.Algorithm())
		require.NoError(t, err)
		require.Equal(t, h.Sum([]byte("x")), registered.Sum([]byte("x")))
	})

	t.Run("concurrent use", func(t *testing.T) {
		records := CreateTestRecords(64)
		want := make([]merkle.Digest, len(records))
		for i, r := range records {
			want[i] = merkle.DigestOf(h, r)
		}

		var wg sync.WaitGroup
		got := make([][]merkle.Digest, 8)
		for g := range got {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				out := make([]merkle.Digest, len(records))
				for i, r := range records {
					out[i] = merkle.DigestOf(h, r)
				}
				got[g] = out
			}(g)
		}
		wg.Wait()

		for _, out := range got {
			require.Equal(t, want, out)
		}
	})
}
