package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/merkletree-go/pkg/merkle"
	"github.com/Layr-Labs/merkletree-go/pkg/testutil"
)

func TestNewTreeReport(t *testing.T) {
	tree := merkle.BuildMerkleTree(testutil.CreateTestRecords(5))
	report := NewTreeReport(tree)

	require.NotEqual(t, uuid.Nil, report.ID)
	require.Equal(t, merkle.HashAlgorithmSHA256, report.HashAlgorithm)
	require.Equal(t, 5, report.LeafCount)
	require.Equal(t, 3, report.Depth)
	require.Equal(t, tree.Layers(), report.Layers)
	require.Equal(t, tree.Root(), report.Root)

	require.Equal(t, report.ID, NewTreeReport(tree).ID)
}

func TestTreeID(t *testing.T) {
	records := testutil.CreateTestRecords(4)
	tree := merkle.BuildMerkleTree(records)

	// rebuilding the same records yields the same ID
	require.Equal(t, TreeID(tree), TreeID(merkle.BuildMerkleTree(records)))
	require.Equal(t, uuid.Version(5), TreeID(tree).Version())

	t.Run("Different records", func(t *testing.T) {
		other := merkle.BuildMerkleTree(testutil.CreateTestRecords(5))
		require.NotEqual(t, TreeID(tree), TreeID(other))
	})

	t.Run("Different hasher", func(t *testing.T) {
		keccak, err := merkle.NewHasher(merkle.HashAlgorithmKeccak256)
		require.NoError(t, err)
		require.NotEqual(t, TreeID(tree), TreeID(merkle.BuildMerkleTree(records, merkle.WithHasher(keccak))))
	})

	t.Run("Proof reports share the tree ID", func(t *testing.T) {
		for i := range records {
			report, err := NewProofReport(tree, i)
			require.NoError(t, err)
			require.Equal(t, NewTreeReport(tree).ID, report.TreeID)
		}
	})
}

func TestNewTreeReportEmpty(t *testing.T) {
	report := NewTreeReport(merkle.BuildMerkleTree(nil))
	require.Equal(t, 0, report.LeafCount)
	require.Equal(t, 0, report.Depth)
	require.Empty(t, report.Layers)
	require.Equal(t, merkle.EmptyRoot, report.Root)
}

func TestProofReportRoundTrip(t *testing.T) {
	keccak, err := merkle.NewHasher(merkle.HashAlgorithmKeccak256)
	require.NoError(t, err)
	tree := merkle.BuildMerkleTree(testutil.CreateTestRecords(7), merkle.WithHasher(keccak))
	for i := 0; i < tree.LeafCount(); i++ {
		report, err := NewProofReport(tree, i)
		require.NoError(t, err)
		require.Equal(t, TreeID(tree), report.TreeID)
		require.Len(t, report.Path, tree.LayerCount())

		encoded, err := json.Marshal(report)
		require.NoError(t, err)

		var decoded ProofReport
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		require.Equal(t, *report, decoded)

		result, err := decoded.Verify()
		require.NoError(t, err)
		require.True(t, result.Valid, "leaf %d", i)
		require.Equal(t, merkle.HashAlgorithmKeccak256, result.HashAlgorithm)
	}
}

func TestProofReportJSONShape(t *testing.T) {
	tree := merkle.BuildMerkleTree([][]byte{[]byte("tx1"), []byte("tx2"), []byte("tx3"), []byte("tx4")})
	report, err := NewProofReport(tree, 1)
	require.NoError(t, err)

	encoded, err := json.Marshal(report.Proof)
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"side":"left","digest":"709b55bd3da0f5a838125bd0ee20c5bfdd7caba173912d4281cae816b79a201b"},
		{"side":"right","digest":"850cf301915d09ebcfa84e2ee4087025e17a6fca7e4149ce02cff94cd3db55de"}
	]`, string(encoded))
}

func TestProofReportVerifyFailures(t *testing.T) {
	tree := merkle.BuildMerkleTree(testutil.CreateTestRecords(4))
	report, err := NewProofReport(tree, 2)
	require.NoError(t, err)

	t.Run("Default algorithm", func(t *testing.T) {
		r := *report
		r.HashAlgorithm = ""
		result, err := r.Verify()
		require.NoError(t, err)
		require.True(t, result.Valid)
	})

	t.Run("Wrong root", func(t *testing.T) {
		r := *report
		r.Root = r.Leaf
		result, err := r.Verify()
		require.NoError(t, err)
		require.False(t, result.Valid)
	})

	t.Run("Unknown algorithm", func(t *testing.T) {
		r := *report
		r.HashAlgorithm = "md5"
		_, err := r.Verify()
		require.Error(t, err)
	})

	t.Run("Invalid side", func(t *testing.T) {
		r := *report
		r.Proof = append(merkle.Proof(nil), report.Proof...)
		r.Proof[0].Side = "middle"
		_, err := r.Verify()
		require.Error(t, err)
	})

	t.Run("Invalid index", func(t *testing.T) {
		_, err := NewProofReport(tree, 4)
		require.ErrorIs(t, err, merkle.ErrInvalidIndex)
	})
}
