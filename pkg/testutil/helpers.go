package testutil

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestRecords returns n distinct text records "tx-1" .. "tx-n".
func CreateTestRecords(n int) [][]byte {
	records := make([][]byte, n)
	for i := 0; i < n; i++ {
		records[i] = []byte(fmt.Sprintf("tx-%d", i+1))
	}
	return records
}

// CreateRandomRecords returns n random records of the given size.
func CreateRandomRecords(t *testing.T, n, size int) [][]byte {
	records := make([][]byte, n)
	for i := range records {
		records[i] = make([]byte, size)
		_, err := rand.Read(records[i])
		require.NoError(t, err)
	}
	return records
}
