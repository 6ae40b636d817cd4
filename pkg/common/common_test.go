package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("rojas.7712345")
	require.NoError(t, err)
	assert.NotEqual(t, "rojas.7712345", hash)
	assert.True(t, CheckPassword(hash, "rojas.7712345"))
	assert.False(t, CheckPassword(hash, "rojas.7712346"))
}

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		require.Positive(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestRandomHexLength(t *testing.T) {
	assert.Len(t, RandomHex(16), 32)
	assert.NotEqual(t, RandomHex(16), RandomHex(16))
}
