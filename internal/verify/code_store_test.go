package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCodeFormat(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := randomCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = struct{}{}
	}
	// 50 draws from a million values collide vanishingly rarely.
	assert.Greater(t, len(seen), 40)
}

func TestCodeStoreKeyPrefix(t *testing.T) {
	store := &redisCodeStore{prefix: "password-reset"}
	assert.Equal(t, "password-reset:user-1", store.key("user-1"))
}
