// internal/utils/crypto_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteToken(t *testing.T) {
	a, err := GenerateInviteToken()
	require.NoError(t, err)
	b, err := GenerateInviteToken()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestHashStringDeterministic(t *testing.T) {
	assert.Equal(t, HashString("token"), HashString("token"))
	assert.NotEqual(t, HashString("token"), HashString("other"))
	assert.Len(t, HashString("token"), 64) // hex sha256
}
