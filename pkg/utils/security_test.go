package utils

import (
	"os"
	"path/filepath"
	"testing"

	"ytsa-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  name: ytsa-test
jwt:
  secret: test-secret
  expire_hours: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	_, err := config.Load(path)
	require.NoError(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword("secret123", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestGenerateAndParseToken(t *testing.T) {
	loadTestConfig(t)

	token, err := GenerateToken(42, 7, "admin")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, int64(7), claims.OrgID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenInvalid(t *testing.T) {
	loadTestConfig(t)

	_, err := ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// 篡改后的 token 验签失败
	token, err := GenerateToken(1, 1, "member")
	require.NoError(t, err)
	_, err = ParseToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
