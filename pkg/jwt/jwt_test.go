package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("64f1a2b3c4d5e6f708192a3b", "student", "verified", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "64f1a2b3c4d5e6f708192a3b", claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "verified", claims.VerificationStatus)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("64f1a2b3c4d5e6f708192a3b", "student", "verified", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("64f1a2b3c4d5e6f708192a3b", "student", "verified", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.Error(t, err)
}

func TestValidateTokenMalformed(t *testing.T) {
	_, err := ValidateToken("not-a-token", testSecret)
	assert.Error(t, err)
}
