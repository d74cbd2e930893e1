package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("secret", "u-1", "ops@example.com", "admin", "shipping-dashboard", 5)
	require.NoError(t, err)

	claims, err := Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "shipping-dashboard", claims.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := Generate("secret", "u-1", "", "viewer", "x", 5)
	require.NoError(t, err)

	_, err = Parse("other", tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	tok, err := Generate("secret", "u-1", "", "viewer", "x", -1)
	require.NoError(t, err)

	_, err = Parse("secret", tok)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := Generate("", "u", "", "admin", "x", 5)
	assert.Error(t, err)
	_, err = Parse("", "tok")
	assert.Error(t, err)
}
