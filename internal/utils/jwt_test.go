package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findash-api/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{
		ID:        "u1",
		CompanyID: "co1",
		Email:     "user@example.com",
		Role:      "admin",
	}

	token, err := GenerateAccessToken(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "co1", claims.CompanyID)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(models.User{ID: "u1"}, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := GenerateAccessToken(models.User{ID: "u1"}, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	assert.Error(t, err)
}

func TestRefreshTokenType(t *testing.T) {
	token, err := GenerateRefreshToken(models.User{ID: "u1"}, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}
