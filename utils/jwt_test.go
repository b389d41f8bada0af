package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logistics/config"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	config.InitConfig()

	token, err := GenerateJWT(42, "alice", "manager", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "manager", claims.Role)
}

func TestValidateJWTExpired(t *testing.T) {
	config.InitConfig()

	token, err := GenerateJWT(1, "bob", "user", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	config.InitConfig()

	token, err := GenerateJWT(1, "carol", "user", time.Now().Add(time.Hour))
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "a different secret"
	t.Cleanup(config.InitConfig)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTGarbage(t *testing.T) {
	config.InitConfig()

	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
	_, err = ValidateJWT("")
	assert.Error(t, err)
}
