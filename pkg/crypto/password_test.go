package crypto

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Password123!")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.True(t, CheckPassword("Password123!", hash))
	assert.False(t, CheckPassword("WrongPass", hash))
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(16)
	assert.NoError(t, err)
	assert.Len(t, token, 32) // hex encoded

	refresh, err := GenerateRefreshToken()
	assert.NoError(t, err)
	assert.Len(t, refresh, 64)

	another, err := GenerateRefreshToken()
	assert.NoError(t, err)
	assert.NotEqual(t, refresh, another)
}

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode()
		assert.NoError(t, err)
		assert.Len(t, code, OtpLength)
		_, convErr := strconv.Atoi(code)
		assert.NoError(t, convErr, "code must be numeric: %s", code)
	}
}
