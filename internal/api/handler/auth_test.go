package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJWT_RoundTrip(t *testing.T) {
	token, err := generateJWT("user-42")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := validateAndGetUserID(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestJWT_InvalidToken(t *testing.T) {
	_, err := validateAndGetUserID("not-a-token")
	assert.Error(t, err)

	// Підроблений підпис
	token, _ := generateJWT("user-42")
	_, err = validateAndGetUserID(token + "x")
	assert.Error(t, err)
}
