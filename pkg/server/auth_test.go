package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestAdminToken(t *testing.T) {
	token, err := CreateAdminToken(testSecret, "ops", time.Hour)
	require.NoError(t, err)
	claims, err := VerifyAdminToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims["username"])

	_, err = VerifyAdminToken([]byte("other"), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = VerifyAdminToken(nil, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAdminTokenRejected(t *testing.T) {
	expired, err := CreateAdminToken(testSecret, "ops", -time.Minute)
	require.NoError(t, err)
	_, err = VerifyAdminToken(testSecret, expired)
	assert.ErrorIs(t, err, ErrUnauthorized)

	viewer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "viewer"}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = VerifyAdminToken(testSecret, viewer)
	assert.ErrorIs(t, err, ErrUnauthorized)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"role": "admin"}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = VerifyAdminToken(testSecret, hs512)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
