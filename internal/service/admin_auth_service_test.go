package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecopoints/kiosk_api/internal/config"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

const testJWTSecret = "test-secret-key"

func TestLogin_PlainPin(t *testing.T) {
	svc := NewAdminAuthService(&config.AdminConfig{Pin: "2468", TokenTTL: time.Hour}, testJWTSecret)

	token, err := svc.Login("2468")
	require.NoError(t, err)

	claims, err := utils.ValidateJWT(token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestLogin_WrongPin(t *testing.T) {
	svc := NewAdminAuthService(&config.AdminConfig{Pin: "2468", TokenTTL: time.Hour}, testJWTSecret)

	_, err := svc.Login("1111")
	assert.ErrorIs(t, err, utils.ErrInvalidPin)
}

func TestLogin_PinNotConfigured(t *testing.T) {
	svc := NewAdminAuthService(&config.AdminConfig{TokenTTL: time.Hour}, testJWTSecret)

	_, err := svc.Login("")
	assert.ErrorIs(t, err, utils.ErrPinNotConfigured)
}

func TestLogin_BcryptHashPreferred(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("2468"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAdminAuthService(&config.AdminConfig{
		Pin:      "0000",
		PinHash:  string(hash),
		TokenTTL: time.Hour,
	}, testJWTSecret)

	// The plain PIN is ignored once a hash is configured.
	_, err = svc.Login("0000")
	assert.ErrorIs(t, err, utils.ErrInvalidPin)

	_, err = svc.Login("2468")
	assert.NoError(t, err)
}
