package service

import (
	"crypto/subtle"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecopoints/kiosk_api/internal/config"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// AdminAuthService gates the dashboard behind a shared PIN and issues a
// session token on success. A missing PIN configuration fails only this
// path; deposits keep working.
type AdminAuthService struct {
	pin       string
	pinHash   string
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(cfg *config.AdminConfig, jwtSecret string) *AdminAuthService {
	return &AdminAuthService{
		pin:       cfg.Pin,
		pinHash:   cfg.PinHash,
		jwtSecret: jwtSecret,
		tokenTTL:  cfg.TokenTTL,
	}
}

// Login verifies the PIN and returns a signed session token. When a bcrypt
// hash is configured it is preferred over the plain PIN.
func (s *AdminAuthService) Login(pin string) (string, error) {
	if err := s.verify(pin); err != nil {
		return "", err
	}

	token, err := utils.GenerateJWT(s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", err
	}
	log.Info().Msg("admin login successful")
	return token, nil
}

func (s *AdminAuthService) verify(pin string) error {
	if s.pinHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.pinHash), []byte(pin)); err != nil {
			log.Warn().Msg("admin PIN validation failed")
			return utils.ErrInvalidPin
		}
		return nil
	}

	if s.pin == "" {
		log.Error().Msg("ADMIN_PIN secret is not configured")
		return utils.ErrPinNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(s.pin), []byte(pin)) != 1 {
		log.Warn().Msg("admin PIN validation failed")
		return utils.ErrInvalidPin
	}
	return nil
}
