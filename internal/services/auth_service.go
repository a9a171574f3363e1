package services

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/config"
)

// AdminRole is the role claim carried by moderator session tokens.
const AdminRole = "admin"

// AdminAuthService checks the moderator credential and issues session JWTs.
// The credential is either a bcrypt hash (ADMIN_TOKEN_HASH) or a plain
// shared token (ADMIN_TOKEN); the hash wins when both are set.
type AdminAuthService struct {
	cfg *config.Config
	now func() time.Time
}

func NewAdminAuthService(cfg *config.Config) *AdminAuthService {
	return &AdminAuthService{cfg: cfg, now: time.Now}
}

// CheckToken reports whether token is the configured moderator credential.
func (s *AdminAuthService) CheckToken(token string) bool {
	if token == "" {
		return false
	}
	if s.cfg.AdminTokenHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminTokenHash), []byte(token)) == nil
	}
	if s.cfg.AdminToken != "" {
		return subtle.ConstantTimeCompare([]byte(s.cfg.AdminToken), []byte(token)) == 1
	}
	return false
}

// Login exchanges the moderator credential for a signed session token.
func (s *AdminAuthService) Login(token string) (string, time.Time, error) {
	if !s.cfg.AdminEnabled() || s.cfg.JWTSecret == "" {
		return "", time.Time{}, ErrAdminDisabled
	}
	if !s.CheckToken(token) {
		return "", time.Time{}, ErrInvalidAdminToken
	}

	now := s.now()
	expires := now.Add(s.cfg.JWTExpiry)
	claims := jwt.MapClaims{
		"sub":  "moderator",
		"role": AdminRole,
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}
