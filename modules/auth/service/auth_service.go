package service

import (
	"context"
	"time"

	"parking-rsvp-api/core/config"
	"parking-rsvp-api/core/errors"
	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/core/utils"
	"parking-rsvp-api/modules/auth/dto"
	rsvpRepo "parking-rsvp-api/modules/rsvp/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the organizer account configured in the
// environment and verifies Bearer tokens for the middleware.
type AuthService struct {
	adminEmail        string
	adminPasswordHash string
	jwtSecret         string
	tokenTTL          time.Duration
}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		adminEmail:        rsvpRepo.NormalizeEmail(cfg.AdminEmail),
		adminPasswordHash: cfg.AdminPasswordHash,
		jwtSecret:         cfg.JWTSecret,
		tokenTTL:          time.Duration(cfg.TokenTTLHours) * time.Hour,
	}
}

// Login checks the credentials against the configured organizer account and
// issues an access token. The failure message never says which part was
// wrong.
func (s *AuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "email and password are required", nil)
	}
	if s.adminEmail == "" || s.adminPasswordHash == "" {
		return nil, errors.NewAppError(errors.ErrNotConfigured, "organizer account is not configured", nil)
	}

	if rsvpRepo.NormalizeEmail(req.Email) != s.adminEmail {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("AuthService:Login:BadPassword", "email", s.adminEmail)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	ttl := s.tokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, expiresAt, err := utils.GenerateAccessToken(s.adminEmail, s.jwtSecret, ttl)
	if err != nil {
		logger.Error("AuthService:Login:GenerateToken:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", nil)
	}

	logger.Info("AuthService:Login:Success", "email", s.adminEmail)
	return &dto.LoginResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// VerifyAccessToken satisfies middleware.TokenVerifier.
func (s *AuthService) VerifyAccessToken(token string) (*utils.TokenClaims, error) {
	return utils.ParseAccessToken(token, s.jwtSecret)
}
