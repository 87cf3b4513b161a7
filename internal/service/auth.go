package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"stride/config"
	"stride/internal/domain"
)

// AuthServiceImpl verifies bearer tokens issued by the main application.
// Registration, login and token issuance live there, not here.
type AuthServiceImpl struct {
	cfg    config.JWTConfig
	logger *zap.Logger
}

func NewAuthService(cfg config.JWTConfig, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		cfg:    cfg,
		logger: logger,
	}
}

type tokenClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthServiceImpl) ParseToken(_ context.Context, token string) (int64, domain.UserRole, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return 0, "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return 0, "", errors.New("invalid token claims")
	}

	if claims.UserID == 0 {
		return 0, "", errors.New("token is missing user id")
	}

	return claims.UserID, domain.UserRole(claims.Role), nil
}
