package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 8 * time.Hour

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type authService struct {
	adminUser     string
	adminPassHash string
	jwtSecret     []byte
}

// NewAuthService authenticates the single operator account. The password is
// compared against a bcrypt hash from the configuration.
func NewAuthService(adminUser, adminPassHash, jwtSecret string) AuthService {
	return &authService{
		adminUser:     adminUser,
		adminPassHash: adminPassHash,
		jwtSecret:     []byte(jwtSecret),
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1

	err := bcrypt.CompareHashAndPassword([]byte(s.adminPassHash), []byte(password))
	if err != nil || !userMatch {
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", fmt.Errorf("failed to compare password hash: %w", err)
		}
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  s.adminUser,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
