package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"coalition/internal/config"
	"coalition/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles author and candidate authentication
type AuthService struct {
	authorUsername string
	authorPassword string
	jwtSecret      []byte
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		authorUsername: cfg.AuthorUsername,
		authorPassword: cfg.AuthorPassword,
		jwtSecret:      []byte(cfg.JWTSecret),
	}
}

// Login validates author credentials and returns a token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.authorUsername || password != s.authorPassword {
		return nil, ErrInvalidCredentials
	}

	authorID := "author_" + uuid.New().String()[:8]

	claims := &model.AuthorClaims{
		AuthorID: authorID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:    tokenString,
		AuthorID: authorID,
	}, nil
}

// ValidateAuthorToken validates an author JWT and returns claims
func (s *AuthService) ValidateAuthorToken(tokenString string) (*model.AuthorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.AuthorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AuthorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateCandidateToken creates a session-scoped token for a candidate
func (s *AuthService) GenerateCandidateToken(sessionID string) (string, error) {
	claims := &model.CandidateClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateCandidateToken validates a candidate JWT and returns claims
func (s *AuthService) ValidateCandidateToken(tokenString string) (*model.CandidateClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.CandidateClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.CandidateClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
