package model

import "github.com/golang-jwt/jwt/v5"

// AuthorClaims are JWT claims for content-author authentication
type AuthorClaims struct {
	AuthorID string `json:"authorId"`
	jwt.RegisteredClaims
}

// CandidateClaims are JWT claims for session-scoped candidate tokens
type CandidateClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for author login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token    string `json:"token"`
	AuthorID string `json:"authorId"`
}
