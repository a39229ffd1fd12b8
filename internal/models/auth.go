package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims are the access-token claims for an operator session.
type JWTClaims struct {
	UserID   string `json:"uid"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	FullName string `json:"name"`
	jwt.RegisteredClaims
}
