// Package server provides the HTTP trigger surface for the pipeline jobs.
package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT claims for a scheduled job trigger.
type Claims struct {
	Job string `json:"job,omitempty"`
	jwt.RegisteredClaims
}

// CronAuth validates bearer tokens on the job trigger endpoints. Tokens are
// HS256 JWTs signed with the shared cron secret.
type CronAuth struct {
	secret []byte
}

// NewCronAuth creates an authenticator for the given shared secret.
func NewCronAuth(secret string) *CronAuth {
	return &CronAuth{secret: []byte(secret)}
}

// GenerateToken generates a short-lived trigger token for the given job name.
func (a *CronAuth) GenerateToken(job string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		Job: job,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a trigger token and returns the claims.
func (a *CronAuth) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return claims, nil
}
