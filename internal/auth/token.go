package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid player token")

// PlayerClaims binds a websocket connection to one player slot of one session.
type PlayerClaims struct {
	SessionID string `json:"sid"`
	Slot      int    `json:"slot"`
	jwt.RegisteredClaims
}

// IssuePlayerToken signs an HS256 token for slot in sessionID.
func IssuePlayerToken(secret, sessionID string, slot int, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := PlayerClaims{
		SessionID: sessionID,
		Slot:      slot,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%s/%d", sessionID, slot),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign player token: %w", err)
	}
	return signed, nil
}

// ParsePlayerToken verifies the signature and expiry and returns the claims.
func ParsePlayerToken(secret, token string) (*PlayerClaims, error) {
	claims := &PlayerClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" || claims.Slot < 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
