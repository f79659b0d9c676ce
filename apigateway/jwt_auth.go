// Package gateway implements the auth logic shared across medico services:
// token issuance and verification, role guards and the HTTP middleware
// stack (request ids, logging, metrics, cors).
package gateway

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/medico-app/medico/fields"
)

// Roles embedded in issued tokens.
const (
	RolePartner = "partner"
	RoleMember  = "member"
)

// JWTAuth encapsulates token issuance and verification. Construct it once
// at startup from the loaded config and pass it to the services.
type JWTAuth struct {
	Config fields.Config
	Key    []byte
}

// TokenClaims is the medico standard claim set.
type TokenClaims struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"type"`
	jwt.StandardClaims
}

// Init derives the signing key from config, generating an ephemeral one when
// the config has none (tokens then expire with the process).
func (j *JWTAuth) Init() {
	if j.Config.JWTKey != "" {
		j.Key = []byte(j.Config.JWTKey)
		return
	}
	key, _ := GenerateSecretKey(32)
	j.Key = key
}

// GenerateJWT issues a signed, time-boxed token embedding the account id,
// email and role. Lifetime comes from config (7 days by default).
func (j *JWTAuth) GenerateJWT(id, email, role string) (string, error) {
	if len(j.Key) == 0 {
		return "", errors.New("empty jwt key")
	}
	days := j.Config.TokenLifeDays
	if days <= 0 {
		days = 7
	}
	now := time.Now().UTC()
	claims := TokenClaims{
		ID:    id,
		Email: email,
		Role:  role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(days) * 24 * time.Hour).Unix(),
			Issuer:    "medico",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Key)
}

// VerifyJWT validates a token string and returns its claims.
func (j *JWTAuth) VerifyJWT(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Key, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("token is invalid")
	}
	return claims, nil
}

// GenerateSecretKey generates a random signing key.
func GenerateSecretKey(n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
