// Package token issues and validates the signed bearer tokens that carry a
// user's identity and authorization level.
//
// Tokens are self-contained: the level is embedded at issuance and never
// re-checked against the database, so a demoted user keeps the old level
// until the token expires. Lifetime is kept short for that reason.
package token

import (
	"strconv"
	"time"

	"user-panel/database/model"
	"user-panel/util/common"

	"github.com/golang-jwt/jwt/v5"
)

// Lifetime is the fixed validity window of an access token.
const Lifetime = time.Hour

var secret []byte

// Init stores the process-wide signing secret. Must be called once before
// serving; the secret is never logged.
func Init(s string) error {
	if s == "" {
		return common.NewError("token secret must not be empty")
	}
	secret = []byte(s)
	return nil
}

// Claims is the payload embedded in every access token.
type Claims struct {
	Username string `json:"username"`
	Level    string `json:"level"`
	jwt.RegisteredClaims
}

// UserId returns the subject as the numeric user id.
func (c *Claims) UserId() (int, error) {
	return strconv.Atoi(c.Subject)
}

// Generate signs a token for the given user, valid for Lifetime from now.
func Generate(user *model.User) (string, error) {
	if len(secret) == 0 {
		return "", common.NewError("token secret is not initialized")
	}

	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Level:    user.Level,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.Id),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse verifies signature and expiry and returns the embedded claims.
// Callers must not distinguish failure reasons to clients.
func Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.NewErrorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, common.NewError("invalid token")
	}
	return claims, nil
}
