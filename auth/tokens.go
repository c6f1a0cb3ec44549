// Package auth provides the credential primitives (bcrypt password hashing,
// HS256 bearer tokens) and the authorization gate used by the API layer.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"ehotels/apperr"
)

var (
	secret   = []byte("secret")
	tokenTTL = 2 * time.Hour
)

// Init sets the signing secret and token lifetime. Call once at startup.
func Init(signingSecret string, ttl time.Duration) {
	if signingSecret != "" {
		secret = []byte(signingSecret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

type Claims struct {
	UserID uint `json:"id"`
	jwt.RegisteredClaims
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a token carrying the account id, expiring after the
// configured TTL.
func IssueToken(userID uint) (string, error) {
	return issueToken(userID, tokenTTL)
}

func issueToken(userID uint, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken resolves a bearer token to the account id it was issued for.
func VerifyToken(tokenStr string) (uint, error) {
	if tokenStr == "" {
		return 0, apperr.JWTUndefined()
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperr.InvalidJWT()
	}

	return claims.UserID, nil
}
