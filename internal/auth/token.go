package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the full lifetime of an issued session token. There is no
// refresh flow: once the window elapses the client has to log in again.
const SessionTTL = 7 * 24 * time.Hour

// CookieName is the HTTP-only cookie carrying the session token.
const CookieName = "token"

type SessionClaims struct {
	jwt.RegisteredClaims
}

// IssueSession signs a new session token whose only identity claim is the
// user's id. Returns the token and its expiry.
func IssueSession(userID uint, secret []byte) (string, time.Time, error) {
	exp := time.Now().Add(SessionTTL)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseSession verifies signature and expiry and returns the subject user id.
func ParseSession(raw string, secret []byte) (uint, error) {
	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !tkn.Valid {
		return 0, errors.New("invalid token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.New("token has no usable subject")
	}
	return uint(id), nil
}
