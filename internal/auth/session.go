// Package auth issues and verifies the admin session token: a stateless
// HMAC-signed credential carrying only an expiry. There is no per-user
// identity, just a single shared-secret gate over the privileged routes.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "admin_session"
	TokenTTL   = 24 * time.Hour
)

type SessionManager struct {
	secret     []byte
	secureMode bool
}

// NewSessionManager signs tokens with the admin password itself. Rotating the
// password invalidates every outstanding session; there is no other
// revocation mechanism.
func NewSessionManager(adminPassword string, secureMode bool) *SessionManager {
	return &SessionManager{
		secret:     []byte(adminPassword),
		secureMode: secureMode,
	}
}

// CheckPassword compares the submitted password against the shared secret in
// constant time.
func (m *SessionManager) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), m.secret) == 1
}

func (m *SessionManager) Issue(now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(TokenTTL).Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) Verify(tokenString string) bool {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())

	return err == nil && token.Valid
}

func (m *SessionManager) Cookie(token string, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(TokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secureMode,
	}
}
