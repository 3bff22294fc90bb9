// Package session resolves the signed-in user from the token the backend issued.
// The token is only decoded here; the backend verifies it on every mirror call.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/curiosity/internal/keyring"
)

// ErrNotAuthenticated is returned when no usable session token is stored
var ErrNotAuthenticated = errors.New("not authenticated")

// tokenSource is replaced in tests
var tokenSource = keyring.GetSessionToken

// Session reads the current user from the keyring-held token
type Session struct {
	now func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// UserID returns the subject of the stored token
func (s *Session) UserID() (string, error) {
	token, err := tokenSource()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", err
	}
	return s.SubjectFromToken(token)
}

// SubjectFromToken extracts the sub claim. Expired tokens and tokens without a
// subject are treated as signed out.
func (s *Session) SubjectFromToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: malformed token: %v", ErrNotAuthenticated, err)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now()) {
		return "", fmt.Errorf("%w: token expired", ErrNotAuthenticated)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrNotAuthenticated)
	}
	return claims.Subject, nil
}

// Authenticated reports whether a user is signed in
func (s *Session) Authenticated() bool {
	_, err := s.UserID()
	return err == nil
}
