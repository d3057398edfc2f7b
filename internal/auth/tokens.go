// Package auth issues and verifies the signed tokens clients send in the
// auth header. Tokens carry {"user":{"id":...}} and are signed with HS256.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidToken           = errors.New("invalid token")
)

type UserClaim struct {
	ID string `json:"id"`
}

type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// Tokens signs with the current secret and accepts the current or any previous
// secret, so the signing key can be rotated without logging everyone out.
type Tokens struct {
	mu       sync.RWMutex
	current  []byte
	previous [][]byte

	ttl time.Duration
	now func() time.Time
}

// NewTokens returns a Tokens. A zero ttl issues tokens without an expiry.
func NewTokens(secret string, previous []string, ttl time.Duration) (*Tokens, error) {
	t := &Tokens{ttl: ttl, now: time.Now}
	if err := t.SetKeys(secret, previous); err != nil {
		return nil, err
	}
	return t, nil
}

// SetKeys replaces the signing secret and the set of retired secrets.
func (t *Tokens) SetKeys(secret string, previous []string) error {
	if secret == "" {
		return errors.New("token secret is empty")
	}
	prev := make([][]byte, 0, len(previous))
	for _, p := range previous {
		if p != "" && p != secret {
			prev = append(prev, []byte(p))
		}
	}
	t.mu.Lock()
	t.current = []byte(secret)
	t.previous = prev
	t.mu.Unlock()
	return nil
}

// WithClock overrides the time source. Used by tests.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	t.now = now
	return t
}

func (t *Tokens) Issue(userID string) (string, error) {
	now := t.now()
	claims := Claims{
		User:             UserClaim{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	t.mu.RLock()
	key := t.current
	t.mu.RUnlock()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the user id bound to raw. Expired, malformed and badly signed
// tokens all fail with ErrInvalidToken.
func (t *Tokens) Verify(raw string) (string, error) {
	if raw == "" {
		return "", ErrAuthenticationRequired
	}

	t.mu.RLock()
	keys := append([][]byte{t.current}, t.previous...)
	t.mu.RUnlock()

	var lastErr error
	for _, key := range keys {
		claims := &Claims{}
		_, err := jwt.ParseWithClaims(raw, claims,
			func(*jwt.Token) (any, error) { return key, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(t.now),
		)
		if err == nil {
			if claims.User.ID == "" {
				return "", fmt.Errorf("%w: no user id", ErrInvalidToken)
			}
			return claims.User.ID, nil
		}
		lastErr = err
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return "", fmt.Errorf("%w: %v", ErrInvalidToken, lastErr)
}
