// Package auth decides who may open a quoting session: an HS256 token carries the
// operator's email, and the email must be on the allow-list.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rgehrsitz/lensquote/internal/domain"
)

// DefaultTokenTTL is the lifetime of issued tokens
const DefaultTokenTTL = 12 * time.Hour

// AllowList is a case-insensitive set of authorized emails
type AllowList struct {
	emails map[string]struct{}
}

// NewAllowList builds an allow-list; blank entries are ignored
func NewAllowList(emails ...string) *AllowList {
	a := &AllowList{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		e = normalizeEmail(e)
		if e != "" {
			a.emails[e] = struct{}{}
		}
	}
	return a
}

// ParseAllowList parses a comma separated list of emails
func ParseAllowList(s string) *AllowList {
	return NewAllowList(strings.Split(s, ",")...)
}

// Allowed reports whether email is on the list
func (a *AllowList) Allowed(email string) bool {
	if a == nil {
		return false
	}
	_, ok := a.emails[normalizeEmail(email)]
	return ok
}

// Len returns the number of entries
func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.emails)
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Claims are the token claims
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenVerifier issues and verifies operator tokens
type TokenVerifier struct {
	secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// NewTokenVerifier creates a verifier for an HMAC secret
func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("token secret not set")
	}
	return &TokenVerifier{secret: []byte(secret), TTL: DefaultTokenTTL, Now: time.Now}, nil
}

// IssueToken signs a token carrying email
func (v *TokenVerifier) IssueToken(email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", errors.New("empty email passed to IssueToken")
	}
	now := v.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Verify checks the signature and expiry and returns the email claim
func (v *TokenVerifier) Verify(tokenString string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.Now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if claims.Email == "" {
		return "", errors.New("invalid token claims: missing email")
	}
	return claims.Email, nil
}

// Gate combines token verification with the allow-list
type Gate struct {
	Verifier *TokenVerifier
	Allow    *AllowList
}

// Authorize verifies a bearer token and returns the email with the allow-list
// decision. An invalid token yields domain.ErrUnauthorized.
func (g *Gate) Authorize(tokenString string) (string, bool, error) {
	if g == nil || g.Verifier == nil {
		return "", false, domain.ErrUnauthorized
	}
	email, err := g.Verifier.Verify(tokenString)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return email, g.Allow.Allowed(email), nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
