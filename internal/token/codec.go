package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed structure and expiry all collapse into this one kind.
// Callers cannot tell an expired token from a tampered one.
var ErrInvalidToken = errors.New("invalid token")

// greeting is a fixed informational claim carried in every token. It has
// no semantic weight; verification ignores it beyond signature coverage.
const greeting = "Come to the dark side, we have cookies."

// Config fixes the signing secret and token lifetime at startup.
// Secret is the standard base64 encoding of the HMAC-SHA256 key.
type Config struct {
	Secret string
	TTL    time.Duration
}

// Claims is the token payload: subject, issued-at, expiry and the
// informational claim.
type Claims struct {
	Message string `json:"messagefromauthservice,omitempty"`
	jwt.RegisteredClaims
}

// Codec mints and verifies signed bearer tokens. It is stateless beyond
// the immutable key and TTL, so a single instance is safe for concurrent
// use.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec builds a codec from the configured secret and TTL.
func NewCodec(cfg Config) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 850000 * time.Millisecond
	}
	return &Codec{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock overrides the codec's time source. Intended for tests that
// need to cross the expiry boundary without sleeping.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	clone := *c
	clone.now = now
	return &clone
}

// TTL reports the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Mint signs a token for the given subject, valid from now until
// now+ttl.
func (c *Codec) Mint(subject string) (string, error) {
	issued := c.now()
	claims := &Claims{
		Message: greeting,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure and expiry and returns the claims.
// Any failure yields ErrInvalidToken.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.key, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractSubject is Verify followed by reading the subject claim.
func (c *Codec) ExtractSubject(tokenStr string) (string, error) {
	claims, err := c.Verify(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
