package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/km-arc/go-force/framework/config"
)

// Claims are the JWT claims issued and accepted by the application.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenValidator checks a raw token. A nil result or an error rejects it.
type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// ErrInvalidToken is returned for every token that fails validation.
var ErrInvalidToken = errors.New("security: invalid token")

// JWT issues and validates HMAC-SHA256 signed tokens.
type JWT struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWT builds the token service from the jwt.* settings. Without a secret an
// ephemeral one is generated, so tokens do not survive a restart.
func NewJWT(cfg config.JWTConfig) *JWT {
	secret := cfg.Secret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	ttl := cfg.Expiration
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWT{secret: []byte(secret), issuer: cfg.Issuer, ttl: ttl, now: time.Now}
}

// Generate signs a token for subject valid for the configured expiration.
func (j *JWT) Generate(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("security: empty subject")
	}
	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("security: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses token and checks its signature, issuer and expiry.
func (j *JWT) Validate(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
