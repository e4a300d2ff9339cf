package security_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-force/framework/config"
	"github.com/km-arc/go-force/framework/security"
)

func newJWT() *security.JWT {
	return security.NewJWT(config.JWTConfig{Secret: "s3cr3t", Issuer: "GoForce", Expiration: time.Minute})
}

func TestJWT_GenerateAndValidate(t *testing.T) {
	j := newJWT()

	token, err := j.Generate("alice")
	require.NoError(t, err)

	claims, err := j.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "GoForce", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestJWT_EmptySubject(t *testing.T) {
	_, err := newJWT().Generate("")
	assert.Error(t, err)
}

func TestJWT_RejectsForeignSecret(t *testing.T) {
	other := security.NewJWT(config.JWTConfig{Secret: "other", Issuer: "GoForce"})
	token, err := other.Generate("alice")
	require.NoError(t, err)

	_, err = newJWT().Validate(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestJWT_RejectsForeignIssuer(t *testing.T) {
	other := security.NewJWT(config.JWTConfig{Secret: "s3cr3t", Issuer: "someone-else"})
	token, _ := other.Generate("alice")

	_, err := newJWT().Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestJWT_RejectsExpired(t *testing.T) {
	j := newJWT()
	issued := time.Now()
	j.SetClock(func() time.Time { return issued })
	token, err := j.Generate("alice")
	require.NoError(t, err)

	j.SetClock(func() time.Time { return issued.Add(2 * time.Minute) })
	_, err = j.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWT_RejectsOtherAlgorithms(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newJWT().Validate(unsigned)
	assert.True(t, errors.Is(err, security.ErrInvalidToken))
}

func TestJWT_EphemeralSecret(t *testing.T) {
	a := security.NewJWT(config.JWTConfig{Issuer: "x"})
	b := security.NewJWT(config.JWTConfig{Issuer: "x"})

	token, err := a.Generate("alice")
	require.NoError(t, err)
	_, err = a.Validate(token)
	assert.NoError(t, err)
	_, err = b.Validate(token)
	assert.Error(t, err, "each instance gets its own secret")
}
