package jwt_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraease/internal/pkg/jwt"
)

func TestGenerateAndValidate(t *testing.T) {
	codec := jwt.NewCodec("test-signing-key", 30*time.Minute, "libraease")

	token, err := codec.Generate(42, "MEMBER")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "MEMBER", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "libraease", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateExpired(t *testing.T) {
	codec := jwt.NewCodec("test-signing-key", -1*time.Minute, "libraease")

	token, err := codec.Generate(1, "ADMIN")
	require.NoError(t, err)

	_, err = codec.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	codec := jwt.NewCodec("secret-a", 30*time.Minute, "libraease")
	other := jwt.NewCodec("secret-b", 30*time.Minute, "libraease")

	token, err := codec.Generate(1, "ADMIN")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestValidateMalformed(t *testing.T) {
	codec := jwt.NewCodec("test-signing-key", 30*time.Minute, "libraease")

	_, err := codec.Validate("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)

	_, err = codec.Validate("")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestValidateRejectsWrongAlgorithm(t *testing.T) {
	codec := jwt.NewCodec("test-signing-key", 30*time.Minute, "libraease")

	unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}
