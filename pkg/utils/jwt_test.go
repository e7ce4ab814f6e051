package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "ecobin-telemetry/pkg/errors"
)

const testSecret = "unit-test-secret"

func TestValidateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "device-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "device",
	}, testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)

	require.NoError(t, err)
	assert.Equal(t, "device-42", claims.Subject)
	assert.Equal(t, "device", claims.EffectiveRole())
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, "a-different-secret")

	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)

	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestValidateToken_RejectsUnsignedToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(signed, testSecret)

	assert.Error(t, err)
}

func TestEffectiveRole(t *testing.T) {
	tests := []struct {
		name     string
		claims   *Claims
		expected string
	}{
		{
			name:     "top-level role",
			claims:   &Claims{Role: "device"},
			expected: "device",
		},
		{
			name:     "top-level role is lowercased",
			claims:   &Claims{Role: "OPERATOR"},
			expected: "operator",
		},
		{
			name:     "user_metadata role",
			claims:   &Claims{UserMetadata: map[string]interface{}{"role": "host"}},
			expected: "host",
		},
		{
			name: "user_metadata wins over top-level",
			claims: &Claims{
				Role:         "host",
				UserMetadata: map[string]interface{}{"role": "Operator"},
			},
			expected: "operator",
		},
		{
			name: "non-string metadata role falls back to top-level",
			claims: &Claims{
				Role:         "host",
				UserMetadata: map[string]interface{}{"role": 42},
			},
			expected: "host",
		},
		{
			name:     "no role claim",
			claims:   &Claims{},
			expected: "",
		},
		{
			name:     "nil claims",
			claims:   nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.claims.EffectiveRole())
		})
	}
}
