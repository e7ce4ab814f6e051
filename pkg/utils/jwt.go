package utils

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	appErrors "ecobin-telemetry/pkg/errors"
)

// Claims is the claim set carried by device and user tokens. The role can
// appear either as a top-level claim or nested inside user_metadata,
// depending on which identity provider issued the token; EffectiveRole
// handles both.
type Claims struct {
	jwt.RegisteredClaims
	Role         string                 `json:"role,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// EffectiveRole returns the lowercased role claim. user_metadata.role wins
// over the top-level claim when both are present.
func (c *Claims) EffectiveRole() string {
	if c == nil {
		return ""
	}
	if c.UserMetadata != nil {
		if v, ok := c.UserMetadata["role"]; ok {
			if s, ok := v.(string); ok && s != "" {
				return strings.ToLower(s)
			}
		}
	}
	if c.Role != "" {
		return strings.ToLower(c.Role)
	}
	return ""
}

// ValidateToken parses and verifies an HS256 token against the shared
// secret. Expiry and not-before are enforced by the parser.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, appErrors.ErrInvalidToken
	}

	return claims, nil
}

// GenerateToken signs a claim set with the shared secret. Used by tests and
// provisioning scripts; the service itself never issues tokens.
func GenerateToken(claims *Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
