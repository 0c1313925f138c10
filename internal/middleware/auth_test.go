package middleware

import (
	"strconv"
	"testing"
	"time"

	"kindling/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestParseUserToken(t *testing.T) {
	secret := "test-secret-key-12345678901234567890123456789012"
	InitMiddleware(&config.Config{JWTSecret: secret})

	generateToken := func(userID uint, exp time.Duration) string {
		return signToken(t, secret, jwt.MapClaims{
			"sub": strconv.FormatUint(uint64(userID), 10),
			"iss": TokenIssuer,
			"aud": TokenAudience,
			"exp": time.Now().Add(exp).Unix(),
			"jti": "token-abc",
		})
	}

	tests := []struct {
		name           string
		token          string
		expectErr      bool
		expectedUserID uint
	}{
		{
			name:           "Happy Path",
			token:          generateToken(123, time.Hour),
			expectedUserID: 123,
		},
		{
			name:      "Malformed Token",
			token:     "malformed.token.here",
			expectErr: true,
		},
		{
			name:      "Expired Token",
			token:     generateToken(123, -time.Hour),
			expectErr: true,
		},
		{
			name: "Wrong Issuer",
			token: signToken(t, secret, jwt.MapClaims{
				"sub": "123",
				"iss": "someone-else",
				"aud": TokenAudience,
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectErr: true,
		},
		{
			name: "Wrong Audience",
			token: signToken(t, secret, jwt.MapClaims{
				"sub": "123",
				"iss": TokenIssuer,
				"aud": "other-app",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectErr: true,
		},
		{
			name: "Wrong Secret",
			token: signToken(t, "a-completely-different-signing-secret!!", jwt.MapClaims{
				"sub": "123",
				"iss": TokenIssuer,
				"aud": TokenAudience,
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectErr: true,
		},
		{
			name: "Missing Subject",
			token: signToken(t, secret, jwt.MapClaims{
				"iss": TokenIssuer,
				"aud": TokenAudience,
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectErr: true,
		},
		{
			name: "Non-numeric Subject",
			token: signToken(t, secret, jwt.MapClaims{
				"sub": "not-a-number",
				"iss": TokenIssuer,
				"aud": TokenAudience,
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			userID, claims, err := ParseUserToken(tt.token)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedUserID, userID)
			assert.Equal(t, "token-abc", claims["jti"])
		})
	}
}
