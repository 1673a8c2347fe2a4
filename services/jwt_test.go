package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.ToJWT("user-1", "STUDENT")
	require.NoError(t, err)

	userID, role, err := svc.VerifyJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "STUDENT", role)
}

func TestJWTRejectsInvalidTokens(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	otherKey, err := NewJWTService("other-secret", time.Hour).ToJWT("user-1", "STUDENT")
	require.NoError(t, err)

	expired, err := NewJWTService("test-secret", -time.Minute).ToJWT("user-1", "STUDENT")
	require.NoError(t, err)

	otherIssuer := NewJWTService("test-secret", time.Hour)
	otherIssuer.issuer = "someone-else"
	wrongIssuer, err := otherIssuer.ToJWT("user-1", "STUDENT")
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-1",
		"iss":     "StartInfo",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"signed with another key", otherKey},
		{"expired", expired},
		{"wrong issuer", wrongIssuer},
		{"unsigned", noneAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.VerifyJWTToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	tests := []struct {
		name    string
		header  string
		token   string
		wantErr bool
	}{
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing", "", "", true},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", true},
		{"empty token", "Bearer   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}
