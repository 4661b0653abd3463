package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "company-1", user.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "company-1", claims["company_id"])
	assert.Equal(t, "ADMIN", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("one-secret", time.Hour)
	verifier := NewJWTService("another-secret", time.Hour)

	token, _, err := issuer.GenerateAccessToken("user-1", "company-1", user.RoleEmployee)
	require.NoError(t, err)

	_, err = verifier.JWTAuth().Decode(token)
	assert.Error(t, err)
}
