package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/ryuqq/authhub/internal/token/domain"
)

const testSecret = "test-secret-key-with-enough-entropy"

func testIdentity() *Identity {
	return &Identity{
		UserID:         "user-1",
		TenantID:       "tenant-1",
		OrganizationID: "org-1",
		Roles:          []string{"ADMIN"},
		Permissions:    []string{"user:write"},
	}
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService(testSecret, "authhub")

	signed, claims, err := svc.Issue(testIdentity(), tokenDomain.AccessToken, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	assert.NotEmpty(t, claims.JTI)
	assert.Equal(t, tokenDomain.AccessToken, claims.Type)

	verified, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, claims.JTI, verified.JTI)
	assert.Equal(t, "user-1", verified.Subject)
	assert.Equal(t, "tenant-1", verified.TenantID)
	assert.Equal(t, "org-1", verified.OrganizationID)
	assert.Equal(t, []string{"ADMIN"}, verified.Roles)
	assert.Equal(t, []string{"user:write"}, verified.Permissions)
	assert.Equal(t, tokenDomain.AccessToken, verified.Type)
	assert.WithinDuration(t, time.Now().Add(time.Hour), verified.ExpiresAt, 5*time.Second)
}

func TestJWTService_FreshJTIPerToken(t *testing.T) {
	svc := NewJWTService(testSecret, "authhub")

	_, first, err := svc.Issue(testIdentity(), tokenDomain.AccessToken, time.Hour)
	require.NoError(t, err)
	_, second, err := svc.Issue(testIdentity(), tokenDomain.AccessToken, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first.JTI, second.JTI)
}

func TestJWTService_VerifyRejections(t *testing.T) {
	svc := NewJWTService(testSecret, "authhub")

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.Verify("not-a-jwt")
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidToken)
	})

	t.Run("wrong signature", func(t *testing.T) {
		other := NewJWTService("a-completely-different-secret", "authhub")
		signed, _, err := other.Issue(testIdentity(), tokenDomain.AccessToken, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(signed)
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		signed, _, err := svc.Issue(testIdentity(), tokenDomain.AccessToken, -time.Minute)
		require.NoError(t, err)

		_, err = svc.Verify(signed)
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(testSecret, "someone-else")
		signed, _, err := other.Issue(testIdentity(), tokenDomain.AccessToken, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(signed)
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidToken)
	})

	t.Run("non-HMAC signing method", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Issuer: "authhub",
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(unsigned)
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidToken)
	})
}

func TestJWTService_ExtractJTI(t *testing.T) {
	svc := NewJWTService(testSecret, "authhub")

	signed, claims, err := svc.Issue(testIdentity(), tokenDomain.RefreshToken, time.Hour)
	require.NoError(t, err)

	jti, err := svc.ExtractJTI(signed)
	require.NoError(t, err)
	assert.Equal(t, claims.JTI, jti)

	_, err = svc.ExtractJTI("garbage")
	assert.ErrorIs(t, err, tokenDomain.ErrInvalidToken)
}
