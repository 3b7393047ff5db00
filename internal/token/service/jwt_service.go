package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	tokenDomain "github.com/ryuqq/authhub/internal/token/domain"
)

// jwtClaims is the wire format of the signed payload.
type jwtClaims struct {
	TokenType      string   `json:"token_type"`
	TenantID       string   `json:"tenant_id,omitempty"`
	OrganizationID string   `json:"organization_id,omitempty"`
	Roles          []string `json:"roles,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// jwtService implements TokenService with HMAC-SHA256 signatures.
type jwtService struct {
	secretKey []byte
	issuer    string
}

// NewJWTService creates a TokenService signing with HS256.
func NewJWTService(secretKey, issuer string) TokenService {
	return &jwtService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// Issue signs a token with a freshly generated JTI.
func (j *jwtService) Issue(
	identity *Identity,
	tokenType tokenDomain.TokenType,
	lifetime time.Duration,
) (string, *tokenDomain.Claims, error) {
	now := time.Now()
	expiresAt := now.Add(lifetime)
	jti := uuid.NewString()

	claims := jwtClaims{
		TokenType:      string(tokenType),
		TenantID:       identity.TenantID,
		OrganizationID: identity.OrganizationID,
		Roles:          identity.Roles,
		Permissions:    identity.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   identity.UserID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "failed to sign token")
	}

	return signed, &tokenDomain.Claims{
		JTI:            jti,
		Type:           tokenType,
		Subject:        identity.UserID,
		TenantID:       identity.TenantID,
		OrganizationID: identity.OrganizationID,
		Roles:          identity.Roles,
		Permissions:    identity.Permissions,
		IssuedAt:       now,
		ExpiresAt:      expiresAt,
	}, nil
}

// Verify validates the signature, issuer, and expiry of a token.
func (j *jwtService) Verify(token string) (*tokenDomain.Claims, error) {
	var claims jwtClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Wrap(tokenDomain.ErrInvalidToken, "unexpected signing method")
		}
		return j.secretKey, nil
	}, jwt.WithIssuer(j.issuer))
	if err != nil || !parsed.Valid {
		return nil, tokenDomain.ErrInvalidToken
	}

	result := &tokenDomain.Claims{
		JTI:            claims.ID,
		Type:           tokenDomain.TokenType(claims.TokenType),
		Subject:        claims.Subject,
		TenantID:       claims.TenantID,
		OrganizationID: claims.OrganizationID,
		Roles:          claims.Roles,
		Permissions:    claims.Permissions,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

// ExtractJTI verifies the token and returns its identifier.
func (j *jwtService) ExtractJTI(token string) (string, error) {
	claims, err := j.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.JTI, nil
}
