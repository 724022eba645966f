package auth

import (
	"testing"
	"time"

	"github.com/consignly/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "consignly-test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	tenantID, userID := uuid.New(), uuid.New()

	token, expiresAt, err := svc.GenerateAccessToken(GenerateTokenInput{TenantID: tenantID, UserID: userID, Username: "clerk"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	gotTenant, err := claims.GetTenantUUID()
	require.NoError(t, err)
	gotUser, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, gotTenant)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, "clerk", claims.Username)
	assert.Greater(t, claims.GetRemainingTTL(), 14*time.Minute)
}

func TestJWTService_GenerateRequiresIDs(t *testing.T) {
	svc := newTestJWTService()

	_, _, err := svc.GenerateAccessToken(GenerateTokenInput{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrMissingTenantID)
	_, _, err = svc.GenerateAccessToken(GenerateTokenInput{TenantID: uuid.New()})
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestJWTService_ValidateRejects(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()

	sign := func(claims *Claims, secret string, method jwt.SigningMethod) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := func() *Claims {
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "consignly-test",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			TenantID: uuid.NewString(),
			UserID:   uuid.NewString(),
		}
	}

	tests := []struct {
		name  string
		token func() string
		want  error
	}{
		{"garbage", func() string { return "not-a-token" }, ErrInvalidToken},
		{"wrong secret", func() string { return sign(valid(), "other-secret", jwt.SigningMethodHS256) }, ErrInvalidToken},
		{"wrong algorithm", func() string {
			return sign(valid(), "test-secret-key-at-least-32-chars", jwt.SigningMethodHS512)
		}, ErrInvalidToken},
		{"expired", func() string {
			c := valid()
			c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
			return sign(c, "test-secret-key-at-least-32-chars", jwt.SigningMethodHS256)
		}, ErrExpiredToken},
		{"not yet valid", func() string {
			c := valid()
			c.NotBefore = jwt.NewNumericDate(now.Add(time.Hour))
			return sign(c, "test-secret-key-at-least-32-chars", jwt.SigningMethodHS256)
		}, ErrTokenNotYetValid},
		{"foreign issuer", func() string {
			c := valid()
			c.Issuer = "someone-else"
			return sign(c, "test-secret-key-at-least-32-chars", jwt.SigningMethodHS256)
		}, ErrInvalidToken},
		{"missing tenant", func() string {
			c := valid()
			c.TenantID = ""
			return sign(c, "test-secret-key-at-least-32-chars", jwt.SigningMethodHS256)
		}, ErrMissingTenantID},
		{"malformed user", func() string {
			c := valid()
			c.UserID = "42"
			return sign(c, "test-secret-key-at-least-32-chars", jwt.SigningMethodHS256)
		}, ErrMissingUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
