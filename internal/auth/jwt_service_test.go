package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", want: ""},
		{name: "basic scheme", header: "Basic YWxpY2U6cGFzc3dvcmQ=", want: ""},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", want: ""},
		{name: "scheme without token", header: "Bearer ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBearerToken(tt.header))
		})
	}
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateAccessToken(7, "alice", []string{"DEV", "ADMIN"})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, []string{"DEV", "ADMIN"}, claims.Roles)
	assert.Empty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateRefreshToken(7, "alice")
	assert.NoError(t, err)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Empty(t, claims.Roles)
	assert.WithinDuration(t, time.Now().Add(RefreshTokenExpiry), claims.ExpiresAt.Time, 5*time.Second)

	// JTIs distinguish individual refresh tokens.
	other, err := service.GenerateRefreshToken(7, "alice")
	assert.NoError(t, err)
	otherClaims, err := service.ValidateToken(other)
	assert.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestJWTService_ValidateToken_Rejections(t *testing.T) {
	service := NewJWTService("test-secret")
	token, err := service.GenerateAccessToken(7, "alice", nil)
	assert.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		otherService := NewJWTService("other-secret")
		claims, err := otherService.ValidateToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("tampered token", func(t *testing.T) {
		claims, err := service.ValidateToken(token + "x")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("not a jwt", func(t *testing.T) {
		claims, err := service.ValidateToken("not-a-jwt")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			UserID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		signed, err := expired.SignedString([]byte("test-secret"))
		assert.NoError(t, err)

		claims, err := service.ValidateToken(signed)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
		})
		signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		assert.NoError(t, err)

		claims, err := service.ValidateToken(signed)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestJWTService_ExtractUsername(t *testing.T) {
	service := NewJWTService("test-secret")
	token, err := service.GenerateAccessToken(7, "alice", nil)
	assert.NoError(t, err)

	username, err := service.ExtractUsername(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", username)

	_, err = service.ExtractUsername("not-a-jwt")
	assert.Error(t, err)
}
