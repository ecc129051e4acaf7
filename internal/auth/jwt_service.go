package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// AccessTokenExpiry is the duration for which access tokens are valid.
	AccessTokenExpiry = 15 * time.Minute
	// RefreshTokenExpiry is the duration for which refresh tokens are valid.
	RefreshTokenExpiry = 7 * 24 * time.Hour

	bearerPrefix = "Bearer "
)

// Claims represents JWT claims carried by issued tokens. Subject is the
// username.
type Claims struct {
	UserID uint     `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// ExtractBearerToken returns the token portion of an Authorization header
// value, or "" when the header is absent or not a bearer scheme.
func ExtractBearerToken(headerValue string) string {
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return ""
	}
	return headerValue[len(bearerPrefix):]
}

// JWTService signs and verifies the compact time-bound tokens used for
// authentication.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given signing secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// GenerateAccessToken generates a new access token for the user.
func (s *JWTService) GenerateAccessToken(userID uint, username string, roles []string) (string, error) {
	return s.generate(userID, username, roles, AccessTokenExpiry, "")
}

// GenerateRefreshToken generates a new refresh token for the user. Refresh
// tokens carry a unique JTI so individual tokens are distinguishable.
func (s *JWTService) GenerateRefreshToken(userID uint, username string) (string, error) {
	return s.generate(userID, username, nil, RefreshTokenExpiry, uuid.New().String())
}

func (s *JWTService) generate(userID uint, username string, roles []string, expiry time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies signature and expiry and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ExtractUsername returns the subject of a valid token.
func (s *JWTService) ExtractUsername(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token subject not found")
	}
	return claims.Subject, nil
}
