package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rosterup/internal/auth"
	apperrors "rosterup/internal/errors"
	"rosterup/internal/model"
	"rosterup/internal/repository"
)

const bcryptCost = 10

// AuthService issues, rotates, and revokes bearer token pairs.
type AuthService interface {
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, authHeaderValue string) (accessToken, refreshToken string, err error)
	Logout(ctx context.Context, authHeaderValue string) error
	ValidateAccessToken(ctx context.Context, tokenString string) (*model.User, *auth.Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwt       *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwt *auth.JWTService) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwt:       jwt,
	}
}

// Login verifies credentials, rotates out every previously valid token for the
// user, and issues a fresh access/refresh pair. The access token is persisted;
// at most one token row per user is ever valid.
func (s *authService) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", "", apperrors.ErrInvalidCredentials
	}
	if !user.Enabled || !user.AccountNonLocked {
		return "", "", apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.RoleNames())
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.rotateTokens(ctx, user, accessToken); err != nil {
		return "", "", fmt.Errorf("rotate tokens: %w", err)
	}
	return accessToken, refreshToken, nil
}

// Refresh exchanges a refresh token presented in an Authorization header for a
// new access token. A missing or malformed bearer header is a silent no-op:
// nothing is returned and no error is raised.
func (s *authService) Refresh(ctx context.Context, authHeaderValue string) (string, string, error) {
	refreshToken := auth.ExtractBearerToken(authHeaderValue)
	if refreshToken == "" {
		return "", "", nil
	}

	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return "", "", apperrors.ErrInvalidToken
	}
	user, err := s.userRepo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return "", "", apperrors.ErrInvalidToken
	}
	if !user.Enabled {
		return "", "", apperrors.ErrInvalidToken
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.RoleNames())
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	if err := s.rotateTokens(ctx, user, accessToken); err != nil {
		return "", "", fmt.Errorf("rotate tokens: %w", err)
	}
	// The refresh token itself is returned unchanged.
	return accessToken, refreshToken, nil
}

// Logout revokes every valid token for the subject of a well-formed bearer
// header. An absent or non-bearer header is a no-op.
func (s *authService) Logout(ctx context.Context, authHeaderValue string) error {
	token := auth.ExtractBearerToken(authHeaderValue)
	if token == "" {
		return nil
	}
	username, err := s.jwt.ExtractUsername(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	return s.tokenRepo.RevokeAllByUserID(ctx, user.ID)
}

// ValidateAccessToken checks signature, expiry, and the persisted token
// record. Revoked or rotated-out tokens are rejected even when their
// signature is still valid.
func (s *authService) ValidateAccessToken(ctx context.Context, tokenString string) (*model.User, *auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidToken
	}

	record, err := s.tokenRepo.FindByToken(ctx, tokenString)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("find token: %w", err)
	}
	if !record.Valid() {
		return nil, nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidToken
	}
	if !user.Enabled {
		return nil, nil, apperrors.ErrInvalidToken
	}
	return user, claims, nil
}

// rotateTokens flags all currently valid tokens for the user as revoked and
// expired and persists the replacement, atomically.
func (s *authService) rotateTokens(ctx context.Context, user *model.User, accessToken string) error {
	return s.tokenRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.TokenRepository) error {
		if err := repo.RevokeAllByUserID(ctx, user.ID); err != nil {
			return err
		}
		return repo.Create(ctx, &model.Token{
			Token:     accessToken,
			TokenType: model.TokenTypeBearer,
			UserID:    user.ID,
		})
	})
}
