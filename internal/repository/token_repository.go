package repository

import (
	"context"

	"gorm.io/gorm"

	"rosterup/internal/model"
)

// TokenRepository defines persisted token operations. Token rows are never
// deleted; invalidation flips the revoked and expired flags.
type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	FindByToken(ctx context.Context, token string) (*model.Token, error)
	FindAllValidByUserID(ctx context.Context, userID uint) ([]model.Token, error)
	RevokeAllByUserID(ctx context.Context, userID uint) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TokenRepository) error) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository builds a GORM-backed token repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) FindByToken(ctx context.Context, token string) (*model.Token, error) {
	var record model.Token
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *tokenRepository) FindAllValidByUserID(ctx context.Context, userID uint) ([]model.Token, error) {
	var tokens []model.Token
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked = ? AND expired = ?", userID, false, false).
		Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// RevokeAllByUserID flags every currently valid token of the user as both
// revoked and expired in a single UPDATE.
func (r *tokenRepository) RevokeAllByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&model.Token{}).
		Where("user_id = ? AND (revoked = ? OR expired = ?)", userID, false, false).
		Updates(map[string]interface{}{"revoked": true, "expired": true}).Error
}

// WithTransaction executes fn against a repository bound to one transaction.
// Token rotation must revoke and insert atomically.
func (r *tokenRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TokenRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &tokenRepository{db: tx})
	})
}
