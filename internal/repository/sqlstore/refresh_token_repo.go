package sqlstore

import (
	"context"
	"errors"

	"github.com/finport/dispute-portal/internal/domain"
	"gorm.io/gorm"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *refreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var stored domain.RefreshToken
	err := r.db.WithContext(ctx).First(&stored, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}
	return &stored, nil
}

func (r *refreshTokenRepository) Update(ctx context.Context, token *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}
