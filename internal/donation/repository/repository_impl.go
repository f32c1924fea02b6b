package repository

import (
	"context"

	"github.com/smallbiznis/replate/internal/donation/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Donation, error) {
	var items []domain.Donation
	err := r.db.WithContext(ctx).
		Where("auth0_user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Create(ctx context.Context, donation *domain.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}
