package repository

import (
	"context"

	"github.com/smallbiznis/replate/internal/suggestion/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, suggestion *domain.Suggestion) error {
	return r.db.WithContext(ctx).Create(suggestion).Error
}
