package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, user User) error
	FindByExternalID(ctx context.Context, externalID string) (*User, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
}
