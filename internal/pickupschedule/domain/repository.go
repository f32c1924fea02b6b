package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListBySupplier(ctx context.Context, supplierID int64, limit, offset int) ([]ScheduleRow, error)
	// FindRow returns nil without error when no row matches.
	FindRow(ctx context.Context, id int64) (*ScheduleRow, error)
	FindByID(ctx context.Context, id int64) (*PickupSchedule, error)
	Create(ctx context.Context, schedule *PickupSchedule) error
	Update(ctx context.Context, id int64, fields map[string]any) error
}
