package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	// OrganizationID matches the supplier, community or logistics side.
	OrganizationID int64
	DriverUserID   string
	Status         string
	Limit          int
	Offset         int
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, filter ListFilter) ([]JobRow, error)
	// FindRow returns nil without error when no row matches.
	FindRow(ctx context.Context, id int64) (*JobRow, error)
	FindByID(ctx context.Context, id int64) (*PickupJob, error)
	Create(ctx context.Context, job *PickupJob) error
	UpdateStatus(ctx context.Context, id int64, status string) error
}
