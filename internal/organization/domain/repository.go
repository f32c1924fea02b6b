package domain

import (
	"context"

	"gorm.io/gorm"
)

// ListFilter narrows the admin organization listing.
type ListFilter struct {
	OrgType   string
	SSOStatus string
	Query     string
	Limit     int
	Offset    int
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, filter ListFilter) ([]Organization, error)
	// FindByExternalID returns nil without error when no row matches.
	FindByExternalID(ctx context.Context, externalID string) (*Organization, error)
	FindByID(ctx context.Context, id int64) (*Organization, error)
	UpsertCreated(ctx context.Context, org Organization) error
	UpsertFromEvent(ctx context.Context, org Organization) error
	Update(ctx context.Context, externalID string, fields map[string]any) (int64, error)
	SetSSOStatus(ctx context.Context, id int64, status string) error
	DeleteByExternalID(ctx context.Context, externalID string) error
}
