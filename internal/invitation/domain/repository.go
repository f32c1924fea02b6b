package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	OrgExternalID string
	Status        string
	OrgType       string
	Query         string
	// Now is the reference time for the expired/invited split.
	Now time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, filter ListFilter) ([]InvitationSummary, error)
	Create(ctx context.Context, inv *Invitation) error
	Delete(ctx context.Context, organizationID, id int64) (int64, error)
}
