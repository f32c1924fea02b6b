package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/replate/internal/user/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertColumns is every mirrored column; the webhook payload is authoritative.
var upsertColumns = []string{
	"auth0_org_id",
	"email",
	"email_verified",
	"name",
	"picture",
	"blocked",
	"family_name",
	"given_name",
	"nickname",
	"phone_number",
	"phone_verified",
	"user_metadata",
	"app_metadata",
	"identities",
	"last_event_processed",
	"updated_at",
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Upsert(ctx context.Context, user domain.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "auth0_user_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(&user).Error
}

func (r *repository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("auth0_user_id = ?", externalID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) DeleteByExternalID(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).
		Where("auth0_user_id = ?", externalID).
		Delete(&domain.User{}).Error
}
