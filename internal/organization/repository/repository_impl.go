package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/replate/internal/organization/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Organization, error) {
	q := r.db.WithContext(ctx).Model(&domain.Organization{})
	if filter.OrgType != "" {
		q = q.Where("org_type = ?", filter.OrgType)
	}
	if filter.SSOStatus != "" {
		q = q.Where("sso_status = ?", filter.SSOStatus)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("(name LIKE ? OR domain LIKE ?)", like, like)
	}

	var orgs []domain.Organization
	err := q.Order("name").Limit(filter.Limit).Offset(filter.Offset).Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repository) FindByExternalID(ctx context.Context, externalID string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).Where("auth0_org_id = ?", externalID).Take(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// UpsertCreated records an organization created through the admin API. A webhook
// may already have mirrored the same id, in which case the admin fields win.
func (r *repository) UpsertCreated(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "auth0_org_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "org_type", "domain", "sso_status", "updated_at"}),
	}).Create(&org).Error
}

// UpsertFromEvent mirrors a webhook payload. org_type is only written on insert.
func (r *repository) UpsertFromEvent(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "auth0_org_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "display_name", "branding", "metadata", "last_event_processed", "updated_at"}),
	}).Create(&org).Error
}

func (r *repository) Update(ctx context.Context, externalID string, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("auth0_org_id = ?", externalID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repository) SetSSOStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ?", id).
		Update("sso_status", status).Error
}

func (r *repository) DeleteByExternalID(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).
		Where("auth0_org_id = ?", externalID).
		Delete(&domain.Organization{}).Error
}
