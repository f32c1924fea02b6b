package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/replate/internal/pickupjob/domain"
	"gorm.io/gorm"
)

const jobColumns = `j.id, j.schedule_id, j.status, j.pickup_window_start, j.pickup_window_end,
	j.food_category, j.estimated_weight_kg, j.packaging, j.handling_notes,
	sup.auth0_org_id AS supplier_org_id,
	com.auth0_org_id AS community_org_id,
	logi.auth0_org_id AS logistics_org_id,
	j.driver_auth0_user_id AS driver_user_id`

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("pickup_jobs AS j").
		Select(jobColumns).
		Joins("LEFT JOIN organizations sup ON j.supplier_id = sup.id").
		Joins("LEFT JOIN organizations com ON j.community_id = com.id").
		Joins("LEFT JOIN organizations logi ON j.logistics_id = logi.id")
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.JobRow, error) {
	q := r.joined(ctx).Where("(j.supplier_id = ? OR j.community_id = ? OR j.logistics_id = ?)",
		filter.OrganizationID, filter.OrganizationID, filter.OrganizationID)
	if filter.DriverUserID != "" {
		q = q.Where("j.driver_auth0_user_id = ?", filter.DriverUserID)
	}
	if filter.Status != "" {
		q = q.Where("j.status = ?", filter.Status)
	}

	var rows []domain.JobRow
	err := q.Order("j.pickup_window_start DESC").Order("j.id DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindRow(ctx context.Context, id int64) (*domain.JobRow, error) {
	var rows []domain.JobRow
	if err := r.joined(ctx).Where("j.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*domain.PickupJob, error) {
	var job domain.PickupJob
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) Create(ctx context.Context, job *domain.PickupJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&domain.PickupJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
