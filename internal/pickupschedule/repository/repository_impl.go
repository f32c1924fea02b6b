package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/replate/internal/pickupschedule/domain"
	"gorm.io/gorm"
)

const scheduleColumns = `s.id, s.supplier_id, s.is_active, s.cron_expression, s.pickup_time_of_day,
	s.pickup_duration_minutes, s.default_food_category, s.default_estimated_weight_kg,
	sup.auth0_org_id AS supplier_org_id,
	com.auth0_org_id AS default_community_org_id`

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
		Table("pickup_schedules AS s").
		Select(scheduleColumns).
		Joins("JOIN organizations sup ON s.supplier_id = sup.id").
		Joins("LEFT JOIN organizations com ON s.default_community_id = com.id")
}

func (r *repository) ListBySupplier(ctx context.Context, supplierID int64, limit, offset int) ([]domain.ScheduleRow, error) {
	var rows []domain.ScheduleRow
	err := r.joined(ctx).
		Where("s.supplier_id = ?", supplierID).
		Order("s.id DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindRow(ctx context.Context, id int64) (*domain.ScheduleRow, error) {
	var rows []domain.ScheduleRow
	if err := r.joined(ctx).Where("s.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*domain.PickupSchedule, error) {
	var schedule domain.PickupSchedule
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *repository) Create(ctx context.Context, schedule *domain.PickupSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *repository) Update(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.PickupSchedule{}).
		Where("id = ?", id).
		Updates(fields).Error
}
