// Package domain contains persistence models for recurring pickup schedules.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PickupSchedule is a recurring pickup template owned by a supplier.
type PickupSchedule struct {
	ID                       int64          `gorm:"primaryKey;autoIncrement"`
	SupplierID               int64          `gorm:"column:supplier_id;not null"`
	DefaultCommunityID       *int64         `gorm:"column:default_community_id"`
	IsActive                 bool           `gorm:"column:is_active;not null"`
	CronExpression           string         `gorm:"column:cron_expression;not null"`
	PickupTimeOfDay          string         `gorm:"column:pickup_time_of_day;not null"`
	PickupDurationMinutes    int            `gorm:"column:pickup_duration_minutes;not null"`
	DefaultFoodCategory      datatypes.JSON `gorm:"column:default_food_category"`
	DefaultEstimatedWeightKg *float64       `gorm:"column:default_estimated_weight_kg"`
	CreatedAt                time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt                time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PickupSchedule) TableName() string { return "pickup_schedules" }

// ScheduleRow is a schedule joined with the external ids of its organizations.
type ScheduleRow struct {
	ID                       int64          `gorm:"column:id"`
	SupplierID               int64          `gorm:"column:supplier_id"`
	IsActive                 bool           `gorm:"column:is_active"`
	CronExpression           string         `gorm:"column:cron_expression"`
	PickupTimeOfDay          string         `gorm:"column:pickup_time_of_day"`
	PickupDurationMinutes    int            `gorm:"column:pickup_duration_minutes"`
	DefaultFoodCategory      datatypes.JSON `gorm:"column:default_food_category"`
	DefaultEstimatedWeightKg *float64       `gorm:"column:default_estimated_weight_kg"`
	SupplierOrgID            string         `gorm:"column:supplier_org_id"`
	DefaultCommunityOrgID    *string        `gorm:"column:default_community_org_id"`
}
