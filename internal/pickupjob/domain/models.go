// Package domain contains persistence models for pickup jobs.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusNew               = "New"
	StatusTriage            = "Triage"
	StatusLogisticsAssigned = "Logistics Assigned"
	StatusInTransit         = "In Transit"
	StatusDelivered         = "Delivered"
	StatusCanceled          = "Canceled"
)

// PickupJob is one food pickup between a supplier, a community and a logistics
// organization.
type PickupJob struct {
	ID                int64          `gorm:"primaryKey;autoIncrement"`
	ScheduleID        *int64         `gorm:"column:schedule_id"`
	Status            string         `gorm:"column:status;not null"`
	PickupWindowStart time.Time      `gorm:"column:pickup_window_start;not null"`
	PickupWindowEnd   time.Time      `gorm:"column:pickup_window_end;not null"`
	FoodCategory      datatypes.JSON `gorm:"column:food_category"`
	EstimatedWeightKg float64        `gorm:"column:estimated_weight_kg;not null"`
	Packaging         *string        `gorm:"column:packaging"`
	HandlingNotes     *string        `gorm:"column:handling_notes"`
	SupplierID        *int64         `gorm:"column:supplier_id"`
	CommunityID       *int64         `gorm:"column:community_id"`
	LogisticsID       *int64         `gorm:"column:logistics_id"`
	DriverUserID      *string        `gorm:"column:driver_auth0_user_id"`
	CreatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PickupJob) TableName() string { return "pickup_jobs" }

// JobRow is a pickup job joined with the external ids of its organizations.
type JobRow struct {
	ID                int64          `gorm:"column:id"`
	ScheduleID        *int64         `gorm:"column:schedule_id"`
	Status            string         `gorm:"column:status"`
	PickupWindowStart time.Time      `gorm:"column:pickup_window_start"`
	PickupWindowEnd   time.Time      `gorm:"column:pickup_window_end"`
	FoodCategory      datatypes.JSON `gorm:"column:food_category"`
	EstimatedWeightKg float64        `gorm:"column:estimated_weight_kg"`
	Packaging         *string        `gorm:"column:packaging"`
	HandlingNotes     *string        `gorm:"column:handling_notes"`
	SupplierOrgID     *string        `gorm:"column:supplier_org_id"`
	CommunityOrgID    *string        `gorm:"column:community_org_id"`
	LogisticsOrgID    *string        `gorm:"column:logistics_org_id"`
	DriverUserID      *string        `gorm:"column:driver_user_id"`
}

func ValidStatus(v string) bool {
	switch v {
	case StatusNew, StatusTriage, StatusLogisticsAssigned, StatusInTransit, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// DriverStatus reports whether a driver may move a job into status v.
func DriverStatus(v string) bool {
	return v == StatusInTransit || v == StatusDelivered
}
