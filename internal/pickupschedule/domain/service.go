package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/replate/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, callerOrgID string, page pagination.Page) ([]Schedule, error)
	Create(ctx context.Context, callerOrgID string, req CreateRequest) (*Schedule, error)
	Update(ctx context.Context, callerOrgID string, id int64, req UpdateRequest) (*Schedule, error)

	ListDeliverySchedules(ctx context.Context, callerOrgID string) ([]DeliverySchedule, error)
	UpdateDeliverySchedule(ctx context.Context, callerOrgID string, id string) (*DeliverySchedule, error)
}

type Schedule struct {
	ID                       int64      `json:"id"`
	SupplierID               string     `json:"supplier_id"`
	DefaultCommunityID       *string    `json:"default_community_id"`
	IsActive                 bool       `json:"is_active"`
	CronExpression           string     `json:"cron_expression"`
	PickupTimeOfDay          string     `json:"pickup_time_of_day"`
	PickupDurationMinutes    int        `json:"pickup_duration_minutes"`
	DefaultFoodCategory      []string   `json:"default_food_category,omitempty"`
	DefaultEstimatedWeightKg *float64   `json:"default_estimated_weight_kg,omitempty"`
	NextRunAt                *time.Time `json:"next_run_at,omitempty"`
}

type CreateRequest struct {
	DefaultCommunityID       *string  `json:"default_community_id"`
	IsActive                 *bool    `json:"is_active"`
	CronExpression           string   `json:"cron_expression" binding:"required"`
	PickupTimeOfDay          string   `json:"pickup_time_of_day" binding:"required"`
	PickupDurationMinutes    int      `json:"pickup_duration_minutes"`
	DefaultFoodCategory      []string `json:"default_food_category"`
	DefaultEstimatedWeightKg *float64 `json:"default_estimated_weight_kg"`
}

// UpdateRequest changes only the fields present in the body.
type UpdateRequest struct {
	DefaultCommunityID       Optional[string]   `json:"default_community_id"`
	IsActive                 Optional[bool]     `json:"is_active"`
	CronExpression           Optional[string]   `json:"cron_expression"`
	PickupTimeOfDay          Optional[string]   `json:"pickup_time_of_day"`
	PickupDurationMinutes    Optional[int]      `json:"pickup_duration_minutes"`
	DefaultFoodCategory      Optional[[]string] `json:"default_food_category"`
	DefaultEstimatedWeightKg Optional[float64]  `json:"default_estimated_weight_kg"`
}

// DeliverySchedule has no backing table yet.
type DeliverySchedule struct {
	ID string `json:"id"`
}

var (
	ErrNotFound                 = errors.New("pickup_schedule_not_found")
	ErrForbidden                = errors.New("pickup_schedule_forbidden")
	ErrInvalidID                = errors.New("invalid_schedule_id")
	ErrInvalidCron              = errors.New("invalid_cron_expression")
	ErrInvalidTimeOfDay         = errors.New("invalid_pickup_time_of_day")
	ErrInvalidDuration          = errors.New("invalid_pickup_duration_minutes")
	ErrInvalidWeight            = errors.New("invalid_default_estimated_weight_kg")
	ErrDeliveryScheduleNotFound = errors.New("delivery_schedule_not_found")
)
