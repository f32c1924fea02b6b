package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/replate/pkg/db/pagination"
)

// Caller is the authenticated business user acting on jobs.
type Caller struct {
	Subject string
	OrgID   string
	// Driver is set for callers allowed to progress jobs; they only see their own.
	Driver bool
}

type Service interface {
	List(ctx context.Context, caller Caller, req ListRequest) ([]Job, error)
	Create(ctx context.Context, caller Caller, req CreateRequest) (*Job, error)
	UpdateStatus(ctx context.Context, caller Caller, id int64, req UpdateStatusRequest) (*Job, error)
}

type ListRequest struct {
	Status string
	Page   pagination.Page
}

type Job struct {
	ID                int64     `json:"id"`
	ScheduleID        *int64    `json:"schedule_id"`
	Status            string    `json:"status"`
	PickupWindowStart time.Time `json:"pickup_window_start"`
	PickupWindowEnd   time.Time `json:"pickup_window_end"`
	FoodCategory      []string  `json:"food_category"`
	EstimatedWeightKg float64   `json:"estimated_weight_kg"`
	Packaging         *string   `json:"packaging"`
	HandlingNotes     *string   `json:"handling_notes"`
	SupplierOrgID     *string   `json:"supplier_org_id"`
	CommunityOrgID    *string   `json:"community_org_id"`
	LogisticsOrgID    *string   `json:"logistics_org_id"`
	DriverUserID      *string   `json:"driver_user_id"`
}

type CreateRequest struct {
	PickupWindowStart *time.Time `json:"pickup_window_start"`
	PickupWindowEnd   *time.Time `json:"pickup_window_end"`
	FoodCategory      []string   `json:"food_category"`
	EstimatedWeightKg *float64   `json:"estimated_weight_kg"`
	Packaging         *string    `json:"packaging"`
	HandlingNotes     *string    `json:"handling_notes"`
	CommunityOrgID    *string    `json:"community_org_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var (
	ErrNotFound      = errors.New("pickup_job_not_found")
	ErrForbidden     = errors.New("pickup_job_forbidden")
	ErrInvalidID     = errors.New("invalid_job_id")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidWindow = errors.New("invalid_pickup_window")
	ErrInvalidWeight = errors.New("invalid_estimated_weight")
)
