package service

import (
	"context"
	"encoding/json"
	"strings"

	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	"github.com/smallbiznis/replate/internal/pickupjob/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type service struct {
	repo    domain.Repository
	orgRepo orgdomain.Repository
	log     *zap.Logger
}

func NewService(repo domain.Repository, orgRepo orgdomain.Repository, log *zap.Logger) domain.Service {
	return &service{
		repo:    repo,
		orgRepo: orgRepo,
		log:     log.Named("pickupjob.service"),
	}
}

// List returns jobs touching the caller's organization. Drivers only see the
// jobs assigned to them.
func (s *service) List(ctx context.Context, caller domain.Caller, req domain.ListRequest) ([]domain.Job, error) {
	org, err := s.callerOrg(ctx, caller)
	if err != nil {
		return nil, err
	}
	status := strings.TrimSpace(req.Status)
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	filter := domain.ListFilter{
		OrganizationID: org.ID,
		Status:         status,
		Limit:          req.Page.Limit(),
		Offset:         req.Page.Offset(),
	}
	if caller.Driver {
		sub := strings.TrimSpace(caller.Subject)
		if sub == "" {
			return []domain.Job{}, nil
		}
		filter.DriverUserID = sub
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	jobs := make([]domain.Job, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, toJob(&rows[i]))
	}
	return jobs, nil
}

// Create opens a new job for the caller's supplier organization.
func (s *service) Create(ctx context.Context, caller domain.Caller, req domain.CreateRequest) (*domain.Job, error) {
	if req.PickupWindowStart == nil || req.PickupWindowEnd == nil ||
		!req.PickupWindowEnd.After(*req.PickupWindowStart) {
		return nil, domain.ErrInvalidWindow
	}
	if req.EstimatedWeightKg == nil || *req.EstimatedWeightKg < 0 {
		return nil, domain.ErrInvalidWeight
	}

	supplier, err := s.callerOrg(ctx, caller)
	if err != nil {
		return nil, err
	}
	if supplier.OrgType != orgdomain.OrgTypeSupplier {
		return nil, domain.ErrForbidden
	}

	var communityID *int64
	if req.CommunityOrgID != nil && strings.TrimSpace(*req.CommunityOrgID) != "" {
		community, err := s.orgRepo.FindByExternalID(ctx, strings.TrimSpace(*req.CommunityOrgID))
		if err != nil {
			return nil, err
		}
		if community != nil {
			communityID = &community.ID
		}
	}

	categories := req.FoodCategory
	if categories == nil {
		categories = []string{}
	}
	rawCategories, err := json.Marshal(categories)
	if err != nil {
		return nil, err
	}

	job := domain.PickupJob{
		Status:            domain.StatusNew,
		PickupWindowStart: req.PickupWindowStart.UTC(),
		PickupWindowEnd:   req.PickupWindowEnd.UTC(),
		FoodCategory:      datatypes.JSON(rawCategories),
		EstimatedWeightKg: *req.EstimatedWeightKg,
		Packaging:         req.Packaging,
		HandlingNotes:     req.HandlingNotes,
		SupplierID:        &supplier.ID,
		CommunityID:       communityID,
	}
	if err := s.repo.Create(ctx, &job); err != nil {
		return nil, err
	}

	s.log.Info("pickup job created",
		zap.Int64("job_id", job.ID),
		zap.String("supplier_org_id", supplier.ExternalID),
	)
	return s.load(ctx, job.ID)
}

// UpdateStatus lets the assigned driver move a job to In Transit or Delivered.
func (s *service) UpdateStatus(ctx context.Context, caller domain.Caller, id int64, req domain.UpdateStatusRequest) (*domain.Job, error) {
	if id < 1 {
		return nil, domain.ErrInvalidID
	}
	if !domain.DriverStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}
	sub := strings.TrimSpace(caller.Subject)
	if sub == "" {
		return nil, domain.ErrForbidden
	}

	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if job.DriverUserID == nil || *job.DriverUserID != sub {
		return nil, domain.ErrForbidden
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *service) callerOrg(ctx context.Context, caller domain.Caller) (*orgdomain.Organization, error) {
	orgID := strings.TrimSpace(caller.OrgID)
	if orgID == "" {
		return nil, domain.ErrForbidden
	}
	org, err := s.orgRepo.FindByExternalID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, orgdomain.ErrNotFound
	}
	return org, nil
}

func (s *service) load(ctx context.Context, id int64) (*domain.Job, error) {
	row, err := s.repo.FindRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	job := toJob(row)
	return &job, nil
}

func toJob(row *domain.JobRow) domain.Job {
	return domain.Job{
		ID:                row.ID,
		ScheduleID:        row.ScheduleID,
		Status:            row.Status,
		PickupWindowStart: row.PickupWindowStart.UTC(),
		PickupWindowEnd:   row.PickupWindowEnd.UTC(),
		FoodCategory:      decodeStrings(row.FoodCategory),
		EstimatedWeightKg: row.EstimatedWeightKg,
		Packaging:         row.Packaging,
		HandlingNotes:     row.HandlingNotes,
		SupplierOrgID:     row.SupplierOrgID,
		CommunityOrgID:    row.CommunityOrgID,
		LogisticsOrgID:    row.LogisticsOrgID,
		DriverUserID:      row.DriverUserID,
	}
}

// decodeStrings never returns nil; unreadable values become an empty list.
func decodeStrings(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
