package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/smallbiznis/replate/internal/clock"
	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	"github.com/smallbiznis/replate/internal/pickupschedule/domain"
	"github.com/smallbiznis/replate/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type service struct {
	repo    domain.Repository
	orgRepo orgdomain.Repository
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(repo domain.Repository, orgRepo orgdomain.Repository, clk clock.Clock, log *zap.Logger) domain.Service {
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &service{
		repo:    repo,
		orgRepo: orgRepo,
		clock:   clk,
		log:     log.Named("pickupschedule.service"),
	}
}

func (s *service) List(ctx context.Context, callerOrgID string, page pagination.Page) ([]domain.Schedule, error) {
	org, err := s.callerOrg(ctx, callerOrgID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListBySupplier(ctx, org.ID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	items := make([]domain.Schedule, 0, len(rows))
	for i := range rows {
		items = append(items, toSchedule(&rows[i], now))
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, callerOrgID string, req domain.CreateRequest) (*domain.Schedule, error) {
	org, err := s.callerOrg(ctx, callerOrgID)
	if err != nil {
		return nil, err
	}
	if org.OrgType != orgdomain.OrgTypeSupplier {
		return nil, domain.ErrForbidden
	}

	expr := strings.TrimSpace(req.CronExpression)
	if _, err := parseCron(expr); err != nil {
		return nil, domain.ErrInvalidCron
	}
	timeOfDay, err := parseTimeOfDay(req.PickupTimeOfDay)
	if err != nil {
		return nil, err
	}
	if req.PickupDurationMinutes <= 0 {
		return nil, domain.ErrInvalidDuration
	}
	if req.DefaultEstimatedWeightKg != nil && *req.DefaultEstimatedWeightKg < 0 {
		return nil, domain.ErrInvalidWeight
	}

	communityID, err := s.resolveCommunity(ctx, req.DefaultCommunityID)
	if err != nil {
		return nil, err
	}
	categories, err := encodeStrings(req.DefaultFoodCategory)
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	schedule := domain.PickupSchedule{
		SupplierID:               org.ID,
		DefaultCommunityID:       communityID,
		IsActive:                 active,
		CronExpression:           expr,
		PickupTimeOfDay:          timeOfDay,
		PickupDurationMinutes:    req.PickupDurationMinutes,
		DefaultFoodCategory:      categories,
		DefaultEstimatedWeightKg: req.DefaultEstimatedWeightKg,
	}
	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, err
	}
	return s.load(ctx, schedule.ID)
}

// Update applies the fields present in req to a schedule owned by the caller.
func (s *service) Update(ctx context.Context, callerOrgID string, id int64, req domain.UpdateRequest) (*domain.Schedule, error) {
	org, err := s.callerOrg(ctx, callerOrgID)
	if err != nil {
		return nil, err
	}
	if id < 1 {
		return nil, domain.ErrInvalidID
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if existing.SupplierID != org.ID {
		return nil, domain.ErrForbidden
	}

	fields, err := s.updateFields(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.load(ctx, id)
}

func (s *service) ListDeliverySchedules(ctx context.Context, callerOrgID string) ([]domain.DeliverySchedule, error) {
	return []domain.DeliverySchedule{}, nil
}

func (s *service) UpdateDeliverySchedule(ctx context.Context, callerOrgID string, id string) (*domain.DeliverySchedule, error) {
	return nil, domain.ErrDeliveryScheduleNotFound
}

func (s *service) updateFields(ctx context.Context, req domain.UpdateRequest) (map[string]any, error) {
	fields := map[string]any{}

	if req.DefaultCommunityID.Set {
		communityID, err := s.resolveCommunity(ctx, req.DefaultCommunityID.Value)
		if err != nil {
			return nil, err
		}
		if communityID == nil {
			fields["default_community_id"] = nil
		} else {
			fields["default_community_id"] = *communityID
		}
	}
	if req.IsActive.Set {
		fields["is_active"] = req.IsActive.Value != nil && *req.IsActive.Value
	}
	if req.CronExpression.Set {
		if req.CronExpression.Value == nil {
			return nil, domain.ErrInvalidCron
		}
		expr := strings.TrimSpace(*req.CronExpression.Value)
		if _, err := parseCron(expr); err != nil {
			return nil, domain.ErrInvalidCron
		}
		fields["cron_expression"] = expr
	}
	if req.PickupTimeOfDay.Set {
		if req.PickupTimeOfDay.Value == nil {
			return nil, domain.ErrInvalidTimeOfDay
		}
		timeOfDay, err := parseTimeOfDay(*req.PickupTimeOfDay.Value)
		if err != nil {
			return nil, err
		}
		fields["pickup_time_of_day"] = timeOfDay
	}
	if req.PickupDurationMinutes.Set {
		if req.PickupDurationMinutes.Value == nil || *req.PickupDurationMinutes.Value <= 0 {
			return nil, domain.ErrInvalidDuration
		}
		fields["pickup_duration_minutes"] = *req.PickupDurationMinutes.Value
	}
	if req.DefaultFoodCategory.Set {
		var categories []string
		if req.DefaultFoodCategory.Value != nil {
			categories = *req.DefaultFoodCategory.Value
		}
		raw, err := encodeStrings(categories)
		if err != nil {
			return nil, err
		}
		fields["default_food_category"] = raw
	}
	if req.DefaultEstimatedWeightKg.Set {
		if v := req.DefaultEstimatedWeightKg.Value; v != nil {
			if *v < 0 {
				return nil, domain.ErrInvalidWeight
			}
			fields["default_estimated_weight_kg"] = *v
		} else {
			fields["default_estimated_weight_kg"] = nil
		}
	}
	return fields, nil
}

func (s *service) callerOrg(ctx context.Context, callerOrgID string) (*orgdomain.Organization, error) {
	callerOrgID = strings.TrimSpace(callerOrgID)
	if callerOrgID == "" {
		return nil, domain.ErrForbidden
	}
	org, err := s.orgRepo.FindByExternalID(ctx, callerOrgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, orgdomain.ErrNotFound
	}
	return org, nil
}

// resolveCommunity maps an external org id to its local id. Unknown ids resolve to nil.
func (s *service) resolveCommunity(ctx context.Context, externalID *string) (*int64, error) {
	if externalID == nil || strings.TrimSpace(*externalID) == "" {
		return nil, nil
	}
	org, err := s.orgRepo.FindByExternalID(ctx, strings.TrimSpace(*externalID))
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, nil
	}
	return &org.ID, nil
}

func (s *service) load(ctx context.Context, id int64) (*domain.Schedule, error) {
	row, err := s.repo.FindRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	schedule := toSchedule(row, s.clock.Now())
	return &schedule, nil
}

func toSchedule(row *domain.ScheduleRow, now time.Time) domain.Schedule {
	out := domain.Schedule{
		ID:                       row.ID,
		SupplierID:               row.SupplierOrgID,
		DefaultCommunityID:       row.DefaultCommunityOrgID,
		IsActive:                 row.IsActive,
		CronExpression:           row.CronExpression,
		PickupTimeOfDay:          row.PickupTimeOfDay,
		PickupDurationMinutes:    row.PickupDurationMinutes,
		DefaultFoodCategory:      decodeStrings(row.DefaultFoodCategory),
		DefaultEstimatedWeightKg: row.DefaultEstimatedWeightKg,
	}
	if row.IsActive {
		out.NextRunAt = nextRun(row.CronExpression, now)
	}
	return out
}

// fiveField accepts minute hour dom month dow only, without @descriptors.
var fiveField = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func parseCron(expr string) (cron.Schedule, error) {
	if strings.HasPrefix(expr, "TZ=") || strings.HasPrefix(expr, "CRON_TZ=") {
		return nil, domain.ErrInvalidCron
	}
	return fiveField.Parse(expr)
}

// nextRun returns nil for expressions that no longer parse.
func nextRun(expr string, now time.Time) *time.Time {
	sched, err := parseCron(expr)
	if err != nil {
		return nil
	}
	next := sched.Next(now.UTC())
	if next.IsZero() {
		return nil
	}
	return &next
}

func parseTimeOfDay(v string) (string, error) {
	v = strings.TrimSpace(v)
	t, err := time.Parse("15:04", v)
	if err != nil {
		return "", domain.ErrInvalidTimeOfDay
	}
	return t.Format("15:04"), nil
}

func encodeStrings(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
