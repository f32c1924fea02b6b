package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/smallbiznis/replate/internal/management"
	"github.com/smallbiznis/replate/internal/organization/domain"
	"github.com/smallbiznis/replate/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type service struct {
	repo domain.Repository
	mgmt management.Service
	log  *zap.Logger
}

func NewService(repo domain.Repository, mgmt management.Service, log *zap.Logger) domain.Service {
	return &service{
		repo: repo,
		mgmt: mgmt,
		log:  log.Named("organization.service"),
	}
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.OrganizationSummary, error) {
	orgType := strings.TrimSpace(req.OrgType)
	if orgType != "" && !domain.ValidOrgType(orgType) {
		return nil, domain.ErrInvalidOrgType
	}
	ssoStatus := strings.TrimSpace(req.SSOStatus)
	if ssoStatus != "" && !domain.ValidSSOStatus(ssoStatus) {
		return nil, domain.ErrInvalidSSOStatus
	}

	limit := req.Limit
	if limit <= 0 {
		limit = pagination.DefaultPerPage
	}
	if limit > pagination.MaxPerPage {
		limit = pagination.MaxPerPage
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	orgs, err := s.repo.List(ctx, domain.ListFilter{
		OrgType:   orgType,
		SSOStatus: ssoStatus,
		Query:     strings.TrimSpace(req.Query),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrganizationSummary, 0, len(orgs))
	for _, org := range orgs {
		items = append(items, domain.OrganizationSummary{
			ExternalID: org.ExternalID,
			Name:       org.Name,
			OrgType:    org.OrgType,
			Domain:     org.Domain,
			SSOStatus:  org.SSOStatus,
		})
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, externalID string) (*domain.OrganizationResponse, error) {
	org, err := s.find(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return toResponse(org, true), nil
}

// Create registers the organization with the identity provider first and then
// mirrors it locally as already configured.
func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.CreateResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	orgType := strings.TrimSpace(req.OrgType)
	if !domain.ValidOrgType(orgType) {
		return nil, domain.ErrInvalidOrgType
	}
	orgDomain := strings.TrimSpace(req.Domain)
	if orgDomain == "" {
		return nil, domain.ErrInvalidDomain
	}

	created, err := s.mgmt.CreateOrganization(ctx, name, orgDomain)
	if err != nil {
		return nil, err
	}

	org := domain.Organization{
		ExternalID: created.ID,
		Name:       &name,
		OrgType:    orgType,
		Domain:     &orgDomain,
		SSOStatus:  domain.SSOStatusConfigured,
	}
	if err := s.repo.UpsertCreated(ctx, org); err != nil {
		s.log.Error("mirror created organization failed",
			zap.String("auth0_org_id", created.ID),
			zap.Error(err),
		)
		return nil, err
	}

	return &domain.CreateResponse{ExternalID: created.ID}, nil
}

func (s *service) Update(ctx context.Context, externalID string, req domain.UpdateRequest) (*domain.UpdateResponse, error) {
	if _, err := s.find(ctx, externalID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Domain != nil {
		fields["domain"] = strings.TrimSpace(*req.Domain)
	}
	if req.Metadata != nil && req.Metadata.OrgType != nil {
		if !domain.ValidOrgType(*req.Metadata.OrgType) {
			return nil, domain.ErrInvalidOrgType
		}
		fields["org_type"] = *req.Metadata.OrgType
	}
	if err := applyMetadata(fields, req.Metadata); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return &domain.UpdateResponse{Updated: 0}, nil
	}
	if _, err := s.repo.Update(ctx, externalID, fields); err != nil {
		return nil, err
	}
	return &domain.UpdateResponse{Updated: 1}, nil
}

// Delete is idempotent: removing an unknown organization succeeds.
func (s *service) Delete(ctx context.Context, externalID string) error {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteByExternalID(ctx, externalID)
}

func (s *service) GetOwn(ctx context.Context, callerOrgID, externalID string) (*domain.OrganizationResponse, error) {
	if err := ensureOwn(callerOrgID, externalID); err != nil {
		return nil, err
	}
	org, err := s.find(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return toResponse(org, false), nil
}

func (s *service) UpdateOwn(ctx context.Context, callerOrgID, externalID string, req domain.ProfileUpdateRequest) (*domain.OrganizationResponse, error) {
	if err := ensureOwn(callerOrgID, externalID); err != nil {
		return nil, err
	}
	if _, err := s.find(ctx, externalID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if err := applyMetadata(fields, req.Metadata); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if _, err := s.repo.Update(ctx, externalID, fields); err != nil {
			return nil, err
		}
	}

	org, err := s.find(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return toResponse(org, false), nil
}

func (s *service) UpsertFromEvent(ctx context.Context, evt domain.OrganizationEvent, eventTime time.Time) error {
	externalID := strings.TrimSpace(evt.ID)
	if externalID == "" {
		return domain.ErrInvalidID
	}

	org := domain.Organization{
		ExternalID:         externalID,
		Name:               optionalString(evt.Name),
		DisplayName:        optionalString(evt.DisplayName),
		OrgType:            domain.OrgTypeSupplier,
		Branding:           optionalJSON(evt.Branding),
		Metadata:           optionalJSON(evt.Metadata),
		LastEventProcessed: optionalTime(eventTime),
	}
	return s.repo.UpsertFromEvent(ctx, org)
}

func (s *service) DeleteFromEvent(ctx context.Context, externalID string) error {
	return s.Delete(ctx, externalID)
}

func (s *service) find(ctx context.Context, externalID string) (*domain.Organization, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, domain.ErrInvalidID
	}
	org, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func ensureOwn(callerOrgID, externalID string) error {
	callerOrgID = strings.TrimSpace(callerOrgID)
	if callerOrgID == "" || callerOrgID != strings.TrimSpace(externalID) {
		return domain.ErrForbidden
	}
	return nil
}

func applyMetadata(fields map[string]any, meta *domain.MetadataUpdate) error {
	if meta == nil {
		return nil
	}
	if meta.PickupAddress != nil {
		fields["pickup_address"] = *meta.PickupAddress
	}
	if meta.DeliveryAddress != nil {
		fields["delivery_address"] = *meta.DeliveryAddress
	}
	if meta.CoverageRegions != nil {
		fields["coverage_regions"] = *meta.CoverageRegions
	}
	if meta.VehicleTypes != nil {
		types := *meta.VehicleTypes
		if types == nil {
			types = []string{}
		}
		raw, err := json.Marshal(types)
		if err != nil {
			return err
		}
		fields["vehicle_types"] = datatypes.JSON(raw)
	}
	return nil
}

func toResponse(org *domain.Organization, includeSSO bool) *domain.OrganizationResponse {
	resp := &domain.OrganizationResponse{
		ExternalID:      org.ExternalID,
		Name:            org.Name,
		OrgType:         org.OrgType,
		Domain:          org.Domain,
		PickupAddress:   org.PickupAddress,
		DeliveryAddress: org.DeliveryAddress,
		CoverageRegions: org.CoverageRegions,
		VehicleTypes:    decodeStrings(org.VehicleTypes),
	}
	if includeSSO {
		resp.SSOStatus = org.SSOStatus
	}
	return resp
}

// decodeStrings returns nil for empty or malformed stored arrays.
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

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optionalJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
