package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/replate/internal/clock"
	"github.com/smallbiznis/replate/internal/invitation/domain"
	"github.com/smallbiznis/replate/internal/management"
	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	userdomain "github.com/smallbiznis/replate/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	OrgRepo  orgdomain.Repository
	UserRepo userdomain.Repository
	Mgmt     management.Service
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	orgRepo  orgdomain.Repository
	userRepo userdomain.Repository
	mgmt     management.Service
}

func NewService(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &service{
		db:       p.DB,
		log:      p.Log.Named("invitation.service"),
		clock:    clk,
		repo:     p.Repo,
		orgRepo:  p.OrgRepo,
		userRepo: p.UserRepo,
		mgmt:     p.Mgmt,
	}
}

func (s *service) List(ctx context.Context, orgExternalID string, req domain.ListRequest) ([]domain.InvitationSummary, error) {
	orgExternalID = strings.TrimSpace(orgExternalID)
	if orgExternalID == "" {
		return nil, orgdomain.ErrInvalidID
	}
	status := strings.TrimSpace(req.Status)
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	orgType := strings.TrimSpace(req.OrgType)
	if orgType != "" && !orgdomain.ValidOrgType(orgType) {
		return nil, domain.ErrInvalidOrgType
	}

	items, err := s.repo.List(ctx, domain.ListFilter{
		OrgExternalID: orgExternalID,
		Status:        status,
		OrgType:       orgType,
		Query:         strings.TrimSpace(req.Query),
		Now:           s.now(),
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.InvitationSummary{}
	}
	return items, nil
}

// Create requests an SSO ticket for the organization and records it. The
// organization is looked up before anything is sent upstream; the invitation row
// and the organization's sso_status change are committed together.
func (s *service) Create(ctx context.Context, orgExternalID, issuerSubject string, req domain.CreateRequest) (*domain.CreateResponse, error) {
	ttl, err := parseTTL(req.TTL)
	if err != nil {
		return nil, err
	}

	orgExternalID = strings.TrimSpace(orgExternalID)
	if orgExternalID == "" {
		return nil, orgdomain.ErrInvalidID
	}
	org, err := s.orgRepo.FindByExternalID(ctx, orgExternalID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, orgdomain.ErrNotFound
	}

	issuerID, err := s.resolveIssuer(ctx, issuerSubject)
	if err != nil {
		return nil, err
	}

	orgName := org.ExternalID
	if org.Name != nil && strings.TrimSpace(*org.Name) != "" {
		orgName = *org.Name
	}

	ticket, err := s.mgmt.CreateSSOTicket(ctx, management.SSOTicketRequest{
		OrganizationID:     org.ExternalID,
		OrganizationName:   orgName,
		TTLSeconds:         ttl,
		DomainVerification: req.DomainVerification,
		AcceptIdPInitSAML:  req.AcceptIdPInitSAML,
	})
	if err != nil {
		s.log.Warn("sso ticket request failed",
			zap.String("auth0_org_id", org.ExternalID),
			zap.Error(err),
		)
		return nil, err
	}

	verification := domain.DomainVerificationOff
	if req.DomainVerification {
		verification = domain.DomainVerificationRequired
	}
	now := s.now()
	link := ticket.Ticket
	connectionName := ticket.ConnectionName
	if connectionName == "" {
		connectionName = management.ConnectionName(orgName)
	}
	inv := domain.Invitation{
		OrganizationID:     org.ID,
		IssuerUserID:       issuerID,
		DisplayName:        &orgName,
		Link:               &link,
		ConnectionName:     &connectionName,
		DomainVerification: verification,
		AcceptIdPInitSAML:  req.AcceptIdPInitSAML,
		TTL:                ttl,
		ExpiresAt:          now.Add(time.Duration(ttl) * time.Second),
		CreatedAt:          now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &inv); err != nil {
			return err
		}
		return s.orgRepo.WithTx(tx).SetSSOStatus(ctx, org.ID, orgdomain.SSOStatusInvited)
	})
	if err != nil {
		s.log.Error("record sso invitation failed",
			zap.String("auth0_org_id", org.ExternalID),
			zap.Error(err),
		)
		return nil, err
	}

	return &domain.CreateResponse{
		InvitationID: strconv.FormatInt(inv.ID, 10),
		ExternalID:   org.ExternalID,
		Link:         link,
	}, nil
}

// Delete removes an invitation of the organization. Unknown ids succeed.
func (s *service) Delete(ctx context.Context, orgExternalID, invitationID string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(invitationID), 10, 64)
	if err != nil || id < 1 {
		return domain.ErrInvalidID
	}
	org, err := s.orgRepo.FindByExternalID(ctx, strings.TrimSpace(orgExternalID))
	if err != nil {
		return err
	}
	if org == nil {
		return nil
	}
	_, err = s.repo.Delete(ctx, org.ID, id)
	return err
}

func (s *service) resolveIssuer(ctx context.Context, subject string) (*int64, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, nil
	}
	user, err := s.userRepo.FindByExternalID(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return &user.ID, nil
}

func (s *service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

// maxTTLSeconds keeps expires_at computable as a time.Duration.
const maxTTLSeconds = math.MaxInt64 / int64(time.Second)

func parseTTL(v *float64) (int64, error) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v > float64(maxTTLSeconds) {
		return 0, domain.ErrInvalidTTL
	}
	ttl := int64(*v)
	if ttl <= 0 {
		return 0, domain.ErrInvalidTTL
	}
	return ttl, nil
}
