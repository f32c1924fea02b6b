package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/replate/internal/clock"
	"github.com/smallbiznis/replate/internal/invitation/domain"
	"github.com/smallbiznis/replate/internal/invitation/repository"
	"github.com/smallbiznis/replate/internal/management"
	"github.com/smallbiznis/replate/internal/management/managementtest"
	"github.com/smallbiznis/replate/internal/migration/migrationtest"
	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	orgrepository "github.com/smallbiznis/replate/internal/organization/repository"
	userrepository "github.com/smallbiznis/replate/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	mgmt  *managementtest.Mock
	clock *clock.FakeClock
	db    *gorm.DB
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := migrationtest.Open(t)
	mgmt := &managementtest.Mock{}
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		Clock:    clk,
		Repo:     repository.NewRepository(conn),
		OrgRepo:  orgrepository.NewRepository(conn),
		UserRepo: userrepository.NewRepository(conn),
		Mgmt:     mgmt,
	})
	return fixture{svc: svc, mgmt: mgmt, clock: clk, db: conn}
}

func (f fixture) seedOrg(t *testing.T, externalID, name string) {
	t.Helper()
	require.NoError(t, f.db.Exec(
		`INSERT INTO organizations (auth0_org_id, name, org_type, domain) VALUES (?, ?, 'supplier', ?)`,
		externalID, name, name+".example").Error)
}

func (f fixture) orgStatus(t *testing.T, externalID string) string {
	t.Helper()
	var status string
	require.NoError(t, f.db.Raw(`SELECT sso_status FROM organizations WHERE auth0_org_id = ?`, externalID).Scan(&status).Error)
	return status
}

func (f fixture) invitationCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.Invitation{}).Count(&n).Error)
	return n
}

func ttl(v float64) *float64 { return &v }

func TestCreateRecordsInvitationAndMarksOrgInvited(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t, "org_1", "Harbor Foods")
	require.NoError(t, f.db.Exec(`INSERT INTO users (auth0_user_id, email) VALUES ('auth0|admin', 'admin@example.com')`).Error)

	f.mgmt.On("CreateSSOTicket", mock.Anything, management.SSOTicketRequest{
		OrganizationID:     "org_1",
		OrganizationName:   "Harbor Foods",
		TTLSeconds:         3600,
		DomainVerification: true,
	}).Return(&management.SSOTicket{Ticket: "https://id.example/tickets/abc", ConnectionName: "org-harbor-foods-cnx"}, nil)

	resp, err := f.svc.Create(context.Background(), "org_1", "auth0|admin", domain.CreateRequest{
		TTL:                ttl(3600),
		DomainVerification: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "org_1", resp.ExternalID)
	assert.Equal(t, "https://id.example/tickets/abc", resp.Link)
	assert.NotEmpty(t, resp.InvitationID)

	assert.Equal(t, orgdomain.SSOStatusInvited, f.orgStatus(t, "org_1"))

	var inv domain.Invitation
	require.NoError(t, f.db.Take(&inv).Error)
	assert.Equal(t, domain.DomainVerificationRequired, inv.DomainVerification)
	assert.Equal(t, "org-harbor-foods-cnx", *inv.ConnectionName)
	require.NotNil(t, inv.IssuerUserID)
	assert.Equal(t, int64(3600), inv.TTL)
	f.mgmt.AssertExpectations(t)
}

func TestCreateUnknownOrganizationHasNoSideEffects(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "org_missing", "auth0|admin", domain.CreateRequest{TTL: ttl(60)})
	assert.ErrorIs(t, err, orgdomain.ErrNotFound)
	assert.Zero(t, f.invitationCount(t))
	f.mgmt.AssertNotCalled(t, "CreateSSOTicket", mock.Anything, mock.Anything)
}

func TestCreateUpstreamFailureLeavesOrgUntouched(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t, "org_1", "Harbor Foods")
	f.mgmt.On("CreateSSOTicket", mock.Anything, mock.Anything).Return(nil, management.ErrUpstream)

	_, err := f.svc.Create(context.Background(), "org_1", "", domain.CreateRequest{TTL: ttl(60)})
	assert.ErrorIs(t, err, management.ErrUpstream)
	assert.Zero(t, f.invitationCount(t))
	assert.Equal(t, orgdomain.SSOStatusNotStarted, f.orgStatus(t, "org_1"))
}

func TestCreateRejectsInvalidTTL(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t, "org_1", "Harbor Foods")

	for _, v := range []*float64{nil, ttl(0), ttl(-5), ttl(1e10), ttl(1e300)} {
		_, err := f.svc.Create(context.Background(), "org_1", "", domain.CreateRequest{TTL: v})
		assert.ErrorIs(t, err, domain.ErrInvalidTTL)
	}
	f.mgmt.AssertNotCalled(t, "CreateSSOTicket", mock.Anything, mock.Anything)
}

func TestListComputesExpiry(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t, "org_1", "Harbor Foods")
	f.mgmt.On("CreateSSOTicket", mock.Anything, mock.Anything).
		Return(&management.SSOTicket{Ticket: "https://id.example/t", ConnectionName: "org-harbor-foods-cnx"}, nil)

	_, err := f.svc.Create(context.Background(), "org_1", "", domain.CreateRequest{TTL: ttl(60)})
	require.NoError(t, err)
	f.clock.Advance(30 * time.Minute)
	_, err = f.svc.Create(context.Background(), "org_1", "", domain.CreateRequest{TTL: ttl(3600)})
	require.NoError(t, err)

	items, err := f.svc.List(context.Background(), "org_1", domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.StatusInvited, items[0].SSOStatus)
	assert.Equal(t, domain.StatusExpired, items[1].SSOStatus)

	expired, err := f.svc.List(context.Background(), "org_1", domain.ListRequest{Status: domain.StatusExpired})
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, items[1].InvitationID, expired[0].InvitationID)

	invited, err := f.svc.List(context.Background(), "org_1", domain.ListRequest{Status: domain.StatusInvited})
	require.NoError(t, err)
	require.Len(t, invited, 1)

	configured, err := f.svc.List(context.Background(), "org_1", domain.ListRequest{Status: domain.StatusConfigured})
	require.NoError(t, err)
	assert.Empty(t, configured)

	_, err = f.svc.List(context.Background(), "org_1", domain.ListRequest{Status: "pending"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListUnknownOrganizationIsEmpty(t *testing.T) {
	f := newFixture(t)
	items, err := f.svc.List(context.Background(), "org_none", domain.ListRequest{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDeleteIsScopedToOrganization(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t, "org_1", "Harbor Foods")
	f.seedOrg(t, "org_2", "Other Foods")
	f.mgmt.On("CreateSSOTicket", mock.Anything, mock.Anything).
		Return(&management.SSOTicket{Ticket: "https://id.example/t", ConnectionName: "cnx"}, nil)

	resp, err := f.svc.Create(context.Background(), "org_1", "", domain.CreateRequest{TTL: ttl(60)})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), "org_2", resp.InvitationID))
	assert.Equal(t, int64(1), f.invitationCount(t))

	require.NoError(t, f.svc.Delete(context.Background(), "org_1", resp.InvitationID))
	assert.Zero(t, f.invitationCount(t))

	require.NoError(t, f.svc.Delete(context.Background(), "org_1", resp.InvitationID))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), "org_1", "abc"), domain.ErrInvalidID)
}
