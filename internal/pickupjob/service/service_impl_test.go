package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/replate/internal/migration/migrationtest"
	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	orgrepository "github.com/smallbiznis/replate/internal/organization/repository"
	"github.com/smallbiznis/replate/internal/pickupjob/domain"
	"github.com/smallbiznis/replate/internal/pickupjob/repository"
	"github.com/smallbiznis/replate/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var windowStart = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	conn := migrationtest.Open(t)
	svc := NewService(repository.NewRepository(conn), orgrepository.NewRepository(conn), zap.NewNop())

	for _, org := range []struct{ id, typ string }{
		{"org_sup", orgdomain.OrgTypeSupplier},
		{"org_com", orgdomain.OrgTypeCommunity},
		{"org_log", orgdomain.OrgTypeLogistics},
	} {
		require.NoError(t, conn.Exec(`INSERT INTO organizations (auth0_org_id, name, org_type) VALUES (?, ?, ?)`,
			org.id, org.id, org.typ).Error)
	}
	return svc, conn
}

func supplier() domain.Caller {
	return domain.Caller{Subject: "auth0|owner", OrgID: "org_sup"}
}

func createJob(t *testing.T, svc domain.Service, start time.Time) *domain.Job {
	t.Helper()
	end := start.Add(2 * time.Hour)
	weight := 12.5
	community := "org_com"
	job, err := svc.Create(context.Background(), supplier(), domain.CreateRequest{
		PickupWindowStart: &start,
		PickupWindowEnd:   &end,
		FoodCategory:      []string{"bakery", "produce"},
		EstimatedWeightKg: &weight,
		CommunityOrgID:    &community,
	})
	require.NoError(t, err)
	return job
}

func assignDriver(t *testing.T, conn *gorm.DB, jobID int64, driver string) {
	t.Helper()
	require.NoError(t, conn.Exec(`UPDATE pickup_jobs SET driver_auth0_user_id = ?, status = ? WHERE id = ?`,
		driver, domain.StatusLogisticsAssigned, jobID).Error)
}

func TestCreateJobResolvesOrganizations(t *testing.T) {
	svc, _ := newTestService(t)
	job := createJob(t, svc, windowStart)

	assert.Equal(t, domain.StatusNew, job.Status)
	assert.Equal(t, "org_sup", *job.SupplierOrgID)
	assert.Equal(t, "org_com", *job.CommunityOrgID)
	assert.Nil(t, job.LogisticsOrgID)
	assert.Equal(t, []string{"bakery", "produce"}, job.FoodCategory)
	assert.True(t, job.PickupWindowStart.Equal(windowStart))
	assert.Equal(t, 12.5, job.EstimatedWeightKg)
}

func TestCreateJobRequiresSupplier(t *testing.T) {
	svc, _ := newTestService(t)
	end := windowStart.Add(time.Hour)
	weight := 1.0

	_, err := svc.Create(context.Background(), domain.Caller{OrgID: "org_com"}, domain.CreateRequest{
		PickupWindowStart: &windowStart, PickupWindowEnd: &end, EstimatedWeightKg: &weight,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(context.Background(), domain.Caller{OrgID: "org_gone"}, domain.CreateRequest{
		PickupWindowStart: &windowStart, PickupWindowEnd: &end, EstimatedWeightKg: &weight,
	})
	assert.ErrorIs(t, err, orgdomain.ErrNotFound)

	_, err = svc.Create(context.Background(), domain.Caller{}, domain.CreateRequest{
		PickupWindowStart: &windowStart, PickupWindowEnd: &end, EstimatedWeightKg: &weight,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateJobValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	before := windowStart.Add(-time.Hour)
	weight := 1.0
	negative := -1.0

	_, err := svc.Create(context.Background(), supplier(), domain.CreateRequest{
		PickupWindowStart: &windowStart, PickupWindowEnd: &before, EstimatedWeightKg: &weight,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	end := windowStart.Add(time.Hour)
	_, err = svc.Create(context.Background(), supplier(), domain.CreateRequest{
		PickupWindowStart: &windowStart, PickupWindowEnd: &end, EstimatedWeightKg: &negative,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWeight)
}

func TestListScopesDriversToAssignedJobs(t *testing.T) {
	svc, conn := newTestService(t)
	first := createJob(t, svc, windowStart)
	second := createJob(t, svc, windowStart.Add(24*time.Hour))
	assignDriver(t, conn, first.ID, "auth0|driver")

	all, err := svc.List(context.Background(), supplier(), domain.ListRequest{Page: pagination.Parse("", "")})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	driver := domain.Caller{Subject: "auth0|driver", OrgID: "org_com", Driver: true}
	mine, err := svc.List(context.Background(), driver, domain.ListRequest{Page: pagination.Parse("", "")})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	none, err := svc.List(context.Background(), domain.Caller{OrgID: "org_com", Driver: true}, domain.ListRequest{Page: pagination.Parse("", "")})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	assigned, err := svc.List(context.Background(), supplier(), domain.ListRequest{
		Status: domain.StatusLogisticsAssigned,
		Page:   pagination.Parse("", ""),
	})
	require.NoError(t, err)
	require.Len(t, assigned, 1)

	_, err = svc.List(context.Background(), supplier(), domain.ListRequest{Status: "Lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListClampsPerPage(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		createJob(t, svc, windowStart.Add(time.Duration(i)*time.Hour))
	}

	page := pagination.Parse("1", "1000")
	assert.Equal(t, pagination.MaxPerPage, page.Limit())

	jobs, err := svc.List(context.Background(), supplier(), domain.ListRequest{Page: pagination.Parse("2", "2")})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestUpdateStatusOnlyByAssignedDriver(t *testing.T) {
	svc, conn := newTestService(t)
	job := createJob(t, svc, windowStart)
	assignDriver(t, conn, job.ID, "auth0|driver")

	other := domain.Caller{Subject: "auth0|someone", OrgID: "org_log", Driver: true}
	_, err := svc.UpdateStatus(context.Background(), other, job.ID, domain.UpdateStatusRequest{Status: domain.StatusInTransit})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	var status string
	require.NoError(t, conn.Raw(`SELECT status FROM pickup_jobs WHERE id = ?`, job.ID).Scan(&status).Error)
	assert.Equal(t, domain.StatusLogisticsAssigned, status)

	driver := domain.Caller{Subject: "auth0|driver", OrgID: "org_log", Driver: true}
	updated, err := svc.UpdateStatus(context.Background(), driver, job.ID, domain.UpdateStatusRequest{Status: domain.StatusInTransit})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, updated.Status)
	assert.Equal(t, "auth0|driver", *updated.DriverUserID)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _ := newTestService(t)
	driver := domain.Caller{Subject: "auth0|driver", Driver: true}

	_, err := svc.UpdateStatus(context.Background(), driver, 0, domain.UpdateStatusRequest{Status: domain.StatusDelivered})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.UpdateStatus(context.Background(), driver, 1, domain.UpdateStatusRequest{Status: domain.StatusCanceled})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), domain.Caller{}, 1, domain.UpdateStatusRequest{Status: domain.StatusDelivered})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.UpdateStatus(context.Background(), driver, 99, domain.UpdateStatusRequest{Status: domain.StatusDelivered})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
