package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	pickupjobdomain "github.com/smallbiznis/replate/internal/pickupjob/domain"
	scheduledomain "github.com/smallbiznis/replate/internal/pickupschedule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) businessToken(sub, orgID string, perms ...string) string {
	return h.issuer.Sign(h.t, sub, businessAudience, orgID, perms...)
}

func (h *harness) seedBusinessOrgs() {
	h.seedOrg("org_sup", "Corner Bakery", orgdomain.OrgTypeSupplier)
	h.seedOrg("org_com", "Eastside Pantry", orgdomain.OrgTypeCommunity)
	h.seedOrg("org_log", "Fast Wheels", orgdomain.OrgTypeLogistics)
}

func (h *harness) seedJob(driver string) int64 {
	h.t.Helper()
	start := testNow.Add(24 * time.Hour)
	require.NoError(h.t, h.conn.Exec(`INSERT INTO pickup_jobs (status, pickup_window_start, pickup_window_end, estimated_weight_kg, supplier_id, driver_auth0_user_id)
		VALUES (?, ?, ?, ?, (SELECT id FROM organizations WHERE auth0_org_id = ?), ?)`,
		pickupjobdomain.StatusLogisticsAssigned, start, start.Add(2*time.Hour), 10.0, "org_sup", driver).Error)
	var id int64
	require.NoError(h.t, h.conn.Raw(`SELECT MAX(id) FROM pickup_jobs`).Scan(&id).Error)
	return id
}

func (h *harness) jobStatus(id int64) string {
	h.t.Helper()
	var status string
	require.NoError(h.t, h.conn.Raw(`SELECT status FROM pickup_jobs WHERE id = ?`, id).Scan(&status).Error)
	return status
}

func TestBusinessOrganizationMustMatchCaller(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()

	token := h.businessToken("auth0|owner", "org_sup", PermReadOrganization, PermUpdateOrganization)

	w := do(r, http.MethodGet, "/api/organizations/org_com", token, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPatch, "/api/organizations/org_com", token, `{"metadata":{"pickup_address":"1 Elm St"}}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	var addr *string
	require.NoError(t, h.conn.Raw(`SELECT pickup_address FROM organizations WHERE auth0_org_id = ?`, "org_com").Scan(&addr).Error)
	assert.Nil(t, addr)
}

func TestBusinessOrganizationMismatchCheckedBeforeBody(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()

	token := h.businessToken("auth0|owner", "org_sup", PermUpdateOrganization)
	w := do(r, http.MethodPatch, "/api/organizations/org_com", token, `{"metadata":`)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestBusinessOwnOrganizationProfile(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()

	token := h.businessToken("auth0|owner", "org_sup", PermReadOrganization, PermUpdateOrganization)

	w := do(r, http.MethodPatch, "/api/organizations/org_sup", token, `{"metadata":{"pickup_address":"1 Elm St"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/organizations/org_sup", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var org orgdomain.OrganizationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &org))
	require.NotNil(t, org.PickupAddress)
	assert.Equal(t, "1 Elm St", *org.PickupAddress)
	assert.Equal(t, orgdomain.OrgTypeSupplier, org.OrgType)
}

func TestBusinessRequiresBusinessAudience(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()

	token := h.issuer.Sign(t, "auth0|owner", adminAudience, "org_sup", PermReadPickups)
	w := do(r, http.MethodGet, "/api/jobs", token, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBusinessCreateAndListJobs(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()

	token := h.businessToken("auth0|owner", "org_sup", PermReadPickups, PermCreatePickups)
	start := testNow.Add(48 * time.Hour).Format(time.RFC3339)
	end := testNow.Add(50 * time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{
		"pickup_window_start": %q,
		"pickup_window_end": %q,
		"food_category": ["bakery"],
		"estimated_weight_kg": 8.5,
		"community_org_id": "org_com"
	}`, start, end)

	w := do(r, http.MethodPost, "/api/jobs", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created pickupjobdomain.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, pickupjobdomain.StatusNew, created.Status)

	w = do(r, http.MethodGet, "/api/jobs", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var jobs []pickupjobdomain.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, created.ID, jobs[0].ID)
}

func TestBusinessCreateJobRejectsMalformedBody(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()

	token := h.businessToken("auth0|owner", "org_sup", PermCreatePickups)
	w := do(r, http.MethodPost, "/api/jobs", token, `{"pickup_window_start":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, h.count("pickup_jobs"))
}

func TestBusinessDriverUpdatesOwnJob(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()
	id := h.seedJob("auth0|driver")

	token := h.businessToken("auth0|driver", "org_log", PermUpdatePickups)
	w := do(r, http.MethodPatch, fmt.Sprintf("/api/jobs/%d", id), token, `{"status":"In Transit"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, pickupjobdomain.StatusInTransit, h.jobStatus(id))
}

func TestBusinessJobUpdateByOtherDriverIsForbidden(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()
	id := h.seedJob("auth0|driver")

	token := h.businessToken("auth0|someone-else", "org_log", PermUpdatePickups)
	w := do(r, http.MethodPatch, fmt.Sprintf("/api/jobs/%d", id), token, `{"status":"Delivered"}`)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, pickupjobdomain.StatusLogisticsAssigned, h.jobStatus(id))
}

func TestBusinessJobUpdateRequiresDriverPermission(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()
	id := h.seedJob("auth0|driver")

	token := h.businessToken("auth0|driver", "org_log", PermReadPickups)
	w := do(r, http.MethodPatch, fmt.Sprintf("/api/jobs/%d", id), token, `{"status":"Delivered"}`)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, pickupjobdomain.StatusLogisticsAssigned, h.jobStatus(id))
}

func TestBusinessJobUpdateValidation(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()
	id := h.seedJob("auth0|driver")
	token := h.businessToken("auth0|driver", "org_log", PermUpdatePickups)

	w := do(r, http.MethodPatch, "/api/jobs/abc", token, `{"status":"Delivered"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, fmt.Sprintf("/api/jobs/%d", id), token, `{"status":"Canceled"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/api/jobs/9999", token, `{"status":"Delivered"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, pickupjobdomain.StatusLogisticsAssigned, h.jobStatus(id))
}

func TestBusinessSchedules(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()
	token := h.businessToken("auth0|owner", "org_sup", PermReadSchedules, PermUpdateSchedules)

	w := do(r, http.MethodPost, "/api/schedules", token, `{
		"default_community_id": "org_com",
		"cron_expression": "0 9 * * 1-5",
		"pickup_time_of_day": "09:30",
		"pickup_duration_minutes": 45
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created scheduledomain.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.IsActive)

	w = do(r, http.MethodPatch, fmt.Sprintf("/api/schedules/%d", created.ID), token, `{"is_active": false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated scheduledomain.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.False(t, updated.IsActive)
	assert.Equal(t, "0 9 * * 1-5", updated.CronExpression)

	w = do(r, http.MethodGet, "/api/schedules", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []scheduledomain.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}

func TestBusinessScheduleOfOtherSupplierIsForbidden(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()
	h.seedOrg("org_sup2", "Other Bakery", orgdomain.OrgTypeSupplier)

	owner := h.businessToken("auth0|owner", "org_sup", PermUpdateSchedules)
	w := do(r, http.MethodPost, "/api/schedules", owner, `{"cron_expression":"0 9 * * *","pickup_time_of_day":"09:00","pickup_duration_minutes":30}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created scheduledomain.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	other := h.businessToken("auth0|other", "org_sup2", PermUpdateSchedules)
	w = do(r, http.MethodPatch, fmt.Sprintf("/api/schedules/%d", created.ID), other, `{"is_active":false}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	var active bool
	require.NoError(t, h.conn.Raw(`SELECT is_active FROM pickup_schedules WHERE id = ?`, created.ID).Scan(&active).Error)
	assert.True(t, active)
}

func TestBusinessDeliverySchedules(t *testing.T) {
	h := newHarness(t)
	r := h.businessEngine()
	h.seedBusinessOrgs()
	token := h.businessToken("auth0|owner", "org_com", PermReadSchedules, PermUpdateSchedules)

	w := do(r, http.MethodGet, "/api/delivery-schedules", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodPatch, "/api/delivery-schedules/1", token, `{}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}
