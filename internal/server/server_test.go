package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/replate/internal/clock"
	"github.com/smallbiznis/replate/internal/config"
	donationrepository "github.com/smallbiznis/replate/internal/donation/repository"
	donationservice "github.com/smallbiznis/replate/internal/donation/service"
	"github.com/smallbiznis/replate/internal/events"
	"github.com/smallbiznis/replate/internal/identity/identitytest"
	invitationrepository "github.com/smallbiznis/replate/internal/invitation/repository"
	invitationservice "github.com/smallbiznis/replate/internal/invitation/service"
	"github.com/smallbiznis/replate/internal/management/managementtest"
	"github.com/smallbiznis/replate/internal/migration/migrationtest"
	"github.com/smallbiznis/replate/internal/observability"
	obsmetrics "github.com/smallbiznis/replate/internal/observability/metrics"
	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	orgrepository "github.com/smallbiznis/replate/internal/organization/repository"
	orgservice "github.com/smallbiznis/replate/internal/organization/service"
	pickupjobrepository "github.com/smallbiznis/replate/internal/pickupjob/repository"
	pickupjobservice "github.com/smallbiznis/replate/internal/pickupjob/service"
	schedulerepository "github.com/smallbiznis/replate/internal/pickupschedule/repository"
	scheduleservice "github.com/smallbiznis/replate/internal/pickupschedule/service"
	suggestionrepository "github.com/smallbiznis/replate/internal/suggestion/repository"
	suggestionservice "github.com/smallbiznis/replate/internal/suggestion/service"
	userrepository "github.com/smallbiznis/replate/internal/user/repository"
	userservice "github.com/smallbiznis/replate/internal/user/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testIssuer       = "https://id.replate.test/"
	adminAudience    = "https://admin.replate.test"
	businessAudience = "https://business.replate.test"
	donorAudience    = "https://donor.replate.test"
	eventsToken      = "events-secret"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// harness wires real services over one in-memory database. Each API gets its
// own engine since admin and business both serve /api/organizations/:orgId.
type harness struct {
	t      *testing.T
	conn   *gorm.DB
	cfg    config.Config
	issuer *identitytest.TestIssuer
	mgmt   *managementtest.Mock
	clock  *clock.FakeClock
	log    *zap.Logger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return &harness{
		t:    t,
		conn: migrationtest.Open(t),
		cfg: config.Config{
			Environment:        "test",
			CORSAllowedOrigins: []string{"*"},
			Auth0: config.Auth0Config{
				Issuer:           testIssuer,
				AdminAudience:    adminAudience,
				BusinessAudience: businessAudience,
				DonorAudience:    donorAudience,
				EventsAPIToken:   eventsToken,
			},
		},
		issuer: identitytest.NewTestIssuer(t, testIssuer),
		mgmt:   &managementtest.Mock{},
		clock:  clock.NewFakeClock(testNow),
		log:    zap.NewNop(),
	}
}

func (h *harness) engine() *gin.Engine {
	h.t.Helper()
	httpMetrics, err := obsmetrics.NewHTTPMetrics(prometheus.NewRegistry())
	require.NoError(h.t, err)
	return NewEngine(h.cfg, observability.Config{Environment: "test"}, httpMetrics)
}

func (h *harness) organizations() orgdomain.Service {
	return orgservice.NewService(orgrepository.NewRepository(h.conn), h.mgmt, h.log)
}

func (h *harness) adminEngine() *gin.Engine {
	r := h.engine()
	orgs := h.organizations()
	users := userservice.NewService(userrepository.NewRepository(h.conn), h.log)
	NewAdminServer(AdminParams{
		Engine:        r,
		Cfg:           h.cfg,
		Verifier:      h.issuer.Verifier(),
		Organizations: orgs,
		Invitations: invitationservice.NewService(invitationservice.Params{
			DB:       h.conn,
			Log:      h.log,
			Clock:    h.clock,
			Repo:     invitationrepository.NewRepository(h.conn),
			OrgRepo:  orgrepository.NewRepository(h.conn),
			UserRepo: userrepository.NewRepository(h.conn),
			Mgmt:     h.mgmt,
		}),
		Events: events.NewProcessor(users, orgs, nil, h.log),
	})
	return r
}

func (h *harness) businessEngine() *gin.Engine {
	r := h.engine()
	orgRepo := orgrepository.NewRepository(h.conn)
	NewBusinessServer(BusinessParams{
		Engine:        r,
		Cfg:           h.cfg,
		Verifier:      h.issuer.Verifier(),
		Organizations: h.organizations(),
		Jobs:          pickupjobservice.NewService(pickupjobrepository.NewRepository(h.conn), orgRepo, h.log),
		Schedules:     scheduleservice.NewService(schedulerepository.NewRepository(h.conn), orgRepo, h.clock, h.log),
	})
	return r
}

func (h *harness) donorEngine() *gin.Engine {
	r := h.engine()
	NewDonorServer(DonorParams{
		Engine:      r,
		Cfg:         h.cfg,
		Verifier:    h.issuer.Verifier(),
		Donations:   donationservice.NewService(donationrepository.NewRepository(h.conn), h.clock, h.log),
		Suggestions: suggestionservice.NewService(suggestionrepository.NewRepository(h.conn), h.log),
	})
	return r
}

func (h *harness) seedOrg(externalID, name, orgType string) {
	h.t.Helper()
	require.NoError(h.t, h.conn.Exec(`INSERT INTO organizations (auth0_org_id, name, org_type) VALUES (?, ?, ?)`,
		externalID, name, orgType).Error)
}

func (h *harness) count(table string) int64 {
	h.t.Helper()
	var n int64
	require.NoError(h.t, h.conn.Table(table).Count(&n).Error)
	return n
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	w := do(r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestCORSPreflightAllowsConfiguredOrigin(t *testing.T) {
	h := newHarness(t)
	r := h.engine()

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "https://app.replate.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfigRestrictsOrigins(t *testing.T) {
	cfg := corsConfig([]string{"https://admin.replate.test"})
	require.False(t, cfg.AllowAllOrigins)
	require.Equal(t, []string{"https://admin.replate.test"}, cfg.AllowOrigins)

	require.True(t, corsConfig(nil).AllowAllOrigins)
}
