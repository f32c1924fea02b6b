package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/identity"
	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	pickupjobdomain "github.com/smallbiznis/replate/internal/pickupjob/domain"
	scheduledomain "github.com/smallbiznis/replate/internal/pickupschedule/domain"
	"go.uber.org/fx"
)

const (
	PermReadOrganization   = "read:organization"
	PermUpdateOrganization = "update:organization"

	PermReadPickups   = "read:pickups"
	PermCreatePickups = "create:pickups"
	// PermUpdatePickups is held by drivers only.
	PermUpdatePickups = "update:pickups"

	PermReadSchedules   = "read:schedules"
	PermUpdateSchedules = "update:schedules"
)

var BusinessModule = fx.Module("http.business",
	fx.Invoke(func(cfg config.Config) error {
		return requireAudience("business", cfg.Auth0.BusinessAudience)
	}),
	fx.Invoke(NewBusinessServer),
)

type BusinessParams struct {
	fx.In

	Engine        *gin.Engine
	Cfg           config.Config
	Verifier      *identity.Verifier
	Organizations orgdomain.Service
	Jobs          pickupjobdomain.Service
	Schedules     scheduledomain.Service
}

type BusinessServer struct {
	engine        *gin.Engine
	verifier      *identity.Verifier
	audience      string
	organizations orgdomain.Service
	jobs          pickupjobdomain.Service
	schedules     scheduledomain.Service
}

func NewBusinessServer(p BusinessParams) *BusinessServer {
	s := &BusinessServer{
		engine:        p.Engine,
		verifier:      p.Verifier,
		audience:      p.Cfg.Auth0.BusinessAudience,
		organizations: p.Organizations,
		jobs:          p.Jobs,
		schedules:     p.Schedules,
	}
	s.registerRoutes()
	return s
}

func (s *BusinessServer) registerRoutes() {
	api := s.engine.Group("/api", RequireToken(s.verifier, s.audience))

	api.GET("/organizations/:orgId", RequirePermissions(PermReadOrganization), s.GetOrganization)
	api.PATCH("/organizations/:orgId", RequirePermissions(PermUpdateOrganization), s.UpdateOrganization)

	api.GET("/jobs", RequirePermissions(PermReadPickups), s.ListJobs)
	api.POST("/jobs", RequirePermissions(PermCreatePickups), s.CreateJob)
	api.PATCH("/jobs/:id", RequirePermissions(PermUpdatePickups), s.UpdateJobStatus)

	api.GET("/schedules", RequirePermissions(PermReadSchedules), s.ListSchedules)
	api.POST("/schedules", RequirePermissions(PermUpdateSchedules), s.CreateSchedule)
	api.PATCH("/schedules/:scheduleId", RequirePermissions(PermUpdateSchedules), s.UpdateSchedule)

	api.GET("/delivery-schedules", RequirePermissions(PermReadSchedules), s.ListDeliverySchedules)
	api.PATCH("/delivery-schedules/:id", RequirePermissions(PermUpdateSchedules), s.UpdateDeliverySchedule)
}

func jobCaller(c *gin.Context) pickupjobdomain.Caller {
	claims := claimsFrom(c)
	return pickupjobdomain.Caller{
		Subject: claims.UserID(),
		OrgID:   claims.OrganizationID(),
		Driver:  claims.HasAll(PermUpdatePickups),
	}
}

// ownOrganization rejects callers acting on an organization other than their own.
func ownOrganization(c *gin.Context) (string, bool) {
	orgID := c.Param("orgId")
	callerOrgID := claimsFrom(c).OrganizationID()
	if callerOrgID == "" || callerOrgID != orgID {
		AbortWithError(c, ErrForbidden)
		return "", false
	}
	return callerOrgID, true
}

func (s *BusinessServer) GetOrganization(c *gin.Context) {
	callerOrgID, ok := ownOrganization(c)
	if !ok {
		return
	}

	resp, err := s.organizations.GetOwn(c.Request.Context(), callerOrgID, c.Param("orgId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *BusinessServer) UpdateOrganization(c *gin.Context) {
	callerOrgID, ok := ownOrganization(c)
	if !ok {
		return
	}

	var req orgdomain.ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.organizations.UpdateOwn(c.Request.Context(), callerOrgID, c.Param("orgId"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *BusinessServer) ListJobs(c *gin.Context) {
	resp, err := s.jobs.List(c.Request.Context(), jobCaller(c), pickupjobdomain.ListRequest{
		Status: strings.TrimSpace(c.Query("status")),
		Page:   pageFromQuery(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *BusinessServer) CreateJob(c *gin.Context) {
	var req pickupjobdomain.CreateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.jobs.Create(c.Request.Context(), jobCaller(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *BusinessServer) UpdateJobStatus(c *gin.Context) {
	id := parsePositiveID(c.Param("id"))
	if id == 0 {
		AbortWithError(c, pickupjobdomain.ErrInvalidID)
		return
	}

	var req pickupjobdomain.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.jobs.UpdateStatus(c.Request.Context(), jobCaller(c), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *BusinessServer) ListSchedules(c *gin.Context) {
	resp, err := s.schedules.List(c.Request.Context(), claimsFrom(c).OrganizationID(), pageFromQuery(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *BusinessServer) CreateSchedule(c *gin.Context) {
	var req scheduledomain.CreateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.schedules.Create(c.Request.Context(), claimsFrom(c).OrganizationID(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *BusinessServer) UpdateSchedule(c *gin.Context) {
	id := parsePositiveID(c.Param("scheduleId"))
	if id == 0 {
		AbortWithError(c, scheduledomain.ErrInvalidID)
		return
	}

	var req scheduledomain.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.schedules.Update(c.Request.Context(), claimsFrom(c).OrganizationID(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *BusinessServer) ListDeliverySchedules(c *gin.Context) {
	resp, err := s.schedules.ListDeliverySchedules(c.Request.Context(), claimsFrom(c).OrganizationID())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *BusinessServer) UpdateDeliverySchedule(c *gin.Context) {
	resp, err := s.schedules.UpdateDeliverySchedule(c.Request.Context(), claimsFrom(c).OrganizationID(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
