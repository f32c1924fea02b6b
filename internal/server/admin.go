package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/events"
	"github.com/smallbiznis/replate/internal/identity"
	invitationdomain "github.com/smallbiznis/replate/internal/invitation/domain"
	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	"go.uber.org/fx"
)

const (
	PermReadOrganizations   = "read:organizations"
	PermCreateOrganizations = "create:organizations"
	PermUpdateOrganizations = "update:organizations"

	PermReadSSOInvitations   = "read:sso_invitations"
	PermCreateSSOInvitations = "create:sso_invitations"
	PermDeleteSSOInvitations = "delete:sso_invitations"
)

var AdminModule = fx.Module("http.admin",
	fx.Invoke(func(cfg config.Config) error {
		return requireAudience("admin", cfg.Auth0.AdminAudience)
	}),
	fx.Invoke(NewAdminServer),
)

type AdminParams struct {
	fx.In

	Engine        *gin.Engine
	Cfg           config.Config
	Verifier      *identity.Verifier
	Organizations orgdomain.Service
	Invitations   invitationdomain.Service
	Events        *events.Processor
}

type AdminServer struct {
	engine        *gin.Engine
	verifier      *identity.Verifier
	audience      string
	eventsToken   string
	organizations orgdomain.Service
	invitations   invitationdomain.Service
	events        *events.Processor
}

func NewAdminServer(p AdminParams) *AdminServer {
	s := &AdminServer{
		engine:        p.Engine,
		verifier:      p.Verifier,
		audience:      p.Cfg.Auth0.AdminAudience,
		eventsToken:   p.Cfg.Auth0.EventsAPIToken,
		organizations: p.Organizations,
		invitations:   p.Invitations,
		events:        p.Events,
	}
	s.registerRoutes()
	return s
}

func (s *AdminServer) registerRoutes() {
	api := s.engine.Group("/api")

	api.POST("/events", RequireSharedToken(s.eventsToken), s.HandleEvent)

	orgs := api.Group("/organizations", RequireToken(s.verifier, s.audience))
	{
		orgs.GET("", RequirePermissions(PermReadOrganizations), s.ListOrganizations)
		orgs.POST("", RequirePermissions(PermCreateOrganizations), s.CreateOrganization)
		orgs.GET("/:orgId", RequirePermissions(PermReadOrganizations), s.GetOrganization)
		orgs.PATCH("/:orgId", RequirePermissions(PermUpdateOrganizations), s.UpdateOrganization)
		orgs.DELETE("/:orgId", RequirePermissions(PermUpdateOrganizations), s.DeleteOrganization)

		orgs.GET("/:orgId/sso-invitations", RequirePermissions(PermReadSSOInvitations), s.ListInvitations)
		orgs.POST("/:orgId/sso-invitations", RequirePermissions(PermCreateSSOInvitations), s.CreateInvitation)
		orgs.DELETE("/:orgId/sso-invitations/:invId", RequirePermissions(PermDeleteSSOInvitations), s.DeleteInvitation)
	}
}

func (s *AdminServer) ListOrganizations(c *gin.Context) {
	page := pageFromQuery(c)
	resp, err := s.organizations.List(c.Request.Context(), orgdomain.ListRequest{
		OrgType:   strings.TrimSpace(c.Query("org_type")),
		SSOStatus: strings.TrimSpace(c.Query("sso_status")),
		Query:     strings.TrimSpace(c.Query("q")),
		Limit:     page.Limit(),
		Offset:    page.Offset(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *AdminServer) GetOrganization(c *gin.Context) {
	resp, err := s.organizations.Get(c.Request.Context(), c.Param("orgId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *AdminServer) CreateOrganization(c *gin.Context) {
	var req orgdomain.CreateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.organizations.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *AdminServer) UpdateOrganization(c *gin.Context) {
	var req orgdomain.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.organizations.Update(c.Request.Context(), c.Param("orgId"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteOrganization succeeds whether or not the organization existed.
func (s *AdminServer) DeleteOrganization(c *gin.Context) {
	if err := s.organizations.Delete(c.Request.Context(), c.Param("orgId")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"archived": true})
}

func (s *AdminServer) ListInvitations(c *gin.Context) {
	resp, err := s.invitations.List(c.Request.Context(), c.Param("orgId"), invitationdomain.ListRequest{
		Status:  strings.TrimSpace(c.Query("status")),
		OrgType: strings.TrimSpace(c.Query("org_type")),
		Query:   strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *AdminServer) CreateInvitation(c *gin.Context) {
	var req invitationdomain.CreateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.invitations.Create(c.Request.Context(), c.Param("orgId"), claimsFrom(c).UserID(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *AdminServer) DeleteInvitation(c *gin.Context) {
	if err := s.invitations.Delete(c.Request.Context(), c.Param("orgId"), c.Param("invId")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"archived": true})
}

// HandleEvent mirrors one identity-provider webhook.
func (s *AdminServer) HandleEvent(c *gin.Context) {
	var env events.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "Invalid JSON payload"})
		return
	}
	c.Set("event_type", env.Type)

	if err := s.events.Process(c.Request.Context(), env); err != nil {
		if errors.Is(err, events.ErrInvalidEvent) {
			AbortWithError(c, err)
			return
		}
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
