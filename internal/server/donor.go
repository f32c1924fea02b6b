package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/replate/internal/config"
	donationdomain "github.com/smallbiznis/replate/internal/donation/domain"
	"github.com/smallbiznis/replate/internal/identity"
	suggestiondomain "github.com/smallbiznis/replate/internal/suggestion/domain"
	"go.uber.org/fx"
)

var DonorModule = fx.Module("http.donor",
	fx.Invoke(func(cfg config.Config) error {
		return requireAudience("donor", cfg.Auth0.DonorAudience)
	}),
	fx.Invoke(NewDonorServer),
)

type DonorParams struct {
	fx.In

	Engine      *gin.Engine
	Cfg         config.Config
	Verifier    *identity.Verifier
	Donations   donationdomain.Service
	Suggestions suggestiondomain.Service
}

// DonorServer needs a valid token only; every query is scoped by its subject.
type DonorServer struct {
	engine      *gin.Engine
	verifier    *identity.Verifier
	audience    string
	donations   donationdomain.Service
	suggestions suggestiondomain.Service
}

func NewDonorServer(p DonorParams) *DonorServer {
	s := &DonorServer{
		engine:      p.Engine,
		verifier:    p.Verifier,
		audience:    p.Cfg.Auth0.DonorAudience,
		donations:   p.Donations,
		suggestions: p.Suggestions,
	}
	s.registerRoutes()
	return s
}

func (s *DonorServer) registerRoutes() {
	api := s.engine.Group("/api", RequireToken(s.verifier, s.audience))

	api.GET("/donations", s.ListDonations)
	api.POST("/donations/create-payment-intent", s.CreatePaymentIntent)
	api.POST("/suggestions", s.CreateSuggestion)
}

func (s *DonorServer) ListDonations(c *gin.Context) {
	resp, err := s.donations.List(c.Request.Context(), claimsFrom(c).UserID(), pageFromQuery(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *DonorServer) CreatePaymentIntent(c *gin.Context) {
	if claimsFrom(c).UserID() == "" {
		AbortWithError(c, donationdomain.ErrMissingSubject)
		return
	}

	var req donationdomain.PaymentIntentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.donations.CreatePaymentIntent(c.Request.Context(), claimsFrom(c).UserID(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *DonorServer) CreateSuggestion(c *gin.Context) {
	if claimsFrom(c).UserID() == "" {
		AbortWithError(c, suggestiondomain.ErrMissingSubject)
		return
	}

	var req suggestiondomain.CreateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.suggestions.Create(c.Request.Context(), claimsFrom(c).UserID(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
