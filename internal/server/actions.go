package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/replate/internal/actions"
	"github.com/smallbiznis/replate/internal/config"
	"go.uber.org/fx"
)

var ActionsModule = fx.Module("http.actions",
	fx.Invoke(NewActionsServer),
)

// ActionsServer exposes each lifecycle hook as an endpoint that takes the
// host's event and answers with the api commands the hook issued.
type ActionsServer struct {
	engine *gin.Engine
	token  string
	hooks  *actions.Hooks
}

func NewActionsServer(r *gin.Engine, cfg config.Config, hooks *actions.Hooks) *ActionsServer {
	s := &ActionsServer{engine: r, token: cfg.Actions.APIToken, hooks: hooks}
	s.registerRoutes()
	return s
}

func (s *ActionsServer) registerRoutes() {
	grp := s.engine.Group("/actions", RequireSharedToken(s.token))

	postLogin := grp.Group("/post-login")
	{
		postLogin.POST("/claims", s.PostLoginClaims)
		postLogin.POST("/donor-claims", s.postLogin(s.hooks.DonorClaims))
		postLogin.POST("/mfa", s.postLogin(s.hooks.MFAWhenEnrolled))
		postLogin.POST("/privacy-policy", s.postLogin(s.hooks.PrivacyPolicyForm))
		postLogin.POST("/privacy-policy/continue", s.postLogin(s.hooks.PrivacyPolicyContinue))
	}

	grp.POST("/custom-phone-provider/slack", s.SMSToSlack)
}

type commandsResponse struct {
	Commands []actions.Command `json:"commands"`
}

func (s *ActionsServer) postLogin(hook func(context.Context, actions.PostLoginEvent) []actions.Command) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event actions.PostLoginEvent
		if !bindJSON(c, &event) {
			return
		}
		c.JSON(http.StatusOK, commandsResponse{Commands: hook(c.Request.Context(), event)})
	}
}

func (s *ActionsServer) PostLoginClaims(c *gin.Context) {
	var event actions.PostLoginEvent
	if !bindJSON(c, &event) {
		return
	}

	cmds, err := s.hooks.PostLoginClaims(c.Request.Context(), event)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, commandsResponse{Commands: cmds})
}

func (s *ActionsServer) SMSToSlack(c *gin.Context) {
	var event actions.PhoneProviderEvent
	if !bindJSON(c, &event) {
		return
	}

	if err := s.hooks.SMSToSlack(c.Request.Context(), event); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, commandsResponse{Commands: []actions.Command{}})
}
