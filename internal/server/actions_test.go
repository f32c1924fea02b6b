package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/replate/internal/actions"
	"github.com/smallbiznis/replate/internal/providers/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actionsToken = "actions-secret"

func (h *harness) actionsEngine(webhookURL string) *gin.Engine {
	h.t.Helper()
	h.cfg.Actions.APIToken = actionsToken
	h.cfg.Actions.SlackWebhookURL = webhookURL

	enforcer, err := actions.NewEnforcer()
	require.NoError(h.t, err)
	hooks := actions.NewHooks(actions.Params{
		Config:   h.cfg,
		Enforcer: enforcer,
		Slack:    slack.NewWebhookProvider(),
		Log:      h.log,
	})

	r := h.engine()
	NewActionsServer(r, h.cfg, hooks)
	return r
}

func decodeCommands(t *testing.T, w *httptest.ResponseRecorder) []actions.Command {
	t.Helper()
	var body commandsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Commands
}

func TestActionsRequireToken(t *testing.T) {
	h := newHarness(t)
	r := h.actionsEngine("")

	w := do(r, http.MethodPost, "/actions/post-login/claims", "", `{}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActionsPostLoginClaims(t *testing.T) {
	h := newHarness(t)
	r := h.actionsEngine("")

	w := do(r, http.MethodPost, "/actions/post-login/claims", actionsToken, `{
		"organization": {"id": "org_sup", "name": "corner-bakery"},
		"authorization": {"roles": ["Supplier Member", "Supplier Admin"]},
		"user": {"user_id": "auth0|owner"}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cmds := decodeCommands(t, w)
	require.Len(t, cmds, 2)
	for _, cmd := range cmds {
		assert.Equal(t, "https://replate.dev/org_role", cmd.Name)
		assert.Equal(t, actions.OrgRoleAdmin, cmd.Value)
	}
}

func TestActionsDonorClaimsAndEmptyHooks(t *testing.T) {
	h := newHarness(t)
	r := h.actionsEngine("")

	w := do(r, http.MethodPost, "/actions/post-login/donor-claims", actionsToken, `{"user":{"user_id":"auth0|donor"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	cmds := decodeCommands(t, w)
	require.Len(t, cmds, 1)
	assert.Equal(t, "https://replate.dev/donor", cmds[0].Name)

	w = do(r, http.MethodPost, "/actions/post-login/privacy-policy/continue", actionsToken, `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"commands":[]}`, w.Body.String())
}

func TestActionsMFAChallengesEnrolledUsers(t *testing.T) {
	h := newHarness(t)
	r := h.actionsEngine("")

	w := do(r, http.MethodPost, "/actions/post-login/mfa", actionsToken, `{
		"transaction": {"protocol": "oidc-basic-profile"},
		"user": {"user_id": "auth0|1", "multifactor": ["guardian"]}
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	cmds := decodeCommands(t, w)
	require.Len(t, cmds, 1)
	assert.Equal(t, actions.CommandEnableMultifactor, cmds[0].Type)
}

func TestActionsRejectMalformedEvent(t *testing.T) {
	h := newHarness(t)
	r := h.actionsEngine("")

	w := do(r, http.MethodPost, "/actions/post-login/mfa", actionsToken, `{"user":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActionsSMSToSlack(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := newHarness(t)
	r := h.actionsEngine(srv.URL)

	w := do(r, http.MethodPost, "/actions/custom-phone-provider/slack", actionsToken, `{
		"notification": {"message_type": "otp_verify", "as_text": "Your code is 123456", "recipient": "+15550100"}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Type otp_verify \nRecipient: +15550100 \nMessage: Your code is 123456", received["text"])
}

func TestActionsSMSToSlackUpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	h := newHarness(t)
	r := h.actionsEngine(srv.URL)

	w := do(r, http.MethodPost, "/actions/custom-phone-provider/slack", actionsToken, `{"notification":{"message_type":"otp_verify"}}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", decodeError(t, w).Error)
}
