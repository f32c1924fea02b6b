// Package actions runs the identity provider's login and phone hooks.
package actions

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/observability/logger"
	"github.com/smallbiznis/replate/internal/observability/metrics"
	"github.com/smallbiznis/replate/internal/providers/slack"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	HookPostLoginClaims       = "post_login_claims"
	HookDonorClaims           = "donor_claims"
	HookMFAWhenEnrolled       = "mfa_when_enrolled"
	HookPrivacyPolicyForm     = "privacy_policy_form"
	HookPrivacyPolicyContinue = "privacy_policy_continue"
	HookSMSToSlack            = "sms_to_slack"

	SecretPrivacyPolicyFormID = "PRIVACY_POLICY_FORM_ID"
	SecretSlackWebhookURL     = "SLACK_WEBHOOK_URL"

	defaultNamespace = "https://replate.dev/"
)

var interactiveLogin = regexp.MustCompile(`^oidc-`)

type Params struct {
	fx.In

	Config   config.Config
	Enforcer *casbin.SyncedEnforcer
	Slack    slack.Provider
	Metrics  *metrics.Metrics `optional:"true"`
	Log      *zap.Logger
}

type Hooks struct {
	namespace     string
	privacyFormID string
	slackWebhook  string
	enforcer      *casbin.SyncedEnforcer
	slack         slack.Provider
	metrics       *metrics.Metrics
	log           *zap.Logger
}

func NewHooks(p Params) *Hooks {
	namespace := strings.TrimSpace(p.Config.Actions.ClaimsNamespace)
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &Hooks{
		namespace:     namespace,
		privacyFormID: strings.TrimSpace(p.Config.Actions.PrivacyPolicyFormID),
		slackWebhook:  strings.TrimSpace(p.Config.Actions.SlackWebhookURL),
		enforcer:      p.Enforcer,
		slack:         p.Slack,
		metrics:       p.Metrics,
		log:           p.Log.Named("actions"),
	}
}

func (h *Hooks) claim(name string) string {
	return h.namespace + name
}

// PostLoginClaims marks organization-less logins as donors and maps business
// roles to a single org_role claim.
func (h *Hooks) PostLoginClaims(ctx context.Context, event PostLoginEvent) ([]Command, error) {
	h.metrics.RecordHookExecution(ctx, HookPostLoginClaims)
	api := &API{}

	if event.Organization == nil {
		api.SetAccessTokenClaim(h.claim("donor"), true)
		api.SetIDTokenClaim(h.claim("donor"), true)
	}

	role, err := resolveOrgRole(h.enforcer, event.roles())
	if err != nil {
		return nil, fmt.Errorf("resolve org role: %w", err)
	}
	if role != "" {
		api.SetAccessTokenClaim(h.claim("org_role"), role)
		api.SetIDTokenClaim(h.claim("org_role"), role)
	}

	logger.WithContext(ctx, h.log).Debug("post-login claims",
		zap.Bool("organization", event.Organization != nil),
		zap.String("org_role", role),
	)
	return api.Commands(), nil
}

func (h *Hooks) DonorClaims(ctx context.Context, _ PostLoginEvent) []Command {
	h.metrics.RecordHookExecution(ctx, HookDonorClaims)
	api := &API{}
	api.SetAccessTokenClaim(h.claim("donor"), true)
	return api.Commands()
}

// MFAWhenEnrolled challenges interactive logins of users with an enrolled
// factor who have not completed MFA in this session.
func (h *Hooks) MFAWhenEnrolled(ctx context.Context, event PostLoginEvent) []Command {
	h.metrics.RecordHookExecution(ctx, HookMFAWhenEnrolled)
	api := &API{}

	if !interactiveLogin.MatchString(event.protocol()) {
		return api.Commands()
	}
	if len(event.User.Multifactor) > 0 && !event.hasAuthenticationMethod("mfa") {
		api.EnableMultifactor("any")
	}
	return api.Commands()
}

// PrivacyPolicyForm renders the consent form for donors flagged with
// app_metadata.consent_required. Business logins are skipped.
func (h *Hooks) PrivacyPolicyForm(ctx context.Context, event PostLoginEvent) []Command {
	h.metrics.RecordHookExecution(ctx, HookPrivacyPolicyForm)
	api := &API{}

	if event.Organization != nil {
		return api.Commands()
	}
	if required, _ := event.User.AppMetadata["consent_required"].(bool); !required {
		return api.Commands()
	}

	formID := secret(event.Secrets, SecretPrivacyPolicyFormID, h.privacyFormID)
	if formID == "" {
		logger.WithContext(ctx, h.log).Error("privacy policy form id not configured")
		return api.Commands()
	}
	api.RenderPrompt(formID)
	return api.Commands()
}

func (h *Hooks) PrivacyPolicyContinue(ctx context.Context, _ PostLoginEvent) []Command {
	h.metrics.RecordHookExecution(ctx, HookPrivacyPolicyContinue)
	return (&API{}).Commands()
}

// SMSToSlack relays a phone notification to the Slack webhook.
func (h *Hooks) SMSToSlack(ctx context.Context, event PhoneProviderEvent) error {
	h.metrics.RecordHookExecution(ctx, HookSMSToSlack)

	n := event.Notification
	text := fmt.Sprintf("Type %s \nRecipient: %s \nMessage: %s", n.MessageType, n.Recipient, n.AsText)

	webhookURL := secret(event.Secrets, SecretSlackWebhookURL, h.slackWebhook)
	if err := h.slack.PostMessage(ctx, webhookURL, text); err != nil {
		logger.WithContext(ctx, h.log).Error("slack relay failed",
			zap.String("message_type", n.MessageType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func secret(secrets map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(secrets[key]); v != "" {
		return v
	}
	return fallback
}
