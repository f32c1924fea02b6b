// Package events mirrors identity-provider lifecycle webhooks into the store.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/replate/internal/observability/metrics"
	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	userdomain "github.com/smallbiznis/replate/internal/user/domain"
	"go.uber.org/zap"
)

const (
	UserCreated         = "user.created"
	UserUpdated         = "user.updated"
	UserDeleted         = "user.deleted"
	OrganizationCreated = "organization.created"
	OrganizationUpdated = "organization.updated"
	OrganizationDeleted = "organization.deleted"
)

// ErrInvalidEvent reports an envelope whose object cannot be decoded.
var ErrInvalidEvent = errors.New("invalid_event")

// Envelope is the webhook body: {type, time, data: {object}}.
type Envelope struct {
	Type string `json:"type"`
	Time string `json:"time"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type Processor struct {
	users   userdomain.Service
	orgs    orgdomain.Service
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewProcessor(users userdomain.Service, orgs orgdomain.Service, m *metrics.Metrics, log *zap.Logger) *Processor {
	return &Processor{
		users:   users,
		orgs:    orgs,
		metrics: m,
		log:     log.Named("events"),
	}
}

// Handled reports whether eventType is mirrored. Other types are ignored.
func Handled(eventType string) bool {
	switch eventType {
	case UserCreated, UserUpdated, UserDeleted,
		OrganizationCreated, OrganizationUpdated, OrganizationDeleted:
		return true
	}
	return false
}

// Process applies one event. Replays are safe: every handler is an upsert or
// delete keyed by the external id, and the last applied event wins.
func (p *Processor) Process(ctx context.Context, env Envelope) error {
	eventType := strings.TrimSpace(env.Type)
	if !Handled(eventType) {
		p.log.Info("event type not handled, ignoring", zap.String("event_type", eventType))
		p.metrics.RecordIdPEvent(ctx, "unhandled", "ignored")
		return nil
	}

	err := p.dispatch(ctx, eventType, parseEventTime(env.Time), env.Data.Object)
	if err != nil {
		p.metrics.RecordIdPEvent(ctx, eventType, "error")
		p.log.Error("event processing failed",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}

	p.metrics.RecordIdPEvent(ctx, eventType, "ok")
	p.log.Debug("event committed", zap.String("event_type", eventType))
	return nil
}

func (p *Processor) dispatch(ctx context.Context, eventType string, at time.Time, object json.RawMessage) error {
	switch eventType {
	case UserCreated, UserUpdated:
		var user userdomain.UserEvent
		if err := decodeObject(object, &user); err != nil {
			return err
		}
		return p.users.UpsertFromEvent(ctx, user, at)
	case UserDeleted:
		var user userdomain.UserEvent
		if err := decodeObject(object, &user); err != nil {
			return err
		}
		return p.users.DeleteFromEvent(ctx, user.UserID)
	case OrganizationCreated, OrganizationUpdated:
		var org orgdomain.OrganizationEvent
		if err := decodeObject(object, &org); err != nil {
			return err
		}
		return p.orgs.UpsertFromEvent(ctx, org, at)
	case OrganizationDeleted:
		var org orgdomain.OrganizationEvent
		if err := decodeObject(object, &org); err != nil {
			return err
		}
		return p.orgs.DeleteFromEvent(ctx, org.ID)
	}
	return nil
}

func decodeObject(raw json.RawMessage, out any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("%w: missing data.object", ErrInvalidEvent)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return nil
}

// parseEventTime returns the zero time when the value is absent or unreadable.
func parseEventTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
