package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/replate/internal/user/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type service struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewService(repo domain.Repository, log *zap.Logger) domain.Service {
	return &service{
		repo: repo,
		log:  log.Named("user.service"),
	}
}

// UpsertFromEvent mirrors the full profile. Replaying the same event is a no-op
// in effect; the most recently applied event wins.
func (s *service) UpsertFromEvent(ctx context.Context, evt domain.UserEvent, eventTime time.Time) error {
	externalID := strings.TrimSpace(evt.UserID)
	if externalID == "" {
		return domain.ErrInvalidID
	}

	user := domain.User{
		ExternalID:    externalID,
		OrgExternalID: orgFromAppMetadata(evt.AppMetadata),
		Email:         optionalString(evt.Email),
		EmailVerified: evt.EmailVerified,
		Name:          optionalString(evt.Name),
		Picture:       optionalString(evt.Picture),
		Blocked:       evt.Blocked,
		FamilyName:    optionalString(evt.FamilyName),
		GivenName:     optionalString(evt.GivenName),
		Nickname:      optionalString(evt.Nickname),
		PhoneNumber:   optionalString(evt.PhoneNumber),
		PhoneVerified: evt.PhoneVerified,
		UserMetadata:  optionalJSON(evt.UserMetadata),
		AppMetadata:   optionalJSON(evt.AppMetadata),
		Identities:    optionalJSON(evt.Identities),
	}
	if !eventTime.IsZero() {
		t := eventTime.UTC()
		user.LastEventProcessed = &t
	}

	return s.repo.Upsert(ctx, user)
}

func (s *service) DeleteFromEvent(ctx context.Context, externalID string) error {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteByExternalID(ctx, externalID)
}

func (s *service) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, domain.ErrInvalidID
	}
	user, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func orgFromAppMetadata(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil
	}
	v, ok := meta["org_id"]
	if !ok || v == nil {
		return nil
	}
	id := strings.TrimSpace(fmt.Sprint(v))
	if id == "" {
		return nil
	}
	return &id
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optionalJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}
