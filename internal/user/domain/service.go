package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

type Service interface {
	UpsertFromEvent(ctx context.Context, evt UserEvent, eventTime time.Time) error
	DeleteFromEvent(ctx context.Context, externalID string) error
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
}

// UserEvent is the user object carried by provider webhooks.
type UserEvent struct {
	UserID        string          `json:"user_id"`
	Email         string          `json:"email"`
	EmailVerified bool            `json:"email_verified"`
	Blocked       bool            `json:"blocked"`
	FamilyName    string          `json:"family_name"`
	GivenName     string          `json:"given_name"`
	Name          string          `json:"name"`
	Nickname      string          `json:"nickname"`
	PhoneNumber   string          `json:"phone_number"`
	PhoneVerified bool            `json:"phone_verified"`
	Picture       string          `json:"picture"`
	UserMetadata  json.RawMessage `json:"user_metadata,omitempty"`
	AppMetadata   json.RawMessage `json:"app_metadata,omitempty"`
	Identities    json.RawMessage `json:"identities,omitempty"`
}

var (
	ErrNotFound  = errors.New("user_not_found")
	ErrInvalidID = errors.New("invalid_user_id")
)
