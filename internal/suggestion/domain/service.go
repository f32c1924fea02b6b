package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*CreateResponse, error)
}

type CreateRequest struct {
	Type    string `json:"type"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

type CreateResponse struct {
	ID int64 `json:"id"`
}

var (
	ErrMissingSubject = errors.New("missing_subject")
	ErrInvalidType    = errors.New("Invalid type")
	ErrNameRequired   = errors.New("name is required")
)
