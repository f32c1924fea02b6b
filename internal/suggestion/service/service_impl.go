package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/replate/internal/suggestion/domain"
	"go.uber.org/zap"
)

type service struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewService(repo domain.Repository, log *zap.Logger) domain.Service {
	return &service{
		repo: repo,
		log:  log.Named("suggestion.service"),
	}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateRequest) (*domain.CreateResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingSubject
	}
	kind := strings.TrimSpace(req.Type)
	if !domain.ValidType(kind) {
		return nil, domain.ErrInvalidType
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	suggestion := domain.Suggestion{
		SubmitterUserID: userID,
		Type:            kind,
		Name:            name,
	}
	if address := strings.TrimSpace(req.Address); address != "" {
		suggestion.Address = &address
	}
	if err := s.repo.Create(ctx, &suggestion); err != nil {
		return nil, err
	}
	return &domain.CreateResponse{ID: suggestion.ID}, nil
}
