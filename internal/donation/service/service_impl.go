package service

import (
	"context"
	"math"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/replate/internal/clock"
	"github.com/smallbiznis/replate/internal/donation/domain"
	"github.com/smallbiznis/replate/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	repo  domain.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewService(repo domain.Repository, clk clock.Clock, log *zap.Logger) domain.Service {
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &service{
		repo:  repo,
		clock: clk,
		log:   log.Named("donation.service"),
	}
}

func (s *service) List(ctx context.Context, userID string, page pagination.Page) ([]domain.DonationResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingSubject
	}
	rows, err := s.repo.ListByUser(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]domain.DonationResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.DonationResponse{
			ID:          row.ID,
			Amount:      row.Amount,
			Currency:    row.Currency,
			Status:      row.Status,
			CreatedAt:   row.CreatedAt.UTC(),
			Testimonial: row.Testimonial,
		})
	}
	return items, nil
}

// CreatePaymentIntent records a pending donation. No payment processor is
// called; the reference is a locally generated id for later reconciliation.
func (s *service) CreatePaymentIntent(ctx context.Context, userID string, req domain.PaymentIntentRequest) (*domain.PaymentIntentResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingSubject
	}
	if req.Amount == nil || math.IsNaN(*req.Amount) || math.IsInf(*req.Amount, 0) || *req.Amount < 1 {
		return nil, domain.ErrInvalidAmount
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	if !validCurrency(currency) {
		return nil, domain.ErrInvalidCurrency
	}

	now := s.clock.Now().UTC()
	ref := "pi_" + ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
	donation := domain.Donation{
		UserID:           userID,
		Amount:           *req.Amount,
		Currency:         currency,
		Status:           domain.StatusPending,
		Testimonial:      trimmed(req.Testimonial),
		PaymentReference: &ref,
		CreatedAt:        now,
	}
	if err := s.repo.Create(ctx, &donation); err != nil {
		return nil, err
	}

	s.log.Info("donation recorded",
		zap.Int64("donation_id", donation.ID),
		zap.String("currency", currency),
	)
	return &domain.PaymentIntentResponse{ID: donation.ID, PaymentReference: ref}, nil
}

func validCurrency(v string) bool {
	if len(v) != 3 {
		return false
	}
	for _, r := range v {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
