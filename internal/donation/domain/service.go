package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/replate/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, userID string, page pagination.Page) ([]DonationResponse, error)
	CreatePaymentIntent(ctx context.Context, userID string, req PaymentIntentRequest) (*PaymentIntentResponse, error)
}

type DonationResponse struct {
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Testimonial *string   `json:"testimonial"`
}

type PaymentIntentRequest struct {
	Amount      *float64 `json:"amount"`
	Currency    string   `json:"currency"`
	Testimonial *string  `json:"testimonial"`
}

type PaymentIntentResponse struct {
	ID               int64  `json:"id"`
	PaymentReference string `json:"payment_reference"`
}

var (
	ErrMissingSubject  = errors.New("missing_subject")
	ErrInvalidAmount   = errors.New("amount must be >= 1")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
)
